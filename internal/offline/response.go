package offline

import (
	"net/http"
	"strconv"
)

// Source tells where a served response came from.
type Source string

const (
	SourceNetwork     Source = "network"
	SourceCache       Source = "cache"
	SourceFallback    Source = "fallback"
	SourcePassthrough Source = "passthrough"
)

// Response is a captured HTTP response. Source is set on served responses
// and is never persisted.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
	Source Source
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Clone returns a deep copy of r.
func (r *Response) Clone() *Response {
	if r == nil {
		return nil
	}
	c := &Response{Status: r.Status, Header: r.Header.Clone(), Source: r.Source}
	if r.Body != nil {
		c.Body = append([]byte(nil), r.Body...)
	}
	if c.Header == nil {
		c.Header = http.Header{}
	}
	return c
}

func (r *Response) served(src Source) *Response {
	c := r.Clone()
	c.Source = src
	return c
}

// Write sends r to w. Content-Length is recomputed from the body.
func (r *Response) Write(w http.ResponseWriter) error {
	h := w.Header()
	for k, vv := range r.Header {
		h[k] = append([]string(nil), vv...)
	}
	h.Set("Content-Length", strconv.Itoa(len(r.Body)))
	w.WriteHeader(r.Status)
	_, err := w.Write(r.Body)
	return err
}

// Entry is one cached resource keyed by request URI (path and query).
type Entry struct {
	Key      string
	Response *Response
}

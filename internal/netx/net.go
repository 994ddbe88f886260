// Package netx holds the HTTP plumbing of the offline cache: fully read
// responses with a body limit, and header copying for the proxy front.
package netx

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// DefaultMaxBody caps the bytes read from one response.
const DefaultMaxBody int64 = 32 << 20

// ErrBodyTooLarge is returned when a response exceeds the body limit.
var ErrBodyTooLarge = errors.New("response body too large")

// Response is an HTTP response read completely into memory.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Do sends req with c and reads the whole body, at most maxBody bytes
// (DefaultMaxBody when maxBody <= 0). Any status is a successful round trip;
// only transport failures return an error.
func Do(c *http.Client, req *http.Request, maxBody int64) (*Response, error) {
	if c == nil {
		c = http.DefaultClient
	}
	if maxBody <= 0 {
		maxBody = DefaultMaxBody
	}

	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > maxBody {
		return nil, fmt.Errorf("%s: %w", req.URL, ErrBodyTooLarge)
	}

	header := resp.Header.Clone()
	StripHopByHop(header)
	return &Response{Status: resp.StatusCode, Header: header, Body: body}, nil
}

// hopByHop are the headers that apply to a single connection (RFC 9110 7.6.1).
var hopByHop = []string{
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Proxy-Connection",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// StripHopByHop removes connection-scoped headers from h, including those
// named in its Connection header.
func StripHopByHop(h http.Header) {
	for _, v := range h.Values("Connection") {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				h.Del(name)
			}
		}
	}
	for _, name := range hopByHop {
		h.Del(name)
	}
}

// CopyHeader adds every value of src to dst.
func CopyHeader(dst, src http.Header) {
	for k, vv := range src {
		for _, v := range vv {
			dst.Add(k, v)
		}
	}
}

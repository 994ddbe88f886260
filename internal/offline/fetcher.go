package offline

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/alcancesol/internal/netx"
)

// DefaultFetchTimeout bounds one network fetch.
const DefaultFetchTimeout = 15 * time.Second

// Fetcher performs network requests for the controller.
type Fetcher interface {
	Fetch(ctx context.Context, req *http.Request) (*Response, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, req *http.Request) (*Response, error)

func (f FetcherFunc) Fetch(ctx context.Context, req *http.Request) (*Response, error) {
	return f(ctx, req)
}

// HTTPFetcher fetches over HTTP with a per-request timeout.
type HTTPFetcher struct {
	Client  *http.Client
	Timeout time.Duration
	MaxBody int64
}

// NewHTTPFetcher returns an HTTPFetcher using c (http.DefaultClient when nil).
func NewHTTPFetcher(c *http.Client, timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &HTTPFetcher{Client: c, Timeout: timeout}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, req *http.Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, f.Timeout)
	defer cancel()

	resp, err := netx.Do(f.Client, req.WithContext(ctx), f.MaxBody)
	if err != nil {
		return nil, err
	}
	return &Response{Status: resp.Status, Header: resp.Header, Body: resp.Body}, nil
}

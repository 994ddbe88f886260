package offline

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

var errOffline = errors.New("network is down")

// testOrigin serves fixed bodies per path and can simulate a dead network.
type testOrigin struct {
	srv  *httptest.Server
	url  *url.URL
	down atomic.Bool

	mu     sync.Mutex
	bodies map[string]string
	status map[string]int
	hits   map[string]int
}

func newTestOrigin(t *testing.T) *testOrigin {
	t.Helper()
	o := &testOrigin{
		bodies: map[string]string{},
		status: map[string]int{},
		hits:   map[string]int{},
	}
	for _, p := range DefaultManifest {
		o.bodies[p] = "v1 " + p
	}
	o.srv = httptest.NewServer(http.HandlerFunc(o.serve))
	t.Cleanup(o.srv.Close)

	u, err := url.Parse(o.srv.URL)
	require.NoError(t, err)
	o.url = u
	return o
}

func (o *testOrigin) serve(w http.ResponseWriter, r *http.Request) {
	o.mu.Lock()
	key := r.URL.RequestURI()
	o.hits[key]++
	body, ok := o.bodies[key]
	status := o.status[key]
	o.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("X-Origin", "test")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func (o *testOrigin) set(path, body string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.bodies[path] = body
}

func (o *testOrigin) setStatus(path string, status int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.status[path] = status
}

func (o *testOrigin) hitCount(path string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.hits[path]
}

// fetcher talks to the origin unless the network is down.
func (o *testOrigin) fetcher() Fetcher {
	real := NewHTTPFetcher(o.srv.Client(), 0)
	return FetcherFunc(func(ctx context.Context, req *http.Request) (*Response, error) {
		if o.down.Load() {
			return nil, errOffline
		}
		return real.Fetch(ctx, req)
	})
}

func newTestRegistration(t *testing.T, o *testOrigin, storage CacheStorage, opts Options) *Registration {
	t.Helper()
	reg, err := NewRegistration(o.url, storage, o.fetcher(), opts)
	require.NoError(t, err)
	t.Cleanup(reg.Close)
	return reg
}

func navigate(t *testing.T, p string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, p, nil)
	req.Header.Set("Sec-Fetch-Mode", "navigate")
	req.Header.Set("Sec-Fetch-Dest", "document")
	return req
}

func subresource(t *testing.T, p, dest string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, p, nil)
	req.Header.Set("Sec-Fetch-Mode", "no-cors")
	req.Header.Set("Sec-Fetch-Dest", dest)
	return req
}

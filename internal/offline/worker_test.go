package offline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activeClient(t *testing.T, o *testOrigin, storage CacheStorage) (*Registration, *Client) {
	t.Helper()
	reg := newTestRegistration(t, o, storage, DefaultOptions())
	_, err := reg.Register(context.Background(), DefaultGeneration())
	require.NoError(t, err)
	return reg, reg.Connect()
}

func TestNavigation_NetworkFirstStoresResponse(t *testing.T) {
	ctx := context.Background()
	o := newTestOrigin(t)
	storage := NewMemoryStorage()
	_, c := activeClient(t, o, storage)

	o.set("/history", "fresh history")
	resp, err := c.Fetch(ctx, navigate(t, "/history"))
	require.NoError(t, err)
	assert.Equal(t, SourceNetwork, resp.Source)
	assert.Equal(t, "fresh history", string(resp.Body))
	assert.Equal(t, "test", resp.Header.Get("X-Origin"))

	cached, err := storage.Match(ctx, "alcance-sol-v1", "/history")
	require.NoError(t, err)
	assert.Equal(t, "fresh history", string(cached.Body))

	o.down.Store(true)
	resp, err = c.Fetch(ctx, navigate(t, "/history"))
	require.NoError(t, err)
	assert.Equal(t, SourceCache, resp.Source)
	assert.Equal(t, "fresh history", string(resp.Body))
}

// With the network failing and no entry for the page, a navigation still
// resolves to the cached root page.
func TestNavigation_FallsBackToCachedRoot(t *testing.T) {
	ctx := context.Background()
	o := newTestOrigin(t)
	_, c := activeClient(t, o, NewMemoryStorage())

	o.down.Store(true)
	resp, err := c.Fetch(ctx, navigate(t, "/report?draft=1"))
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, resp.Source)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "v1 /", string(resp.Body))
}

func TestNavigation_NoRootIsUnavailable(t *testing.T) {
	ctx := context.Background()
	o := newTestOrigin(t)
	storage := NewMemoryStorage()
	_, c := activeClient(t, o, storage)

	_, err := storage.Delete(ctx, "alcance-sol-v1")
	require.NoError(t, err)

	o.down.Store(true)
	_, err = c.Fetch(ctx, navigate(t, "/home"))
	assert.ErrorIs(t, err, ErrResourceUnavailable)
}

func TestNavigation_AcceptHeaderWithoutFetchMetadata(t *testing.T) {
	ctx := context.Background()
	o := newTestOrigin(t)
	_, c := activeClient(t, o, NewMemoryStorage())

	req := httptest.NewRequest(http.MethodGet, "/nowhere", nil)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	o.down.Store(true)
	resp, err := c.Fetch(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, resp.Source)
}

func TestNetworkErrorsNotCached(t *testing.T) {
	ctx := context.Background()
	o := newTestOrigin(t)
	storage := NewMemoryStorage()
	_, c := activeClient(t, o, storage)

	o.setStatus("/home", http.StatusBadGateway)
	o.set("/home", "upstream broke")
	resp, err := c.Fetch(ctx, navigate(t, "/home"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.Status)

	cached, err := storage.Match(ctx, "alcance-sol-v1", "/home")
	require.NoError(t, err)
	assert.Equal(t, "v1 /home", string(cached.Body))
}

func TestAsset_StaleWhileRevalidate(t *testing.T) {
	ctx := context.Background()
	o := newTestOrigin(t)
	storage := NewMemoryStorage()
	reg, c := activeClient(t, o, storage)

	o.set("/app.js", "console.log(1)")
	resp, err := c.Fetch(ctx, subresource(t, "/app.js", "script"))
	require.NoError(t, err)
	assert.Equal(t, SourceNetwork, resp.Source)
	assert.Equal(t, 1, o.hitCount("/app.js"))

	o.set("/app.js", "console.log(2)")
	resp, err = c.Fetch(ctx, subresource(t, "/app.js", "script"))
	require.NoError(t, err)
	assert.Equal(t, SourceCache, resp.Source)
	assert.Equal(t, "console.log(1)", string(resp.Body))

	reg.Wait()
	assert.Equal(t, 2, o.hitCount("/app.js"))
	cached, err := storage.Match(ctx, "alcance-sol-v1", "/app.js")
	require.NoError(t, err)
	assert.Equal(t, "console.log(2)", string(cached.Body))

	// Offline: the cached copy still answers, the refresh fails quietly.
	o.down.Store(true)
	resp, err = c.Fetch(ctx, subresource(t, "/app.js", "script"))
	require.NoError(t, err)
	assert.Equal(t, "console.log(2)", string(resp.Body))
	reg.Wait()
}

func TestAsset_MissOfflineIsUnavailable(t *testing.T) {
	o := newTestOrigin(t)
	_, c := activeClient(t, o, NewMemoryStorage())

	o.down.Store(true)
	_, err := c.Fetch(context.Background(), subresource(t, "/style.css", "style"))
	assert.ErrorIs(t, err, ErrResourceUnavailable)
}

func TestAsset_ManifestIconServedFromCache(t *testing.T) {
	o := newTestOrigin(t)
	reg, c := activeClient(t, o, NewMemoryStorage())

	// No Sec-Fetch-Dest: the extension classifies the request.
	req := httptest.NewRequest(http.MethodGet, "/icons/icon-192x192.png", nil)
	resp, err := c.Fetch(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, SourceCache, resp.Source)
	reg.Wait()
}

func TestDefault_NetworkFirstWithoutRootFallback(t *testing.T) {
	ctx := context.Background()
	o := newTestOrigin(t)
	_, c := activeClient(t, o, NewMemoryStorage())

	o.set("/data.json", `{"ok":true}`)
	req := httptest.NewRequest(http.MethodGet, "/data.json", nil)
	resp, err := c.Fetch(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, SourceNetwork, resp.Source)

	o.down.Store(true)
	resp, err = c.Fetch(ctx, httptest.NewRequest(http.MethodGet, "/data.json", nil))
	require.NoError(t, err)
	assert.Equal(t, SourceCache, resp.Source)

	_, err = c.Fetch(ctx, httptest.NewRequest(http.MethodGet, "/other.json", nil))
	assert.ErrorIs(t, err, ErrResourceUnavailable)
}

func TestPassthrough_NeverCached(t *testing.T) {
	ctx := context.Background()
	o := newTestOrigin(t)
	storage := NewMemoryStorage()
	_, c := activeClient(t, o, storage)

	o.set("/api/antennas", "[]")
	resp, err := c.Fetch(ctx, navigate(t, "/api/antennas"))
	require.NoError(t, err)
	assert.Equal(t, SourcePassthrough, resp.Source)

	_, err = storage.Match(ctx, "alcance-sol-v1", "/api/antennas")
	assert.ErrorIs(t, err, ErrNotCached)

	post := httptest.NewRequest(http.MethodPost, "/home", strings.NewReader("x=1"))
	resp, err = c.Fetch(ctx, post)
	require.NoError(t, err)
	assert.Equal(t, SourcePassthrough, resp.Source)

	o.down.Store(true)
	_, err = c.Fetch(ctx, navigate(t, "/api/antennas"))
	assert.ErrorIs(t, err, ErrNetwork)
	assert.NotErrorIs(t, err, ErrResourceUnavailable)
}

func TestRedundantWorkerDoesNotWrite(t *testing.T) {
	ctx := context.Background()
	o := newTestOrigin(t)
	storage := NewMemoryStorage()
	reg := newTestRegistration(t, o, storage, DefaultOptions())

	v1, err := reg.Register(ctx, DefaultGeneration())
	require.NoError(t, err)
	_, err = reg.Register(ctx, DefaultGeneration().WithVersion("v2"))
	require.NoError(t, err)

	// An in-flight request of the replaced worker still succeeds.
	o.set("/late", "late page")
	resp, err := v1.Fetch(ctx, navigate(t, "/late"))
	require.NoError(t, err)
	assert.Equal(t, "late page", string(resp.Body))

	buckets, err := storage.Buckets(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alcance-sol-v2"}, buckets)
	_, err = storage.Match(ctx, "alcance-sol-v2", "/late")
	assert.ErrorIs(t, err, ErrNotCached)
}

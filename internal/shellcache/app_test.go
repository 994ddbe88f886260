package shellcache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/alcancesol/internal/offline"
	"github.com/dmitrijs2005/alcancesol/internal/offline/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrigin(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("shell " + r.URL.Path))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(t *testing.T, origin string) *config.Config {
	t.Helper()
	var c config.Config
	c.LoadDefaults()
	c.ListenAddr = "127.0.0.1:0"
	c.OriginURL = origin
	c.CacheDBPath = filepath.Join(t.TempDir(), "cache.sqlite")
	c.FetchTimeout = time.Second
	return &c
}

func runFor(t *testing.T, app *App) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	require.Eventually(t, func() bool {
		return app.reg.Active() != nil
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("app did not stop")
	}
}

func TestApp_InstallsThenResumesOffline(t *testing.T) {
	ctx := context.Background()
	origin := newOrigin(t)
	cfg := testConfig(t, origin.URL)

	app, err := NewApp(ctx, cfg, nil)
	require.NoError(t, err)
	runFor(t, app)

	origin.Close()

	app, err = NewApp(ctx, cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.storage.Close() })

	app.install(ctx)
	w := app.reg.Active()
	require.NotNil(t, w)
	assert.Equal(t, "alcance-sol-v1", w.CacheName())

	req := httptest.NewRequest(http.MethodGet, "/history", nil)
	req.Header.Set("Sec-Fetch-Mode", "navigate")
	rec := httptest.NewRecorder()
	app.server.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "shell /history", rec.Body.String())
	assert.Equal(t, string(offline.SourceCache), rec.Header().Get("X-Offline-Cache"))
}

func TestNewApp_RejectsRelativeOrigin(t *testing.T) {
	cfg := testConfig(t, "/not-absolute")
	_, err := NewApp(context.Background(), cfg, nil)
	assert.Error(t, err)
}

func TestNewApp_RejectsEmptyVersion(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")
	cfg.CacheVersion = ""
	_, err := NewApp(context.Background(), cfg, nil)
	assert.Error(t, err)
}

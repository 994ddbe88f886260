package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/dmitrijs2005/alcancesol/internal/client/models"
	"github.com/dmitrijs2005/alcancesol/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE name = ?`, name).Scan(&n)
	require.NoError(t, err)
	return n > 0
}

func TestOpen_CreatesCollectionsAndIndex(t *testing.T) {
	ctx := context.Background()
	h := New(filepath.Join(t.TempDir(), "nested", "app.db"), nil)
	t.Cleanup(func() { _ = h.Close() })

	db, err := h.Open(ctx)
	require.NoError(t, err)

	assert.True(t, tableExists(t, db, "reports"))
	assert.True(t, tableExists(t, db, "sessions"))
	assert.True(t, tableExists(t, db, "reports_by_timestamp"))
	assert.True(t, tableExists(t, db, "goose_db_version"))
}

func TestOpen_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	h := New(MemoryDSN, nil)
	t.Cleanup(func() { _ = h.Close() })

	first, err := h.Open(ctx)
	require.NoError(t, err)
	second, err := h.Open(ctx)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, h.Opens())
}

func TestOpen_ConcurrentCallersShareOneOpen(t *testing.T) {
	ctx := context.Background()
	h := New(filepath.Join(t.TempDir(), "app.db"), nil)
	t.Cleanup(func() { _ = h.Close() })

	const callers = 16
	results := make([]*sql.DB, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			results[i], errs[i] = h.Open(ctx)
		}(i)
	}
	close(start)
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Same(t, results[0], results[i])
	}
	assert.Equal(t, 1, h.Opens())
}

func TestRunMigrations_RerunIsNoop(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "app.db")

	h := New(dsn, nil)
	db, err := h.Open(ctx)
	require.NoError(t, err)

	version, err := RunMigrations(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, version)
	require.NoError(t, h.Close())

	// reopening an existing file keeps its data and version
	h2 := New(dsn, nil)
	t.Cleanup(func() { _ = h2.Close() })
	_, err = h2.Open(ctx)
	require.NoError(t, err)
}

func TestOpen_UnavailableStorage(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	blocker := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	h := New(filepath.Join(blocker, "app.db"), nil)

	_, err := h.Open(ctx)
	require.ErrorIs(t, err, common.ErrStorageUnavailable)

	// failures are not cached: the second call tries again
	_, err = h.Open(ctx)
	require.ErrorIs(t, err, common.ErrStorageUnavailable)
	assert.Equal(t, 2, h.Opens())
}

func TestInitRepositories_FallsBackWhenUnavailable(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	repos, err := InitRepositories(ctx, New(filepath.Join(blocker, "app.db"), nil))
	require.ErrorIs(t, err, common.ErrStorageUnavailable)
	require.NotNil(t, repos)
	assert.False(t, repos.Available)

	list, err := repos.Reports.ListByTimestamp(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	err = repos.Reports.Put(ctx, &models.Report{ID: "x"})
	require.ErrorIs(t, err, common.ErrStorageUnavailable)
}

func TestInitRepositories_SQLite(t *testing.T) {
	ctx := context.Background()
	h := New(MemoryDSN, nil)
	t.Cleanup(func() { _ = h.Close() })

	repos, err := InitRepositories(ctx, h)
	require.NoError(t, err)
	assert.True(t, repos.Available)

	require.NoError(t, repos.Reports.Put(ctx, &models.Report{ID: "a", Timestamp: 1, Status: models.StatusQueued}))
	got, err := repos.Reports.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Timestamp)
}

func TestClose_Unopened(t *testing.T) {
	assert.NoError(t, New(MemoryDSN, nil).Close())
}

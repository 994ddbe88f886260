// Package store owns the on-device database of the client.
//
// # Overview
//
// The database ("alcance-sol-db", schema version 1) holds two collections:
// reports, keyed by id with a secondary index on timestamp, and sessions,
// keyed by a fixed identity string. It is a single SQLite file driven by the
// pure-Go modernc.org/sqlite driver, and its schema is applied with embedded
// goose migrations (see store/migrations).
//
// # Handle
//
// A Handle is built once at process start and passed to the repositories.
// Open is idempotent and safe for concurrent use: exactly one physical
// open + migration sequence runs, concurrent callers wait for it and receive
// the same *sql.DB. A failed open is not remembered, so the next call retries.
//
// # Errors
//
// Every failure to bring the engine up is reported as common.ErrStorageUnavailable
// (wrapping the cause). Callers then fall back to the Unavailable
// repositories, which read as empty and refuse writes.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/dmitrijs2005/alcancesol/internal/client/store/migrations"
	"github.com/dmitrijs2005/alcancesol/internal/common"
	"github.com/dmitrijs2005/alcancesol/internal/filex"
	"github.com/dmitrijs2005/alcancesol/internal/logging"
	"github.com/pressly/goose/v3"
	"golang.org/x/sync/singleflight"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// ErrStorageUnavailable is common.ErrStorageUnavailable, re-exported for
// callers that only import the store.
var ErrStorageUnavailable = common.ErrStorageUnavailable

const (
	// Name identifies the database in logs and error messages.
	Name = "alcance-sol-db"
	// SchemaVersion is the goose version the client expects after migrating.
	SchemaVersion int64 = 1

	// MemoryDSN opens a private in-memory database.
	MemoryDSN = ":memory:"
)

// Handle is the process-wide entry point to the database.
type Handle struct {
	dsn    string
	logger logging.Logger

	group singleflight.Group
	db    atomic.Pointer[sql.DB]
	opens atomic.Int32
}

// New returns a Handle for the SQLite database at path. Nothing is opened
// until Open is called.
func New(path string, logger logging.Logger) *Handle {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Handle{dsn: path, logger: logger.With("db", Name)}
}

// Open returns the ready database, opening and migrating it on first use.
func (h *Handle) Open(ctx context.Context) (*sql.DB, error) {
	if db := h.db.Load(); db != nil {
		return db, nil
	}

	v, err, _ := h.group.Do(Name, func() (any, error) {
		if db := h.db.Load(); db != nil {
			return db, nil
		}
		db, err := h.open(ctx)
		if err != nil {
			return nil, err
		}
		h.db.Store(db)
		return db, nil
	})
	if err != nil {
		h.logger.Error(ctx, "could not open database", "error", err)
		return nil, fmt.Errorf("%w: %w", common.ErrStorageUnavailable, err)
	}
	return v.(*sql.DB), nil
}

// Opens reports how many physical open sequences have been started.
func (h *Handle) Opens() int {
	return int(h.opens.Load())
}

// Close closes the database if it was opened.
func (h *Handle) Close() error {
	db := h.db.Swap(nil)
	if db == nil {
		return nil
	}
	return db.Close()
}

func (h *Handle) open(ctx context.Context) (*sql.DB, error) {
	h.opens.Add(1)

	dsn, err := prepareDSN(h.dsn)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	// One connection: the engine serializes every read and write, and an
	// in-memory database stays the same database for all callers.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	version, err := RunMigrations(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if version < SchemaVersion {
		_ = db.Close()
		return nil, fmt.Errorf("schema version %d is older than %d", version, SchemaVersion)
	}

	h.logger.Info(ctx, "database ready", "version", version)
	return db, nil
}

// RunMigrations applies every pending migration and returns the resulting
// schema version. Re-running it on an up-to-date database is a no-op.
func RunMigrations(ctx context.Context, db *sql.DB) (int64, error) {
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, migrations.FS)
	if err != nil {
		return 0, fmt.Errorf("goose provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return 0, fmt.Errorf("migrate: %w", err)
	}
	version, err := provider.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("schema version: %w", err)
	}
	return version, nil
}

func prepareDSN(path string) (string, error) {
	if path == "" || path == MemoryDSN {
		return MemoryDSN, nil
	}
	if strings.HasPrefix(path, "file:") {
		return path, nil
	}
	if err := filex.EnsureParentDir(path); err != nil {
		return "", err
	}
	return path + "?_pragma=busy_timeout(5000)", nil
}

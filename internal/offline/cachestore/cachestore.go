// Package cachestore keeps the offline cache buckets in a SQLite file, so a
// restarted controller still serves the shell it installed before.
package cachestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/alcancesol/internal/dbx"
	"github.com/dmitrijs2005/alcancesol/internal/filex"
	"github.com/dmitrijs2005/alcancesol/internal/logging"
	"github.com/dmitrijs2005/alcancesol/internal/offline"
	"github.com/dmitrijs2005/alcancesol/internal/offline/cachestore/migrations"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// SQLiteStorage is an offline.CacheStorage backed by SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	logger logging.Logger
	now    func() time.Time
}

var _ offline.CacheStorage = (*SQLiteStorage)(nil)

// New opens (creating when needed) and migrates the cache database at path.
func New(ctx context.Context, path string, logger logging.Logger) (*SQLiteStorage, error) {
	if logger == nil {
		logger = logging.Nop()
	}

	dsn := MemoryPath
	if path != "" && path != MemoryPath {
		if err := filex.EnsureParentDir(path); err != nil {
			return nil, err
		}
		dsn = path + "?_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping cache db: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, db, migrations.FS)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("goose provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate cache db: %w", err)
	}

	logger.Info(ctx, "cache storage ready", "path", path)
	return &SQLiteStorage{db: db, logger: logger, now: time.Now}, nil
}

// Close closes the database.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func (s *SQLiteStorage) Open(ctx context.Context, bucket string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO buckets (name, created_at) VALUES (?, ?) ON CONFLICT (name) DO NOTHING`,
		bucket, s.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("open bucket %s: %w", bucket, err)
	}
	return nil
}

func (s *SQLiteStorage) Buckets(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM buckets ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list buckets: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *SQLiteStorage) Delete(ctx context.Context, bucket string) (bool, error) {
	existed := false
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		id, err := bucketID(ctx, tx, bucket)
		if errors.Is(err, offline.ErrBucketNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM entries WHERE bucket_id = ?`, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM buckets WHERE id = ?`, id); err != nil {
			return err
		}
		existed = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("delete bucket %s: %w", bucket, err)
	}
	return existed, nil
}

func (s *SQLiteStorage) Put(ctx context.Context, bucket string, entries ...offline.Entry) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		id, err := bucketID(ctx, tx, bucket)
		if err != nil {
			return err
		}
		for _, e := range entries {
			header, err := json.Marshal(e.Response.Header)
			if err != nil {
				return fmt.Errorf("encode header of %s: %w", e.Key, err)
			}
			body := e.Response.Body
			if body == nil {
				body = []byte{}
			}
			_, err = tx.ExecContext(ctx, `
				INSERT INTO entries (bucket_id, key, status, header, body) VALUES (?, ?, ?, ?, ?)
				ON CONFLICT (bucket_id, key) DO UPDATE SET
					status = excluded.status,
					header = excluded.header,
					body   = excluded.body`,
				id, e.Key, e.Response.Status, string(header), body)
			if err != nil {
				return fmt.Errorf("store %s: %w", e.Key, err)
			}
		}
		return nil
	})
}

func (s *SQLiteStorage) Match(ctx context.Context, bucket, key string) (*offline.Response, error) {
	var (
		status int
		header string
		body   []byte
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT e.status, e.header, e.body
		FROM entries e JOIN buckets b ON b.id = e.bucket_id
		WHERE b.name = ? AND e.key = ?`, bucket, key).Scan(&status, &header, &body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, offline.ErrNotCached
	}
	if err != nil {
		return nil, fmt.Errorf("match %s: %w", key, err)
	}

	r := &offline.Response{Status: status, Header: http.Header{}, Body: body}
	if err := json.Unmarshal([]byte(header), &r.Header); err != nil {
		s.logger.Warn(ctx, "ignoring unreadable cached header", "bucket", bucket, "key", key, "error", err)
		r.Header = nil
	}
	if r.Header == nil {
		r.Header = http.Header{}
	}
	return r, nil
}

func bucketID(ctx context.Context, tx dbx.DBTX, bucket string) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx, `SELECT id FROM buckets WHERE name = ?`, bucket).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, offline.ErrBucketNotFound
	}
	return id, err
}

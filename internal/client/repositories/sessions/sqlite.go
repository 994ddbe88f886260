package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/alcancesol/internal/client/models"
	"github.com/dmitrijs2005/alcancesol/internal/common"
	"github.com/dmitrijs2005/alcancesol/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Put(ctx context.Context, key string, s *models.Session) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (key, email, logged_in, timestamp) VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			email = excluded.email,
			logged_in = excluded.logged_in,
			timestamp = excluded.timestamp
	`, key, s.Identity, s.LoggedIn, s.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to set session[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, key string) (*models.Session, error) {
	var s models.Session
	err := r.db.QueryRowContext(ctx, `SELECT email, logged_in, timestamp FROM sessions WHERE key = ?`, key).
		Scan(&s.Identity, &s.LoggedIn, &s.Timestamp)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session[%s]: %w", key, common.ErrorNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session[%s]: %w", key, err)
	}
	return &s, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete session[%s]: %w", key, err)
	}
	return nil
}

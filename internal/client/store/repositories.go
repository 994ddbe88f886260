package store

import (
	"context"

	"github.com/dmitrijs2005/alcancesol/internal/client/repositories/reports"
	"github.com/dmitrijs2005/alcancesol/internal/client/repositories/sessions"
)

// Repositories bundles the collection repositories of one database.
type Repositories struct {
	Reports  reports.Repository
	Sessions sessions.Repository

	// Available is false when the database could not be opened and the
	// repositories are the read-empty, write-failing fallbacks.
	Available bool
}

// InitRepositories opens h and wires the SQLite repositories. When the
// database is unavailable it still returns usable fallbacks together with
// the open error, so callers can degrade instead of exiting.
func InitRepositories(ctx context.Context, h *Handle) (*Repositories, error) {
	db, err := h.Open(ctx)
	if err != nil {
		return &Repositories{
			Reports:  reports.NewUnavailable(err),
			Sessions: sessions.NewUnavailable(err),
		}, err
	}
	return &Repositories{
		Reports:   reports.NewSQLiteRepository(db),
		Sessions:  sessions.NewSQLiteRepository(db),
		Available: true,
	}, nil
}

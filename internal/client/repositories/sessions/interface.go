// Package sessions persists session records keyed by an identity string.
// The client stores at most one record, under a fixed well-known key chosen
// by the session service; the repository itself does not enforce that.
package sessions

import (
	"context"

	"github.com/dmitrijs2005/alcancesol/internal/client/models"
)

type Repository interface {
	// Put stores s under key, replacing any previous record.
	Put(ctx context.Context, key string, s *models.Session) error
	// Get returns the record under key or common.ErrorNotFound.
	Get(ctx context.Context, key string) (*models.Session, error)
	// Delete removes the record; an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

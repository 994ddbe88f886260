package reports

import (
	"context"

	"github.com/dmitrijs2005/alcancesol/internal/client/models"
)

// Repository describes keyed CRUD and the ordered index scan over reports.
type Repository interface {
	// Put inserts r or overwrites the stored report with the same ID.
	Put(ctx context.Context, r *models.Report) error

	// Get returns the report with the given id or common.ErrorNotFound.
	Get(ctx context.Context, id string) (*models.Report, error)

	// ListByTimestamp returns all reports, oldest first.
	ListByTimestamp(ctx context.Context) ([]*models.Report, error)

	// Delete removes the report; deleting an absent id succeeds.
	Delete(ctx context.Context, id string) error
}

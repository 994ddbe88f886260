package reports

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/alcancesol/internal/client/models"
	"github.com/dmitrijs2005/alcancesol/internal/common"
)

// Unavailable is the Repository used when the database cannot be opened:
// reads behave as an empty collection, writes fail.
type Unavailable struct {
	cause error
}

// NewUnavailable returns an Unavailable repository remembering cause.
func NewUnavailable(cause error) *Unavailable {
	return &Unavailable{cause: cause}
}

func (u *Unavailable) err() error {
	switch {
	case u.cause == nil:
		return common.ErrStorageUnavailable
	case errors.Is(u.cause, common.ErrStorageUnavailable):
		return u.cause
	default:
		return fmt.Errorf("%w: %v", common.ErrStorageUnavailable, u.cause)
	}
}

func (u *Unavailable) Put(ctx context.Context, r *models.Report) error {
	return u.err()
}

func (u *Unavailable) Get(ctx context.Context, id string) (*models.Report, error) {
	return nil, fmt.Errorf("report %s: %w", id, common.ErrorNotFound)
}

func (u *Unavailable) ListByTimestamp(ctx context.Context) ([]*models.Report, error) {
	return []*models.Report{}, nil
}

func (u *Unavailable) Delete(ctx context.Context, id string) error {
	return u.err()
}

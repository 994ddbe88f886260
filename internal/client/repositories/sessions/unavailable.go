package sessions

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/alcancesol/internal/client/models"
	"github.com/dmitrijs2005/alcancesol/internal/common"
)

// Unavailable reads as "no session" and refuses writes.
type Unavailable struct {
	cause error
}

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

func (u *Unavailable) Put(ctx context.Context, key string, s *models.Session) error {
	return u.err()
}

func (u *Unavailable) Get(ctx context.Context, key string) (*models.Session, error) {
	return nil, fmt.Errorf("session[%s]: %w", key, common.ErrorNotFound)
}

func (u *Unavailable) Delete(ctx context.Context, key string) error {
	return u.err()
}

package services

import (
	"context"
	"sort"
	"sync"

	"github.com/dmitrijs2005/alcancesol/internal/client/models"
	"github.com/dmitrijs2005/alcancesol/internal/common"
)

type fakeReportRepo struct {
	mu   sync.Mutex
	rows map[string]models.Report

	PutErr  error
	GetErr  error
	ListErr error
	DelErr  error

	puts int
}

func newFakeReportRepo() *fakeReportRepo {
	return &fakeReportRepo{rows: map[string]models.Report{}}
}

func (f *fakeReportRepo) Put(ctx context.Context, r *models.Report) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.puts++
	if f.PutErr != nil {
		return f.PutErr
	}
	f.rows[r.ID] = *r
	return nil
}

func (f *fakeReportRepo) Get(ctx context.Context, id string) (*models.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	r, ok := f.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &r, nil
}

func (f *fakeReportRepo) ListByTimestamp(ctx context.Context) ([]*models.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	out := make([]*models.Report, 0, len(f.rows))
	for _, r := range f.rows {
		r := r
		out = append(out, &r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Timestamp != out[j].Timestamp {
			return out[i].Timestamp < out[j].Timestamp
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (f *fakeReportRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.DelErr != nil {
		return f.DelErr
	}
	delete(f.rows, id)
	return nil
}

type fakeSessionRepo struct {
	mu   sync.Mutex
	rows map[string]models.Session

	PutErr error
	GetErr error
	DelErr error
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{rows: map[string]models.Session{}}
}

func (f *fakeSessionRepo) Put(ctx context.Context, key string, s *models.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PutErr != nil {
		return f.PutErr
	}
	f.rows[key] = *s
	return nil
}

func (f *fakeSessionRepo) Get(ctx context.Context, key string) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	s, ok := f.rows[key]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &s, nil
}

func (f *fakeSessionRepo) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.DelErr != nil {
		return f.DelErr
	}
	delete(f.rows, key)
	return nil
}

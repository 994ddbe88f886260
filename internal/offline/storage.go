package offline

import (
	"context"
	"slices"
	"sync"
)

// CacheStorage holds named buckets of cached responses. Implementations must
// be safe for concurrent use.
type CacheStorage interface {
	// Open creates bucket if it does not exist. Reopening an existing bucket
	// keeps its entries and its place in the creation order.
	Open(ctx context.Context, bucket string) error

	// Buckets returns every bucket name in creation order.
	Buckets(ctx context.Context) ([]string, error)

	// Delete removes bucket with all its entries and reports whether it
	// existed.
	Delete(ctx context.Context, bucket string) (bool, error)

	// Put stores entries in bucket as one atomic write, replacing entries
	// with the same key. An absent bucket yields ErrBucketNotFound.
	Put(ctx context.Context, bucket string, entries ...Entry) error

	// Match returns the entry stored under key or ErrNotCached.
	Match(ctx context.Context, bucket, key string) (*Response, error)
}

// MemoryStorage is a CacheStorage kept in process memory.
type MemoryStorage struct {
	mu      sync.RWMutex
	order   []string
	buckets map[string]map[string]*Response
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{buckets: make(map[string]map[string]*Response)}
}

func (m *MemoryStorage) Open(_ context.Context, bucket string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.buckets[bucket]; !ok {
		m.buckets[bucket] = make(map[string]*Response)
		m.order = append(m.order, bucket)
	}
	return nil
}

func (m *MemoryStorage) Buckets(context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.order), nil
}

func (m *MemoryStorage) Delete(_ context.Context, bucket string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.buckets[bucket]; !ok {
		return false, nil
	}
	delete(m.buckets, bucket)
	m.order = slices.DeleteFunc(m.order, func(n string) bool { return n == bucket })
	return true, nil
}

func (m *MemoryStorage) Put(_ context.Context, bucket string, entries ...Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.buckets[bucket]
	if !ok {
		return ErrBucketNotFound
	}
	for _, e := range entries {
		stored := e.Response.Clone()
		stored.Source = ""
		b[e.Key] = stored
	}
	return nil
}

func (m *MemoryStorage) Match(_ context.Context, bucket, key string) (*Response, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.buckets[bucket][key]
	if !ok {
		return nil, ErrNotCached
	}
	return r.Clone(), nil
}

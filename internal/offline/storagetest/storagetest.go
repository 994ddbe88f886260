// Package storagetest checks offline.CacheStorage implementations against
// the behaviour the controller relies on.
package storagetest

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/dmitrijs2005/alcancesol/internal/offline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func response(status int, body string) *offline.Response {
	h := http.Header{}
	h.Set("Content-Type", "text/plain")
	h.Add("Vary", "Accept")
	h.Add("Vary", "Accept-Encoding")
	return &offline.Response{Status: status, Header: h, Body: []byte(body)}
}

// Run exercises a fresh storage from newStorage per subtest.
func Run(t *testing.T, newStorage func(t *testing.T) offline.CacheStorage) {
	ctx := context.Background()

	t.Run("open is idempotent and ordered", func(t *testing.T) {
		s := newStorage(t)
		require.NoError(t, s.Open(ctx, "b"))
		require.NoError(t, s.Open(ctx, "a"))
		require.NoError(t, s.Open(ctx, "b"))

		names, err := s.Buckets(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"b", "a"}, names)
	})

	t.Run("put and match", func(t *testing.T) {
		s := newStorage(t)
		require.NoError(t, s.Open(ctx, "v1"))
		require.NoError(t, s.Put(ctx, "v1",
			offline.Entry{Key: "/", Response: response(200, "root")},
			offline.Entry{Key: "/home?x=1", Response: response(200, "home")},
		))

		got, err := s.Match(ctx, "v1", "/home?x=1")
		require.NoError(t, err)
		assert.Equal(t, 200, got.Status)
		assert.Equal(t, "home", string(got.Body))
		assert.Equal(t, "text/plain", got.Header.Get("Content-Type"))
		assert.Equal(t, []string{"Accept", "Accept-Encoding"}, got.Header.Values("Vary"))
		assert.Empty(t, got.Source)

		_, err = s.Match(ctx, "v1", "/home")
		assert.ErrorIs(t, err, offline.ErrNotCached)
		_, err = s.Match(ctx, "nope", "/")
		assert.ErrorIs(t, err, offline.ErrNotCached)
	})

	t.Run("put replaces and reopen keeps entries", func(t *testing.T) {
		s := newStorage(t)
		require.NoError(t, s.Open(ctx, "v1"))
		require.NoError(t, s.Put(ctx, "v1", offline.Entry{Key: "/", Response: response(200, "one")}))
		require.NoError(t, s.Put(ctx, "v1", offline.Entry{Key: "/", Response: response(201, "two")}))
		require.NoError(t, s.Open(ctx, "v1"))

		got, err := s.Match(ctx, "v1", "/")
		require.NoError(t, err)
		assert.Equal(t, 201, got.Status)
		assert.Equal(t, "two", string(got.Body))
	})

	t.Run("stored copies are independent", func(t *testing.T) {
		s := newStorage(t)
		require.NoError(t, s.Open(ctx, "v1"))
		r := response(200, "abc")
		require.NoError(t, s.Put(ctx, "v1", offline.Entry{Key: "/", Response: r}))
		r.Body[0] = 'X'

		got, err := s.Match(ctx, "v1", "/")
		require.NoError(t, err)
		got.Header.Set("Content-Type", "changed")

		again, err := s.Match(ctx, "v1", "/")
		require.NoError(t, err)
		assert.Equal(t, "abc", string(again.Body))
		assert.Equal(t, "text/plain", again.Header.Get("Content-Type"))
	})

	t.Run("put into missing bucket", func(t *testing.T) {
		s := newStorage(t)
		err := s.Put(ctx, "ghost", offline.Entry{Key: "/", Response: response(200, "x")})
		assert.ErrorIs(t, err, offline.ErrBucketNotFound)

		names, err := s.Buckets(ctx)
		require.NoError(t, err)
		assert.Empty(t, names)
	})

	t.Run("delete removes entries", func(t *testing.T) {
		s := newStorage(t)
		require.NoError(t, s.Open(ctx, "v1"))
		require.NoError(t, s.Open(ctx, "v2"))
		require.NoError(t, s.Put(ctx, "v1", offline.Entry{Key: "/", Response: response(200, "x")}))

		existed, err := s.Delete(ctx, "v1")
		require.NoError(t, err)
		assert.True(t, existed)

		existed, err = s.Delete(ctx, "v1")
		require.NoError(t, err)
		assert.False(t, existed)

		_, err = s.Match(ctx, "v1", "/")
		assert.ErrorIs(t, err, offline.ErrNotCached)
		assert.ErrorIs(t, s.Put(ctx, "v1", offline.Entry{Key: "/", Response: response(200, "x")}), offline.ErrBucketNotFound)

		// A recreated bucket starts empty and goes last.
		require.NoError(t, s.Open(ctx, "v1"))
		_, err = s.Match(ctx, "v1", "/")
		assert.ErrorIs(t, err, offline.ErrNotCached)
		names, err := s.Buckets(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"v2", "v1"}, names)
	})

	t.Run("concurrent writers", func(t *testing.T) {
		s := newStorage(t)
		require.NoError(t, s.Open(ctx, "v1"))

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, s.Put(ctx, "v1", offline.Entry{Key: "/", Response: response(200, "x")}))
			}()
		}
		wg.Wait()

		_, err := s.Match(ctx, "v1", "/")
		assert.NoError(t, err)
	})
}

package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/alcancesol/internal/client/models"
	"github.com/dmitrijs2005/alcancesol/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow() time.Time {
	return time.UnixMilli(1_700_000_000_000)
}

func TestSessionService_LoginLogoutRestore(t *testing.T) {
	ctx := context.Background()
	repo := newFakeSessionRepo()
	svc := newSessionService(repo, nil, fixedNow)

	s, err := svc.Restore(ctx)
	require.NoError(t, err)
	assert.Nil(t, s)
	assert.Nil(t, svc.Current())

	require.NoError(t, svc.Login(ctx, "a@b.c", "x"))
	cur := svc.Current()
	require.NotNil(t, cur)
	assert.Equal(t, "a@b.c", cur.Identity)
	assert.True(t, cur.LoggedIn)
	assert.Equal(t, int64(1_700_000_000_000), cur.Timestamp)

	// A fresh process sees the stored session.
	restarted := newSessionService(repo, nil, fixedNow)
	s, err = restarted.Restore(ctx)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "a@b.c", s.Identity)

	require.NoError(t, svc.Logout(ctx))
	assert.Nil(t, svc.Current())

	restarted = newSessionService(repo, nil, fixedNow)
	s, err = restarted.Restore(ctx)
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestSessionService_LoginReplacesPrevious(t *testing.T) {
	ctx := context.Background()
	repo := newFakeSessionRepo()
	svc := newSessionService(repo, nil, fixedNow)

	require.NoError(t, svc.Login(ctx, "first@x", "1"))
	require.NoError(t, svc.Login(ctx, "second@x", "2"))

	assert.Len(t, repo.rows, 1)
	assert.Equal(t, "second@x", repo.rows[CurrentSessionKey].Identity)
}

func TestSessionService_LoginValidation(t *testing.T) {
	svc := newSessionService(newFakeSessionRepo(), nil, fixedNow)

	err := svc.Login(context.Background(), " ", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.ErrorIs(t, err, common.ErrorValidation)

	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "email")
	assert.Contains(t, verr.Fields, "senha")
	assert.Nil(t, svc.Current())
}

func TestSessionService_StoreFailureKeepsMemory(t *testing.T) {
	ctx := context.Background()
	repo := newFakeSessionRepo()
	svc := newSessionService(repo, nil, fixedNow)

	repo.PutErr = common.ErrStorageUnavailable
	err := svc.Login(ctx, "a@b.c", "x")
	assert.ErrorIs(t, err, common.ErrStorageUnavailable)
	assert.Nil(t, svc.Current())

	repo.PutErr = nil
	require.NoError(t, svc.Login(ctx, "a@b.c", "x"))

	repo.DelErr = errors.New("disk full")
	require.Error(t, svc.Logout(ctx))
	assert.NotNil(t, svc.Current())
}

func TestSessionService_RestoreIgnoresBadRecords(t *testing.T) {
	ctx := context.Background()

	repo := newFakeSessionRepo()
	repo.rows[CurrentSessionKey] = models.Session{Identity: "a@b.c", LoggedIn: false}
	s, err := newSessionService(repo, nil, fixedNow).Restore(ctx)
	require.NoError(t, err)
	assert.Nil(t, s)

	repo = newFakeSessionRepo()
	repo.GetErr = common.ErrStorageUnavailable
	s, err = newSessionService(repo, nil, fixedNow).Restore(ctx)
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestSessionService_Subscribe(t *testing.T) {
	ctx := context.Background()
	svc := newSessionService(newFakeSessionRepo(), nil, fixedNow)

	var seen []*models.Session
	svc.Subscribe(func(s *models.Session) { seen = append(seen, s) })

	require.NoError(t, svc.Login(ctx, "a@b.c", "x"))
	require.NoError(t, svc.Logout(ctx))

	require.Len(t, seen, 2)
	require.NotNil(t, seen[0])
	assert.Equal(t, "a@b.c", seen[0].Identity)
	assert.Nil(t, seen[1])
}

func TestSessionService_CurrentIsACopy(t *testing.T) {
	svc := newSessionService(newFakeSessionRepo(), nil, fixedNow)
	require.NoError(t, svc.Login(context.Background(), "a@b.c", "x"))

	svc.Current().Identity = "changed"
	assert.Equal(t, "a@b.c", svc.Current().Identity)
}

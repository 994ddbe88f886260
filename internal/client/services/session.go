// Package services contains application services for the Alcance Sol client.
// This file defines the session service: mock login, logout and restoring the
// single current session at start-up.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/alcancesol/internal/client/models"
	"github.com/dmitrijs2005/alcancesol/internal/client/repositories/sessions"
	"github.com/dmitrijs2005/alcancesol/internal/common"
	"github.com/dmitrijs2005/alcancesol/internal/logging"
)

// CurrentSessionKey is the fixed key of the only session record. A new login
// overwrites it instead of adding a record per identity.
const CurrentSessionKey = "current_session"

// ErrInvalidCredentials is returned by Login when identity or credential is empty.
var ErrInvalidCredentials = errors.New("identity and credential are required")

// SessionService defines the session operations used by the UI.
//
// Contract:
//   - Restore: read the stored session once at start-up; nil means logged out.
//   - Login: accept any non-empty identity/credential pair (mock), persist a
//     fresh record, publish it in memory.
//   - Logout: delete the record, clear memory.
//   - Current: the in-memory session used for route guarding.
//   - Subscribe: observe every login/logout of this process.
//
// Memory only changes after the store write succeeded, so the two never
// disagree within one process.
type SessionService interface {
	Restore(ctx context.Context) (*models.Session, error)
	Login(ctx context.Context, identity, credential string) error
	Logout(ctx context.Context) error
	Current() *models.Session
	Subscribe(fn func(*models.Session))
}

type sessionService struct {
	repo   sessions.Repository
	logger logging.Logger
	now    func() time.Time

	mu        sync.Mutex
	current   *models.Session
	observers []func(*models.Session)
}

// NewSessionService constructs a SessionService over the sessions repository.
func NewSessionService(repo sessions.Repository, logger logging.Logger) SessionService {
	return newSessionService(repo, logger, time.Now)
}

func newSessionService(repo sessions.Repository, logger logging.Logger, now func() time.Time) *sessionService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &sessionService{repo: repo, logger: logger, now: now}
}

// Restore returns the stored session when it exists and is logged in.
// Storage failures are logged and reported as "no session".
func (s *sessionService) Restore(ctx context.Context) (*models.Session, error) {
	stored, err := s.repo.Get(ctx, CurrentSessionKey)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.logger.Warn(ctx, "error loading session", "error", err)
		}
		stored = nil
	}
	if stored != nil && !stored.LoggedIn {
		stored = nil
	}

	s.publish(stored)
	return clone(stored), nil
}

// Login validates that both values are present and stores a new session,
// replacing any previous one. No remote system is consulted.
func (s *sessionService) Login(ctx context.Context, identity, credential string) error {
	verr := &models.ValidationError{}
	if strings.TrimSpace(identity) == "" {
		verr.Add("email", "Email é obrigatório")
	}
	if strings.TrimSpace(credential) == "" {
		verr.Add("senha", "Senha é obrigatória")
	}
	if err := verr.OrNil(); err != nil {
		return errors.Join(ErrInvalidCredentials, err)
	}

	session := &models.Session{
		Identity:  identity,
		LoggedIn:  true,
		Timestamp: s.now().UnixMilli(),
	}

	s.mu.Lock()
	if err := s.repo.Put(ctx, CurrentSessionKey, session); err != nil {
		s.mu.Unlock()
		s.logger.Error(ctx, "error saving session", "error", err)
		return fmt.Errorf("error saving session: %w", err)
	}
	s.current = session
	observers := s.observers
	s.mu.Unlock()

	s.logger.Info(ctx, "logged in", "identity", identity)
	notify(observers, session)
	return nil
}

// Logout deletes the session record. On failure the in-memory session stays.
func (s *sessionService) Logout(ctx context.Context) error {
	s.mu.Lock()
	if err := s.repo.Delete(ctx, CurrentSessionKey); err != nil {
		s.mu.Unlock()
		s.logger.Error(ctx, "error clearing session", "error", err)
		return fmt.Errorf("error clearing session: %w", err)
	}
	s.current = nil
	observers := s.observers
	s.mu.Unlock()

	s.logger.Info(ctx, "logged out")
	notify(observers, nil)
	return nil
}

// Current returns a copy of the in-memory session or nil.
func (s *sessionService) Current() *models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.current)
}

// Subscribe registers fn; it is called synchronously after each change.
func (s *sessionService) Subscribe(fn func(*models.Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

func (s *sessionService) publish(session *models.Session) {
	s.mu.Lock()
	s.current = session
	observers := s.observers
	s.mu.Unlock()
	notify(observers, session)
}

func notify(observers []func(*models.Session), session *models.Session) {
	for _, fn := range observers {
		fn(clone(session))
	}
}

func clone(s *models.Session) *models.Session {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

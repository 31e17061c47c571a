// Package session holds the client's authentication state and persists it
// between runs.
package session

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"folio/internal/client"
)

// State is the persisted form of a session.
type State struct {
	Authenticated bool         `json:"authenticated"`
	User          *client.User `json:"user,omitempty"`
	AccessToken   string       `json:"access_token,omitempty"`
	RefreshToken  string       `json:"refresh_token,omitempty"`
}

// Authenticator is the part of the API client a session needs.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*client.AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*client.AuthResult, error)
	Logout(ctx context.Context) error
	SetToken(token string)
}

// Session is the current authentication state. It is safe for concurrent use.
type Session struct {
	auth   Authenticator
	store  Store
	logger *zap.SugaredLogger

	mu    sync.RWMutex
	state State
}

// New returns an unauthenticated session. Call Restore to pick up a
// persisted one.
func New(auth Authenticator, store Store, logger *zap.SugaredLogger) *Session {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Session{auth: auth, store: store, logger: logger}
}

// Restore loads the persisted session. A missing or unreadable entry leaves
// the session empty.
func (s *Session) Restore() {
	state, err := s.store.Load()
	if err != nil {
		s.logger.Warnw("discarding unreadable session", "error", err)
		state = nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if state == nil || !state.Authenticated || state.User == nil {
		s.state = State{}
	} else {
		s.state = *state
	}
	s.auth.SetToken(s.state.AccessToken)
}

// Login authenticates against the server. It reports success; on failure
// the session is left unauthenticated.
func (s *Session) Login(ctx context.Context, username, password string) bool {
	res, err := s.auth.Login(ctx, username, password)
	if err != nil {
		s.logger.Warnw("login failed", "username", username, "error", err)
		s.reset()
		return false
	}

	user := res.User
	s.apply(State{
		Authenticated: true,
		User:          &user,
		AccessToken:   res.AccessToken,
		RefreshToken:  res.RefreshToken,
	})
	return true
}

// Refresh rotates the token pair. A rejected refresh token ends the
// session; transport failures keep it.
func (s *Session) Refresh(ctx context.Context) bool {
	s.mu.RLock()
	refreshToken := s.state.RefreshToken
	s.mu.RUnlock()
	if refreshToken == "" {
		return false
	}

	res, err := s.auth.Refresh(ctx, refreshToken)
	if err != nil {
		s.logger.Warnw("token refresh failed", "error", err)
		if client.IsUnauthorized(err) {
			s.reset()
		}
		return false
	}

	user := res.User
	s.apply(State{
		Authenticated: true,
		User:          &user,
		AccessToken:   res.AccessToken,
		RefreshToken:  res.RefreshToken,
	})
	return true
}

// Logout tells the server, then clears local state regardless of the
// outcome.
func (s *Session) Logout(ctx context.Context) {
	if s.IsAuthenticated() {
		if err := s.auth.Logout(ctx); err != nil {
			s.logger.Warnw("server logout failed", "error", err)
		}
	}
	s.reset()
}

// IsAuthenticated reports whether a user is logged in.
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Authenticated
}

// User returns a copy of the logged-in user, or nil.
func (s *Session) User() *client.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.User == nil {
		return nil
	}
	u := *s.state.User
	return &u
}

func (s *Session) apply(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()

	s.auth.SetToken(state.AccessToken)
	if err := s.store.Save(&state); err != nil {
		s.logger.Warnw("failed to persist session", "error", err)
	}
}

func (s *Session) reset() {
	s.mu.Lock()
	s.state = State{}
	s.mu.Unlock()

	s.auth.SetToken("")
	if err := s.store.Clear(); err != nil {
		s.logger.Warnw("failed to clear persisted session", "error", err)
	}
}

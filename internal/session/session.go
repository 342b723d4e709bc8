// Package session tracks the logged-in identity and serializes submissions
// of the same kind.
package session

import (
	"errors"
	"sync"

	"github.com/dharsanguruparan/CareerCopilot/internal/model"
)

// ErrNotLoggedIn is returned by Require while no session is active.
var ErrNotLoggedIn = errors.New("login required")

// Store holds at most one session. It moves LoggedOut -> LoggedIn on Login
// and back on Logout; there is no expiry or refresh.
type Store struct {
	mu      sync.RWMutex
	current *model.Session
}

// NewStore returns a logged-out Store.
func NewStore() *Store {
	return &Store{}
}

// Login records a successful face login, replacing any previous session.
func (s *Store) Login(userID, token string) model.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := model.Session{UserID: userID, Token: token}
	s.current = &sess
	return sess
}

// Logout clears the session.
func (s *Store) Logout() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
}

// Current returns a copy of the active session.
func (s *Store) Current() (model.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return model.Session{}, false
	}
	return *s.current, true
}

// LoggedIn reports whether a session is active.
func (s *Store) LoggedIn() bool {
	_, ok := s.Current()
	return ok
}

// Require returns the active session or ErrNotLoggedIn.
func (s *Store) Require() (model.Session, error) {
	sess, ok := s.Current()
	if !ok {
		return model.Session{}, ErrNotLoggedIn
	}
	return sess, nil
}

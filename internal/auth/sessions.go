package auth

import (
	"crypto/subtle"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrUnauthorized = errors.New("unauthorized")

type SessionStatus int

const (
	Anonymous SessionStatus = iota
	Authenticated
)

func (s SessionStatus) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "anonymous"
}

// SessionState is the admin state attached to one session id. Since is zero
// unless Status is Authenticated.
type SessionState struct {
	Status SessionStatus
	Since  time.Time
}

// SessionStore is the feedback service's admin guard: a fixed password moves
// a session from Anonymous to Authenticated, logout destroys it.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]SessionState
	password []byte
	now      func() time.Time
}

func NewSessionStore(adminPassword string) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]SessionState),
		password: []byte(adminPassword),
		now:      time.Now,
	}
}

func (s *SessionStore) WithClock(now func() time.Time) *SessionStore {
	s.now = now
	return s
}

// NewSessionID returns a fresh anonymous session id.
func (s *SessionStore) NewSessionID() string {
	return uuid.NewString()
}

func (s *SessionStore) State(sid string) SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[sid]
}

// Login authenticates sid when password matches. A failed attempt leaves the
// current state untouched.
func (s *SessionStore) Login(sid, password string) bool {
	if sid == "" || len(s.password) == 0 {
		return false
	}
	if subtle.ConstantTimeCompare([]byte(password), s.password) != 1 {
		return false
	}

	s.mu.Lock()
	s.sessions[sid] = SessionState{Status: Authenticated, Since: s.now()}
	s.mu.Unlock()
	return true
}

func (s *SessionStore) Logout(sid string) {
	s.mu.Lock()
	delete(s.sessions, sid)
	s.mu.Unlock()
}

func (s *SessionStore) RequireAuthenticated(sid string) error {
	if s.State(sid).Status != Authenticated {
		return ErrUnauthorized
	}
	return nil
}

// Package auth holds the two admin guards: the bearer token store used by the
// scheme service and the cookie session store used by the feedback service.
package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"intake-backend/internal/models"

	"github.com/google/uuid"
)

const DefaultTokenTTL = time.Hour

var (
	ErrMissingHeader     = errors.New("authorization header missing")
	ErrMalformedHeader   = errors.New("invalid token format")
	ErrExpiredOrUnknown  = errors.New("token expired or invalid")
	ErrInvalidCredential = errors.New("invalid credentials")
)

// TokenStore issues and checks bearer tokens. Implementations must be safe
// for concurrent use.
type TokenStore interface {
	Issue(ctx context.Context, principal string) (string, error)
	Authorize(ctx context.Context, token string) (string, error)
	Revoke(ctx context.Context, token string) error
}

// MemoryTokenStore keeps tokens in process memory. Expired entries are only
// reclaimed when they are looked up again.
type MemoryTokenStore struct {
	mu     sync.Mutex
	tokens map[string]models.AuthToken
	ttl    time.Duration
	now    func() time.Time
}

func NewMemoryTokenStore(ttl time.Duration) *MemoryTokenStore {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &MemoryTokenStore{
		tokens: make(map[string]models.AuthToken),
		ttl:    ttl,
		now:    time.Now,
	}
}

// WithClock replaces the time source. Intended for tests.
func (s *MemoryTokenStore) WithClock(now func() time.Time) *MemoryTokenStore {
	s.now = now
	return s
}

func (s *MemoryTokenStore) Issue(_ context.Context, principal string) (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	token := id.String()

	s.mu.Lock()
	s.tokens[token] = models.AuthToken{
		Token:     token,
		Principal: principal,
		ExpiresAt: s.now().Add(s.ttl),
	}
	s.mu.Unlock()

	return token, nil
}

func (s *MemoryTokenStore) Authorize(_ context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.tokens[token]
	if !ok {
		return "", ErrExpiredOrUnknown
	}
	if entry.IsExpired(s.now()) {
		delete(s.tokens, token)
		return "", ErrExpiredOrUnknown
	}
	return entry.Principal, nil
}

func (s *MemoryTokenStore) Revoke(_ context.Context, token string) error {
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
	return nil
}

// Len reports how many entries are held, expired ones included.
func (s *MemoryTokenStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tokens)
}

// ParseBearer extracts the token from an Authorization header value of the
// form "Bearer <token>".
func ParseBearer(header string) (string, error) {
	if header == "" {
		return "", ErrMissingHeader
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || scheme != "Bearer" || token == "" || strings.ContainsAny(token, " \t") {
		return "", ErrMalformedHeader
	}
	return token, nil
}

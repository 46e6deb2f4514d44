// Package memory implements an in-memory credential store for development
// and testing.
package memory

import (
	"context"
	"sync"

	"devsocial/internal/domain"
)

// Store keeps the session in process memory. It forgets everything on exit.
type Store struct {
	mu    sync.Mutex
	token string
	user  *domain.User

	// ReadErr, when set, is returned by every read. Tests use it to simulate
	// unreadable storage.
	ReadErr error
}

// New creates an empty store.
func New() *Store {
	return &Store{}
}

// Ensure interfaces are met.
var _ domain.CredentialStore = (*Store)(nil)

// Token returns the stored token.
func (s *Store) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ReadErr != nil {
		return "", s.ReadErr
	}
	return s.token, nil
}

// User returns a copy of the cached user.
func (s *Store) User(ctx context.Context) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ReadErr != nil {
		return nil, s.ReadErr
	}
	return s.user.Clone(), nil
}

// Save stores token and user together.
func (s *Store) Save(ctx context.Context, token string, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = user.Clone()
	return nil
}

// SaveUser overwrites the cached user.
func (s *Store) SaveUser(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user.Clone()
	return nil
}

// Clear removes both keys.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
	return nil
}

package memory

import (
	"context"
	"sync"

	"github.com/aretw0/pagewizard/pkg/domain"
)

// Store implements ports.CredentialStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Credentials
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Credentials),
	}
}

// Save persists the credentials in memory.
func (s *Store) Save(ctx context.Context, profile string, creds *domain.Credentials) error {
	copied := copyCredentials(creds)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[profile] = copied
	return nil
}

// Load retrieves the credentials from memory.
func (s *Store) Load(ctx context.Context, profile string) (*domain.Credentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	creds, ok := s.data[profile]
	if !ok {
		return nil, domain.ErrCredentialsNotFound
	}

	// Copy on read so callers can't mutate store state through the pointer
	return copyCredentials(creds), nil
}

// Delete removes the credentials.
func (s *Store) Delete(ctx context.Context, profile string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, profile)
	return nil
}

// List returns stored profiles.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profiles := make([]string, 0, len(s.data))
	for id := range s.data {
		profiles = append(profiles, id)
	}
	return profiles, nil
}

func copyCredentials(c *domain.Credentials) *domain.Credentials {
	out := *c
	if c.User != nil {
		u := *c.User
		out.User = &u
	}
	return &out
}

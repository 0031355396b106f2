package auth

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"careline/pkg/sentinel"
)

// InMemoryCredentialStore keeps principals in a map. It backs local
// development and the unit tests; production uses the Postgres store.
type InMemoryCredentialStore struct {
	mu         sync.RWMutex
	principals map[string]Principal
}

func NewInMemoryCredentialStore() *InMemoryCredentialStore {
	return &InMemoryCredentialStore{principals: make(map[string]Principal)}
}

func (s *InMemoryCredentialStore) Save(_ context.Context, p Principal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.principals[strings.ToLower(p.Email)] = p
	return nil
}

func (s *InMemoryCredentialStore) FindByEmail(_ context.Context, email string) (Principal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.principals[strings.ToLower(email)]; ok {
		return p, nil
	}
	return Principal{}, sentinel.ErrNotFound
}

// Seed installs a default admin principal for local development.
func (s *InMemoryCredentialStore) Seed(ctx context.Context) error {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.Save(ctx, Principal{
		Email:        "testuser@test.com",
		PasswordHash: string(hash),
		Role:         "ADMIN",
	})
}

package patient

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"careline/pkg/sentinel"
)

// InMemoryStore keeps records in a map with email uniqueness enforced under
// the lock. It backs local development and the unit tests.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[uuid.UUID]Record
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[uuid.UUID]Record)}
}

func (s *InMemoryStore) ExistsByEmail(_ context.Context, email string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findByEmail(email) != uuid.Nil, nil
}

func (s *InMemoryStore) ExistsByEmailExcept(_ context.Context, email string, except uuid.UUID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	owner := s.findByEmail(email)
	return owner != uuid.Nil && owner != except, nil
}

func (s *InMemoryStore) Insert(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findByEmail(rec.Email) != uuid.Nil {
		return sentinel.ErrDuplicateEmail
	}
	s.records[rec.ID] = rec
	return nil
}

func (s *InMemoryStore) Update(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[rec.ID]; !ok {
		return sentinel.ErrNotFound
	}
	if owner := s.findByEmail(rec.Email); owner != uuid.Nil && owner != rec.ID {
		return sentinel.ErrDuplicateEmail
	}
	s.records[rec.ID] = rec
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id uuid.UUID) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if rec, ok := s.records[id]; ok {
		return rec, nil
	}
	return Record{}, sentinel.ErrNotFound
}

func (s *InMemoryStore) List(_ context.Context) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Record, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RegisteredDate.Before(out[j].RegisteredDate) })
	return out, nil
}

func (s *InMemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.records, id)
	return nil
}

// findByEmail returns the owning record ID, or uuid.Nil. Caller holds the lock.
func (s *InMemoryStore) findByEmail(email string) uuid.UUID {
	for id, rec := range s.records {
		if strings.EqualFold(rec.Email, email) {
			return id
		}
	}
	return uuid.Nil
}

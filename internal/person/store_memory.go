package person

import (
	"context"
	"sync"

	"licentia/pkg/domain"
)

// InMemoryStore backs development and tests.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[domain.PersonID]Record
}

// NewInMemoryStore returns an empty in-memory person store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[domain.PersonID]Record)}
}

// Put registers or replaces a person record.
func (s *InMemoryStore) Put(record Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.ID] = record
}

func (s *InMemoryStore) Get(_ context.Context, id domain.PersonID) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return record, nil
}

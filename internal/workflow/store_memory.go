package workflow

import (
	"context"
	"sync"

	"licentia/pkg/domain"
)

// InMemoryStore backs development and tests.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[domain.WorkflowID]*State
}

// NewInMemoryStore returns an empty in-memory session store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[domain.WorkflowID]*State)}
}

func (s *InMemoryStore) Save(_ context.Context, state *State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[state.ID] = state.Clone()
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, id domain.WorkflowID) (*State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return state.Clone(), nil
}

func (s *InMemoryStore) Delete(_ context.Context, id domain.WorkflowID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

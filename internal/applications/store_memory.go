package applications

import (
	"context"
	"sync"
	"time"

	"licentia/pkg/domain"
)

// InMemoryStore backs development and tests.
type InMemoryStore struct {
	mu    sync.RWMutex
	byID  map[domain.ApplicationID]Application
	clock func() time.Time
}

// NewInMemoryStore returns an empty in-memory applications store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		byID:  make(map[domain.ApplicationID]Application),
		clock: time.Now,
	}
}

// WithClock overrides the timestamp source, for tests.
func (s *InMemoryStore) WithClock(clock func() time.Time) *InMemoryStore {
	s.clock = clock
	return s
}

func (s *InMemoryStore) ListByPersonAndCategory(_ context.Context, personID domain.PersonID, category domain.LicenseCategory, statuses []domain.ApplicationStatus) ([]Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Application
	for _, app := range s.byID {
		if app.PersonID != personID || app.Category != category {
			continue
		}
		if len(statuses) > 0 && !containsStatus(statuses, app.Status) {
			continue
		}
		out = append(out, app)
	}
	return out, nil
}

func (s *InMemoryStore) Insert(_ context.Context, app Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock()
	app.CreatedAt = now
	app.UpdatedAt = now
	s.byID[app.ID] = app
	return nil
}

func (s *InMemoryStore) SetStatus(_ context.Context, id domain.ApplicationID, status domain.ApplicationStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	app.Status = status
	app.UpdatedAt = s.clock()
	s.byID[id] = app
	return nil
}

func containsStatus(statuses []domain.ApplicationStatus, status domain.ApplicationStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

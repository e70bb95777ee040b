package audit

import (
	"context"
	"sync"
)

// Store is the append-only audit sink. Events are never updated or deleted.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListBySubject(ctx context.Context, subject string) ([]Event, error)
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}

// InMemoryStore keeps the audit trail in memory for tests and local runs.
type InMemoryStore struct {
	mu        sync.RWMutex
	events    []Event
	bySubject map[string][]int
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{bySubject: make(map[string][]int)}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	s.bySubject[event.Subject] = append(s.bySubject[event.Subject], len(s.events)-1)
	return nil
}

func (s *InMemoryStore) ListBySubject(_ context.Context, subject string) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	indexes := s.bySubject[subject]
	events := make([]Event, 0, len(indexes))
	for _, i := range indexes {
		events = append(events, s.events[i])
	}
	return events, nil
}

func (s *InMemoryStore) ListRecent(_ context.Context, limit int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 || limit > len(s.events) {
		limit = len(s.events)
	}
	events := make([]Event, limit)
	copy(events, s.events[len(s.events)-limit:])
	return events, nil
}

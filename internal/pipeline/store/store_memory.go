package store

import (
	"context"
	"sort"
	"sync"

	"talentflow/internal/pipeline/models"
	id "talentflow/pkg/domain"
	"talentflow/pkg/platform/faultinject"
	"talentflow/pkg/platform/sentinel"
)

// InMemoryApplicationStore keeps records in a mutex-guarded map. It favors
// clarity over performance and is the default wiring for tests and local runs.
type InMemoryApplicationStore struct {
	mu      sync.RWMutex
	records map[id.ApplicationID]*models.ApplicationRecord
	faults  faultinject.Injector
}

type MemoryOption func(*InMemoryApplicationStore)

// WithFaultInjector arms a deterministic fault strategy. Nil (the default)
// disables injection entirely.
func WithFaultInjector(inj faultinject.Injector) MemoryOption {
	return func(s *InMemoryApplicationStore) { s.faults = inj }
}

func NewInMemoryApplicationStore(opts ...MemoryOption) *InMemoryApplicationStore {
	s := &InMemoryApplicationStore{records: make(map[id.ApplicationID]*models.ApplicationRecord)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InMemoryApplicationStore) Save(_ context.Context, record *models.ApplicationRecord) error {
	if err := faultinject.Check(s.faults, "application.save"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.ID] = record.Clone()
	return nil
}

func (s *InMemoryApplicationStore) FindByID(_ context.Context, appID id.ApplicationID) (*models.ApplicationRecord, error) {
	if err := faultinject.Check(s.faults, "application.find"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if record, ok := s.records[appID]; ok {
		return record.Clone(), nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryApplicationStore) FindByCandidateAndJob(_ context.Context, candidateID id.CandidateID, jobID id.JobID) (*models.ApplicationRecord, error) {
	if err := faultinject.Check(s.faults, "application.find"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, record := range s.records {
		if record.CandidateID == candidateID && record.JobID == jobID {
			return record.Clone(), nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryApplicationStore) List(_ context.Context) ([]*models.ApplicationRecord, error) {
	if err := faultinject.Check(s.faults, "application.list"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := make([]*models.ApplicationRecord, 0, len(s.records))
	for _, record := range s.records {
		records = append(records, record.Clone())
	}
	// Stable order keeps pagination deterministic across calls.
	sort.Slice(records, func(i, j int) bool {
		if records[i].AppliedAt.Equal(records[j].AppliedAt) {
			return records[i].ID.String() < records[j].ID.String()
		}
		return records[i].AppliedAt.Before(records[j].AppliedAt)
	})
	return records, nil
}

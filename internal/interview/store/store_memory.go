package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"talentflow/internal/interview/models"
	id "talentflow/pkg/domain"
	"talentflow/pkg/platform/faultinject"
	"talentflow/pkg/platform/sentinel"
)

// InMemoryInterviewStore keeps records in a mutex-guarded map.
type InMemoryInterviewStore struct {
	mu      sync.RWMutex
	records map[id.InterviewID]*models.InterviewRecord
	faults  faultinject.Injector
}

type MemoryOption func(*InMemoryInterviewStore)

// WithFaultInjector arms a deterministic fault strategy. Nil (the default)
// disables injection entirely.
func WithFaultInjector(inj faultinject.Injector) MemoryOption {
	return func(s *InMemoryInterviewStore) { s.faults = inj }
}

func NewInMemoryInterviewStore(opts ...MemoryOption) *InMemoryInterviewStore {
	s := &InMemoryInterviewStore{records: make(map[id.InterviewID]*models.InterviewRecord)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InMemoryInterviewStore) Save(_ context.Context, record *models.InterviewRecord) error {
	if err := faultinject.Check(s.faults, "interview.save"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.ID] = record.Clone()
	return nil
}

func (s *InMemoryInterviewStore) FindByID(_ context.Context, interviewID id.InterviewID) (*models.InterviewRecord, error) {
	if err := faultinject.Check(s.faults, "interview.find"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if record, ok := s.records[interviewID]; ok {
		return record.Clone(), nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryInterviewStore) ListByCandidate(_ context.Context, candidateID id.CandidateID) ([]*models.InterviewRecord, error) {
	if err := faultinject.Check(s.faults, "interview.list"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var records []*models.InterviewRecord
	for _, record := range s.records {
		if record.CandidateID == candidateID {
			records = append(records, record.Clone())
		}
	}
	sortByScheduledAt(records)
	return records, nil
}

func (s *InMemoryInterviewStore) ListOnDate(_ context.Context, day time.Time, interviewer string) ([]*models.InterviewRecord, error) {
	if err := faultinject.Check(s.faults, "interview.list"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	y, m, d := day.Date()
	var records []*models.InterviewRecord
	for _, record := range s.records {
		ry, rm, rd := record.ScheduledAt.In(day.Location()).Date()
		if ry != y || rm != m || rd != d {
			continue
		}
		if interviewer != "" && record.Interviewer != interviewer {
			continue
		}
		records = append(records, record.Clone())
	}
	sortByScheduledAt(records)
	return records, nil
}

func sortByScheduledAt(records []*models.InterviewRecord) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].ScheduledAt.Equal(records[j].ScheduledAt) {
			return records[i].ID.String() < records[j].ID.String()
		}
		return records[i].ScheduledAt.Before(records[j].ScheduledAt)
	})
}

//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"talentflow/internal/interview/models"
	"talentflow/internal/interview/store"
	id "talentflow/pkg/domain"
	"talentflow/pkg/platform/sentinel"
	"talentflow/pkg/testutil/containers"
)

type PostgresInterviewSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresInterviewStore
}

func TestPostgresInterviewSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresInterviewSuite))
}

func (s *PostgresInterviewSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.Require().NoError(s.postgres.ApplySchema(context.Background(), store.Schema()))
	s.store = store.NewPostgresInterviewStore(s.postgres.DB)
}

func (s *PostgresInterviewSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "interviews"))
}

func (s *PostgresInterviewSuite) record(candidateID id.CandidateID, at time.Time) *models.InterviewRecord {
	return &models.InterviewRecord{
		ID:              id.NewInterviewID(),
		CandidateID:     candidateID,
		JobID:           id.NewJobID(),
		ApplicationID:   id.NewApplicationID(),
		ScheduledAt:     at,
		DurationMinutes: 60,
		Interviewer:     "m.keller",
		Location:        models.LocationVideo,
		Status:          models.StatusScheduled,
		CreatedAt:       at.Add(-24 * time.Hour),
		UpdatedAt:       at.Add(-24 * time.Hour),
	}
}

func (s *PostgresInterviewSuite) TestSaveAndFind() {
	ctx := context.Background()
	record := s.record(id.NewCandidateID(), time.Date(2026, 4, 7, 10, 0, 0, 0, time.UTC))
	s.Require().NoError(s.store.Save(ctx, record))

	found, err := s.store.FindByID(ctx, record.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusScheduled, found.Status)
	s.True(found.ScheduledAt.Equal(record.ScheduledAt))

	_, err = s.store.FindByID(ctx, id.NewInterviewID())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresInterviewSuite) TestListByCandidateOrdersByTime() {
	ctx := context.Background()
	candidateID := id.NewCandidateID()
	base := time.Date(2026, 4, 7, 10, 0, 0, 0, time.UTC)

	late := s.record(candidateID, base.Add(4*time.Hour))
	early := s.record(candidateID, base)
	other := s.record(id.NewCandidateID(), base)
	for _, record := range []*models.InterviewRecord{late, early, other} {
		s.Require().NoError(s.store.Save(ctx, record))
	}

	records, err := s.store.ListByCandidate(ctx, candidateID)
	s.Require().NoError(err)
	s.Require().Len(records, 2)
	s.Equal(early.ID, records[0].ID)
	s.Equal(late.ID, records[1].ID)
}

func (s *PostgresInterviewSuite) TestListOnDateFiltersDayAndInterviewer() {
	ctx := context.Background()
	day := time.Date(2026, 4, 8, 0, 0, 0, 0, time.UTC)

	onDay := s.record(id.NewCandidateID(), day.Add(10*time.Hour))
	nextDay := s.record(id.NewCandidateID(), day.Add(34*time.Hour))
	otherInterviewer := s.record(id.NewCandidateID(), day.Add(11*time.Hour))
	otherInterviewer.Interviewer = "a.novak"
	for _, record := range []*models.InterviewRecord{onDay, nextDay, otherInterviewer} {
		s.Require().NoError(s.store.Save(ctx, record))
	}

	records, err := s.store.ListOnDate(ctx, day, "m.keller")
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.Equal(onDay.ID, records[0].ID)

	all, err := s.store.ListOnDate(ctx, day, "")
	s.Require().NoError(err)
	s.Len(all, 2, "empty interviewer matches everyone on the day")
}

func (s *PostgresInterviewSuite) TestStatusRoundTrip() {
	ctx := context.Background()
	record := s.record(id.NewCandidateID(), time.Date(2026, 4, 9, 10, 0, 0, 0, time.UTC))
	s.Require().NoError(s.store.Save(ctx, record))

	record.Status = models.StatusCompleted
	record.Result = models.OutcomePassed
	s.Require().NoError(s.store.Save(ctx, record))

	found, err := s.store.FindByID(ctx, record.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusCompleted, found.Status)
	s.Equal(models.OutcomePassed, found.Result)
}

package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"talentflow/internal/audit"
	"talentflow/internal/pipeline/models"
	"talentflow/internal/pipeline/store"
	id "talentflow/pkg/domain"
	dErrors "talentflow/pkg/domain-errors"
	"talentflow/pkg/platform/faultinject"
	"talentflow/pkg/platform/retry"
	"talentflow/pkg/requestcontext"
)

type TransitionSuite struct {
	suite.Suite
	store      *store.InMemoryApplicationStore
	auditStore *audit.InMemoryStore
	service    *Service
}

func TestTransitionSuite(t *testing.T) {
	suite.Run(t, new(TransitionSuite))
}

func (s *TransitionSuite) SetupTest() {
	s.store = store.NewInMemoryApplicationStore()
	s.auditStore = audit.NewInMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var err error
	s.service, err = New(s.store,
		WithLogger(logger),
		WithAuditRecorder(audit.NewSyncRecorder(s.auditStore, logger)),
		WithRetryConfig(retry.Config{MaxAttempts: 2, Timeout: time.Second, InitialInterval: time.Millisecond}),
	)
	s.Require().NoError(err)
}

func (s *TransitionSuite) seed(stage models.Stage) *models.ApplicationRecord {
	record := &models.ApplicationRecord{
		ID:          id.NewApplicationID(),
		CandidateID: id.NewCandidateID(),
		JobID:       id.NewJobID(),
		Stage:       stage,
		AppliedAt:   time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC),
		UpdatedAt:   time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC),
	}
	s.Require().NoError(s.store.Save(context.Background(), record))
	return record
}

func (s *TransitionSuite) TestNew() {
	s.Run("nil store returns error", func() {
		_, err := New(nil)
		s.Error(err)
		s.Contains(err.Error(), "application store is required")
	})
}

func (s *TransitionSuite) TestTransition() {
	ctx := context.Background()

	s.Run("advances stage and stamps checkpoint", func() {
		record := s.seed(models.StageApplied)
		t1 := time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC)

		updated, err := s.service.Transition(requestcontext.WithTime(ctx, t1), record.ID, models.StageShortlisted)
		s.Require().NoError(err)
		s.Equal(models.StageShortlisted, updated.Stage)
		s.Require().NotNil(updated.ShortlistedAt)
		s.Equal(t1, *updated.ShortlistedAt)
	})

	s.Run("backward correction keeps earlier stamp", func() {
		record := s.seed(models.StageApplied)
		t1 := time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC)
		t2 := t1.Add(24 * time.Hour)

		_, err := s.service.Transition(requestcontext.WithTime(ctx, t1), record.ID, models.StageShortlisted)
		s.Require().NoError(err)
		_, err = s.service.Transition(requestcontext.WithTime(ctx, t2), record.ID, models.StageApplied)
		s.Require().NoError(err)
		updated, err := s.service.Transition(requestcontext.WithTime(ctx, t2), record.ID, models.StageShortlisted)
		s.Require().NoError(err)

		s.Equal(t1, *updated.ShortlistedAt, "re-entering a checkpoint must never move its stamp")
	})

	s.Run("any stage reachable from any non-terminal stage", func() {
		record := s.seed(models.StageVisaApproved)
		updated, err := s.service.Transition(ctx, record.ID, models.StageShortlisted)
		s.Require().NoError(err)
		s.Equal(models.StageShortlisted, updated.Stage)
	})

	s.Run("unknown stage is invalid", func() {
		record := s.seed(models.StageApplied)
		_, err := s.service.Transition(ctx, record.ID, models.Stage("onboarding"))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidTransition))

		var invalid *models.InvalidTransitionError
		s.Require().True(errors.As(err, &invalid))
		s.Equal(record.ID, invalid.ApplicationID)
	})

	s.Run("missing application is invalid", func() {
		missing := id.NewApplicationID()
		_, err := s.service.Transition(ctx, missing, models.StageShortlisted)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidTransition))

		var invalid *models.InvalidTransitionError
		s.Require().True(errors.As(err, &invalid))
		s.Equal("application not found", invalid.Reason)
	})

	s.Run("rejected is terminal", func() {
		record := s.seed(models.StageRejected)
		_, err := s.service.Transition(ctx, record.ID, models.StageApplied)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidTransition))
	})

	s.Run("rejection stamps decision and is reachable from anywhere", func() {
		record := s.seed(models.StageFlightBooking)
		t1 := time.Date(2026, 2, 5, 16, 0, 0, 0, time.UTC)

		updated, err := s.service.Transition(requestcontext.WithTime(ctx, t1), record.ID, models.StageRejected)
		s.Require().NoError(err)
		s.Equal(models.StageRejected, updated.Stage)
		s.Require().NotNil(updated.DecisionAt)
		s.Equal(t1, *updated.DecisionAt)
	})

	s.Run("every transition appends an audit event", func() {
		record := s.seed(models.StageApplied)
		_, err := s.service.Transition(ctx, record.ID, models.StageShortlisted)
		s.Require().NoError(err)
		_, err = s.service.Transition(ctx, record.ID, models.StageInterviewScheduled)
		s.Require().NoError(err)

		events, err := s.auditStore.ListBySubject(ctx, record.ID.String())
		s.Require().NoError(err)
		s.Require().Len(events, 2)
		s.Equal("applied", events[0].From)
		s.Equal("shortlisted", events[0].To)
		s.Equal("interview-scheduled", events[1].To)
	})
}

func (s *TransitionSuite) TestCheckpointOrderInvariant() {
	ctx := context.Background()
	record := s.seed(models.StageApplied)
	t1 := time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC)

	_, err := s.service.Transition(requestcontext.WithTime(ctx, t1), record.ID, models.StageShortlisted)
	s.Require().NoError(err)
	_, err = s.service.Transition(requestcontext.WithTime(ctx, t1.Add(48*time.Hour)), record.ID, models.StageInterviewPassed)
	s.Require().NoError(err)
	updated, err := s.service.Transition(requestcontext.WithTime(ctx, t1.Add(96*time.Hour)), record.ID, models.StageReadyToFly)
	s.Require().NoError(err)

	s.Require().NotNil(updated.ShortlistedAt)
	s.Require().NotNil(updated.InterviewedAt)
	s.Require().NotNil(updated.DecisionAt)
	s.False(updated.InterviewedAt.Before(*updated.ShortlistedAt))
	s.False(updated.DecisionAt.Before(*updated.InterviewedAt))
}

func (s *TransitionSuite) TestBulkTransition() {
	ctx := context.Background()

	s.Run("partial failure never aborts the batch", func() {
		a := s.seed(models.StageApplied)
		b := s.seed(models.StageShortlisted)
		missing := id.NewApplicationID()
		d := s.seed(models.StageVisaApplication)
		e := s.seed(models.StagePreDeparture)

		results := s.service.BulkTransition(ctx,
			[]id.ApplicationID{a.ID, b.ID, missing, d.ID, e.ID}, models.StageRejected)

		s.Require().Len(results, 5)
		for i, result := range results {
			if result.ApplicationID == missing {
				s.Error(result.Err)
				s.True(dErrors.HasCode(result.Err, dErrors.CodeInvalidTransition))
				continue
			}
			s.NoError(result.Err, "item %d", i)
			s.Equal(models.StageRejected, result.Record.Stage)
		}
	})

	s.Run("cancellation stops further items", func() {
		a := s.seed(models.StageApplied)
		b := s.seed(models.StageApplied)

		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		results := s.service.BulkTransition(cancelled, []id.ApplicationID{a.ID, b.ID}, models.StageShortlisted)

		s.Require().Len(results, 2)
		s.ErrorIs(results[0].Err, context.Canceled)
		s.ErrorIs(results[1].Err, context.Canceled)
	})
}

func (s *TransitionSuite) TestDependencyFailureAfterRetries() {
	ctx := context.Background()
	faulty := store.NewInMemoryApplicationStore(
		store.WithFaultInjector(faultinject.NewScript(map[string]int{"application.find": 10})),
	)
	svc, err := New(faulty,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithRetryConfig(retry.Config{MaxAttempts: 2, Timeout: time.Second, InitialInterval: time.Millisecond}),
	)
	s.Require().NoError(err)

	_, err = svc.Transition(ctx, id.NewApplicationID(), models.StageShortlisted)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeDependencyFailure))
}

func (s *TransitionSuite) TestTransientFaultIsRetried() {
	ctx := context.Background()
	flaky := store.NewInMemoryApplicationStore(
		store.WithFaultInjector(faultinject.NewScript(map[string]int{"application.find": 1})),
	)
	record := &models.ApplicationRecord{
		ID:          id.NewApplicationID(),
		CandidateID: id.NewCandidateID(),
		JobID:       id.NewJobID(),
		Stage:       models.StageApplied,
		AppliedAt:   time.Now(),
	}
	s.Require().NoError(flaky.Save(ctx, record))

	svc, err := New(flaky,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithRetryConfig(retry.Config{MaxAttempts: 3, Timeout: time.Second, InitialInterval: time.Millisecond}),
	)
	s.Require().NoError(err)

	updated, err := svc.Transition(ctx, record.ID, models.StageShortlisted)
	s.Require().NoError(err, "single transient read fault must be absorbed by retry")
	s.Equal(models.StageShortlisted, updated.Stage)
}

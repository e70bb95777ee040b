// Package service implements the stage transition engine: the single writer
// for ApplicationRecords.
package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"talentflow/internal/audit"
	"talentflow/internal/pipeline/metrics"
	"talentflow/internal/pipeline/models"
	id "talentflow/pkg/domain"
	dErrors "talentflow/pkg/domain-errors"
	"talentflow/pkg/platform/keylock"
	"talentflow/pkg/platform/retry"
	"talentflow/pkg/platform/sentinel"
	"talentflow/pkg/requestcontext"
)

// Store is the subset of the application store the engine needs.
type Store interface {
	Save(ctx context.Context, record *models.ApplicationRecord) error
	FindByID(ctx context.Context, appID id.ApplicationID) (*models.ApplicationRecord, error)
}

type Service struct {
	store   Store
	locks   *keylock.KeyedMutex
	auditor audit.Recorder
	logger  *slog.Logger
	metrics *metrics.Metrics
	retry   retry.Config
	tracer  trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditRecorder(recorder audit.Recorder) Option {
	return func(s *Service) { s.auditor = recorder }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithRetryConfig(cfg retry.Config) Option {
	return func(s *Service) { s.retry = cfg }
}

func New(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("application store is required")
	}
	svc := &Service{
		store:  store,
		locks:  keylock.New(),
		logger: slog.Default(),
		retry:  retry.DefaultConfig(),
		tracer: otel.Tracer("talentflow/pipeline"),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Transition moves an application to targetStage.
//
// The state machine is deliberately not forward-only: any valid stage is
// reachable from any other non-terminal stage, supporting manual correction
// by an operator. Rejection is terminal. Checkpoint timestamps are stamped
// monotonically and every applied transition emits an audit event.
func (s *Service) Transition(ctx context.Context, appID id.ApplicationID, targetStage models.Stage) (*models.ApplicationRecord, error) {
	ctx, span := s.tracer.Start(ctx, "pipeline.transition",
		trace.WithAttributes(attribute.String("target", targetStage.String())))
	defer span.End()

	if !targetStage.IsValid() {
		s.countInvalid()
		invalid := &models.InvalidTransitionError{
			ApplicationID: appID,
			Target:        targetStage,
			Reason:        "unknown target stage",
		}
		return nil, dErrors.Wrap(invalid, dErrors.CodeInvalidTransition, invalid.Reason)
	}

	key := appID.String()
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	record, err := s.load(ctx, appID)
	if err != nil {
		return nil, err
	}

	if record.Stage.IsTerminal() && targetStage != record.Stage {
		s.countInvalid()
		invalid := &models.InvalidTransitionError{
			ApplicationID: appID,
			From:          record.Stage,
			Target:        targetStage,
			Reason:        "application is rejected and retained for audit only",
		}
		return nil, dErrors.Wrap(invalid, dErrors.CodeInvalidTransition, invalid.Reason)
	}

	from := record.Stage
	now := requestcontext.Now(ctx)
	record.Stage = targetStage
	record.StampCheckpoint(targetStage, now)
	record.UpdatedAt = now

	if err := retry.Do(ctx, s.retry, func(ctx context.Context) error {
		return s.store.Save(ctx, record)
	}); err != nil {
		return nil, err
	}

	s.metrics.IncrementTransitions(targetStage.String())
	s.recordAudit(ctx, record, from, targetStage)
	s.logger.InfoContext(ctx, "stage transition applied",
		"request_id", requestcontext.RequestID(ctx),
		"application_id", appID,
		"from", from,
		"to", targetStage,
	)
	return record, nil
}

// TransitionResult is the per-item outcome of a bulk transition.
type TransitionResult struct {
	ApplicationID id.ApplicationID
	Record        *models.ApplicationRecord
	Err           error
}

// BulkTransition applies targetStage to each application independently.
// Best-effort: one failing item never aborts the others; cancellation stops
// processing further items but already-applied transitions stay applied.
func (s *Service) BulkTransition(ctx context.Context, appIDs []id.ApplicationID, targetStage models.Stage) []TransitionResult {
	results := make([]TransitionResult, 0, len(appIDs))
	for _, appID := range appIDs {
		if err := ctx.Err(); err != nil {
			results = append(results, TransitionResult{ApplicationID: appID, Err: err})
			continue
		}
		record, err := s.Transition(ctx, appID, targetStage)
		results = append(results, TransitionResult{ApplicationID: appID, Record: record, Err: err})
	}
	return results
}

func (s *Service) load(ctx context.Context, appID id.ApplicationID) (*models.ApplicationRecord, error) {
	var record *models.ApplicationRecord
	err := retry.Do(ctx, s.retry, func(ctx context.Context) error {
		var findErr error
		record, findErr = s.store.FindByID(ctx, appID)
		return findErr
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.countInvalid()
			invalid := &models.InvalidTransitionError{
				ApplicationID: appID,
				Reason:        "application not found",
			}
			return nil, dErrors.Wrap(invalid, dErrors.CodeInvalidTransition, invalid.Reason)
		}
		return nil, err
	}
	return record, nil
}

func (s *Service) recordAudit(ctx context.Context, record *models.ApplicationRecord, from, to models.Stage) {
	if s.auditor == nil {
		return
	}
	s.auditor.Record(ctx, audit.Event{
		Timestamp:   requestcontext.Now(ctx),
		Actor:       requestcontext.Actor(ctx),
		Action:      audit.ActionStageTransition,
		CandidateID: record.CandidateID,
		JobID:       record.JobID,
		Subject:     record.ID.String(),
		From:        from.String(),
		To:          to.String(),
	})
}

func (s *Service) countInvalid() {
	s.metrics.IncrementInvalidTransitions()
}

// Package service implements the interview scheduler: the single writer for
// InterviewRecords and the gate that keeps each candidate's bookings
// disjoint.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"talentflow/internal/audit"
	"talentflow/internal/docs"
	"talentflow/internal/interview/metrics"
	"talentflow/internal/interview/models"
	"talentflow/internal/interview/store"
	"talentflow/internal/notify"
	pipelinemodels "talentflow/internal/pipeline/models"
	id "talentflow/pkg/domain"
	dErrors "talentflow/pkg/domain-errors"
	"talentflow/pkg/platform/keylock"
	"talentflow/pkg/platform/retry"
	"talentflow/pkg/platform/sentinel"
	"talentflow/pkg/requestcontext"
)

// StageTransitioner is the pipeline engine port the scheduler advances
// applications through when an interview completes.
type StageTransitioner interface {
	Transition(ctx context.Context, appID id.ApplicationID, targetStage pipelinemodels.Stage) (*pipelinemodels.ApplicationRecord, error)
}

// ApplicationFinder resolves the application an interview belongs to.
type ApplicationFinder interface {
	FindByCandidateAndJob(ctx context.Context, candidateID id.CandidateID, jobID id.JobID) (*pipelinemodels.ApplicationRecord, error)
}

// Config carries the scheduler's tunables.
type Config struct {
	// CompletionTargetStage is the stage completing an interview advances
	// the application to.
	CompletionTargetStage pipelinemodels.Stage
	// SlotStepMinutes is the granularity of the availability grid.
	SlotStepMinutes int
	// VisibleHourStart/VisibleHourEnd bound the availability grid, in local
	// hours of the requested day. The end hour is exclusive.
	VisibleHourStart int
	VisibleHourEnd   int
	// DefaultDurationMinutes applies when a request omits duration.
	DefaultDurationMinutes int
}

// DefaultConfig mirrors the agency's working hours.
func DefaultConfig() Config {
	return Config{
		CompletionTargetStage:  pipelinemodels.StageInterviewPassed,
		SlotStepMinutes:        30,
		VisibleHourStart:       9,
		VisibleHourEnd:         18,
		DefaultDurationMinutes: models.DefaultDurationMinutes,
	}
}

type Service struct {
	store    store.InterviewStore
	apps     ApplicationFinder
	pipeline StageTransitioner
	locks    *keylock.KeyedMutex
	auditor  audit.Recorder
	notifier notify.Publisher
	attacher docs.Attacher
	logger   *slog.Logger
	metrics  *metrics.Metrics
	config   Config
	retry    retry.Config
	tracer   trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditRecorder(recorder audit.Recorder) Option {
	return func(s *Service) { s.auditor = recorder }
}

func WithNotifier(publisher notify.Publisher) Option {
	return func(s *Service) { s.notifier = publisher }
}

func WithAttacher(attacher docs.Attacher) Option {
	return func(s *Service) { s.attacher = attacher }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithConfig(cfg Config) Option {
	return func(s *Service) { s.config = cfg }
}

func WithRetryConfig(cfg retry.Config) Option {
	return func(s *Service) { s.retry = cfg }
}

func New(interviews store.InterviewStore, apps ApplicationFinder, pipeline StageTransitioner, opts ...Option) (*Service, error) {
	if interviews == nil {
		return nil, errors.New("interview store is required")
	}
	if apps == nil {
		return nil, errors.New("application finder is required")
	}
	if pipeline == nil {
		return nil, errors.New("stage transitioner is required")
	}
	svc := &Service{
		store:    interviews,
		apps:     apps,
		pipeline: pipeline,
		locks:    keylock.New(),
		notifier: notify.Noop{},
		logger:   slog.Default(),
		config:   DefaultConfig(),
		retry:    retry.DefaultConfig(),
		tracer:   otel.Tracer("talentflow/interview"),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// ScheduleRequest describes one interview to book.
type ScheduleRequest struct {
	CandidateID     id.CandidateID
	JobID           id.JobID
	ScheduledAt     time.Time
	DurationMinutes int
	Interviewer     string
	Location        models.Location
}

// Schedule books an interview for a candidate, committing only when the
// proposed interval conflicts with none of the candidate's existing
// non-cancelled interviews. Conflict check and commit run inside the same
// per-candidate critical section: two concurrent schedules for one candidate
// can never both observe an empty conflict set against a stale snapshot.
func (s *Service) Schedule(ctx context.Context, req ScheduleRequest) (*models.InterviewRecord, error) {
	ctx, span := s.tracer.Start(ctx, "interview.schedule",
		trace.WithAttributes(attribute.String("candidate_id", req.CandidateID.String())))
	defer span.End()

	if err := s.validateRequest(&req); err != nil {
		return nil, err
	}

	app, err := s.findApplication(ctx, req.CandidateID, req.JobID)
	if err != nil {
		return nil, err
	}

	key := req.CandidateID.String()
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	proposed := models.NewInterval(req.ScheduledAt, req.DurationMinutes)
	if err := s.checkConflicts(ctx, req.CandidateID, proposed, id.InterviewID{}); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	record := &models.InterviewRecord{
		ID:              id.NewInterviewID(),
		CandidateID:     req.CandidateID,
		JobID:           req.JobID,
		ApplicationID:   app.ID,
		ScheduledAt:     req.ScheduledAt,
		DurationMinutes: req.DurationMinutes,
		Interviewer:     req.Interviewer,
		Location:        req.Location,
		Status:          models.StatusScheduled,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.save(ctx, record); err != nil {
		return nil, err
	}

	s.metrics.IncrementScheduled()
	s.recordAudit(ctx, record, audit.ActionInterviewScheduled, "", record.ScheduledAt.Format(time.RFC3339))
	s.notifier.Publish(ctx, notify.Message{
		Kind:        notify.KindInterviewScheduled,
		CandidateID: record.CandidateID,
		InterviewID: record.ID,
		ScheduledAt: record.ScheduledAt,
		Location:    record.Location.String(),
	})
	s.logger.InfoContext(ctx, "interview scheduled",
		"request_id", requestcontext.RequestID(ctx),
		"interview_id", record.ID,
		"candidate_id", record.CandidateID,
		"scheduled_at", record.ScheduledAt,
	)
	return record, nil
}

// Reschedule moves an interview to newScheduledAt, re-running the conflict
// check with the interview itself excluded from the comparison set.
func (s *Service) Reschedule(ctx context.Context, interviewID id.InterviewID, newScheduledAt time.Time) (*models.InterviewRecord, error) {
	ctx, span := s.tracer.Start(ctx, "interview.reschedule")
	defer span.End()

	record, unlock, err := s.lockAndLoad(ctx, interviewID)
	if err != nil {
		return nil, err
	}
	defer unlock()
	if record.Status != models.StatusScheduled {
		return nil, dErrors.New(dErrors.CodeInvalidTransition,
			fmt.Sprintf("interview %s is %s and cannot be rescheduled", interviewID, record.Status))
	}

	proposed := models.NewInterval(newScheduledAt, record.DurationMinutes)
	if err := s.checkConflicts(ctx, record.CandidateID, proposed, record.ID); err != nil {
		return nil, err
	}

	previous := record.ScheduledAt
	record.ScheduledAt = newScheduledAt
	record.UpdatedAt = requestcontext.Now(ctx)
	if err := s.save(ctx, record); err != nil {
		return nil, err
	}

	s.recordAudit(ctx, record, audit.ActionInterviewRescheduled,
		previous.Format(time.RFC3339), newScheduledAt.Format(time.RFC3339))
	s.notifier.Publish(ctx, notify.Message{
		Kind:        notify.KindInterviewRescheduled,
		CandidateID: record.CandidateID,
		InterviewID: record.ID,
		ScheduledAt: record.ScheduledAt,
		Location:    record.Location.String(),
	})
	return record, nil
}

// Cancel releases an interview's interval. Idempotent: cancelling an
// already-cancelled interview returns the existing terminal state, never an
// error, and emits no duplicate audit event.
func (s *Service) Cancel(ctx context.Context, interviewID id.InterviewID, reason string) (*models.InterviewRecord, error) {
	ctx, span := s.tracer.Start(ctx, "interview.cancel")
	defer span.End()

	record, unlock, err := s.lockAndLoad(ctx, interviewID)
	if err != nil {
		return nil, err
	}
	defer unlock()
	if record.Status == models.StatusCancelled {
		return record, nil
	}
	if record.Status != models.StatusScheduled {
		return nil, dErrors.New(dErrors.CodeInvalidTransition,
			fmt.Sprintf("interview %s is %s and cannot be cancelled", interviewID, record.Status))
	}

	record.Status = models.StatusCancelled
	record.CancelReason = reason
	record.UpdatedAt = requestcontext.Now(ctx)
	if err := s.save(ctx, record); err != nil {
		return nil, err
	}

	s.metrics.IncrementCancellations()
	s.recordAudit(ctx, record, audit.ActionInterviewCancelled, string(models.StatusScheduled), string(models.StatusCancelled))
	s.notifier.Publish(ctx, notify.Message{
		Kind:        notify.KindInterviewCancelled,
		CandidateID: record.CandidateID,
		InterviewID: record.ID,
		ScheduledAt: record.ScheduledAt,
		Location:    record.Location.String(),
		Detail:      reason,
	})
	return record, nil
}

// Complete records the interview outcome and advances the owning
// application to the configured target stage. The interview commit and the
// stage transition share the request time, so InterviewedAt equals the
// completion time.
func (s *Service) Complete(ctx context.Context, interviewID id.InterviewID, outcome models.Outcome) (*models.InterviewRecord, error) {
	ctx, span := s.tracer.Start(ctx, "interview.complete")
	defer span.End()

	if !outcome.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "unknown interview outcome: "+string(outcome))
	}

	record, unlock, err := s.lockAndLoad(ctx, interviewID)
	if err != nil {
		return nil, err
	}
	defer unlock()
	if record.Status != models.StatusScheduled {
		return nil, dErrors.New(dErrors.CodeInvalidTransition,
			fmt.Sprintf("interview %s is %s and cannot be completed", interviewID, record.Status))
	}

	record.Status = models.StatusCompleted
	record.Result = outcome
	record.UpdatedAt = requestcontext.Now(ctx)
	if err := s.save(ctx, record); err != nil {
		return nil, err
	}

	s.metrics.IncrementCompletions(outcome.String())
	s.recordAudit(ctx, record, audit.ActionInterviewCompleted, string(models.StatusScheduled), outcome.String())
	s.attachSummary(ctx, record)

	if _, err := s.pipeline.Transition(ctx, record.ApplicationID, s.config.CompletionTargetStage); err != nil {
		// The interview is committed; surface the transition failure so the
		// operator can re-apply it, rather than pretending the pipeline moved.
		return record, dErrors.Wrap(err, dErrors.CodeOf(err), "interview completed but stage transition failed")
	}
	return record, nil
}

// MarkNoShow records that the candidate did not attend.
func (s *Service) MarkNoShow(ctx context.Context, interviewID id.InterviewID, notes string) (*models.InterviewRecord, error) {
	ctx, span := s.tracer.Start(ctx, "interview.no_show")
	defer span.End()

	record, unlock, err := s.lockAndLoad(ctx, interviewID)
	if err != nil {
		return nil, err
	}
	defer unlock()
	if record.Status != models.StatusScheduled {
		return nil, dErrors.New(dErrors.CodeInvalidTransition,
			fmt.Sprintf("interview %s is %s and cannot be marked no-show", interviewID, record.Status))
	}

	record.Status = models.StatusNoShow
	if notes != "" {
		record.Notes = notes
	}
	record.UpdatedAt = requestcontext.Now(ctx)
	if err := s.save(ctx, record); err != nil {
		return nil, err
	}

	s.recordAudit(ctx, record, audit.ActionInterviewNoShow, string(models.StatusScheduled), string(models.StatusNoShow))
	return record, nil
}

func (s *Service) validateRequest(req *ScheduleRequest) error {
	if req.CandidateID.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "candidate id is required")
	}
	if req.JobID.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "job id is required")
	}
	if req.ScheduledAt.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "scheduled time is required")
	}
	if req.DurationMinutes < 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "duration must not be negative")
	}
	if req.DurationMinutes == 0 {
		req.DurationMinutes = s.config.DefaultDurationMinutes
	}
	if !req.Location.IsValid() {
		return dErrors.New(dErrors.CodeInvalidInput, "unknown interview location: "+string(req.Location))
	}
	return nil
}

func (s *Service) findApplication(ctx context.Context, candidateID id.CandidateID, jobID id.JobID) (*pipelinemodels.ApplicationRecord, error) {
	var app *pipelinemodels.ApplicationRecord
	err := retry.Do(ctx, s.retry, func(ctx context.Context) error {
		var findErr error
		app, findErr = s.apps.FindByCandidateAndJob(ctx, candidateID, jobID)
		return findErr
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound,
				fmt.Sprintf("no application for candidate %s and job %s", candidateID, jobID))
		}
		return nil, err
	}
	return app, nil
}

// checkConflicts must run inside the candidate's critical section.
func (s *Service) checkConflicts(ctx context.Context, candidateID id.CandidateID, proposed models.Interval, exclude id.InterviewID) error {
	var existing []*models.InterviewRecord
	err := retry.Do(ctx, s.retry, func(ctx context.Context) error {
		var listErr error
		existing, listErr = s.store.ListByCandidate(ctx, candidateID)
		return listErr
	})
	if err != nil {
		return err
	}

	conflicts := models.FindConflicts(existing, proposed, exclude)
	if len(conflicts) == 0 {
		return nil
	}

	s.metrics.IncrementConflicts()
	conflictErr := &models.ConflictError{CandidateID: candidateID, Proposed: proposed, Conflicts: conflicts}
	return dErrors.Wrap(conflictErr, dErrors.CodeConflict, "candidate already booked").WithDetails(conflicts)
}

func (s *Service) load(ctx context.Context, interviewID id.InterviewID) (*models.InterviewRecord, error) {
	var record *models.InterviewRecord
	err := retry.Do(ctx, s.retry, func(ctx context.Context) error {
		var findErr error
		record, findErr = s.store.FindByID(ctx, interviewID)
		return findErr
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "interview not found: "+interviewID.String())
		}
		return nil, err
	}
	return record, nil
}

// lockAndLoad enters the owning candidate's critical section and returns a
// snapshot read under it. The first load only discovers the lock key; the
// record is re-read once the lock is held, so a status change committed
// between the two cannot be overwritten by the caller's save.
func (s *Service) lockAndLoad(ctx context.Context, interviewID id.InterviewID) (*models.InterviewRecord, func(), error) {
	record, err := s.load(ctx, interviewID)
	if err != nil {
		return nil, nil, err
	}
	key := record.CandidateID.String()
	s.locks.Lock(key)
	record, err = s.load(ctx, interviewID)
	if err != nil {
		s.locks.Unlock(key)
		return nil, nil, err
	}
	return record, func() { s.locks.Unlock(key) }, nil
}

func (s *Service) save(ctx context.Context, record *models.InterviewRecord) error {
	return retry.Do(ctx, s.retry, func(ctx context.Context) error {
		return s.store.Save(ctx, record)
	})
}

func (s *Service) recordAudit(ctx context.Context, record *models.InterviewRecord, action audit.Action, from, to string) {
	if s.auditor == nil {
		return
	}
	s.auditor.Record(ctx, audit.Event{
		Timestamp:   requestcontext.Now(ctx),
		Actor:       requestcontext.Actor(ctx),
		Action:      action,
		CandidateID: record.CandidateID,
		JobID:       record.JobID,
		Subject:     record.ID.String(),
		From:        from,
		To:          to,
		Detail:      record.CancelReason,
	})
}

// attachSummary requests an interview-summary document on the candidate's
// file. Fire-and-forget: failures are logged, never propagated.
func (s *Service) attachSummary(ctx context.Context, record *models.InterviewRecord) {
	if s.attacher == nil {
		return
	}
	meta := docs.Metadata{
		Name:        fmt.Sprintf("interview-summary-%s.txt", record.ID),
		ContentType: "text/plain",
		Reference:   "interview/" + record.ID.String(),
		CreatedAt:   requestcontext.Now(ctx),
	}
	if err := s.attacher.Attach(ctx, record.CandidateID, meta); err != nil {
		s.logger.WarnContext(ctx, "interview summary attachment failed",
			"interview_id", record.ID,
			"error", err,
		)
	}
}

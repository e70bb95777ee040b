// Package handler wires the interview scheduling endpoints to the
// scheduler service.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"talentflow/internal/interview/models"
	"talentflow/internal/interview/service"
	id "talentflow/pkg/domain"
	dErrors "talentflow/pkg/domain-errors"
	"talentflow/pkg/platform/httputil"
	"talentflow/pkg/requestcontext"
)

// Service defines the interface for scheduling operations.
type Service interface {
	Schedule(ctx context.Context, req service.ScheduleRequest) (*models.InterviewRecord, error)
	Reschedule(ctx context.Context, interviewID id.InterviewID, newScheduledAt time.Time) (*models.InterviewRecord, error)
	Cancel(ctx context.Context, interviewID id.InterviewID, reason string) (*models.InterviewRecord, error)
	Complete(ctx context.Context, interviewID id.InterviewID, outcome models.Outcome) (*models.InterviewRecord, error)
	MarkNoShow(ctx context.Context, interviewID id.InterviewID, notes string) (*models.InterviewRecord, error)
	BulkSchedule(ctx context.Context, reqs []service.ScheduleRequest) []service.BulkScheduleResult
	AvailableSlots(ctx context.Context, day time.Time, interviewer string) ([]service.Slot, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the interview endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/interviews", h.handleSchedule)
	r.Post("/interviews/bulk", h.handleBulkSchedule)
	r.Get("/interviews/slots", h.handleAvailableSlots)
	r.Post("/interviews/{interviewID}/reschedule", h.handleReschedule)
	r.Post("/interviews/{interviewID}/cancel", h.handleCancel)
	r.Post("/interviews/{interviewID}/complete", h.handleComplete)
	r.Post("/interviews/{interviewID}/no-show", h.handleNoShow)
}

func (h *Handler) handleSchedule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[ScheduleRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	domainReq, err := req.ToDomain()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	record, err := h.service.Schedule(ctx, domainReq)
	if err != nil {
		h.writeServiceError(ctx, w, requestID, "schedule interview", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, record)
}

func (h *Handler) handleBulkSchedule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[BulkScheduleRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	items, err := req.ToDomain()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	reqs := make([]service.ScheduleRequest, 0, len(items))
	for _, item := range items {
		if item.Err == nil {
			reqs = append(reqs, item.Request)
		}
	}
	results := h.service.BulkSchedule(ctx, reqs)
	httputil.WriteJSON(w, http.StatusMultiStatus, NewBulkScheduleResponse(items, results))
}

func (h *Handler) handleAvailableSlots(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	dayParam := r.URL.Query().Get("day")
	day, err := time.Parse("2006-01-02", dayParam)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "day must be formatted YYYY-MM-DD"))
		return
	}

	slots, err := h.service.AvailableSlots(ctx, day, r.URL.Query().Get("interviewer"))
	if err != nil {
		h.writeServiceError(ctx, w, requestcontext.RequestID(ctx), "list available slots", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"day": dayParam, "slots": slots})
}

func (h *Handler) handleReschedule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	interviewID, ok := h.interviewID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[RescheduleRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	if req.ScheduledAt.IsZero() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "scheduled_at is required"))
		return
	}

	record, err := h.service.Reschedule(ctx, interviewID, req.ScheduledAt)
	if err != nil {
		h.writeServiceError(ctx, w, requestID, "reschedule interview", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, record)
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	interviewID, ok := h.interviewID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[CancelRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	record, err := h.service.Cancel(ctx, interviewID, req.Reason)
	if err != nil {
		h.writeServiceError(ctx, w, requestID, "cancel interview", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, record)
}

func (h *Handler) handleComplete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	interviewID, ok := h.interviewID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[CompleteRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	outcome, err := models.ParseOutcome(req.Outcome)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	record, err := h.service.Complete(ctx, interviewID, outcome)
	if err != nil {
		h.writeServiceError(ctx, w, requestID, "complete interview", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, record)
}

func (h *Handler) handleNoShow(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	interviewID, ok := h.interviewID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[NoShowRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	record, err := h.service.MarkNoShow(ctx, interviewID, req.Notes)
	if err != nil {
		h.writeServiceError(ctx, w, requestID, "mark no-show", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, record)
}

func (h *Handler) interviewID(w http.ResponseWriter, r *http.Request) (id.InterviewID, bool) {
	interviewID, err := id.ParseInterviewID(chi.URLParam(r, "interviewID"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.InterviewID{}, false
	}
	return interviewID, true
}

func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, requestID, op string, err error) {
	switch dErrors.CodeOf(err) {
	case dErrors.CodeInternal, dErrors.CodeDependencyFailure:
		h.logger.ErrorContext(ctx, op+" failed",
			"request_id", requestID,
			"error", err.Error(),
		)
	default:
		h.logger.WarnContext(ctx, op+" rejected",
			"request_id", requestID,
			"error", err.Error(),
		)
	}
	httputil.WriteError(w, err)
}

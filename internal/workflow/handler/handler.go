// Package handler exposes the workflow views and the pipeline analytics.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"talentflow/internal/analytics"
	pipelinemodels "talentflow/internal/pipeline/models"
	"talentflow/internal/workflow"
	dErrors "talentflow/pkg/domain-errors"
	"talentflow/pkg/platform/httputil"
	"talentflow/pkg/requestcontext"
)

// WorkflowService defines the interface for the presentation views.
type WorkflowService interface {
	ListByJob(ctx context.Context, stage pipelinemodels.Stage, page, pageSize int) (workflow.Page[workflow.JobGroup], error)
	SearchCandidates(ctx context.Context, stage pipelinemodels.Stage, query string, page, pageSize int) (workflow.Page[workflow.CandidateRow], error)
}

// AnalyticsService defines the interface for the pipeline aggregate.
type AnalyticsService interface {
	Snapshot(ctx context.Context) (analytics.Summary, error)
}

type Handler struct {
	workflow  WorkflowService
	analytics AnalyticsService
	logger    *slog.Logger
}

func New(workflowService WorkflowService, analyticsService AnalyticsService, logger *slog.Logger) *Handler {
	return &Handler{workflow: workflowService, analytics: analyticsService, logger: logger}
}

// Register mounts the read endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/analytics", h.handleAnalytics)
	r.Get("/applications", h.handleListByJob)
	r.Get("/candidates/search", h.handleSearchCandidates)
}

func (h *Handler) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	summary, err := h.analytics.Snapshot(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "analytics snapshot failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) handleListByJob(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stage, page, pageSize, err := viewParams(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.workflow.ListByJob(ctx, stage, page, pageSize)
	if err != nil {
		h.writeViewError(ctx, w, "list by job", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleSearchCandidates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stage, page, pageSize, err := viewParams(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.workflow.SearchCandidates(ctx, stage, r.URL.Query().Get("q"), page, pageSize)
	if err != nil {
		h.writeViewError(ctx, w, "search candidates", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func viewParams(r *http.Request) (pipelinemodels.Stage, int, int, error) {
	query := r.URL.Query()

	var stage pipelinemodels.Stage
	if raw := query.Get("stage"); raw != "" {
		parsed, err := pipelinemodels.ParseStage(raw)
		if err != nil {
			return "", 0, 0, err
		}
		stage = parsed
	}

	page, err := positiveIntParam(query.Get("page"), "page")
	if err != nil {
		return "", 0, 0, err
	}
	pageSize, err := positiveIntParam(query.Get("page_size"), "page_size")
	if err != nil {
		return "", 0, 0, err
	}
	return stage, page, pageSize, nil
}

func positiveIntParam(raw, name string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return 0, dErrors.New(dErrors.CodeInvalidInput, name+" must be a positive integer")
	}
	return value, nil
}

func (h *Handler) writeViewError(ctx context.Context, w http.ResponseWriter, op string, err error) {
	if dErrors.CodeOf(err) == dErrors.CodeInvalidInput {
		h.logger.WarnContext(ctx, op+" rejected",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
	} else {
		h.logger.ErrorContext(ctx, op+" failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
	}
	httputil.WriteError(w, err)
}

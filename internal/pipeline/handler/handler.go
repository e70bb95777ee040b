// Package handler wires the stage transition endpoints to the pipeline
// service.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"talentflow/internal/pipeline/models"
	"talentflow/internal/pipeline/service"
	id "talentflow/pkg/domain"
	dErrors "talentflow/pkg/domain-errors"
	"talentflow/pkg/platform/httputil"
	"talentflow/pkg/requestcontext"
)

// Service defines the interface for stage transition operations.
type Service interface {
	Transition(ctx context.Context, appID id.ApplicationID, targetStage models.Stage) (*models.ApplicationRecord, error)
	BulkTransition(ctx context.Context, appIDs []id.ApplicationID, targetStage models.Stage) []service.TransitionResult
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the pipeline endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/applications/{applicationID}/transition", h.handleTransition)
	r.Post("/applications/transition", h.handleBulkTransition)
}

func (h *Handler) handleTransition(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	appID, err := id.ParseApplicationID(chi.URLParam(r, "applicationID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[TransitionRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	stage, err := models.ParseStage(req.TargetStage)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	record, err := h.service.Transition(ctx, appID, stage)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeDependencyFailure) || dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "stage transition failed",
				"request_id", requestID,
				"application_id", appID,
				"error", err.Error(),
			)
		} else {
			h.logger.WarnContext(ctx, "stage transition rejected",
				"request_id", requestID,
				"application_id", appID,
				"error", err.Error(),
			)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, record)
}

func (h *Handler) handleBulkTransition(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[BulkTransitionRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	appIDs, stage, err := req.ToDomain()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	results := h.service.BulkTransition(ctx, appIDs, stage)
	httputil.WriteJSON(w, http.StatusMultiStatus, NewBulkTransitionResponse(results))
}

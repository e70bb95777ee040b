package handler

import (
	"talentflow/internal/pipeline/models"
	"talentflow/internal/pipeline/service"
	id "talentflow/pkg/domain"
	dErrors "talentflow/pkg/domain-errors"
)

type TransitionRequest struct {
	TargetStage string `json:"target_stage"`
}

type BulkTransitionRequest struct {
	ApplicationIDs []string `json:"application_ids"`
	TargetStage    string   `json:"target_stage"`
}

func (r BulkTransitionRequest) ToDomain() ([]id.ApplicationID, models.Stage, error) {
	if len(r.ApplicationIDs) == 0 {
		return nil, "", dErrors.New(dErrors.CodeInvalidInput, "application_ids must not be empty")
	}
	stage, err := models.ParseStage(r.TargetStage)
	if err != nil {
		return nil, "", err
	}
	appIDs := make([]id.ApplicationID, 0, len(r.ApplicationIDs))
	for _, raw := range r.ApplicationIDs {
		appID, err := id.ParseApplicationID(raw)
		if err != nil {
			return nil, "", err
		}
		appIDs = append(appIDs, appID)
	}
	return appIDs, stage, nil
}

// BulkTransitionItem is the wire form of one batch result.
type BulkTransitionItem struct {
	ApplicationID string                    `json:"application_id"`
	Application   *models.ApplicationRecord `json:"application,omitempty"`
	Error         string                    `json:"error,omitempty"`
}

type BulkTransitionResponse struct {
	Applied int                  `json:"applied"`
	Failed  int                  `json:"failed"`
	Results []BulkTransitionItem `json:"results"`
}

func NewBulkTransitionResponse(results []service.TransitionResult) BulkTransitionResponse {
	resp := BulkTransitionResponse{Results: make([]BulkTransitionItem, 0, len(results))}
	for _, result := range results {
		item := BulkTransitionItem{
			ApplicationID: result.ApplicationID.String(),
			Application:   result.Record,
		}
		if result.Err != nil {
			item.Error = result.Err.Error()
			resp.Failed++
		} else {
			resp.Applied++
		}
		resp.Results = append(resp.Results, item)
	}
	return resp
}

package handler

import (
	"time"

	"talentflow/internal/interview/models"
	"talentflow/internal/interview/service"
	id "talentflow/pkg/domain"
	dErrors "talentflow/pkg/domain-errors"
)

// ScheduleRequest is the wire form of a booking request.
type ScheduleRequest struct {
	CandidateID     string    `json:"candidate_id"`
	JobID           string    `json:"job_id"`
	ScheduledAt     time.Time `json:"scheduled_at"`
	DurationMinutes int       `json:"duration_minutes"`
	Interviewer     string    `json:"interviewer"`
	Location        string    `json:"location"`
}

// ToDomain validates identifiers and enum fields.
func (r ScheduleRequest) ToDomain() (service.ScheduleRequest, error) {
	candidateID, err := id.ParseCandidateID(r.CandidateID)
	if err != nil {
		return service.ScheduleRequest{}, err
	}
	jobID, err := id.ParseJobID(r.JobID)
	if err != nil {
		return service.ScheduleRequest{}, err
	}
	location := models.LocationOffice
	if r.Location != "" {
		location, err = models.ParseLocation(r.Location)
		if err != nil {
			return service.ScheduleRequest{}, err
		}
	}
	return service.ScheduleRequest{
		CandidateID:     candidateID,
		JobID:           jobID,
		ScheduledAt:     r.ScheduledAt,
		DurationMinutes: r.DurationMinutes,
		Interviewer:     r.Interviewer,
		Location:        location,
	}, nil
}

// BulkScheduleRequest books several interviews in one call.
type BulkScheduleRequest struct {
	Interviews []ScheduleRequest `json:"interviews"`
}

// BulkItem pairs one batch entry with its parse outcome. An entry that fails
// to parse keeps its position in the batch so the response can report it per
// item; it never aborts the others.
type BulkItem struct {
	CandidateID string
	Request     service.ScheduleRequest
	Err         error
}

func (r BulkScheduleRequest) ToDomain() ([]BulkItem, error) {
	if len(r.Interviews) == 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "interviews must not be empty")
	}
	items := make([]BulkItem, 0, len(r.Interviews))
	for _, entry := range r.Interviews {
		domainReq, err := entry.ToDomain()
		items = append(items, BulkItem{CandidateID: entry.CandidateID, Request: domainReq, Err: err})
	}
	return items, nil
}

type RescheduleRequest struct {
	ScheduledAt time.Time `json:"scheduled_at"`
}

type CancelRequest struct {
	Reason string `json:"reason"`
}

type CompleteRequest struct {
	Outcome string `json:"outcome"`
}

type NoShowRequest struct {
	Notes string `json:"notes"`
}

// BulkScheduleItem is the wire form of one batch result.
type BulkScheduleItem struct {
	CandidateID string                  `json:"candidate_id"`
	Interview   *models.InterviewRecord `json:"interview,omitempty"`
	Error       string                  `json:"error,omitempty"`
}

// BulkScheduleResponse summarises a batch.
type BulkScheduleResponse struct {
	Scheduled int                `json:"scheduled"`
	Failed    int                `json:"failed"`
	Results   []BulkScheduleItem `json:"results"`
}

// NewBulkScheduleResponse merges parse failures and service results back into
// the batch's original order. Entries that never reached the service carry
// their parse error; the rest consume service results positionally.
func NewBulkScheduleResponse(items []BulkItem, results []service.BulkScheduleResult) BulkScheduleResponse {
	resp := BulkScheduleResponse{Results: make([]BulkScheduleItem, 0, len(items))}
	next := 0
	for _, batched := range items {
		if batched.Err != nil {
			resp.Results = append(resp.Results, BulkScheduleItem{
				CandidateID: batched.CandidateID,
				Error:       batched.Err.Error(),
			})
			resp.Failed++
			continue
		}
		result := results[next]
		next++
		item := BulkScheduleItem{
			CandidateID: result.CandidateID.String(),
			Interview:   result.Interview,
		}
		if result.Err != nil {
			item.Error = result.Err.Error()
			resp.Failed++
		} else {
			resp.Scheduled++
		}
		resp.Results = append(resp.Results, item)
	}
	return resp
}

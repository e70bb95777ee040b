// Package store persists InterviewRecords. Implementations return sentinel
// errors for factual states (sentinel.ErrNotFound when a record is missing)
// and never produce domain errors themselves.
package store

import (
	"context"
	"time"

	"talentflow/internal/interview/models"
	id "talentflow/pkg/domain"
)

type InterviewStore interface {
	// Save upserts the record keyed by its InterviewID.
	Save(ctx context.Context, record *models.InterviewRecord) error
	FindByID(ctx context.Context, interviewID id.InterviewID) (*models.InterviewRecord, error)
	// ListByCandidate returns every record for the candidate, any status.
	ListByCandidate(ctx context.Context, candidateID id.CandidateID) ([]*models.InterviewRecord, error)
	// ListOnDate returns records whose ScheduledAt falls on the given calendar
	// day in the day's location. interviewer filters when non-empty.
	ListOnDate(ctx context.Context, day time.Time, interviewer string) ([]*models.InterviewRecord, error)
}

// Package store persists ApplicationRecords.
//
// Stores are interface-driven to keep the domain logic testable and to allow
// swapping in-memory and PostgreSQL persistence without rewiring business
// code. Implementations return sentinel errors for factual states; they never
// produce domain errors themselves.
package store

import (
	"context"

	"talentflow/internal/pipeline/models"
	id "talentflow/pkg/domain"
)

type ApplicationStore interface {
	// Save upserts the record keyed by its ApplicationID.
	Save(ctx context.Context, record *models.ApplicationRecord) error
	// FindByID returns sentinel.ErrNotFound when the record does not exist.
	FindByID(ctx context.Context, appID id.ApplicationID) (*models.ApplicationRecord, error)
	// FindByCandidateAndJob locates the application a candidate filed for a job.
	FindByCandidateAndJob(ctx context.Context, candidateID id.CandidateID, jobID id.JobID) (*models.ApplicationRecord, error)
	// List returns the complete, unfiltered record set.
	List(ctx context.Context) ([]*models.ApplicationRecord, error)
}

// Package models defines the application pipeline records and their
// invariants. ApplicationRecords are mutated only through the transition
// service; everything else reads them.
package models

import (
	"time"

	id "talentflow/pkg/domain"
)

// ApplicationRecord tracks one candidate's application to one job as it
// moves through the pipeline.
//
// Invariants:
//   - Stage is always a member of the closed stage set.
//   - Checkpoint timestamps, when present, satisfy
//     ShortlistedAt <= InterviewedAt <= DecisionAt; they are assigned only
//     forward in wall-clock time and never backdated or overwritten.
//   - Records are never deleted; rejection is terminal-but-retained.
type ApplicationRecord struct {
	ID            id.ApplicationID `json:"id"`
	CandidateID   id.CandidateID   `json:"candidate_id"`
	JobID         id.JobID         `json:"job_id"`
	Stage         Stage            `json:"stage"`
	AppliedAt     time.Time        `json:"applied_at"`
	ShortlistedAt *time.Time       `json:"shortlisted_at,omitempty"`
	InterviewedAt *time.Time       `json:"interviewed_at,omitempty"`
	DecisionAt    *time.Time       `json:"decision_at,omitempty"`
	Notes         string           `json:"notes,omitempty"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// Clone returns a deep copy so readers never alias store-owned memory.
func (r *ApplicationRecord) Clone() *ApplicationRecord {
	clone := *r
	clone.ShortlistedAt = cloneTime(r.ShortlistedAt)
	clone.InterviewedAt = cloneTime(r.InterviewedAt)
	clone.DecisionAt = cloneTime(r.DecisionAt)
	return &clone
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// StampCheckpoint records the audit timestamp matching a checkpoint stage.
// Stamps are monotonic: once set they are never moved, and a stamp is taken
// at `now` only when the field is still empty. Non-checkpoint stages leave
// all fields untouched.
//
// Checkpoint mapping:
//   - shortlisted            -> ShortlistedAt
//   - interview-passed       -> InterviewedAt
//   - ready-to-fly, rejected -> DecisionAt
func (r *ApplicationRecord) StampCheckpoint(target Stage, now time.Time) {
	switch target {
	case StageShortlisted:
		if r.ShortlistedAt == nil {
			r.ShortlistedAt = &now
		}
	case StageInterviewPassed:
		if r.InterviewedAt == nil {
			r.InterviewedAt = &now
		}
	case StageReadyToFly, StageRejected:
		if r.DecisionAt == nil {
			r.DecisionAt = &now
		}
	}
}

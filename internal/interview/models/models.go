// Package models defines interview records, their status machine, and the
// interval-overlap primitives the scheduler gates on.
package models

import (
	"time"

	id "talentflow/pkg/domain"
	dErrors "talentflow/pkg/domain-errors"
)

// InterviewStatus is the closed status set. Records are append-only audit
// trail: status transitions happen in place, hard deletes never.
type InterviewStatus string

const (
	StatusScheduled InterviewStatus = "scheduled"
	StatusCompleted InterviewStatus = "completed"
	StatusCancelled InterviewStatus = "cancelled"
	StatusNoShow    InterviewStatus = "no_show"
)

func (s InterviewStatus) IsValid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// IsTerminal reports whether the status admits no further transitions.
// Scheduled interviews can still be rescheduled, cancelled, completed, or
// marked no-show; everything else is final.
func (s InterviewStatus) IsTerminal() bool {
	return s != StatusScheduled
}

func (s InterviewStatus) String() string { return string(s) }

// Location is where an interview takes place.
type Location string

const (
	LocationOffice     Location = "office"
	LocationVideo      Location = "video"
	LocationPhone      Location = "phone"
	LocationClientSite Location = "client-site"
)

func (l Location) IsValid() bool {
	switch l {
	case LocationOffice, LocationVideo, LocationPhone, LocationClientSite:
		return true
	}
	return false
}

func (l Location) String() string { return string(l) }

// ParseLocation validates a location identifier from a trust boundary.
func ParseLocation(s string) (Location, error) {
	l := Location(s)
	if !l.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown interview location: "+s)
	}
	return l, nil
}

// Outcome is the recorded result of a completed interview.
type Outcome string

const (
	OutcomePassed  Outcome = "passed"
	OutcomeFailed  Outcome = "failed"
	OutcomePending Outcome = "pending"
)

func (o Outcome) IsValid() bool {
	switch o {
	case OutcomePassed, OutcomeFailed, OutcomePending:
		return true
	}
	return false
}

func (o Outcome) String() string { return string(o) }

// ParseOutcome validates an outcome identifier from a trust boundary.
func ParseOutcome(s string) (Outcome, error) {
	o := Outcome(s)
	if !o.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown interview outcome: "+s)
	}
	return o, nil
}

// DefaultDurationMinutes applies when a schedule request omits duration.
const DefaultDurationMinutes = 60

// InterviewRecord is owned exclusively by the scheduler service.
//
// Invariant: for a fixed CandidateID, the half-open intervals
// [ScheduledAt, ScheduledAt+Duration) of all non-cancelled records are
// pairwise disjoint.
type InterviewRecord struct {
	ID              id.InterviewID   `json:"id"`
	CandidateID     id.CandidateID   `json:"candidate_id"`
	JobID           id.JobID         `json:"job_id"`
	ApplicationID   id.ApplicationID `json:"application_id"`
	ScheduledAt     time.Time        `json:"scheduled_at"`
	DurationMinutes int              `json:"duration_minutes"`
	Interviewer     string           `json:"interviewer"`
	Location        Location         `json:"location"`
	Status          InterviewStatus  `json:"status"`
	Result          Outcome          `json:"result,omitempty"`
	CancelReason    string           `json:"cancel_reason,omitempty"`
	Notes           string           `json:"notes,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// Interval returns the half-open booking interval of the record.
func (r *InterviewRecord) Interval() Interval {
	return NewInterval(r.ScheduledAt, r.DurationMinutes)
}

// Clone returns a copy so readers never alias store-owned memory.
func (r *InterviewRecord) Clone() *InterviewRecord {
	clone := *r
	return &clone
}

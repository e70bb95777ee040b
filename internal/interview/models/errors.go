package models

import (
	"fmt"
	"strings"

	id "talentflow/pkg/domain"
)

// ConflictError reports a temporal overlap between a proposed interval and
// a candidate's existing non-cancelled interviews. It is a first-class
// return value, not an exception for control flow: the operation was not
// committed, and the payload carries the conflicting records so callers can
// present them specifically.
type ConflictError struct {
	CandidateID id.CandidateID
	Proposed    Interval
	Conflicts   []*InterviewRecord
}

func (e *ConflictError) Error() string {
	parts := make([]string, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		parts = append(parts, fmt.Sprintf("%s at %s", c.ID, c.ScheduledAt.Format("2006-01-02T15:04")))
	}
	return fmt.Sprintf("candidate %s already booked: proposed [%s, %s) overlaps %s",
		e.CandidateID,
		e.Proposed.Start.Format("2006-01-02T15:04"),
		e.Proposed.End.Format("2006-01-02T15:04"),
		strings.Join(parts, ", "))
}

package models

import (
	"fmt"

	id "talentflow/pkg/domain"
)

// InvalidTransitionError names the record and target that made a transition
// invalid so callers can report failures specifically, never generically.
// It is a first-class return value, not control flow by panic.
type InvalidTransitionError struct {
	ApplicationID id.ApplicationID
	From          Stage
	Target        Stage
	Reason        string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition for application %s: %s -> %s: %s",
		e.ApplicationID, e.From, e.Target, e.Reason)
}

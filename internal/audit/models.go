package audit

import (
	"time"

	id "talentflow/pkg/domain"
)

// Action classifies an audit event.
type Action string

const (
	ActionStageTransition      Action = "stage_transition"
	ActionInterviewScheduled   Action = "interview_scheduled"
	ActionInterviewRescheduled Action = "interview_rescheduled"
	ActionInterviewCancelled   Action = "interview_cancelled"
	ActionInterviewCompleted   Action = "interview_completed"
	ActionInterviewNoShow      Action = "interview_no_show"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp   time.Time      `json:"timestamp"`
	Actor       string         `json:"actor"`
	Action      Action         `json:"action"`
	CandidateID id.CandidateID `json:"candidate_id"`
	JobID       id.JobID       `json:"job_id,omitempty"`
	Subject     string         `json:"subject"` // application or interview id
	From        string         `json:"from,omitempty"`
	To          string         `json:"to,omitempty"`
	Detail      string         `json:"detail,omitempty"`
}

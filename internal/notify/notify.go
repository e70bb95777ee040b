// Package notify enqueues interview lifecycle notifications for external
// delivery. Delivery itself (email/SMS) is out of scope: the core only
// publishes, fire-and-forget, and a failed enqueue never fails the domain
// write that produced it.
package notify

import (
	"context"
	"time"

	id "talentflow/pkg/domain"
)

// Kind classifies a notification message.
type Kind string

const (
	KindInterviewScheduled   Kind = "interview_scheduled"
	KindInterviewRescheduled Kind = "interview_rescheduled"
	KindInterviewCancelled   Kind = "interview_cancelled"
)

// Message is the payload handed to the delivery pipeline.
type Message struct {
	Kind        Kind           `json:"kind"`
	CandidateID id.CandidateID `json:"candidate_id"`
	InterviewID id.InterviewID `json:"interview_id"`
	ScheduledAt time.Time      `json:"scheduled_at"`
	Location    string         `json:"location"`
	Detail      string         `json:"detail,omitempty"`
}

// Publisher enqueues messages. Implementations must not block domain writes.
type Publisher interface {
	Publish(ctx context.Context, msg Message)
}

// Noop discards messages; wired when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, Message) {}

// Package domain holds identifier primitives shared across bounded contexts.
//
// IDs are distinct UUID types so the compiler rejects passing a CandidateID
// where a JobID is expected. Parsing enforces the invariant "IDs must be
// valid, non-empty, non-nil UUIDs" at trust boundaries; internal code
// constructs IDs with NewXID and never re-validates.
package domain

import (
	"github.com/google/uuid"

	dErrors "talentflow/pkg/domain-errors"
)

type (
	// CandidateID identifies a candidate across applications and interviews.
	CandidateID uuid.UUID
	// JobID identifies a job posting.
	JobID uuid.UUID
	// ApplicationID identifies one candidate's application to one job.
	ApplicationID uuid.UUID
	// InterviewID identifies a scheduled interview.
	InterviewID uuid.UUID
)

func parseUUID(s, kind string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" id must not be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid "+kind+" id")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" id must not be the nil UUID")
	}
	return u, nil
}

func NewCandidateID() CandidateID     { return CandidateID(uuid.New()) }
func NewJobID() JobID                 { return JobID(uuid.New()) }
func NewApplicationID() ApplicationID { return ApplicationID(uuid.New()) }
func NewInterviewID() InterviewID     { return InterviewID(uuid.New()) }

func ParseCandidateID(s string) (CandidateID, error) {
	u, err := parseUUID(s, "candidate")
	return CandidateID(u), err
}

func ParseJobID(s string) (JobID, error) {
	u, err := parseUUID(s, "job")
	return JobID(u), err
}

func ParseApplicationID(s string) (ApplicationID, error) {
	u, err := parseUUID(s, "application")
	return ApplicationID(u), err
}

func ParseInterviewID(s string) (InterviewID, error) {
	u, err := parseUUID(s, "interview")
	return InterviewID(u), err
}

func (id CandidateID) String() string   { return uuid.UUID(id).String() }
func (id JobID) String() string         { return uuid.UUID(id).String() }
func (id ApplicationID) String() string { return uuid.UUID(id).String() }
func (id InterviewID) String() string   { return uuid.UUID(id).String() }

func (id CandidateID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id JobID) IsNil() bool         { return uuid.UUID(id) == uuid.Nil }
func (id ApplicationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id InterviewID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }

// MarshalText implementations keep IDs JSON-encoded as plain UUID strings.
func (id CandidateID) MarshalText() ([]byte, error)   { return []byte(id.String()), nil }
func (id JobID) MarshalText() ([]byte, error)         { return []byte(id.String()), nil }
func (id ApplicationID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id InterviewID) MarshalText() ([]byte, error)   { return []byte(id.String()), nil }

func (id *CandidateID) UnmarshalText(b []byte) error {
	parsed, err := ParseCandidateID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *JobID) UnmarshalText(b []byte) error {
	parsed, err := ParseJobID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *ApplicationID) UnmarshalText(b []byte) error {
	parsed, err := ParseApplicationID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *InterviewID) UnmarshalText(b []byte) error {
	parsed, err := ParseInterviewID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

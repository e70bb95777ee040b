package models

import (
	dErrors "talentflow/pkg/domain-errors"
)

// Stage is one step of the candidate pipeline. The set is closed: the
// fifteen ordered progression stages plus the lateral terminal
// StageRejected, reachable from any non-terminal stage.
type Stage string

const (
	StageApplied            Stage = "applied"
	StageShortlisted        Stage = "shortlisted"
	StageInterviewScheduled Stage = "interview-scheduled"
	StageInterviewPassed    Stage = "interview-passed"
	StageMedicalScheduled   Stage = "medical-scheduled"
	StageMedicalPassed      Stage = "medical-passed"
	StageVisaApplication    Stage = "visa-application"
	StageVisaApproved       Stage = "visa-approved"
	StagePoliceClearance    Stage = "police-clearance"
	StageEmbassyAttestation Stage = "embassy-attestation"
	StageTravelDocuments    Stage = "travel-documents"
	StageFlightBooking      Stage = "flight-booking"
	StagePreDeparture       Stage = "pre-departure"
	StageDeparted           Stage = "departed"
	StageReadyToFly         Stage = "ready-to-fly"
	StageRejected           Stage = "rejected"
)

// stageOrder defines the progression ordering. StageRejected is lateral and
// deliberately absent.
var stageOrder = map[Stage]int{
	StageApplied:            1,
	StageShortlisted:        2,
	StageInterviewScheduled: 3,
	StageInterviewPassed:    4,
	StageMedicalScheduled:   5,
	StageMedicalPassed:      6,
	StageVisaApplication:    7,
	StageVisaApproved:       8,
	StagePoliceClearance:    9,
	StageEmbassyAttestation: 10,
	StageTravelDocuments:    11,
	StageFlightBooking:      12,
	StagePreDeparture:       13,
	StageDeparted:           14,
	StageReadyToFly:         15,
}

// PipelineStages lists the fifteen progression stages in order, rejected
// excluded. Analytics iterates this to produce stable per-stage counts.
var PipelineStages = []Stage{
	StageApplied,
	StageShortlisted,
	StageInterviewScheduled,
	StageInterviewPassed,
	StageMedicalScheduled,
	StageMedicalPassed,
	StageVisaApplication,
	StageVisaApproved,
	StagePoliceClearance,
	StageEmbassyAttestation,
	StageTravelDocuments,
	StageFlightBooking,
	StagePreDeparture,
	StageDeparted,
	StageReadyToFly,
}

// ParseStage validates a stage identifier from a trust boundary.
func ParseStage(s string) (Stage, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "stage must not be empty")
	}
	stage := Stage(s)
	if !stage.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidTransition, "unknown stage: "+s)
	}
	return stage, nil
}

// IsValid checks membership in the closed stage set (including rejected).
func (s Stage) IsValid() bool {
	if s == StageRejected {
		return true
	}
	_, ok := stageOrder[s]
	return ok
}

// IsTerminal reports whether no further transition may leave this stage.
// Rejected applications are retained for audit but never resurrected.
func (s Stage) IsTerminal() bool {
	return s == StageRejected
}

// Order returns the progression position of s, and false for rejected or
// unknown stages.
func (s Stage) Order() (int, bool) {
	n, ok := stageOrder[s]
	return n, ok
}

func (s Stage) String() string { return string(s) }

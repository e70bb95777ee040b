// Package directory holds the agency's master data: the candidates on file
// and the jobs being recruited for. The pipeline and scheduler reference
// these records by id; the workflow views join against them for display and
// search.
package directory

import (
	"time"

	id "talentflow/pkg/domain"
)

// Candidate is a person on the agency's books.
type Candidate struct {
	ID             id.CandidateID `json:"id"`
	FullName       string         `json:"full_name"`
	Email          string         `json:"email"`
	Phone          string         `json:"phone"`
	PassportNumber string         `json:"passport_number"`
	Nationality    string         `json:"nationality"`
	CreatedAt      time.Time      `json:"created_at"`
}

// Clone returns a copy so readers never alias store-owned memory.
func (c *Candidate) Clone() *Candidate {
	clone := *c
	return &clone
}

// Job is an open position a client is hiring for.
type Job struct {
	ID        id.JobID  `json:"id"`
	Title     string    `json:"title"`
	Client    string    `json:"client"`
	Country   string    `json:"country"`
	Openings  int       `json:"openings"`
	CreatedAt time.Time `json:"created_at"`
}

func (j *Job) Clone() *Job {
	clone := *j
	return &clone
}

// Package workflow assembles the back-office views over the application
// pipeline: applications grouped by job, and a searchable flat candidate
// list. It joins pipeline records with directory master data for display;
// it never writes.
package workflow

import (
	"talentflow/internal/directory"
	pipelinemodels "talentflow/internal/pipeline/models"
	id "talentflow/pkg/domain"
)

// Tab selects which presentation mode a view is showing.
type Tab string

const (
	TabByJob       Tab = "by-job"
	TabByCandidate Tab = "by-candidate"
)

func (t Tab) IsValid() bool {
	return t == TabByJob || t == TabByCandidate
}

// CandidateRow is one application decorated with the display fields the
// back office searches on.
type CandidateRow struct {
	Application *pipelinemodels.ApplicationRecord `json:"application"`
	Candidate   *directory.Candidate              `json:"candidate,omitempty"`
	JobTitle    string                            `json:"job_title,omitempty"`
}

// JobGroup is every displayed application for one job.
type JobGroup struct {
	JobID        id.JobID       `json:"job_id"`
	Job          *directory.Job `json:"job,omitempty"`
	Applications []CandidateRow `json:"applications"`
}

// Page carries one slice of a paginated result set. TotalItems counts the
// units being paged over: job groups in by-job mode, candidates in
// by-candidate mode.
type Page[T any] struct {
	Items      []T `json:"items"`
	PageNumber int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// paginate slices items to [(page-1)*size, page*size). Pages past the end
// are empty, never an error.
func paginate[T any](items []T, page, size int) Page[T] {
	total := len(items)
	totalPages := (total + size - 1) / size

	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}

	return Page[T]{
		Items:      items[start:end],
		PageNumber: page,
		PageSize:   size,
		TotalItems: total,
		TotalPages: totalPages,
	}
}

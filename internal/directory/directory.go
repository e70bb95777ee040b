package directory

import (
	"context"
	"sync"

	id "talentflow/pkg/domain"
	"talentflow/pkg/platform/sentinel"
)

// CandidateDirectory resolves candidate master data.
type CandidateDirectory interface {
	FindCandidate(ctx context.Context, candidateID id.CandidateID) (*Candidate, error)
	ListCandidates(ctx context.Context) ([]*Candidate, error)
}

// JobDirectory resolves job master data.
type JobDirectory interface {
	FindJob(ctx context.Context, jobID id.JobID) (*Job, error)
	ListJobs(ctx context.Context) ([]*Job, error)
}

// InMemoryCandidateDirectory is the map-backed directory used in tests and
// single-node deployments.
type InMemoryCandidateDirectory struct {
	mu         sync.RWMutex
	candidates map[id.CandidateID]*Candidate
}

func NewInMemoryCandidateDirectory() *InMemoryCandidateDirectory {
	return &InMemoryCandidateDirectory{candidates: make(map[id.CandidateID]*Candidate)}
}

// Put upserts a candidate record.
func (d *InMemoryCandidateDirectory) Put(candidate *Candidate) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.candidates[candidate.ID] = candidate.Clone()
}

func (d *InMemoryCandidateDirectory) FindCandidate(_ context.Context, candidateID id.CandidateID) (*Candidate, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	candidate, ok := d.candidates[candidateID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return candidate.Clone(), nil
}

func (d *InMemoryCandidateDirectory) ListCandidates(_ context.Context) ([]*Candidate, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*Candidate, 0, len(d.candidates))
	for _, candidate := range d.candidates {
		out = append(out, candidate.Clone())
	}
	return out, nil
}

// InMemoryJobDirectory is the map-backed job directory.
type InMemoryJobDirectory struct {
	mu   sync.RWMutex
	jobs map[id.JobID]*Job
}

func NewInMemoryJobDirectory() *InMemoryJobDirectory {
	return &InMemoryJobDirectory{jobs: make(map[id.JobID]*Job)}
}

func (d *InMemoryJobDirectory) Put(job *Job) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.jobs[job.ID] = job.Clone()
}

func (d *InMemoryJobDirectory) FindJob(_ context.Context, jobID id.JobID) (*Job, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	job, ok := d.jobs[jobID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return job.Clone(), nil
}

func (d *InMemoryJobDirectory) ListJobs(_ context.Context) ([]*Job, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*Job, 0, len(d.jobs))
	for _, job := range d.jobs {
		out = append(out, job.Clone())
	}
	return out, nil
}

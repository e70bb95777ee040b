// Package docs exposes the document-attachment collaborator. The core only
// requests attachments; storage and retrieval live elsewhere.
package docs

import (
	"context"
	"sync"
	"time"

	id "talentflow/pkg/domain"
)

// Metadata describes a document to attach to a candidate's file.
type Metadata struct {
	Name        string    `json:"name"`
	ContentType string    `json:"content_type"`
	Reference   string    `json:"reference"` // external storage key, opaque here
	CreatedAt   time.Time `json:"created_at"`
}

// Attacher is the collaborator port. Attach is an idempotent append: calling
// it twice with the same reference adds the document once.
type Attacher interface {
	Attach(ctx context.Context, candidateID id.CandidateID, meta Metadata) error
}

// InMemoryAttacher records attachments for tests and local runs.
type InMemoryAttacher struct {
	mu   sync.RWMutex
	byID map[id.CandidateID][]Metadata
}

func NewInMemoryAttacher() *InMemoryAttacher {
	return &InMemoryAttacher{byID: make(map[id.CandidateID][]Metadata)}
}

func (a *InMemoryAttacher) Attach(_ context.Context, candidateID id.CandidateID, meta Metadata) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, existing := range a.byID[candidateID] {
		if existing.Reference == meta.Reference {
			return nil
		}
	}
	a.byID[candidateID] = append(a.byID[candidateID], meta)
	return nil
}

// List returns the attachments recorded for a candidate.
func (a *InMemoryAttacher) List(candidateID id.CandidateID) []Metadata {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]Metadata{}, a.byID[candidateID]...)
}

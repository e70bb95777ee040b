// Package faultinject supplies injectable store fault strategies.
//
// The in-memory stores accept an Injector so tests (and demos) can provoke
// transient failures deterministically. Production wiring passes nil; core
// logic never contains hard-coded randomness.
package faultinject

import (
	"sync"

	"talentflow/pkg/platform/sentinel"
)

// Injector decides whether a store operation should fail before it runs.
// Implementations must be safe for concurrent use.
type Injector interface {
	// Fail returns a non-nil error when the named operation should fail.
	Fail(op string) error
}

// Check is a nil-safe helper for stores.
func Check(inj Injector, op string) error {
	if inj == nil {
		return nil
	}
	return inj.Fail(op)
}

// Script fails a fixed number of upcoming calls per operation name, in call
// order. Deterministic: the same script against the same call sequence
// produces the same failures.
type Script struct {
	mu        sync.Mutex
	remaining map[string]int
}

// NewScript returns a Script that fails the next `failures[op]` calls of
// each listed operation with sentinel.ErrUnavailable.
func NewScript(failures map[string]int) *Script {
	remaining := make(map[string]int, len(failures))
	for op, n := range failures {
		remaining[op] = n
	}
	return &Script{remaining: remaining}
}

func (s *Script) Fail(op string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.remaining[op] > 0 {
		s.remaining[op]--
		return sentinel.ErrUnavailable
	}
	return nil
}

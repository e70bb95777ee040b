// Package audit captures the append-only trail of pipeline and interview
// actions. Records are retained forever; rejection and cancellation keep
// their history.
package audit

import (
	"context"
	"log/slog"
	"time"
)

// Recorder is the narrow interface services emit through. The concrete
// Publisher fans events out to the buffered worker; tests use the in-memory
// store directly.
type Recorder interface {
	Record(ctx context.Context, event Event)
}

// Publisher enqueues audit events onto a buffered channel drained by Worker.
// Emission never blocks domain writes: when the buffer is full the event is
// logged and dropped, and the drop is counted by the worker's metrics.
type Publisher struct {
	inbox  chan<- Event
	logger *slog.Logger
}

func NewPublisher(inbox chan<- Event, logger *slog.Logger) *Publisher {
	return &Publisher{inbox: inbox, logger: logger}
}

func (p *Publisher) Record(ctx context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case p.inbox <- event:
	default:
		p.logger.WarnContext(ctx, "audit buffer full, dropping event",
			"action", event.Action,
			"subject", event.Subject,
		)
	}
}

// SyncRecorder appends straight to a store, for tests and CLI wiring where
// no worker is running.
type SyncRecorder struct {
	store  Store
	logger *slog.Logger
}

func NewSyncRecorder(store Store, logger *slog.Logger) *SyncRecorder {
	return &SyncRecorder{store: store, logger: logger}
}

func (r *SyncRecorder) Record(ctx context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if err := r.store.Append(ctx, event); err != nil {
		r.logger.ErrorContext(ctx, "audit append failed",
			"action", event.Action,
			"subject", event.Subject,
			"error", err,
		)
	}
}

package audit

import (
	"context"
	"log/slog"
)

// Worker consumes audit events from a channel and persists them. It keeps
// background processing testable without wiring queue implementations.
type Worker struct {
	store  Store
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(store Store, inbox <-chan Event, logger *slog.Logger) *Worker {
	return &Worker{store: store, inbox: inbox, logger: logger}
}

// Run drains the inbox until ctx is cancelled. Append failures are logged
// and the worker keeps going; the audit trail is best-effort by design but
// never silently lossy.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			// Drain whatever is already buffered before exiting.
			for {
				select {
				case event := <-w.inbox:
					w.append(context.Background(), event)
				default:
					return ctx.Err()
				}
			}
		case event := <-w.inbox:
			w.append(ctx, event)
		}
	}
}

func (w *Worker) append(ctx context.Context, event Event) {
	if err := w.store.Append(ctx, event); err != nil {
		w.logger.ErrorContext(ctx, "audit append failed",
			"action", event.Action,
			"subject", event.Subject,
			"error", err,
		)
	}
}

// Package retry wraps store calls with a bounded timeout and bounded,
// backed-off retries.
//
// Transient infrastructure failures are retried; factual outcomes
// (not found, invalid state, conflicts) pass through untouched. Exhausted
// retries surface as a dependency_failure domain error so callers never see
// a raw driver error and nothing retries indefinitely.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	dErrors "talentflow/pkg/domain-errors"
	"talentflow/pkg/platform/sentinel"
)

// Config bounds a single store call.
type Config struct {
	MaxAttempts     int           // total attempts including the first
	Timeout         time.Duration // per-call deadline covering all attempts
	InitialInterval time.Duration // first backoff delay
}

// DefaultConfig keeps store calls short and bounded.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:     3,
		Timeout:         2 * time.Second,
		InitialInterval: 25 * time.Millisecond,
	}
}

// Do runs op under cfg. op receives a context carrying the bounded deadline.
func Do(ctx context.Context, cfg Config, op func(ctx context.Context) error) error {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	exp := backoff.NewExponentialBackOff()
	if cfg.InitialInterval > 0 {
		exp.InitialInterval = cfg.InitialInterval
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(exp, uint64(cfg.MaxAttempts-1)), ctx)

	err := backoff.Retry(func() error {
		if err := op(ctx); err != nil {
			if !retryable(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		return nil
	}, policy)
	if err == nil {
		return nil
	}
	if !retryable(err) {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeDependencyFailure, "store unavailable after retries")
}

// retryable reports whether an error represents a transient infrastructure
// fault. Factual sentinels and already-coded domain errors are final.
func retryable(err error) bool {
	switch {
	case errors.Is(err, sentinel.ErrNotFound),
		errors.Is(err, sentinel.ErrConflict),
		errors.Is(err, sentinel.ErrInvalidState):
		return false
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	}
	var de *dErrors.Error
	if errors.As(err, &de) && de.Code != dErrors.CodeDependencyFailure {
		return false
	}
	return true
}

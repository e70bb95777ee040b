package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "talentflow/pkg/domain-errors"
	"talentflow/pkg/platform/sentinel"
)

func fastConfig() Config {
	return Config{MaxAttempts: 3, Timeout: time.Second, InitialInterval: time.Millisecond}
}

func TestDo_SucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastConfig(), func(ctx context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_RetriesTransientThenSucceeds(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastConfig(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return sentinel.ErrUnavailable
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_ExhaustionSurfacesDependencyFailure(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastConfig(), func(ctx context.Context) error {
		calls++
		return sentinel.ErrUnavailable
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeDependencyFailure))
	assert.True(t, errors.Is(err, sentinel.ErrUnavailable))
}

func TestDo_NotFoundIsNotRetried(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastConfig(), func(ctx context.Context) error {
		calls++
		return sentinel.ErrNotFound
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.True(t, errors.Is(err, sentinel.ErrNotFound))
	assert.False(t, dErrors.HasCode(err, dErrors.CodeDependencyFailure))
}

func TestDo_DomainErrorsAreFinal(t *testing.T) {
	calls := 0
	coded := dErrors.New(dErrors.CodeInvalidTransition, "unknown stage")
	err := Do(context.Background(), fastConfig(), func(ctx context.Context) error {
		calls++
		return coded
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidTransition))
}

func TestDo_HonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Do(ctx, fastConfig(), func(ctx context.Context) error {
		return sentinel.ErrUnavailable
	})
	require.Error(t, err)
}

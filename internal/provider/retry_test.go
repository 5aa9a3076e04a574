package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryRateLimited_SucceedsAfterBackoff(t *testing.T) {
	calls := 0
	got, err := retryRateLimited(context.Background(), func() (string, error) {
		calls++
		if calls < 3 {
			return "", &Error{Kind: KindRateLimited, Provider: "test"}
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 3, calls)
}

func TestRetryRateLimited_PermanentErrorNotRetried(t *testing.T) {
	calls := 0
	_, err := retryRateLimited(context.Background(), func() (string, error) {
		calls++
		return "", &Error{Kind: KindAuth, Provider: "test"}
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls, "non-rate-limit failures must not be retried")

	var perr *Error
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, KindAuth, perr.Kind)
}

func TestRetryRateLimited_BoundedAttempts(t *testing.T) {
	calls := 0
	_, err := retryRateLimited(context.Background(), func() (string, error) {
		calls++
		return "", &Error{Kind: KindRateLimited, Provider: "test"}
	})

	require.Error(t, err)
	assert.LessOrEqual(t, calls, maxAttempts)

	var perr *Error
	require.True(t, errors.As(err, &perr), "exhausted retries must surface the provider error, got %v", err)
	assert.Equal(t, KindRateLimited, perr.Kind)
}

func TestRetryRateLimited_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := retryRateLimited(ctx, func() (string, error) {
			calls++
			return "", &Error{Kind: KindRateLimited, Provider: "test"}
		})
		assert.Error(t, err)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("retry did not stop after context cancellation")
	}
}

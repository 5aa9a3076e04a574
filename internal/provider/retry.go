package provider

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/paulwelden/git-ranger/pkg/logging"
)

const (
	maxAttempts          = 4
	initialRetryInterval = 500 * time.Millisecond
)

// retryRateLimited runs op, retrying with exponential backoff while the
// provider reports rate limiting. A server-specified Retry-After overrides
// the computed interval. Every other failure is permanent and propagates
// immediately.
func retryRateLimited[T any](ctx context.Context, op func() (T, error)) (T, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = initialRetryInterval

	var lastRateLimit *Error
	v, err := backoff.Retry(ctx, func() (T, error) {
		v, err := op()
		if err == nil {
			return v, nil
		}
		var perr *Error
		if errors.As(err, &perr) && perr.Kind == KindRateLimited {
			lastRateLimit = perr
			logging.Warn("Provider", "%s rate limited, backing off (retry-after %s)",
				perr.Provider, perr.RetryAfter)
			if perr.RetryAfter > 0 {
				return v, &backoff.RetryAfterError{Duration: perr.RetryAfter}
			}
			return v, err
		}
		return v, backoff.Permanent(err)
	}, backoff.WithBackOff(bo), backoff.WithMaxTries(maxAttempts))

	// Surface the classified rate-limit error rather than backoff's
	// bookkeeping error once attempts are exhausted.
	if err != nil && lastRateLimit != nil {
		var perr *Error
		if !errors.As(err, &perr) {
			return v, lastRateLimit
		}
	}
	return v, err
}

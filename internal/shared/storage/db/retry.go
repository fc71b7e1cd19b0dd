package db

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"talent-backend/internal/shared/telemetry"
)

const retryBaseDelay = 100 * time.Millisecond

// RetryPolicy bounds storage calls: each attempt gets Timeout, and transient
// failures are retried at most Retries times.
type RetryPolicy struct {
	Timeout time.Duration
	Retries int
}

// DefaultRetryPolicy is applied when callers pass a zero policy.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Timeout: 5 * time.Second, Retries: 2}
}

// Retry runs fn under the policy with exponential backoff. Errors that are
// not transient are returned immediately and unmodified.
func Retry(ctx context.Context, policy RetryPolicy, op string, fn func(ctx context.Context) error) error {
	if policy.Timeout <= 0 && policy.Retries <= 0 {
		policy = DefaultRetryPolicy()
	}
	if policy.Retries < 0 {
		policy.Retries = 0
	}

	backoff := retry.WithMaxRetries(uint64(policy.Retries), retry.NewExponential(retryBaseDelay))
	attempt := 0
	return retry.Do(ctx, backoff, func(rctx context.Context) error {
		attempt++
		err := runAttempt(rctx, policy.Timeout, fn)
		if err == nil || !IsTransient(err) || ctx.Err() != nil {
			return err
		}
		if attempt <= policy.Retries {
			telemetry.Info("storage.retry", map[string]any{
				"op":      op,
				"attempt": attempt,
				"error":   err.Error(),
			})
		}
		return retry.RetryableError(err)
	})
}

func runAttempt(ctx context.Context, timeout time.Duration, fn func(ctx context.Context) error) error {
	if timeout <= 0 {
		return fn(ctx)
	}
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return fn(attemptCtx)
}

// IsTransient reports whether err is worth retrying at the storage boundary.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "unexpected eof")
}

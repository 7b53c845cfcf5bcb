// Package retry is the single place outbound failure-tolerance policy lives:
// bounded exponential backoff over HTTP calls, with status classification and
// cancellation-aware early exit.
package retry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"slices"
	"time"
)

// DefaultRetryableStatuses are retried by every caller unless overridden
var DefaultRetryableStatuses = []int{
	http.StatusTooManyRequests,
	http.StatusInternalServerError,
	http.StatusBadGateway,
	http.StatusServiceUnavailable,
	http.StatusGatewayTimeout,
}

// Config controls the retry loop. MaxRetries is the total attempt budget,
// so MaxRetries=3 means at most three calls of the operation.
type Config struct {
	MaxRetries        int           `mapstructure:"max_retries"`
	InitialDelay      time.Duration `mapstructure:"initial_delay"`
	MaxDelay          time.Duration `mapstructure:"max_delay"`
	RetryableStatuses []int         `mapstructure:"retryable_statuses"`

	// OnRetry, when set, is called before each backoff wait with the number
	// of the attempt that just failed.
	OnRetry func(attempt int, delay time.Duration, err error) `mapstructure:"-"`
}

// DefaultConfig returns the policy shared by source adapters
func DefaultConfig() Config {
	return Config{
		MaxRetries:        3,
		InitialDelay:      500 * time.Millisecond,
		MaxDelay:          5 * time.Second,
		RetryableStatuses: slices.Clone(DefaultRetryableStatuses),
	}
}

// NoRetry performs a single attempt
func NoRetry() Config {
	return Config{MaxRetries: 1, RetryableStatuses: slices.Clone(DefaultRetryableStatuses)}
}

// WithStatuses returns a copy of c that also retries the given statuses
func (c Config) WithStatuses(extra ...int) Config {
	statuses := slices.Clone(c.RetryableStatuses)
	if len(statuses) == 0 {
		statuses = slices.Clone(DefaultRetryableStatuses)
	}
	for _, s := range extra {
		if !slices.Contains(statuses, s) {
			statuses = append(statuses, s)
		}
	}
	c.RetryableStatuses = statuses
	return c
}

// IsRetryable reports whether status should be attempted again
func (c Config) IsRetryable(status int) bool {
	if len(c.RetryableStatuses) == 0 {
		return slices.Contains(DefaultRetryableStatuses, status)
	}
	return slices.Contains(c.RetryableStatuses, status)
}

// Backoff returns the wait after the given zero-based attempt:
// min(InitialDelay * 2^attempt, MaxDelay).
func (c Config) Backoff(attempt int) time.Duration {
	if c.InitialDelay <= 0 {
		return 0
	}
	delay := c.InitialDelay
	for i := 0; i < attempt; i++ {
		delay *= 2
		if c.MaxDelay > 0 && delay >= c.MaxDelay {
			return c.MaxDelay
		}
		if delay <= 0 { // overflow
			return c.MaxDelay
		}
	}
	if c.MaxDelay > 0 && delay > c.MaxDelay {
		return c.MaxDelay
	}
	return delay
}

// StatusError is returned when every attempt ended in a retryable status
type StatusError struct {
	StatusCode int
	Attempts   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("retryable status %d after %d attempts", e.StatusCode, e.Attempts)
}

// Operation performs one outbound call
type Operation func(ctx context.Context) (*http.Response, error)

type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as one that no further attempt can fix. Do returns the
// wrapped error at once.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Do runs op under the retry policy.
//
// A response whose status is not retryable is returned as is, 2xx or not.
// Context cancellation, a transport timeout or a Permanent error is returned
// immediately. Any other transport error is retried with backoff, and the
// last error is returned once the budget is spent.
func Do(ctx context.Context, cfg Config, op Operation) (*http.Response, error) {
	attempts := cfg.MaxRetries
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		resp, err := op(ctx)
		switch {
		case err != nil:
			var perm *permanentError
			if errors.As(err, &perm) {
				return nil, perm.err
			}
			if isCancellation(ctx, err) {
				return nil, err
			}
			lastErr = err
		case cfg.IsRetryable(resp.StatusCode):
			discard(resp)
			lastErr = &StatusError{StatusCode: resp.StatusCode, Attempts: attempt + 1}
		default:
			return resp, nil
		}

		if attempt == attempts-1 {
			break
		}

		delay := cfg.Backoff(attempt)
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt+1, delay, lastErr)
		}
		if err := wait(ctx, delay); err != nil {
			return nil, err
		}
	}

	return nil, lastErr
}

func isCancellation(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return true
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// discard drains a bounded amount of the body so the connection can be reused
func discard(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	_, _ = io.CopyN(io.Discard, resp.Body, 64<<10)
	_ = resp.Body.Close()
}

package registry

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"veridoc/internal/fingerprint"
	registrymetrics "veridoc/internal/registry/metrics"
	"veridoc/internal/registry/models"
	"veridoc/pkg/platform/sentinel"
)

// RetryPolicy bounds retries of unavailable lookups. Only
// sentinel.ErrUnavailable is retried; not-found is a definitive answer and
// returns immediately.
type RetryPolicy struct {
	// MaxAttempts is the total number of tries, first call included.
	MaxAttempts int
	// Backoff is the wait after the first failure; it doubles per attempt.
	Backoff time.Duration
}

// DefaultRetryPolicy matches the configured production defaults.
var DefaultRetryPolicy = RetryPolicy{MaxAttempts: 3, Backoff: 200 * time.Millisecond}

// Retrying decorates a Client with the bounded-retry policy. Appends are not
// retried: a duplicate conflict is terminal, and retrying an append whose
// outcome is unknown could double-issue.
type Retrying struct {
	next    Client
	policy  RetryPolicy
	logger  *slog.Logger
	metrics *registrymetrics.Metrics
	// sleep is swapped in tests to avoid real waits.
	sleep func(context.Context, time.Duration) error
}

// RetryOption configures a Retrying client.
type RetryOption func(*Retrying)

func WithRetryLogger(logger *slog.Logger) RetryOption {
	return func(r *Retrying) {
		r.logger = logger
	}
}

func WithRetryMetrics(m *registrymetrics.Metrics) RetryOption {
	return func(r *Retrying) {
		r.metrics = m
	}
}

// withSleep overrides the backoff wait. Test hook.
func withSleep(sleep func(context.Context, time.Duration) error) RetryOption {
	return func(r *Retrying) {
		r.sleep = sleep
	}
}

// NewRetrying wraps next with the given policy.
func NewRetrying(next Client, policy RetryPolicy, opts ...RetryOption) *Retrying {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	r := &Retrying{next: next, policy: policy, sleep: sleepCtx}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Lookup retries unavailable errors with doubling backoff until the policy
// is exhausted, then returns the last error.
func (r *Retrying) Lookup(ctx context.Context, fp fingerprint.Fingerprint) (*models.Record, error) {
	backoff := r.policy.Backoff
	start := time.Now()
	defer func() { r.metrics.ObserveLookup(time.Since(start)) }()

	var lastErr error
	for attempt := 1; attempt <= r.policy.MaxAttempts; attempt++ {
		record, err := r.next.Lookup(ctx, fp)
		if err == nil {
			return record, nil
		}
		if !errors.Is(err, sentinel.ErrUnavailable) {
			return nil, err
		}
		lastErr = err

		if attempt == r.policy.MaxAttempts {
			break
		}
		r.metrics.IncrementRetries()
		if r.logger != nil {
			r.logger.WarnContext(ctx, "registry unavailable, retrying lookup",
				"fingerprint", fp.Hex(),
				"attempt", attempt,
				"backoff", backoff,
			)
		}
		if err := r.sleep(ctx, backoff); err != nil {
			return nil, sentinel.ErrUnavailable
		}
		backoff *= 2
	}
	return nil, lastErr
}

// Append passes through; conflicts and unavailability surface unchanged.
func (r *Retrying) Append(ctx context.Context, record *models.Record) (*models.Receipt, error) {
	receipt, err := r.next.Append(ctx, record)
	if errors.Is(err, sentinel.ErrConflict) {
		r.metrics.IncrementAppendConflict()
	}
	return receipt, err
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

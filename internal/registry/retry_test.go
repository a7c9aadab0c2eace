package registry

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veridoc/internal/fingerprint"
	"veridoc/internal/registry/models"
	"veridoc/pkg/platform/sentinel"
)

// flakyClient fails lookups with ErrUnavailable until failuresLeft reaches
// zero, then answers from record.
type flakyClient struct {
	failuresLeft atomic.Int32
	record       *models.Record
	lookups      atomic.Int32
}

func (c *flakyClient) Lookup(_ context.Context, fp fingerprint.Fingerprint) (*models.Record, error) {
	c.lookups.Add(1)
	if c.failuresLeft.Add(-1) >= 0 {
		return nil, sentinel.ErrUnavailable
	}
	if c.record == nil || c.record.Fingerprint != fp {
		return nil, sentinel.ErrNotFound
	}
	return c.record, nil
}

func (c *flakyClient) Append(_ context.Context, record *models.Record) (*models.Receipt, error) {
	return &models.Receipt{Fingerprint: record.Fingerprint}, nil
}

func noSleep(context.Context, time.Duration) error { return nil }

func testFingerprint(t *testing.T, content string) fingerprint.Fingerprint {
	t.Helper()
	fp, err := fingerprint.Compute(strings.NewReader(content))
	require.NoError(t, err)
	return fp
}

func TestRetrying_RecoversWithinBudget(t *testing.T) {
	fp := testFingerprint(t, "retry me")
	next := &flakyClient{record: &models.Record{Fingerprint: fp}}
	next.failuresLeft.Store(2)

	client := NewRetrying(next, RetryPolicy{MaxAttempts: 3, Backoff: time.Millisecond}, withSleep(noSleep))

	record, err := client.Lookup(context.Background(), fp)
	require.NoError(t, err)
	assert.Equal(t, fp, record.Fingerprint)
	assert.Equal(t, int32(3), next.lookups.Load())
}

func TestRetrying_ExhaustedSurfacesUnavailable(t *testing.T) {
	fp := testFingerprint(t, "always down")
	next := &flakyClient{}
	next.failuresLeft.Store(100)

	client := NewRetrying(next, RetryPolicy{MaxAttempts: 3, Backoff: time.Millisecond}, withSleep(noSleep))

	_, err := client.Lookup(context.Background(), fp)
	require.ErrorIs(t, err, sentinel.ErrUnavailable)
	assert.Equal(t, int32(3), next.lookups.Load(), "retries must be bounded")
}

func TestRetrying_NotFoundIsNotRetried(t *testing.T) {
	next := &flakyClient{}
	client := NewRetrying(next, RetryPolicy{MaxAttempts: 5, Backoff: time.Millisecond}, withSleep(noSleep))

	_, err := client.Lookup(context.Background(), testFingerprint(t, "unknown"))
	require.ErrorIs(t, err, sentinel.ErrNotFound)
	assert.Equal(t, int32(1), next.lookups.Load(), "a definitive answer must not be retried")
}

func TestRetrying_BackoffDoubles(t *testing.T) {
	fp := testFingerprint(t, "backoff")
	next := &flakyClient{record: &models.Record{Fingerprint: fp}}
	next.failuresLeft.Store(2)

	var waits []time.Duration
	recordSleep := func(_ context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}
	client := NewRetrying(next, RetryPolicy{MaxAttempts: 3, Backoff: 100 * time.Millisecond}, withSleep(recordSleep))

	_, err := client.Lookup(context.Background(), fp)
	require.NoError(t, err)
	require.Len(t, waits, 2)
	assert.Equal(t, 100*time.Millisecond, waits[0])
	assert.Equal(t, 200*time.Millisecond, waits[1])
}

func TestRetrying_CancelledContextStopsRetrying(t *testing.T) {
	fp := testFingerprint(t, "cancelled")
	next := &flakyClient{}
	next.failuresLeft.Store(100)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	client := NewRetrying(next, RetryPolicy{MaxAttempts: 5, Backoff: time.Hour})

	start := time.Now()
	_, err := client.Lookup(ctx, fp)
	require.ErrorIs(t, err, sentinel.ErrUnavailable)
	assert.Less(t, time.Since(start), time.Second, "cancelled context must not wait out the backoff")
}

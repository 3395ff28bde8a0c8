package gsheets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts:    attempts,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
	}
}

func TestRetryable(t *testing.T) {
	assert.True(t, retryable(&statusError{code: http.StatusTooManyRequests}))
	assert.True(t, retryable(&statusError{code: http.StatusBadGateway}))
	assert.False(t, retryable(&statusError{code: http.StatusForbidden}))
	assert.False(t, retryable(&statusError{code: http.StatusNotFound}))
	assert.False(t, retryable(assert.AnError))
}

func TestWithRetry_SucceedsAfterPushback(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), fastRetry(3), "values", func() error {
		calls++
		if calls < 3 {
			return &statusError{code: http.StatusTooManyRequests}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetry_StopsOnPermanentError(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), fastRetry(3), "values", func() error {
		calls++
		return &statusError{code: http.StatusForbidden}
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestWithRetry_ExhaustsAttempts(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), fastRetry(3), "append", func() error {
		calls++
		return &statusError{code: http.StatusServiceUnavailable}
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetry_ContextCancelStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	err := withRetry(ctx, fastRetry(5), "values", func() error {
		calls++
		cancel()
		return &statusError{code: http.StatusServiceUnavailable}
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestWithRetry_ZeroConfigRunsOnce(t *testing.T) {
	calls := 0
	_ = withRetry(context.Background(), RetryConfig{}, "values", func() error {
		calls++
		return &statusError{code: http.StatusServiceUnavailable}
	})
	assert.Equal(t, 1, calls)
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			http.Error(w, `{"error":{"code":503}}`, http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"values":[["timestamp_utc","date","player","event","quote","implied_probability"]]}`))
	}))
	defer srv.Close()

	c, err := NewClient([]byte(testCreds), "doc-1",
		WithBaseURL(srv.URL),
		WithHTTPClient(srv.Client()),
		WithRateLimit(1000, 1000),
		WithRetry(fastRetry(3)))
	require.NoError(t, err)

	rows, err := c.Values(context.Background(), "quotes")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, int32(3), hits.Load())
}

package gsheets

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// RetryConfig controls retries of spreadsheet calls with exponential
// backoff and jitter. The zero value disables retries.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts, first try included.
	MaxAttempts int

	// InitialBackoff is the base delay before the first retry.
	InitialBackoff time.Duration

	// MaxBackoff caps the backoff duration.
	MaxBackoff time.Duration
}

// DefaultRetryConfig suits the Sheets API's per-minute quota behavior.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     15 * time.Second,
	}
}

// statusError carries the HTTP status of a failed API call so the retry
// loop can tell quota pushback (429, 5xx) from real request errors.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.code, e.body)
}

// retryable reports whether an attempt is worth repeating: quota pushback,
// server-side failures and network timeouts are; 4xx rejections are not.
func retryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code == http.StatusTooManyRequests || se.code >= 500
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	return false
}

// withRetry runs fn up to cfg.MaxAttempts times, backing off between
// attempts. Context cancellation stops the loop immediately.
func withRetry(ctx context.Context, cfg RetryConfig, op string, fn func() error) error {
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil || !retryable(lastErr) || attempt >= attempts-1 {
			return lastErr
		}

		zap.L().Warn("retrying spreadsheet call",
			zap.String("operation", op),
			zap.Int("attempt", attempt+1),
			zap.Error(lastErr))

		timer := time.NewTimer(backoff(attempt, cfg))
		select {
		case <-ctx.Done():
			timer.Stop()
			return lastErr
		case <-timer.C:
		}
	}
	return lastErr
}

// backoff doubles the delay per attempt, capped, with ±25% jitter.
func backoff(attempt int, cfg RetryConfig) time.Duration {
	base := cfg.InitialBackoff
	if base <= 0 {
		base = 500 * time.Millisecond
	}
	maxDelay := cfg.MaxBackoff
	if maxDelay <= 0 {
		maxDelay = 15 * time.Second
	}

	delay := float64(base) * math.Pow(2, float64(attempt))
	if delay > float64(maxDelay) {
		delay = float64(maxDelay)
	}
	delay += (rand.Float64()*0.5 - 0.25) * delay
	if delay < 0 {
		delay = 0
	}
	return time.Duration(delay)
}

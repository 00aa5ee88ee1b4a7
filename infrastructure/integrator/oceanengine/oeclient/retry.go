package oeclient

import (
	"context"
	"math/rand"
	"time"
)

// RetryPolicy controls the backoff loop for throttled and transport-failed
// requests. Delays double per attempt, capped at MaxDelay, with ±30% jitter
// to keep retries from aligning across advertisers.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

func defaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 6,
		BaseDelay:   1 * time.Second,
		MaxDelay:    20 * time.Second,
	}
}

// Backoff returns the delay before the given retry. attempt is zero-based:
// the delay taken after the first failed request is Backoff(0).
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	delay := p.BaseDelay << uint(attempt)
	if delay > p.MaxDelay || delay <= 0 {
		delay = p.MaxDelay
	}
	// Jitter in [0.7, 1.3].
	factor := 0.7 + rand.Float64()*0.6
	return time.Duration(float64(delay) * factor)
}

// sleep waits for d or until the context is cancelled.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

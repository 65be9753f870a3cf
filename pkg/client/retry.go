package client

import (
	"context"
	"fmt"
	"time"
)

// RetryPolicy is the single backoff policy applied to transiently-failing
// reads. One policy object is shared by every call site instead of each
// caller rolling its own loop.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

func NewRetryPolicy(maxAttempts int, baseDelay time.Duration) RetryPolicy {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if baseDelay <= 0 {
		baseDelay = 500 * time.Millisecond
	}
	return RetryPolicy{MaxAttempts: maxAttempts, BaseDelay: baseDelay}
}

// Do runs fn up to MaxAttempts times with exponential backoff between
// attempts. It stops early when ctx is cancelled; the in-flight result is
// simply discarded. The last failure is returned as a hard error — there is
// deliberately no fallback value.
func (p RetryPolicy) Do(ctx context.Context, op string, fn func() error) error {
	var lastErr error

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if attempt == p.MaxAttempts {
			break
		}

		delay := p.BaseDelay << (attempt - 1)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", op, p.MaxAttempts, lastErr)
}

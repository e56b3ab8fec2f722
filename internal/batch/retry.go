package batch

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"
)

// RetryPolicy is an explicit retry schedule applied only around external
// service calls, never around business logic. Retryable classifies an error
// as transient; a nil Retryable retries everything.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Retryable   func(error) bool
}

// DefaultRetryPolicy mirrors the submit-call defaults: three retries with
// exponential backoff between 1s and 8s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		MaxDelay:    8 * time.Second,
	}
}

// Do runs fn until it succeeds, the error classifies as permanent, the
// attempt budget runs out, or ctx is cancelled. Delays grow exponentially
// with jitter and are capped at MaxDelay.
func (p RetryPolicy) Do(ctx context.Context, log *slog.Logger, op string, fn func(context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = fn(ctx)
		if err == nil {
			return nil
		}
		if p.Retryable != nil && !p.Retryable(err) {
			return err
		}
		if attempt == attempts {
			break
		}

		delay := p.delay(attempt)
		log.WarnContext(ctx, "retrying external call",
			"op", op,
			"attempt", attempt,
			"max_attempts", attempts,
			"delay", delay,
			"error", err)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("%s interrupted during retry delay: %w", op, ctx.Err())
		}
	}
	return fmt.Errorf("%s failed after %d attempt(s): %w", op, attempts, err)
}

func (p RetryPolicy) delay(attempt int) time.Duration {
	base := p.BaseDelay
	if base <= 0 {
		base = time.Second
	}
	d := time.Duration(float64(base) * math.Pow(2, float64(attempt-1)))
	if p.MaxDelay > 0 && d > p.MaxDelay {
		d = p.MaxDelay
	}
	// jitter between 0.5x and 1.0x
	return time.Duration(float64(d) * (0.5 + rand.Float64()*0.5))
}

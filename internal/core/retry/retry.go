// Package retry provides a bounded retry policy for backend calls.
//
// The policy object carries the attempt budget and backoff schedule,
// and takes its sleep function as a field so tests can run retries
// without real delays.
package retry

import (
	"context"
	"fmt"
	"time"
)

// Policy defines a bounded retry schedule.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the
	// first one.
	MaxAttempts int

	// Backoff lists the waits between consecutive attempts.
	// Backoff[0] applies after the first failure. A schedule shorter
	// than MaxAttempts-1 repeats its last entry.
	Backoff []time.Duration

	// Sleep waits for the given duration, honouring context
	// cancellation. Defaults to a timer-based wait; tests inject
	// their own.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Default is the retry policy for answer-generation calls:
// three attempts with 1s and 2s between them.
func Default() Policy {
	return Policy{
		MaxAttempts: 3,
		Backoff:     []time.Duration{time.Second, 2 * time.Second},
	}
}

// Do invokes fn until it succeeds or the attempt budget is spent.
// The last error is returned wrapped with the attempt count.
// A context cancellation during backoff aborts immediately.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, p.backoffFor(attempt-1)); err != nil {
				return err
			}
		}
		if lastErr = fn(ctx); lastErr == nil {
			return nil
		}
	}
	return fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}

// backoffFor returns the wait before attempt i+2.
func (p Policy) backoffFor(i int) time.Duration {
	if len(p.Backoff) == 0 {
		return 0
	}
	if i >= len(p.Backoff) {
		i = len(p.Backoff) - 1
	}
	return p.Backoff[i]
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
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

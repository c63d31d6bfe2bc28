// Package retry provides a bounded, fixed-delay retry policy for outbound
// network calls.
package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/teampilot/internal/logger"
)

// DefaultAttempts is the default total number of attempts, including the first.
const DefaultAttempts = 3

// DefaultDelay is the default pause between attempts.
const DefaultDelay = time.Second

// Policy retries an operation a bounded number of times with a fixed delay
// between attempts. The zero value uses DefaultAttempts and DefaultDelay.
type Policy struct {
	// Attempts is the total number of attempts, including the first.
	Attempts int

	// Delay is the pause between consecutive attempts.
	Delay time.Duration
}

// Do runs fn until it succeeds or the attempt budget is spent. Each failure
// is logged under op; the last failure is returned wrapped with op and the
// attempt count. Cancelling ctx during a pause stops retrying and returns
// the context error.
func (p Policy) Do(ctx context.Context, op string, fn func() error) error {
	attempts := p.Attempts
	if attempts <= 0 {
		attempts = DefaultAttempts
	}

	delay := p.Delay
	if delay == 0 {
		delay = DefaultDelay
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}

		logger.Warn("%s failed (attempt %d/%d): %v", op, attempt, attempts, err)

		if attempt == attempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return fmt.Errorf("%s after %d attempts: %w", op, attempts, err)
}

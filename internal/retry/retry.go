// Package retry runs connection attempts with exponential backoff, for
// backends that may still be starting when the daemon comes up.
package retry

import (
	"context"
	"fmt"
	"time"
)

// Options configures Do.
type Options struct {
	// MaxAttempts is the maximum number of attempts (default: 30)
	MaxAttempts int
	// InitialDelay is the delay before the first retry (default: 1s)
	InitialDelay time.Duration
	// MaxDelay caps the delay between attempts (default: 10s)
	MaxDelay time.Duration
}

// DefaultOptions returns defaults suited to waiting on a freshly started
// container.
func DefaultOptions() Options {
	return Options{
		MaxAttempts:  30,
		InitialDelay: 1 * time.Second,
		MaxDelay:     10 * time.Second,
	}
}

// Backoff is the delay after the given 1-based attempt.
func Backoff(attempt int, initial, maxDelay time.Duration) time.Duration {
	delay := initial * time.Duration(1<<(attempt-1))
	if delay > maxDelay || delay <= 0 {
		delay = maxDelay
	}
	return delay
}

// Do calls fn until it returns nil, the attempts run out or ctx is done.
// A nil opts uses DefaultOptions.
func Do(ctx context.Context, opts *Options, fn func() error) error {
	o := DefaultOptions()
	if opts != nil {
		o = *opts
	}
	if o.MaxAttempts < 1 {
		o.MaxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= o.MaxAttempts; attempt++ {
		if lastErr = fn(); lastErr == nil {
			return nil
		}
		if attempt == o.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled: %w", ctx.Err())
		case <-time.After(Backoff(attempt, o.InitialDelay, o.MaxDelay)):
		}
	}
	return fmt.Errorf("failed after %d attempts: %w", o.MaxAttempts, lastErr)
}

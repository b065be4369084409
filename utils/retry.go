package utils

import (
	"fmt"
	"time"
)

// RetryConfig retries an operation with exponential back-off. It is
// used for startup-time connections only; per-product upload failures
// are never retried.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Logger      *Logger
}

// Do runs fn until it succeeds or MaxAttempts is exhausted, doubling
// the delay between attempts. The final error wraps the last failure.
func (r *RetryConfig) Do(name string, fn func() error) error {
	delay := r.BaseDelay

	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt >= r.MaxAttempts {
			break
		}
		if r.Logger != nil {
			r.Logger.Warn("[retry] %s failed (attempt %d/%d): %v, retrying in %v",
				name, attempt, r.MaxAttempts, err, delay)
		}
		time.Sleep(delay)
		delay *= 2
	}

	return fmt.Errorf("%s failed after %d attempts: %w", name, r.MaxAttempts, err)
}

// Package retry provides bounded retry with exponential backoff for calls to
// external services. The caller supplies a predicate deciding which errors are
// worth retrying; everything else aborts immediately.
package retry

import (
	"context"
	"errors"
	"time"
)

// ErrAttemptsExhausted is returned (wrapping the last attempt's error) when
// every allowed attempt failed with a retryable error.
var ErrAttemptsExhausted = errors.New("maximum retry attempts exhausted")

// Config describes one retry policy.
type Config struct {
	MaxAttempts  int                          // total attempts, including the first
	InitialDelay time.Duration                // delay after the first failed attempt
	MaxDelay     time.Duration                // backoff cap
	Multiplier   float64                      // backoff growth factor, typically 2.0
	RetryIf      func(error) bool             // nil means retry every error
	OnRetry      func(attempt int, err error) // runs before each re-attempt
}

// DefaultConfig returns sensible defaults for transient network failures.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  3,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		Multiplier:   2.0,
	}
}

// Do executes fn up to cfg.MaxAttempts times, sleeping between attempts with
// exponential backoff. Returns nil on the first success, the attempt's error
// unchanged when cfg.RetryIf rejects it, or ErrAttemptsExhausted wrapping the
// last error once the budget is spent. Honors ctx during backoff waits.
func Do(ctx context.Context, cfg Config, fn func(attempt int) error) error {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.Multiplier <= 0 {
		cfg.Multiplier = 2.0
	}

	delay := cfg.InitialDelay
	var lastErr error

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		lastErr = fn(attempt)
		if lastErr == nil {
			return nil
		}
		if cfg.RetryIf != nil && !cfg.RetryIf(lastErr) {
			return lastErr
		}
		if attempt == cfg.MaxAttempts {
			break
		}

		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, lastErr)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}

		delay = time.Duration(float64(delay) * cfg.Multiplier)
		if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}

	return errors.Join(ErrAttemptsExhausted, lastErr)
}

package eutils

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/genemap/genemap/pkg/metrics"
)

// Default retry configuration: 6 attempts spaced 3 seconds apart, matching
// the rate-limit etiquette expected by the remote service.
const (
	defaultRetryAttempts = 6
	defaultRetryDelay    = 3 * time.Second
)

// Policy is an explicit retry policy wrapping a transport call. Retry is
// driven by the Retryable predicate on the returned error, not by error
// types escaping the call.
type Policy struct {
	// Attempts is the total attempt ceiling, including the first call.
	Attempts int

	// Delay is the fixed wait between attempts.
	Delay time.Duration

	// Retryable decides whether a failure is worth another attempt.
	// Defaults to IsTransient.
	Retryable func(error) bool
}

// DefaultPolicy returns the standard policy used against the live service.
func DefaultPolicy() Policy {
	return Policy{
		Attempts:  defaultRetryAttempts,
		Delay:     defaultRetryDelay,
		Retryable: IsTransient,
	}
}

// Do runs op under the policy. Non-retryable failures propagate immediately.
// When every attempt fails the last error is wrapped in ErrExhaustedRetries.
func (p Policy) Do(ctx context.Context, op func(ctx context.Context) error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	retryable := p.Retryable
	if retryable == nil {
		retryable = IsTransient
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = op(ctx)
		if err == nil {
			return nil
		}
		if !retryable(err) {
			return err
		}
		if attempt == attempts {
			break
		}
		metrics.RecordRequestRetry()
		select {
		case <-time.After(p.Delay):
		case <-ctx.Done():
			return fmt.Errorf("retry interrupted: %w", ctx.Err())
		}
	}

	metrics.RecordRetryExhausted()
	return fmt.Errorf("%w after %d attempts: %w", ErrExhaustedRetries, attempts, err)
}

// IsTransient reports whether err belongs to the retryable failure class.
func IsTransient(err error) bool {
	return err != nil && errors.Is(err, ErrTransient)
}

package httputil

import (
	"context"
	"errors"
	"time"
)

// RetryableError marks a failure as transient. [Policy.Do] only retries
// errors that unwrap to this type.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Policy describes how often and how patiently an operation is retried.
// The wait starts at Delay and doubles after every transient failure,
// capped at MaxDelay when MaxDelay is positive.
type Policy struct {
	Attempts int
	Delay    time.Duration
	MaxDelay time.Duration

	// OnRetry, if set, is called before each wait with the attempt that
	// just failed (1-based).
	OnRetry func(attempt int, err error, wait time.Duration)
}

// DefaultPolicy is three attempts starting at one second.
var DefaultPolicy = Policy{Attempts: 3, Delay: time.Second, MaxDelay: 10 * time.Second}

// Do runs fn until it succeeds, returns a non-retryable error, or the
// attempts run out. fn receives the 1-based attempt number. Cancellation
// during a wait returns ctx.Err().
func (p Policy) Do(ctx context.Context, fn func(attempt int) error) error {
	attempts := max(p.Attempts, 1)
	wait := p.Delay

	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(attempt); err == nil || !isRetryable(err) || attempt == attempts {
			return err
		}
		if p.OnRetry != nil {
			p.OnRetry(attempt, err, wait)
		}
		if werr := sleep(ctx, wait); werr != nil {
			return werr
		}
		wait = p.next(wait)
	}
}

func (p Policy) next(wait time.Duration) time.Duration {
	wait *= 2
	if p.MaxDelay > 0 && wait > p.MaxDelay {
		return p.MaxDelay
	}
	return wait
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Retry runs fn under a policy of the given attempts and initial delay
// with no cap.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	return Policy{Attempts: attempts, Delay: delay}.Do(ctx, func(int) error { return fn() })
}

func isRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}

package aigateway

import (
	"context"
	"errors"
	"time"
)

// ErrAuthOrQuota marks an error as non-retryable (authentication/quota
// failure), per spec.md §4.5's retry policy.
var ErrAuthOrQuota = errors.New("aigateway: authentication or quota error")

// retrySchedule is the fixed two-step backoff spec.md §4.5 mandates (0.5s,
// 1.5s). A general backoff library (e.g. cenkalti/backoff) is not used: the
// schedule is fixed and tiny, so pulling in a generalized policy engine for
// two constants would add a dependency without adding expressiveness — a
// stdlib-only choice recorded in DESIGN.md.
var retrySchedule = []time.Duration{500 * time.Millisecond, 1500 * time.Millisecond}

// withRetry calls fn, retrying transient failures up to len(retrySchedule)
// additional times. fn signals a non-retryable failure by wrapping
// ErrAuthOrQuota.
func withRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = fn()
		if err == nil || errors.Is(err, ErrAuthOrQuota) {
			return err
		}
		if attempt >= len(retrySchedule) {
			return err
		}
		select {
		case <-time.After(retrySchedule[attempt]):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

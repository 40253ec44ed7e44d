package aigateway

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter bounds LLM call throughput to a process-wide ceiling, per
// spec.md §4.5: "prevents quota-blowout storms when many sessions run
// concurrently". Backed by golang.org/x/time/rate, configured so the
// token-bucket empties at exactly the configured requests-per-minute rate
// with a burst equal to that same ceiling (a fresh process may fire a full
// minute's budget immediately, then throttles to the steady rate).
type RateLimiter struct {
	limiter *rate.Limiter
	maxWait time.Duration
}

// NewRateLimiter builds a limiter admitting perMinute requests/minute.
func NewRateLimiter(perMinute int) *RateLimiter {
	if perMinute <= 0 {
		perMinute = 10
	}
	every := time.Minute / time.Duration(perMinute)
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Every(every), perMinute),
		maxWait: 60 * time.Second,
	}
}

// Wait blocks until a slot is available or the bounded wait (max 60s, per
// spec.md §4.5) elapses, whichever comes first.
func (l *RateLimiter) Wait(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, l.maxWait)
	defer cancel()
	if err := l.limiter.Wait(waitCtx); err != nil {
		return fmt.Errorf("rate limit wait exceeded %s: %w", l.maxWait, err)
	}
	return nil
}

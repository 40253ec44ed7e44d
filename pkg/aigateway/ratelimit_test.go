package aigateway

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRateLimiter_AllowsCallsWithinBurst(t *testing.T) {
	rl := NewRateLimiter(60)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, rl.Wait(ctx))
	}
}

func TestRateLimiter_ZeroPerMinuteDefaultsInsteadOfBlockingForever(t *testing.T) {
	rl := NewRateLimiter(0)
	require.NotNil(t, rl)
	require.Equal(t, 60*time.Second, rl.maxWait)
}

func TestRateLimiter_ExhaustedBudgetTimesOutRatherThanHanging(t *testing.T) {
	rl := NewRateLimiter(1)
	rl.maxWait = 30 * time.Millisecond
	ctx := context.Background()

	require.NoError(t, rl.Wait(ctx)) // consumes the single burst token
	err := rl.Wait(ctx)              // next slot is ~60s away, bounded wait fires first
	require.Error(t, err)
}

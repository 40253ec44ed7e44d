package aigateway

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithRetry_SucceedsAfterTransientFailures(t *testing.T) {
	attempts := 0
	err := withRetry(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return fmt.Errorf("transient failure %d", attempts)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestWithRetry_GivesUpAfterSchedule(t *testing.T) {
	attempts := 0
	err := withRetry(context.Background(), func() error {
		attempts++
		return fmt.Errorf("always fails")
	})
	require.Error(t, err)
	assert.Equal(t, len(retrySchedule)+1, attempts)
}

func TestWithRetry_DoesNotRetryAuthOrQuotaErrors(t *testing.T) {
	attempts := 0
	err := withRetry(context.Background(), func() error {
		attempts++
		return fmt.Errorf("wrapped: %w", ErrAuthOrQuota)
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAuthOrQuota))
	assert.Equal(t, 1, attempts)
}

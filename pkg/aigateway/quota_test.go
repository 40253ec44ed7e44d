package aigateway

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQuotaFlag_SetAndReset(t *testing.T) {
	var q quotaFlag
	require.False(t, q.Exhausted())

	q.Set()
	require.True(t, q.Exhausted())

	q.Reset()
	require.False(t, q.Exhausted())
}

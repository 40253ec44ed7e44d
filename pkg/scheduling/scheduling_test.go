package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCivilToUTC_S1Example(t *testing.T) {
	s, err := New(nil, "Asia/Kolkata", 2*time.Hour, nil)
	require.NoError(t, err)

	start, err := s.CivilToUTC("2025-06-15", "10:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 15, 4, 30, 0, 0, time.UTC), start)

	end, err := s.CivilToUTC("2025-06-15", "10:30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 15, 5, 0, 0, 0, time.UTC), end)
}

func TestOverlapsHalfOpen(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.True(t, overlapsHalfOpen(base, base.Add(time.Hour), base.Add(30*time.Minute), base.Add(90*time.Minute)))
	assert.False(t, overlapsHalfOpen(base, base.Add(time.Hour), base.Add(time.Hour), base.Add(2*time.Hour)))
}

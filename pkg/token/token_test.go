package token

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLookup struct {
	views map[string]InterviewTimeView
}

func (f *fakeLookup) GetByID(_ context.Context, id string) (InterviewTimeView, error) {
	v, ok := f.views[id]
	if !ok {
		return InterviewTimeView{}, assert.AnError
	}
	return v, nil
}

func TestMintVerify_OKWithinWindow(t *testing.T) {
	start := time.Now().UTC().Add(-5 * time.Minute)
	end := start.Add(30 * time.Minute)
	lookup := &fakeLookup{views: map[string]InterviewTimeView{
		"I1": {InterviewID: "I1", CandidateEmail: "c@example.com", StartedAt: start, EndedAt: end},
	}}
	m := NewMinter([]byte("secret"), 15*time.Minute, 2*time.Hour, lookup)

	tok, expiresAt := m.Mint(lookup.views["I1"])
	require.NotEmpty(t, tok)
	assert.Equal(t, end.Add(2*time.Hour), expiresAt)

	res := m.Verify(context.Background(), tok)
	assert.Equal(t, ReasonOK, res.Reason)
	assert.True(t, res.Valid)
	assert.Equal(t, "I1", res.InterviewID)
}

func TestVerify_NotYetActiveAndExpired(t *testing.T) {
	start := time.Now().Add(time.Hour)
	end := start.Add(30 * time.Minute)
	lookup := &fakeLookup{views: map[string]InterviewTimeView{
		"I2": {InterviewID: "I2", CandidateEmail: "c@example.com", StartedAt: start, EndedAt: end},
	}}
	m := NewMinter([]byte("secret"), 15*time.Minute, 2*time.Hour, lookup)
	tok, _ := m.Mint(lookup.views["I2"])

	res := m.Verify(context.Background(), tok)
	assert.Equal(t, ReasonNotYetActive, res.Reason)
}

func TestVerify_RescheduleInvalidatesToken(t *testing.T) {
	start := time.Now().Add(-time.Minute)
	end := start.Add(30 * time.Minute)
	view := InterviewTimeView{InterviewID: "I3", CandidateEmail: "c@example.com", StartedAt: start, EndedAt: end}
	lookup := &fakeLookup{views: map[string]InterviewTimeView{"I3": view}}
	m := NewMinter([]byte("secret"), 15*time.Minute, 2*time.Hour, lookup)

	t1, _ := m.Mint(view)
	res := m.Verify(context.Background(), t1)
	assert.Equal(t, ReasonOK, res.Reason)

	// Reschedule: started_at changes.
	view.StartedAt = start.Add(4 * time.Hour)
	view.EndedAt = end.Add(4 * time.Hour)
	lookup.views["I3"] = view

	res = m.Verify(context.Background(), t1)
	assert.Equal(t, ReasonSignatureMismatch, res.Reason)

	t2, _ := m.Mint(view)
	res = m.Verify(context.Background(), t2)
	assert.Equal(t, ReasonNotYetActive, res.Reason) // new window starts 4h from now
}

func TestVerify_BadEncoding(t *testing.T) {
	m := NewMinter([]byte("secret"), 0, 0, &fakeLookup{views: map[string]InterviewTimeView{}})
	res := m.Verify(context.Background(), "not-valid-base64!!!")
	assert.Equal(t, ReasonBadEncoding, res.Reason)
}

func TestVerify_UnknownInterview(t *testing.T) {
	m := NewMinter([]byte("secret"), 0, 0, &fakeLookup{views: map[string]InterviewTimeView{}})
	tok, _ := m.Mint(InterviewTimeView{InterviewID: "ghost", CandidateEmail: "x@example.com", StartedAt: time.Now(), EndedAt: time.Now()})
	res := m.Verify(context.Background(), tok)
	assert.Equal(t, ReasonUnknownInterview, res.Reason)
}

func TestPublicMessage_CollapsesReasons(t *testing.T) {
	assert.Equal(t, "", PublicMessage(ReasonOK))
	assert.Equal(t, "invalid or expired link", PublicMessage(ReasonExpired))
	assert.Equal(t, "invalid or expired link", PublicMessage(ReasonSignatureMismatch))
}

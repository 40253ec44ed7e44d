// Package token mints and verifies HMAC-signed single-use interview links.
// It has no dependency on pkg/store: callers supply an InterviewLookup.
package token

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
	"time"
)

// VerifyReason classifies the outcome of Verify.
type VerifyReason string

const (
	ReasonOK                VerifyReason = "OK"
	ReasonBadEncoding       VerifyReason = "BAD_ENCODING"
	ReasonUnknownInterview  VerifyReason = "UNKNOWN_INTERVIEW"
	ReasonSignatureMismatch VerifyReason = "SIGNATURE_MISMATCH"
	ReasonExpired           VerifyReason = "EXPIRED"
	ReasonNotYetActive      VerifyReason = "NOT_YET_ACTIVE"
)

// InterviewTimeView is the subset of Interview state a token needs.
type InterviewTimeView struct {
	InterviewID    string
	CandidateEmail string
	StartedAt      time.Time
	EndedAt        time.Time
}

// InterviewLookup resolves an interview id to its current signing material.
type InterviewLookup interface {
	GetByID(ctx context.Context, interviewID string) (InterviewTimeView, error)
}

// Minter mints and verifies tokens per spec.md §4.1.
type Minter struct {
	secret     []byte
	earlyGrace time.Duration
	lateGrace  time.Duration
	lookup     InterviewLookup
}

// NewMinter constructs a Minter. earlyGrace/lateGrace default to 15m/2h when zero.
func NewMinter(secret []byte, earlyGrace, lateGrace time.Duration, lookup InterviewLookup) *Minter {
	if earlyGrace == 0 {
		earlyGrace = 15 * time.Minute
	}
	if lateGrace == 0 {
		lateGrace = 2 * time.Hour
	}
	return &Minter{secret: secret, earlyGrace: earlyGrace, lateGrace: lateGrace, lookup: lookup}
}

func (m *Minter) sign(interviewID, candidateEmail string, startedAt time.Time) []byte {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(interviewID + ":" + candidateEmail + ":" + startedAt.UTC().Format(time.RFC3339)))
	return mac.Sum(nil)
}

// Mint computes a token and its expiry for the given interview view.
func (m *Minter) Mint(view InterviewTimeView) (token string, expiresAt time.Time) {
	sig := m.sign(view.InterviewID, view.CandidateEmail, view.StartedAt)
	payload := view.InterviewID + ":" + base64.RawURLEncoding.EncodeToString(sig)
	token = base64.RawURLEncoding.EncodeToString([]byte(payload))
	expiresAt = view.EndedAt.Add(m.lateGrace)
	return token, expiresAt
}

// VerifyResult is the outcome of Verify.
type VerifyResult struct {
	InterviewID string
	Valid       bool
	Reason      VerifyReason
}

// Verify decodes and checks token against the interview it claims to be for.
// It never returns an error: all failure modes are tagged VerifyReason values.
func (m *Minter) Verify(ctx context.Context, rawToken string) VerifyResult {
	decoded, err := base64.RawURLEncoding.DecodeString(rawToken)
	if err != nil {
		return VerifyResult{Reason: ReasonBadEncoding}
	}
	payload := string(decoded)
	idx := strings.LastIndex(payload, ":")
	if idx < 0 {
		return VerifyResult{Reason: ReasonBadEncoding}
	}
	interviewID, encodedSig := payload[:idx], payload[idx+1:]
	sig, err := base64.RawURLEncoding.DecodeString(encodedSig)
	if err != nil {
		return VerifyResult{Reason: ReasonBadEncoding, InterviewID: interviewID}
	}

	view, err := m.lookup.GetByID(ctx, interviewID)
	if err != nil {
		return VerifyResult{Reason: ReasonUnknownInterview, InterviewID: interviewID}
	}

	expected := m.sign(view.InterviewID, view.CandidateEmail, view.StartedAt)
	if !hmac.Equal(expected, sig) {
		return VerifyResult{Reason: ReasonSignatureMismatch, InterviewID: interviewID}
	}

	now := time.Now().UTC()
	activeFrom := view.StartedAt.Add(-m.earlyGrace)
	expiresAt := view.EndedAt.Add(m.lateGrace)
	switch {
	case now.Before(activeFrom):
		return VerifyResult{Reason: ReasonNotYetActive, InterviewID: interviewID}
	case now.After(expiresAt):
		return VerifyResult{Reason: ReasonExpired, InterviewID: interviewID}
	default:
		return VerifyResult{Reason: ReasonOK, Valid: true, InterviewID: interviewID}
	}
}

// PublicMessage collapses any non-OK reason into the single opaque message
// the public candidate endpoints are allowed to show, per spec.md §7.
func PublicMessage(reason VerifyReason) string {
	if reason == ReasonOK {
		return ""
	}
	return "invalid or expired link"
}

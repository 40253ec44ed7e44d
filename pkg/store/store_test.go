package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeready-toolchain/interviewplatform/internal/testutil"
	"github.com/codeready-toolchain/interviewplatform/pkg/domain"
	"github.com/codeready-toolchain/interviewplatform/pkg/store"
)

func TestStore_JobCandidateSlotRoundTrip(t *testing.T) {
	st := testutil.NewTestStore(t)
	ctx := context.Background()

	job := &domain.Job{
		ID: "job-1", Title: "Backend Engineer", Company: "Acme", Domain: "backend",
		CodingLanguage: "PYTHON", Description: "Build things", RecruiterID: "rec-1",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, st.Jobs.Create(ctx, job))

	got, err := st.Jobs.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.Title, got.Title)
	assert.Equal(t, job.CodingLanguage, got.CodingLanguage)

	cand := &domain.Candidate{
		ID: "cand-1", DisplayName: "Jane Doe", Email: "jane@example.com",
		ResumeText: "experienced engineer", RecruiterID: "rec-1", CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, st.Candidates.Create(ctx, cand))

	gotCand, err := st.Candidates.GetByID(ctx, cand.ID)
	require.NoError(t, err)
	assert.Equal(t, cand.Email, gotCand.Email)

	slot := &domain.Slot{
		ID: "slot-1", JobID: job.ID, Date: "2025-06-15", StartTime: "10:00", EndTime: "10:30",
		Capacity: 2, Status: domain.SlotAvailable, CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, st.Slots.Create(ctx, slot))

	gotSlot, err := st.Slots.GetByID(ctx, slot.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, gotSlot.Capacity)
	assert.Equal(t, domain.SlotAvailable, gotSlot.Status)
}

func TestStore_SessionNotFound(t *testing.T) {
	st := testutil.NewTestStore(t)
	ctx := context.Background()

	_, err := st.Sessions.GetByID(ctx, "does-not-exist")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStore_QuestionOrderingInterleavesFollowUps(t *testing.T) {
	st := testutil.NewTestStore(t)
	ctx := context.Background()

	seedJobCandidateInterviewSession(t, st, "sess-order")

	main0 := &domain.Question{ID: "q-main-0", SessionID: "sess-order", Order: 0, Type: domain.QuestionTechnical, Level: domain.QuestionMain, Text: "Explain X", CreatedAt: time.Now().UTC()}
	require.NoError(t, st.Questions.Create(ctx, main0))
	main1 := &domain.Question{ID: "q-main-1", SessionID: "sess-order", Order: 1, Type: domain.QuestionBehavioral, Level: domain.QuestionMain, Text: "Tell me about a conflict", CreatedAt: time.Now().UTC()}
	require.NoError(t, st.Questions.Create(ctx, main1))
	followUp := &domain.Question{ID: "q-follow-0", SessionID: "sess-order", Order: 0, Type: domain.QuestionTechnical, Level: domain.QuestionFollowUp, ParentID: &main0.ID, Text: "Can you elaborate?", CreatedAt: time.Now().UTC().Add(time.Second)}
	require.NoError(t, st.Questions.Create(ctx, followUp))

	ordered, err := st.Questions.ListBySession(ctx, "sess-order")
	require.NoError(t, err)
	require.Len(t, ordered, 3)
	assert.Equal(t, "q-main-0", ordered[0].ID)
	assert.Equal(t, "q-follow-0", ordered[1].ID)
	assert.Equal(t, "q-main-1", ordered[2].ID)
}

// seedJobCandidateInterviewSession creates the minimal FK chain a Session
// row needs (job, candidate, interview) plus the session itself.
func seedJobCandidateInterviewSession(t *testing.T, st *store.Store, sessionID string) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()

	job := &domain.Job{ID: sessionID + "-job", Title: "t", Company: "c", Domain: "d", CodingLanguage: "PYTHON", Description: "d", RecruiterID: "r", CreatedAt: now}
	require.NoError(t, st.Jobs.Create(ctx, job))
	cand := &domain.Candidate{ID: sessionID + "-cand", DisplayName: "n", Email: sessionID + "@example.com", ResumeText: "r", RecruiterID: "r", CreatedAt: now}
	require.NoError(t, st.Candidates.Create(ctx, cand))
	iv := &domain.Interview{ID: sessionID + "-iv", CandidateID: cand.ID, JobID: job.ID, Round: "1", Status: domain.InterviewScheduled, CreatedAt: now}
	require.NoError(t, st.Interviews.Create(ctx, iv))
	sess := &domain.Session{ID: sessionID, SessionKey: sessionID + "-key", InterviewID: iv.ID, CandidateName: "n", CandidateEmail: cand.Email, Status: domain.SessionActive, IDVerification: domain.IDVerificationPending, CreatedAt: now}
	require.NoError(t, st.Sessions.Create(ctx, sess))
}

package interview_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeready-toolchain/interviewplatform/internal/testutil"
	"github.com/codeready-toolchain/interviewplatform/pkg/aigateway"
	"github.com/codeready-toolchain/interviewplatform/pkg/apperr"
	"github.com/codeready-toolchain/interviewplatform/pkg/domain"
	"github.com/codeready-toolchain/interviewplatform/pkg/interview"
	"github.com/codeready-toolchain/interviewplatform/pkg/store"
	"github.com/codeready-toolchain/interviewplatform/pkg/token"
)

// storeLookup adapts *store.Store to token.InterviewLookup by joining the
// interview to its candidate for the email the signature covers.
type storeLookup struct{ st *store.Store }

func (l *storeLookup) GetByID(ctx context.Context, id string) (token.InterviewTimeView, error) {
	iv, err := l.st.Interviews.GetByID(ctx, id)
	if err != nil {
		return token.InterviewTimeView{}, err
	}
	cand, err := l.st.Candidates.GetByID(ctx, iv.CandidateID)
	if err != nil {
		return token.InterviewTimeView{}, err
	}
	view := token.InterviewTimeView{InterviewID: iv.ID, CandidateEmail: cand.Email}
	if iv.StartedAt != nil {
		view.StartedAt = *iv.StartedAt
	}
	if iv.EndedAt != nil {
		view.EndedAt = *iv.EndedAt
	}
	return view, nil
}

type fakeCodeRunner struct {
	passAll bool
}

func (f *fakeCodeRunner) Run(ctx context.Context, language, source string, tests []*domain.TestCase) (bool, string, error) {
	return f.passAll, "ran " + fmt.Sprint(len(tests)) + " tests", nil
}

type fakeEvaluator struct{ called []string }

func (f *fakeEvaluator) Evaluate(ctx context.Context, sessionID string) error {
	f.called = append(f.called, sessionID)
	return nil
}

type fakeFaceDetector struct{ count int }

func (f *fakeFaceDetector) CountFaces(ctx context.Context, image []byte) (int, error) {
	return f.count, nil
}

// testFixture wires a fully migrated store, a live token.Minter over that
// store, a FakeGateway, and an Orchestrator, plus one seeded job/candidate/
// interview ready to Start.
type testFixture struct {
	orch         *interview.Orchestrator
	st           *store.Store
	minter       *token.Minter
	gateway      *aigateway.FakeGateway
	coderunner   *fakeCodeRunner
	evaluator    *fakeEvaluator
	faces        *fakeFaceDetector
	interviewID  string
	rawToken     string
}

func newFixture(t *testing.T) *testFixture {
	t.Helper()
	st := testutil.NewTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	job := &domain.Job{ID: uuid.NewString(), Title: "Backend Engineer", Company: "Acme", Domain: "backend", CodingLanguage: "PYTHON", Description: "Build a service", RecruiterID: "rec-1", CreatedAt: now}
	require.NoError(t, st.Jobs.Create(ctx, job))

	cand := &domain.Candidate{ID: uuid.NewString(), DisplayName: "Jane Doe", Email: fmt.Sprintf("jane-%s@example.com", uuid.NewString()), ResumeText: "ten years of Go", RecruiterID: "rec-1", CreatedAt: now}
	require.NoError(t, st.Candidates.Create(ctx, cand))

	started := now.Add(-time.Minute)
	ended := now.Add(time.Hour)
	iv := &domain.Interview{ID: uuid.NewString(), CandidateID: cand.ID, JobID: job.ID, Round: "1", Status: domain.InterviewScheduled, StartedAt: &started, EndedAt: &ended, CreatedAt: now}
	require.NoError(t, st.Interviews.Create(ctx, iv))

	minter := token.NewMinter([]byte("test-secret"), 0, 0, &storeLookup{st: st})
	rawToken, _ := minter.Mint(token.InterviewTimeView{InterviewID: iv.ID, CandidateEmail: cand.Email, StartedAt: started, EndedAt: ended})

	gw := aigateway.NewFakeGateway()
	cr := &fakeCodeRunner{passAll: true}
	ev := &fakeEvaluator{}
	fd := &fakeFaceDetector{count: 2}

	orch := interview.New(st, minter, gw, cr, ev, fd, time.Hour, nil)
	return &testFixture{orch: orch, st: st, minter: minter, gateway: gw, coderunner: cr, evaluator: ev, faces: fd, interviewID: iv.ID, rawToken: rawToken}
}

func TestOrchestrator_StartIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.orch.Start(ctx, f.rawToken)
	require.NoError(t, err)
	assert.Equal(t, 4, first.TotalQuestions)
	assert.Len(t, first.Questions, 4)

	second, err := f.orch.Start(ctx, f.rawToken)
	require.NoError(t, err)
	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Equal(t, first.TotalQuestions, second.TotalQuestions)
}

func TestOrchestrator_SubmitResponse_AlreadyAnswered(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	started, err := f.orch.Start(ctx, f.rawToken)
	require.NoError(t, err)
	q0 := started.Questions[0]

	_, err = f.orch.SubmitResponse(ctx, started.SessionID, f.rawToken, q0.ID, interview.ResponsePayload{Kind: domain.PayloadText, Text: "I'm confident about this."})
	require.NoError(t, err)

	_, err = f.orch.SubmitResponse(ctx, started.SessionID, f.rawToken, q0.ID, interview.ResponsePayload{Kind: domain.PayloadText, Text: "second answer"})
	require.Error(t, err)
	assert.Equal(t, "ALREADY_ANSWERED", apperr.CodeOf(err))
}

func TestOrchestrator_SubmitResponse_FollowUpParentUnanswered(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	started, err := f.orch.Start(ctx, f.rawToken)
	require.NoError(t, err)
	q0 := started.Questions[0]

	followUpID := uuid.NewString()
	fu := &domain.Question{ID: followUpID, SessionID: started.SessionID, Order: q0.Order, Type: q0.Type, Level: domain.QuestionFollowUp, ParentID: &q0.ID, Text: "elaborate?", CreatedAt: time.Now().UTC()}
	require.NoError(t, f.st.Questions.Create(ctx, fu))

	_, err = f.orch.SubmitResponse(ctx, started.SessionID, f.rawToken, followUpID, interview.ResponsePayload{Kind: domain.PayloadText, Text: "answer to follow-up"})
	require.Error(t, err)
	assert.Equal(t, "FOLLOWUP_PARENT_UNANSWERED", apperr.CodeOf(err))
}

func TestOrchestrator_SubmitResponse_TriggersFollowUpOnUncertainty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	started, err := f.orch.Start(ctx, f.rawToken)
	require.NoError(t, err)
	q0 := started.Questions[0]

	result, err := f.orch.SubmitResponse(ctx, started.SessionID, f.rawToken, q0.ID, interview.ResponsePayload{Kind: domain.PayloadText, Text: "I'm not sure, maybe?"})
	require.NoError(t, err)
	require.NotNil(t, result.FollowUp)
	assert.Equal(t, domain.QuestionFollowUp, result.FollowUp.Level)
	assert.Equal(t, q0.Order, result.FollowUp.Order)
}

func TestOrchestrator_SubmitResponse_SessionTerminalAfterComplete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	started, err := f.orch.Start(ctx, f.rawToken)
	require.NoError(t, err)
	require.NoError(t, f.orch.Complete(ctx, started.SessionID, f.rawToken))
	assert.Len(t, f.evaluator.called, 1)

	_, err = f.orch.SubmitResponse(ctx, started.SessionID, f.rawToken, started.Questions[0].ID, interview.ResponsePayload{Kind: domain.PayloadText, Text: "too late"})
	require.Error(t, err)
	assert.Equal(t, "SESSION_TERMINAL", apperr.CodeOf(err))
}

func TestOrchestrator_AutoCompletesOnFinalAnswer(t *testing.T) {
	f := newFixture(t)
	f.gateway.Recommendation = "strong hire"
	ctx := context.Background()

	started, err := f.orch.Start(ctx, f.rawToken)
	require.NoError(t, err)
	require.Len(t, started.Questions, 4)

	var lastStatus domain.SessionStatus
	for _, q := range started.Questions {
		payload := interview.ResponsePayload{Kind: domain.PayloadText, Text: "a confident, complete answer"}
		if q.Type == domain.QuestionCoding {
			payload = interview.ResponsePayload{Kind: domain.PayloadCode, CodeSource: "print('hi')", CodeLanguage: "PYTHON"}
			require.NoError(t, seedTestCase(ctx, f.st, q.ID))
		}
		res, err := f.orch.SubmitResponse(ctx, started.SessionID, f.rawToken, q.ID, payload)
		require.NoError(t, err)
		lastStatus = res.SessionStatus
	}

	assert.Equal(t, domain.SessionCompleted, lastStatus)
	assert.Len(t, f.evaluator.called, 1)
}

func TestOrchestrator_SubmitResponse_CodingRequiresTestCases(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	started, err := f.orch.Start(ctx, f.rawToken)
	require.NoError(t, err)

	var coding *domain.Question
	for _, q := range started.Questions {
		if q.Type == domain.QuestionCoding {
			coding = q
		}
	}
	require.NotNil(t, coding)

	_, err = f.orch.SubmitResponse(ctx, started.SessionID, f.rawToken, coding.ID, interview.ResponsePayload{Kind: domain.PayloadCode, CodeSource: "print('hi')", CodeLanguage: "PYTHON"})
	require.Error(t, err)
	assert.Equal(t, "QUESTION_HAS_NO_TESTS", apperr.CodeOf(err))
}

func TestOrchestrator_VerifyID_WrongFaceCount(t *testing.T) {
	f := newFixture(t)
	f.faces.count = 1
	ctx := context.Background()

	started, err := f.orch.Start(ctx, f.rawToken)
	require.NoError(t, err)

	err = f.orch.VerifyID(ctx, started.SessionID, f.rawToken, []byte("fake-image"))
	require.Error(t, err)
	assert.Equal(t, "WRONG_FACE_COUNT", apperr.CodeOf(err))

	sess, err := f.st.Sessions.GetByID(ctx, started.SessionID)
	require.NoError(t, err)
	assert.Equal(t, domain.IDVerificationFailed, sess.IDVerification)
}

func TestOrchestrator_VerifyID_NameMismatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	started, err := f.orch.Start(ctx, f.rawToken)
	require.NoError(t, err)

	sess, err := f.st.Sessions.GetByID(ctx, started.SessionID)
	require.NoError(t, err)
	sess.CandidateName = "Someone Else Entirely"
	require.NoError(t, f.st.Sessions.Update(ctx, sess))

	err = f.orch.VerifyID(ctx, started.SessionID, f.rawToken, []byte("fake-image"))
	require.Error(t, err)
	assert.Equal(t, "NAME_MISMATCH", apperr.CodeOf(err))
}

func TestOrchestrator_VerifyID_Success(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	started, err := f.orch.Start(ctx, f.rawToken)
	require.NoError(t, err)

	require.NoError(t, f.orch.VerifyID(ctx, started.SessionID, f.rawToken, []byte("fake-image")))

	sess, err := f.st.Sessions.GetByID(ctx, started.SessionID)
	require.NoError(t, err)
	assert.Equal(t, domain.IDVerificationVerified, sess.IDVerification)
	assert.NotEmpty(t, sess.IDExtractedName)
}

func TestOrchestrator_QuotaExhaustedStillCompletes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	started, err := f.orch.Start(ctx, f.rawToken)
	require.NoError(t, err)

	f.gateway.SetQuotaExhausted(true)

	for _, q := range started.Questions {
		payload := interview.ResponsePayload{Kind: domain.PayloadText, Text: "an answer"}
		if q.Type == domain.QuestionCoding {
			payload = interview.ResponsePayload{Kind: domain.PayloadCode, CodeSource: "print('hi')", CodeLanguage: "PYTHON"}
			require.NoError(t, seedTestCase(ctx, f.st, q.ID))
		}
		_, err := f.orch.SubmitResponse(ctx, started.SessionID, f.rawToken, q.ID, payload)
		require.NoError(t, err)
	}

	sess, err := f.st.Sessions.GetByID(ctx, started.SessionID)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionCompleted, sess.Status)
	assert.Len(t, f.evaluator.called, 1)
}

func TestOrchestrator_Heartbeat_NoOpWhenNotActive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	started, err := f.orch.Start(ctx, f.rawToken)
	require.NoError(t, err)
	require.NoError(t, f.orch.Complete(ctx, started.SessionID, f.rawToken))

	// Heartbeat on a terminal session must not error, only be a no-op.
	require.NoError(t, f.orch.Heartbeat(ctx, started.SessionID))
}

func seedTestCase(ctx context.Context, st *store.Store, questionID string) error {
	return st.TestCases.Create(ctx, &domain.TestCase{
		ID: uuid.NewString(), QuestionID: questionID, Input: "1 2", Expected: "3",
	})
}

package evaluation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeready-toolchain/interviewplatform/pkg/aigateway"
	"github.com/codeready-toolchain/interviewplatform/pkg/domain"
)

type fakeSessionStore struct {
	session       *domain.Session
	questions     []*domain.Question
	responses     []*domain.Response
	submissions   []*domain.CodeSubmission
	warnings      []*domain.WarningLog
	upserted      *domain.EvaluationResult
	metricsCalls  int
	updatedSession *domain.Session
}

func (f *fakeSessionStore) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	return f.session, nil
}
func (f *fakeSessionStore) UpdateSession(ctx context.Context, s *domain.Session) error {
	f.updatedSession = s
	return nil
}
func (f *fakeSessionStore) ListQuestions(ctx context.Context, sessionID string) ([]*domain.Question, error) {
	return f.questions, nil
}
func (f *fakeSessionStore) ListResponses(ctx context.Context, sessionID string) ([]*domain.Response, error) {
	return f.responses, nil
}
func (f *fakeSessionStore) UpdateResponseMetrics(ctx context.Context, responseID string, fillerWordCount int, wpm, sentiment float64) error {
	f.metricsCalls++
	return nil
}
func (f *fakeSessionStore) ListCodeSubmissions(ctx context.Context, sessionID string) ([]*domain.CodeSubmission, error) {
	return f.submissions, nil
}
func (f *fakeSessionStore) ListWarnings(ctx context.Context, sessionID string) ([]*domain.WarningLog, error) {
	return f.warnings, nil
}
func (f *fakeSessionStore) UpsertEvaluation(ctx context.Context, e *domain.EvaluationResult) error {
	f.upserted = e
	return nil
}

func newFakeSession() *domain.Session {
	return &domain.Session{
		ID:             "sess-1",
		InterviewID:    "iv-1",
		JobDescription: "backend engineer",
		ResumeText:     "five years of Go",
		Status:         domain.SessionCompleted,
	}
}

func TestEvaluate_HappyPath(t *testing.T) {
	st := &fakeSessionStore{
		session: newFakeSession(),
		questions: []*domain.Question{
			{ID: "q1", Type: domain.QuestionTechnical, Text: "Explain maps."},
			{ID: "q2", Type: domain.QuestionCoding, Text: "Reverse a list.", CodingLanguage: "PYTHON"},
		},
		responses: []*domain.Response{
			{ID: "r1", QuestionID: "q1", Text: "A map is a hash table.", DurationSeconds: 20},
		},
		submissions: []*domain.CodeSubmission{
			{ID: "c1", QuestionID: "q2", Language: "PYTHON", Source: "def solve(x): return x", OutputLog: "test 1: PASSED", PassedAllTests: true},
		},
		warnings: []*domain.WarningLog{
			{ID: "w1", Type: domain.WarningTabSwitched},
			{ID: "w2", Type: domain.WarningTabSwitched},
		},
	}
	gw := aigateway.NewFakeGateway()
	ev := New(st, gw, nil)

	err := ev.Evaluate(context.Background(), "sess-1")
	require.NoError(t, err)

	require.NotNil(t, st.upserted)
	assert.Equal(t, gw.ResumeScore, st.upserted.ResumeScore)
	assert.Equal(t, gw.AnswersScore, st.upserted.AnswersScore)
	assert.Equal(t, gw.OverallScore, st.upserted.OverallScore)
	assert.Equal(t, float64(1), st.upserted.Confidence)
	require.NotNil(t, st.upserted.HireRecommendation)
	assert.True(t, *st.upserted.HireRecommendation)

	require.NotNil(t, st.updatedSession)
	assert.True(t, st.updatedSession.IsEvaluated)
	assert.Equal(t, 1, st.metricsCalls)
}

func TestEvaluate_QuotaExhaustedUsesFallbackScores(t *testing.T) {
	st := &fakeSessionStore{session: newFakeSession()}
	gw := aigateway.NewFakeGateway()
	gw.SetQuotaExhausted(true)
	ev := New(st, gw, nil)

	err := ev.Evaluate(context.Background(), "sess-1")
	require.NoError(t, err)

	require.NotNil(t, st.upserted)
	assert.Equal(t, 7.0, st.upserted.ResumeScore)
	assert.Equal(t, 7.0, st.upserted.AnswersScore)
	assert.Equal(t, 7.0, st.upserted.OverallScore)
	assert.Equal(t, 0.0, st.upserted.Confidence)
	assert.Nil(t, st.upserted.HireRecommendation)
	assert.Contains(t, st.upserted.FeedbackOverall, "without AI analysis")
}

func TestEvaluate_IsIdempotentAcrossReEvaluation(t *testing.T) {
	st := &fakeSessionStore{session: newFakeSession()}
	gw := aigateway.NewFakeGateway()
	ev := New(st, gw, nil)

	require.NoError(t, ev.Evaluate(context.Background(), "sess-1"))
	first := st.upserted

	gw.OverallScore = 9.1
	require.NoError(t, ev.Evaluate(context.Background(), "sess-1"))
	second := st.upserted

	assert.NotEqual(t, first.OverallScore, second.OverallScore)
	assert.Equal(t, first.SessionID, second.SessionID)
}

func TestSummarizeWarnings_ExcludesProctorDegraded(t *testing.T) {
	summary := summarizeWarnings([]*domain.WarningLog{
		{Type: domain.WarningNoPerson},
		{Type: domain.WarningNoPerson},
		{Type: domain.WarningProctorDegraded},
	})
	assert.Equal(t, "2× NO_PERSON", summary)
}

func TestSummarizeWarnings_EmptyWhenNoWarnings(t *testing.T) {
	assert.Equal(t, "no proctoring warnings", summarizeWarnings(nil))
}

func TestAssembleSpokenBlock_SkipsCodingMarksEmptyAnswer(t *testing.T) {
	questions := []*domain.Question{
		{ID: "q1", Type: domain.QuestionTechnical, Text: "What is a goroutine?"},
		{ID: "q2", Type: domain.QuestionCoding, Text: "Solve FizzBuzz."},
	}
	block := assembleSpokenBlock(questions, map[string]*domain.Response{})
	assert.Contains(t, block, "Q: What is a goroutine?")
	assert.Contains(t, block, "A: No answer provided.")
	assert.NotContains(t, block, "FizzBuzz")
}

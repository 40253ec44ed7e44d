package aigateway

import (
	"context"
	"testing"

	"github.com/codeready-toolchain/interviewplatform/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGeneratedQuestions_WellFormedMarkdown(t *testing.T) {
	text := "" +
		"## Ice Breaker\n" +
		"- Tell me about yourself.\n" +
		"## Technical Questions\n" +
		"- What is a hash map?\n" +
		"- Explain REST vs RPC.\n" +
		"## Behavioral Questions\n" +
		"- Describe a conflict you resolved.\n" +
		"## Coding Questions\n" +
		"- Reverse a string.\n"

	questions, ok := parseGeneratedQuestions(text, "PYTHON")
	require.True(t, ok)
	require.Len(t, questions, 5)
	assert.Equal(t, domain.QuestionIceBreaker, questions[0].Type)
	assert.Equal(t, domain.QuestionCoding, questions[len(questions)-1].Type)
	assert.Equal(t, "PYTHON", questions[len(questions)-1].CodingLanguage)
}

func TestParseGeneratedQuestions_MissingSectionFallsBackToCaller(t *testing.T) {
	text := "## Technical Questions\n- What is a hash map?\n"
	_, ok := parseGeneratedQuestions(text, "PYTHON")
	assert.False(t, ok)
}

// TestFakeGateway_QuotaExhaustionDegradesEveryCall exercises Scenario S5:
// once the quota flag is set, every capability degrades to its fallback
// instead of erroring.
func TestFakeGateway_QuotaExhaustionDegradesEveryCall(t *testing.T) {
	fg := NewFakeGateway()
	fg.SetQuotaExhausted(true)
	ctx := context.Background()

	questions, degraded, err := fg.GenerateQuestions(ctx, "jd", "resume", "PYTHON")
	require.NoError(t, err)
	assert.True(t, degraded)
	assert.NotEmpty(t, questions)

	_, ok, err := fg.GenerateFollowUp(ctx, "parent", "I don't know")
	require.NoError(t, err)
	assert.False(t, ok)

	_, degraded, err = fg.Synthesize(ctx, "hello", "en", "US")
	require.NoError(t, err)
	assert.True(t, degraded)

	resumeScore, err := fg.EvaluateResume(ctx, "resume", "jd")
	require.NoError(t, err)
	assert.Equal(t, 7.0, resumeScore.Score)

	overall, err := fg.EvaluateOverall(ctx, 9.0, 3.0, "none")
	require.NoError(t, err)
	assert.Equal(t, 6.0, overall.Score)
	assert.Equal(t, "insufficient AI signal to recommend", overall.RecommendationText)
}

func TestFakeGateway_NormalOperationReturnsConfiguredScores(t *testing.T) {
	fg := NewFakeGateway()
	ctx := context.Background()

	resumeScore, err := fg.EvaluateResume(ctx, "resume", "jd")
	require.NoError(t, err)
	assert.Equal(t, fg.ResumeScore, resumeScore.Score)

	overall, err := fg.EvaluateOverall(ctx, 9.0, 3.0, "none")
	require.NoError(t, err)
	assert.Equal(t, fg.OverallScore, overall.Score)
	assert.Equal(t, fg.Recommendation, overall.RecommendationText)
}

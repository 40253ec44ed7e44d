package aigateway

import (
	"context"
	"fmt"
	"sync/atomic"
)

// FakeGateway is the deterministic Gateway double used by pkg/interview and
// pkg/evaluation tests, and by scenario tests exercising spec.md Scenario S5
// (quota exhaustion mid-interview). Forced failure/quota behavior is set by
// the test, not inferred from call count, so scenarios are reproducible.
type FakeGateway struct {
	quota atomic.Bool

	// ForceFollowUp, when non-empty, is returned verbatim by GenerateFollowUp
	// regardless of the uncertainty heuristic.
	ForceFollowUp string
	// FailTranscribe makes Transcribe return an error, simulating an ASR outage.
	FailTranscribe bool
	// HardFail mirrors httpGateway's AI_QUOTA_HARD_FAIL setting, for tests
	// exercising the quota-hard-fail path without standing up an httpGateway.
	HardFail bool
	// ResumeScore/AnswersScore/OverallScore/Recommendation are the fixed
	// scores FakeGateway returns so evaluation tests can assert on exact
	// numbers instead of tolerating LLM nondeterminism.
	ResumeScore    float64
	AnswersScore   float64
	OverallScore   float64
	Recommendation string
}

// NewFakeGateway returns a FakeGateway with reasonable non-zero defaults.
func NewFakeGateway() *FakeGateway {
	return &FakeGateway{
		ResumeScore:    8.0,
		AnswersScore:   7.5,
		OverallScore:   7.8,
		Recommendation: "recommend to proceed",
	}
}

// SetQuotaExhausted lets a test flip the process-wide-equivalent flag this
// fake carries, to drive the degraded-fallback paths spec.md §4.5 and
// Scenario S5 require without touching the real quotaFlag.
func (f *FakeGateway) SetQuotaExhausted(v bool) { f.quota.Store(v) }

func (f *FakeGateway) QuotaExhausted() bool { return f.quota.Load() }

// QuotaHardFailConfigured satisfies the optional hardFailConfigured
// interface pkg/evaluation checks for.
func (f *FakeGateway) QuotaHardFailConfigured() bool { return f.HardFail }

func (f *FakeGateway) GenerateQuestions(ctx context.Context, jobDescription, resumeText, codingLanguage string) ([]GeneratedQuestion, bool, error) {
	if f.quota.Load() {
		return FallbackQuestions(codingLanguage), true, nil
	}
	return []GeneratedQuestion{
		{Type: "ICE_BREAKER", Text: "Tell me about yourself."},
		{Type: "TECHNICAL", Text: "Explain how a hash map works."},
		{Type: "BEHAVIORAL", Text: "Describe a conflict you resolved."},
		{Type: "CODING", Text: "Reverse a linked list.", CodingLanguage: codingLanguage},
	}, false, nil
}

func (f *FakeGateway) GenerateFollowUp(ctx context.Context, parentText, transcript string) (string, bool, error) {
	if f.quota.Load() {
		return "", false, nil
	}
	if f.ForceFollowUp != "" {
		return f.ForceFollowUp, true, nil
	}
	if !expressesUncertainty(transcript) {
		return "", false, nil
	}
	return fmt.Sprintf("Can you say more about why you're unsure on: %s?", parentText), true, nil
}

func (f *FakeGateway) Transcribe(ctx context.Context, audio []byte, mime string) (string, error) {
	if f.FailTranscribe {
		return "", fmt.Errorf("fake: asr unavailable")
	}
	if f.quota.Load() {
		return "", ErrAuthOrQuota
	}
	return "this is a fake transcript", nil
}

func (f *FakeGateway) Synthesize(ctx context.Context, text, lang, accent string) ([]byte, bool, error) {
	if f.quota.Load() {
		return nil, true, nil
	}
	return []byte("fake-audio:" + text), false, nil
}

func (f *FakeGateway) EvaluateResume(ctx context.Context, resumeText, jobDescription string) (ScoreResult, error) {
	if f.quota.Load() {
		return ScoreResult{Score: 7.0, Feedback: "assessment provided without AI analysis"}, nil
	}
	return ScoreResult{Score: f.ResumeScore, Feedback: "fake resume feedback"}, nil
}

func (f *FakeGateway) EvaluateAnswers(ctx context.Context, qaText, codeText string) (ScoreResult, error) {
	if f.quota.Load() {
		return ScoreResult{Score: 7.0, Feedback: "assessment provided without AI analysis"}, nil
	}
	return ScoreResult{Score: f.AnswersScore, Feedback: "fake answers feedback"}, nil
}

func (f *FakeGateway) EvaluateOverall(ctx context.Context, resumeScore, answersScore float64, warningSummary string) (OverallResult, error) {
	if f.quota.Load() {
		mean := (resumeScore + answersScore) / 2
		return OverallResult{
			ScoreResult:        ScoreResult{Score: mean, Feedback: "assessment provided without AI analysis"},
			RecommendationText: "insufficient AI signal to recommend",
		}, nil
	}
	return OverallResult{
		ScoreResult:        ScoreResult{Score: f.OverallScore, Feedback: "fake overall feedback"},
		RecommendationText: f.Recommendation,
	}, nil
}

func (f *FakeGateway) OCRIDCard(ctx context.Context, image []byte) (OCRResult, error) {
	if f.quota.Load() {
		return OCRResult{}, ErrAuthOrQuota
	}
	return OCRResult{Name: "Jane Candidate", IDNumber: "FAKE-ID-0001"}, nil
}

// Package aigateway implements the AI Gateway (C5): a rate-limited,
// quota-aware capability surface over LLM/ASR/TTS providers with
// deterministic fallbacks. Grounded on pkg/agent/llm_client.go's
// provider-agnostic LLMClient interface, generalized from "LLM only" to
// the three capability classes spec.md §4.5 requires.
package aigateway

import (
	"context"

	"github.com/codeready-toolchain/interviewplatform/pkg/domain"
)

// GeneratedQuestion is one question produced by generate_questions, prior
// to being persisted as a domain.Question.
type GeneratedQuestion struct {
	Type           domain.QuestionType
	Text           string
	CodingLanguage string
}

// ScoreResult is the {score, feedback} pair returned by the three
// evaluate_* operations.
type ScoreResult struct {
	Score    float64 // 0..10
	Feedback string
}

// OverallResult adds the hire recommendation text to ScoreResult.
type OverallResult struct {
	ScoreResult
	RecommendationText string
}

// OCRResult is the {name, id_number} pair returned by ocr_id_card.
type OCRResult struct {
	Name     string
	IDNumber string
}

// Gateway is the capability surface of spec.md §4.5. Exactly one live
// HTTP-backed implementation (httpGateway) and one deterministic fake
// (FakeGateway) exist — per DESIGN NOTES §9, no runtime type switching
// anywhere else in the codebase.
type Gateway interface {
	GenerateQuestions(ctx context.Context, jobDescription, resumeText, codingLanguage string) ([]GeneratedQuestion, degraded bool, err error)
	GenerateFollowUp(ctx context.Context, parentText, transcript string) (question string, ok bool, err error)
	Transcribe(ctx context.Context, audio []byte, mime string) (transcript string, err error)
	Synthesize(ctx context.Context, text, lang, accent string) (audio []byte, degraded bool, err error)
	EvaluateResume(ctx context.Context, resumeText, jobDescription string) (ScoreResult, error)
	EvaluateAnswers(ctx context.Context, qaText, codeText string) (ScoreResult, error)
	EvaluateOverall(ctx context.Context, resumeScore, answersScore float64, warningSummary string) (OverallResult, error)
	OCRIDCard(ctx context.Context, image []byte) (OCRResult, error)
	// QuotaExhausted reports the current value of the process-wide quota flag.
	QuotaExhausted() bool
}

// FallbackQuestions returns the deterministic default set spec.md §4.5
// requires when generation fails or is quota-exhausted: at least one
// ice-breaker, one technical, one behavioral, and one coding question whose
// language matches the job's — resolving the Open Question in spec.md §9
// about the fallback coding language.
func FallbackQuestions(codingLanguage string) []GeneratedQuestion {
	if codingLanguage == "" {
		codingLanguage = "PYTHON"
	}
	return []GeneratedQuestion{
		{Type: domain.QuestionIceBreaker, Text: "Tell me a bit about yourself and what drew you to this role."},
		{Type: domain.QuestionTechnical, Text: "Describe a technically challenging problem you solved recently."},
		{Type: domain.QuestionBehavioral, Text: "Tell me about a time you disagreed with a teammate and how you resolved it."},
		{Type: domain.QuestionCoding, Text: "Write a function that reverses a string.", CodingLanguage: codingLanguage},
	}
}

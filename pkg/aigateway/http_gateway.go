package aigateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/codeready-toolchain/interviewplatform/pkg/domain"
)

// Config configures httpGateway's provider endpoints.
type Config struct {
	LLMBaseURL string
	LLMAPIKey  string
	ASRBaseURL string
	ASRAPIKey  string
	TTSBaseURL string
	TTSAPIKey  string

	RateLimitPerMinute int
	QuotaHardFail      bool
	CallTimeout        time.Duration
}

// httpGateway is the live Gateway implementation: plain HTTP JSON calls to
// OpenAI/Anthropic-style provider endpoints, shaped the way
// pkg/agent/llm_client.go models a capability interface without provider
// leakage (no provider-specific type appears in the Gateway interface).
type httpGateway struct {
	cfg     Config
	client  *http.Client
	limiter *RateLimiter
	quota   quotaFlag
	tokens  *tokenCounter
}

// NewHTTPGateway constructs the live Gateway.
func NewHTTPGateway(cfg Config) Gateway {
	timeout := cfg.CallTimeout
	if timeout == 0 {
		timeout = 90 * time.Second
	}
	return &httpGateway{
		cfg:     cfg,
		client:  &http.Client{Timeout: timeout},
		limiter: NewRateLimiter(cfg.RateLimitPerMinute),
		tokens:  newTokenCounter(),
	}
}

func (g *httpGateway) QuotaExhausted() bool { return g.quota.Exhausted() }

// QuotaHardFailConfigured reports the AI_QUOTA_HARD_FAIL setting this
// gateway was built with, for callers (pkg/evaluation) that need to decide
// whether an already-exhausted quota should surface as an error before
// attempting any call.
func (g *httpGateway) QuotaHardFailConfigured() bool { return g.cfg.QuotaHardFail }

// hardFail reports whether err should be surfaced as a real error instead of
// triggering one of the degraded-fallback paths below, per the
// AI_QUOTA_HARD_FAIL contract: when set, an auth/quota failure is never
// silently papered over with a fallback score or question set.
func (g *httpGateway) hardFail(err error) bool {
	return g.cfg.QuotaHardFail && errors.Is(err, ErrAuthOrQuota)
}

// llmCall performs one rate-limited, retried POST against the LLM base URL,
// marking the process-wide quota flag on a 429/quota-shaped response.
func (g *httpGateway) llmCall(ctx context.Context, path string, reqBody, respBody any) error {
	if g.quota.Exhausted() {
		return ErrAuthOrQuota
	}
	if err := g.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}
	return withRetry(ctx, func() error {
		payload, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.LLMBaseURL+path, bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+g.cfg.LLMAPIKey)

		resp, err := g.client.Do(req)
		if err != nil {
			return fmt.Errorf("do request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests {
			g.quota.Set()
			return ErrAuthOrQuota
		}
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return fmt.Errorf("%w: status %d", ErrAuthOrQuota, resp.StatusCode)
		}
		if resp.StatusCode >= 500 {
			return fmt.Errorf("transient provider error: status %d", resp.StatusCode)
		}
		if resp.StatusCode >= 400 {
			body, _ := io.ReadAll(resp.Body)
			return fmt.Errorf("provider error %d: %s", resp.StatusCode, string(body))
		}
		if respBody != nil {
			return json.NewDecoder(resp.Body).Decode(respBody)
		}
		return nil
	})
}

type llmCompletionRequest struct {
	Prompt string `json:"prompt"`
}

type llmCompletionResponse struct {
	Text string `json:"text"`
}

func (g *httpGateway) GenerateQuestions(ctx context.Context, jobDescription, resumeText, codingLanguage string) ([]GeneratedQuestion, bool, error) {
	jobDescription = g.tokens.trimToTokens(jobDescription, 4000)
	resumeText = g.tokens.trimToTokens(resumeText, 2000)

	prompt := fmt.Sprintf(
		"Generate interview questions for a %s role.\nJob description:\n%s\nCandidate resume:\n%s\n"+
			"Structure your answer with Markdown headers '## Technical Questions' and '## Behavioral Questions',"+
			" hyphen-prefixed bullet lines under each, plus an ice-breaker and one coding question in %s.",
		codingLanguage, jobDescription, resumeText, codingLanguage)

	var resp llmCompletionResponse
	err := g.llmCall(ctx, "/v1/complete", llmCompletionRequest{Prompt: prompt}, &resp)
	if err != nil {
		if g.hardFail(err) {
			return nil, false, err
		}
		return FallbackQuestions(codingLanguage), true, nil
	}

	questions, ok := parseGeneratedQuestions(resp.Text, codingLanguage)
	if !ok {
		return FallbackQuestions(codingLanguage), true, nil
	}
	return questions, false, nil
}

// parseGeneratedQuestions parses the "## Technical Questions" / "## Behavioral
// Questions" Markdown + hyphen-bullet contract of spec.md §4.5.
func parseGeneratedQuestions(text, codingLanguage string) ([]GeneratedQuestion, bool) {
	sections := map[string]domain.QuestionType{
		"## Ice Breaker":          domain.QuestionIceBreaker,
		"## Technical Questions":  domain.QuestionTechnical,
		"## Behavioral Questions": domain.QuestionBehavioral,
		"## Coding Questions":     domain.QuestionCoding,
	}
	var out []GeneratedQuestion
	var current domain.QuestionType
	inSection := false
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if qType, ok := sections[trimmed]; ok {
			current = qType
			inSection = true
			continue
		}
		if !inSection || !strings.HasPrefix(trimmed, "-") {
			continue
		}
		qText := strings.TrimSpace(strings.TrimPrefix(trimmed, "-"))
		if qText == "" {
			continue
		}
		q := GeneratedQuestion{Type: current, Text: qText}
		if current == domain.QuestionCoding {
			q.CodingLanguage = codingLanguage
		}
		out = append(out, q)
	}

	hasType := func(t domain.QuestionType) bool {
		for _, q := range out {
			if q.Type == t {
				return true
			}
		}
		return false
	}
	if !hasType(domain.QuestionIceBreaker) || !hasType(domain.QuestionTechnical) ||
		!hasType(domain.QuestionBehavioral) || !hasType(domain.QuestionCoding) {
		return nil, false
	}
	return out, true
}

func (g *httpGateway) GenerateFollowUp(ctx context.Context, parentText, transcript string) (string, bool, error) {
	if !expressesUncertainty(transcript) {
		return "", false, nil
	}
	if len(strings.TrimSpace(transcript)) == 0 {
		return "", false, nil
	}

	prompt := fmt.Sprintf("The candidate answered %q to the question %q uncertainly. "+
		"Produce one short conversational follow-up probe, or the single word NO_FOLLOW_UP if none is warranted.",
		transcript, parentText)
	var resp llmCompletionResponse
	if err := g.llmCall(ctx, "/v1/complete", llmCompletionRequest{Prompt: prompt}, &resp); err != nil {
		if g.hardFail(err) {
			return "", false, err
		}
		return "", false, nil
	}
	followUp := strings.TrimSpace(resp.Text)
	if followUp == "" || strings.EqualFold(followUp, "NO_FOLLOW_UP") {
		return "", false, nil
	}
	return followUp, true, nil
}

func (g *httpGateway) EvaluateResume(ctx context.Context, resumeText, jobDescription string) (ScoreResult, error) {
	return g.evaluateFallbackable(ctx, fmt.Sprintf(
		"Score this candidate's résumé fit for the job on a scale of 0-10 with one decimal, then feedback.\nResume:\n%s\nJob:\n%s",
		resumeText, jobDescription), 7.0, "assessment provided without AI analysis")
}

func (g *httpGateway) EvaluateAnswers(ctx context.Context, qaText, codeText string) (ScoreResult, error) {
	return g.evaluateFallbackable(ctx, fmt.Sprintf(
		"Score these interview answers and code submissions on a scale of 0-10 with one decimal, then feedback.\nQ&A:\n%s\nCode:\n%s",
		qaText, codeText), 7.0, "assessment provided without AI analysis")
}

type scoreResponse struct {
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback"`
}

func (g *httpGateway) evaluateFallbackable(ctx context.Context, prompt string, fallbackScore float64, fallbackFeedback string) (ScoreResult, error) {
	var resp scoreResponse
	if err := g.llmCall(ctx, "/v1/score", llmCompletionRequest{Prompt: prompt}, &resp); err != nil {
		if g.hardFail(err) {
			return ScoreResult{}, err
		}
		return ScoreResult{Score: fallbackScore, Feedback: fallbackFeedback}, nil
	}
	return ScoreResult{Score: resp.Score, Feedback: resp.Feedback}, nil
}

func (g *httpGateway) EvaluateOverall(ctx context.Context, resumeScore, answersScore float64, warningSummary string) (OverallResult, error) {
	if g.quota.Exhausted() {
		if g.cfg.QuotaHardFail {
			return OverallResult{}, ErrAuthOrQuota
		}
		mean := (resumeScore + answersScore) / 2
		return OverallResult{
			ScoreResult:         ScoreResult{Score: mean, Feedback: "assessment provided without AI analysis"},
			RecommendationText: "insufficient AI signal to recommend",
		}, nil
	}
	prompt := fmt.Sprintf(
		"Resume score: %.1f. Answers score: %.1f. Proctoring warnings: %s. Give an overall score 0-10 and a hire recommendation.",
		resumeScore, answersScore, warningSummary)
	var resp struct {
		Score              float64 `json:"score"`
		RecommendationText string  `json:"recommendation_text"`
	}
	if err := g.llmCall(ctx, "/v1/overall", llmCompletionRequest{Prompt: prompt}, &resp); err != nil {
		if g.hardFail(err) {
			return OverallResult{}, err
		}
		mean := (resumeScore + answersScore) / 2
		return OverallResult{
			ScoreResult:         ScoreResult{Score: mean, Feedback: "assessment provided without AI analysis"},
			RecommendationText: "insufficient AI signal to recommend",
		}, nil
	}
	return OverallResult{ScoreResult: ScoreResult{Score: resp.Score}, RecommendationText: resp.RecommendationText}, nil
}

type asrResponse struct {
	Transcript string `json:"transcript"`
}

func (g *httpGateway) Transcribe(ctx context.Context, audio []byte, mime string) (string, error) {
	if g.quota.Exhausted() {
		return "", ErrAuthOrQuota
	}
	if err := g.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit: %w", err)
	}
	var resp asrResponse
	err := withRetry(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.ASRBaseURL+"/v1/transcribe", bytes.NewReader(audio))
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Content-Type", mime)
		req.Header.Set("Authorization", "Bearer "+g.cfg.ASRAPIKey)

		httpResp, err := g.client.Do(req)
		if err != nil {
			return fmt.Errorf("do request: %w", err)
		}
		defer httpResp.Body.Close()

		if httpResp.StatusCode == http.StatusTooManyRequests {
			g.quota.Set()
			return ErrAuthOrQuota
		}
		if httpResp.StatusCode >= 500 {
			return fmt.Errorf("transient provider error: status %d", httpResp.StatusCode)
		}
		if httpResp.StatusCode >= 400 {
			body, _ := io.ReadAll(httpResp.Body)
			return fmt.Errorf("provider error %d: %s", httpResp.StatusCode, string(body))
		}
		return json.NewDecoder(httpResp.Body).Decode(&resp)
	})
	if err != nil {
		return "", err
	}
	return resp.Transcript, nil
}

func (g *httpGateway) Synthesize(ctx context.Context, text, lang, accent string) ([]byte, bool, error) {
	if g.quota.Exhausted() {
		if g.cfg.QuotaHardFail {
			return nil, false, ErrAuthOrQuota
		}
		return nil, true, nil
	}
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, true, nil
	}
	audio, err := streamSynthesize(ctx, g.client, g.cfg, text, lang, accent)
	if err != nil {
		if errors.Is(err, ErrAuthOrQuota) {
			g.quota.Set()
		}
		if g.hardFail(err) {
			return nil, false, err
		}
		return nil, true, nil
	}
	return audio, false, nil
}

func (g *httpGateway) OCRIDCard(ctx context.Context, image []byte) (OCRResult, error) {
	var resp OCRResult
	req := struct {
		ImageB64 string `json:"image_b64"`
	}{ImageB64: string(image)}
	if err := g.llmCall(ctx, "/v1/ocr", req, &resp); err != nil {
		return OCRResult{}, err
	}
	return resp, nil
}

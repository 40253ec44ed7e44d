package evaluation

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/codeready-toolchain/interviewplatform/pkg/aigateway"
	"github.com/codeready-toolchain/interviewplatform/pkg/domain"
)

// sessionStore is the subset of pkg/store the Evaluator needs to assemble
// and persist a result, defined at the point of use per the narrow-interface
// pattern already established in pkg/interview and pkg/proctor.
type sessionStore interface {
	GetSession(ctx context.Context, id string) (*domain.Session, error)
	UpdateSession(ctx context.Context, s *domain.Session) error
	ListQuestions(ctx context.Context, sessionID string) ([]*domain.Question, error)
	ListResponses(ctx context.Context, sessionID string) ([]*domain.Response, error)
	UpdateResponseMetrics(ctx context.Context, responseID string, fillerWordCount int, wpm, sentiment float64) error
	ListCodeSubmissions(ctx context.Context, sessionID string) ([]*domain.CodeSubmission, error)
	ListWarnings(ctx context.Context, sessionID string) ([]*domain.WarningLog, error)
	UpsertEvaluation(ctx context.Context, e *domain.EvaluationResult) error
}

// StoreAdapter adapts *store.Store's repo fields to sessionStore through
// small method-set interfaces, so pkg/evaluation never imports pkg/store
// directly (it only needs a handful of calls).
//
// This type lives next to Evaluator so callers outside this package can
// construct it without reaching into an internal adapter package.
type StoreAdapter struct {
	Sessions    interface {
		GetByID(ctx context.Context, id string) (*domain.Session, error)
		Update(ctx context.Context, s *domain.Session) error
	}
	Questions interface {
		ListBySession(ctx context.Context, sessionID string) ([]*domain.Question, error)
	}
	Responses interface {
		ListBySession(ctx context.Context, sessionID string) ([]*domain.Response, error)
		UpdateMetrics(ctx context.Context, responseID string, fillerWordCount int, wpm, sentiment float64) error
	}
	Code interface {
		ListBySession(ctx context.Context, sessionID string) ([]*domain.CodeSubmission, error)
	}
	Warnings interface {
		ListBySession(ctx context.Context, sessionID string) ([]*domain.WarningLog, error)
	}
	Evaluations interface {
		Upsert(ctx context.Context, e *domain.EvaluationResult) error
	}
}

func (a *StoreAdapter) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	return a.Sessions.GetByID(ctx, id)
}
func (a *StoreAdapter) UpdateSession(ctx context.Context, s *domain.Session) error {
	return a.Sessions.Update(ctx, s)
}
func (a *StoreAdapter) ListQuestions(ctx context.Context, sessionID string) ([]*domain.Question, error) {
	return a.Questions.ListBySession(ctx, sessionID)
}
func (a *StoreAdapter) ListResponses(ctx context.Context, sessionID string) ([]*domain.Response, error) {
	return a.Responses.ListBySession(ctx, sessionID)
}
func (a *StoreAdapter) UpdateResponseMetrics(ctx context.Context, responseID string, fillerWordCount int, wpm, sentiment float64) error {
	return a.Responses.UpdateMetrics(ctx, responseID, fillerWordCount, wpm, sentiment)
}
func (a *StoreAdapter) ListCodeSubmissions(ctx context.Context, sessionID string) ([]*domain.CodeSubmission, error) {
	return a.Code.ListBySession(ctx, sessionID)
}
func (a *StoreAdapter) ListWarnings(ctx context.Context, sessionID string) ([]*domain.WarningLog, error) {
	return a.Warnings.ListBySession(ctx, sessionID)
}
func (a *StoreAdapter) UpsertEvaluation(ctx context.Context, e *domain.EvaluationResult) error {
	return a.Evaluations.Upsert(ctx, e)
}

const fallbackScore = 7.0

// suppressedFromSummary are WarningTypes excluded from the textual summary
// fed to evaluate_overall — PROCTOR_DEGRADED reflects a detector outage, not
// candidate behavior, so it would mislead the recommendation text.
var suppressedFromSummary = map[domain.WarningType]bool{
	domain.WarningProctorDegraded: true,
}

// Evaluator implements pkg/interview.Evaluator, scoring a COMPLETED session
// via pkg/aigateway and persisting an EvaluationResult, per spec.md §4.7.
type Evaluator struct {
	store sessionStore
	gw    aigateway.Gateway
	log   *slog.Logger
}

func New(store sessionStore, gw aigateway.Gateway, log *slog.Logger) *Evaluator {
	if log == nil {
		log = slog.Default()
	}
	return &Evaluator{store: store, gw: gw, log: log}
}

// hardFailConfigured is satisfied by Gateway implementations that can be
// configured to turn an already-exhausted quota into a hard error rather
// than a degraded fallback (AI_QUOTA_HARD_FAIL). Checked via an optional
// interface assertion, the same pattern pkg/proctor uses for its registry,
// so aigateway.Gateway itself doesn't need to grow a config-shaped method.
type hardFailConfigured interface {
	QuotaHardFailConfigured() bool
}

func (e *Evaluator) quotaHardFailConfigured() bool {
	hf, ok := e.gw.(hardFailConfigured)
	return ok && hf.QuotaHardFailConfigured()
}

// Evaluate runs the 8-step procedure of spec.md §4.7 and is safe to call
// more than once for the same session: Upsert replaces the prior result.
func (e *Evaluator) Evaluate(ctx context.Context, sessionID string) error {
	session, err := e.store.GetSession(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	questions, err := e.store.ListQuestions(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("load questions: %w", err)
	}
	responses, err := e.store.ListResponses(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("load responses: %w", err)
	}
	code, err := e.store.ListCodeSubmissions(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("load code submissions: %w", err)
	}
	warnings, err := e.store.ListWarnings(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("load warnings: %w", err)
	}

	responsesByQuestion := make(map[string]*domain.Response, len(responses))
	for _, r := range responses {
		responsesByQuestion[r.QuestionID] = r
	}

	// Step 7: mechanical metrics per response, persisted alongside (never
	// substituted for) the LLM scores computed below.
	for _, r := range responses {
		m := ComputeMetrics(r.Text, r.DurationSeconds)
		if err := e.store.UpdateResponseMetrics(ctx, r.ID, m.FillerWordCount, m.WordsPerMinute, m.SentimentScore); err != nil {
			e.log.Warn("persist response metrics failed", "response_id", r.ID, "error", err)
		}
	}

	spokenBlock := assembleSpokenBlock(questions, responsesByQuestion)
	codingBlock := assembleCodingBlock(questions, code)
	warningSummary := summarizeWarnings(warnings)

	result := &domain.EvaluationResult{
		ID:        uuid.NewString(),
		SessionID: session.ID,
		InterviewID: session.InterviewID,
		CreatedAt: time.Now(),
	}

	if e.gw.QuotaExhausted() {
		if e.quotaHardFailConfigured() {
			return fmt.Errorf("score with AI gateway: %w", aigateway.ErrAuthOrQuota)
		}
		e.fallback(result)
	} else if err := e.scoreWithGateway(ctx, session, spokenBlock, codingBlock, warningSummary, result); err != nil {
		return fmt.Errorf("score with AI gateway: %w", err)
	}

	if err := e.store.UpsertEvaluation(ctx, result); err != nil {
		return fmt.Errorf("persist evaluation result: %w", err)
	}

	session.IsEvaluated = true
	if err := e.store.UpdateSession(ctx, session); err != nil {
		return fmt.Errorf("mark session evaluated: %w", err)
	}
	return nil
}

// scoreWithGateway calls the AI Gateway's three evaluation steps in turn.
// Each of aigateway.Gateway's methods already degrades transient/quota
// failures into a nil-error fallback value internally; a non-nil error
// reaching here means AI_QUOTA_HARD_FAIL is set and the underlying cause was
// an auth/quota failure, so it propagates instead of being papered over.
func (e *Evaluator) scoreWithGateway(ctx context.Context, session *domain.Session, spokenBlock, codingBlock, warningSummary string, result *domain.EvaluationResult) error {
	resumeResult, err := e.gw.EvaluateResume(ctx, session.ResumeText, session.JobDescription)
	if err != nil {
		return fmt.Errorf("evaluate resume: %w", err)
	}
	answersResult, err := e.gw.EvaluateAnswers(ctx, spokenBlock, codingBlock)
	if err != nil {
		return fmt.Errorf("evaluate answers: %w", err)
	}
	overall, err := e.gw.EvaluateOverall(ctx, resumeResult.Score, answersResult.Score, warningSummary)
	if err != nil {
		return fmt.Errorf("evaluate overall: %w", err)
	}

	result.ResumeScore = resumeResult.Score
	result.AnswersScore = answersResult.Score
	result.OverallScore = overall.Score
	result.FeedbackResume = resumeResult.Feedback
	result.FeedbackAnswers = answersResult.Feedback
	result.FeedbackOverall = overall.RecommendationText
	result.Confidence = 1
	recommend := overall.Score >= 6
	result.HireRecommendation = &recommend
	return nil
}

// fallback applies spec.md §4.7's fixed neutral scoring when the AI Gateway
// is quota-exhausted: confidence drops to zero and the result is still
// persisted rather than left absent. An error from scoreWithGateway is
// returned to the caller, not replaced by these scores.
func (e *Evaluator) fallback(result *domain.EvaluationResult) {
	result.ResumeScore = fallbackScore
	result.AnswersScore = fallbackScore
	result.OverallScore = fallbackScore
	note := "assessment provided without AI analysis"
	result.FeedbackResume = note
	result.FeedbackAnswers = note
	result.FeedbackOverall = note
	result.Confidence = 0
	result.HireRecommendation = nil
}

func assembleSpokenBlock(questions []*domain.Question, responsesByQuestion map[string]*domain.Response) string {
	var b strings.Builder
	for _, q := range questions {
		if q.Type == domain.QuestionCoding {
			continue
		}
		fmt.Fprintf(&b, "Q: %s\n", q.Text)
		resp, ok := responsesByQuestion[q.ID]
		if !ok || strings.TrimSpace(resp.Text) == "" {
			b.WriteString("A: No answer provided.\n\n")
			continue
		}
		fmt.Fprintf(&b, "A: %s\n\n", resp.Text)
	}
	return strings.TrimSpace(b.String())
}

func assembleCodingBlock(questions []*domain.Question, submissions []*domain.CodeSubmission) string {
	questionText := make(map[string]string, len(questions))
	for _, q := range questions {
		questionText[q.ID] = q.Text
	}
	var b strings.Builder
	for _, c := range submissions {
		fmt.Fprintf(&b, "Question: %s\nLanguage: %s\nResult: %s\nSource:\n%s\n\n",
			questionText[c.QuestionID], c.Language, c.OutputLog, c.Source)
	}
	return strings.TrimSpace(b.String())
}

// summarizeWarnings renders "{count}× {type}" per non-suppressed WarningType
// present in the log, per spec.md §4.7 step 5.
func summarizeWarnings(warnings []*domain.WarningLog) string {
	counts := make(map[domain.WarningType]int)
	for _, w := range warnings {
		if suppressedFromSummary[w.Type] {
			continue
		}
		counts[w.Type]++
	}
	if len(counts) == 0 {
		return "no proctoring warnings"
	}
	types := make([]string, 0, len(counts))
	for t := range counts {
		types = append(types, string(t))
	}
	sort.Strings(types)
	parts := make([]string, 0, len(types))
	for _, t := range types {
		parts = append(parts, fmt.Sprintf("%d× %s", counts[domain.WarningType(t)], t))
	}
	return strings.Join(parts, ", ")
}

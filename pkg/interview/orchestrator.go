// Package interview implements the Session Orchestrator (C3): the
// candidate-facing state machine (start/submit_response/complete/
// heartbeat/verify_id) serialized per session per spec.md §4.3/§5.
// Grounded on pkg/services/session_service.go's transactional lifecycle
// shape and pkg/queue/pool.go's per-session registry pattern.
package interview

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/codeready-toolchain/interviewplatform/pkg/aigateway"
	"github.com/codeready-toolchain/interviewplatform/pkg/apperr"
	"github.com/codeready-toolchain/interviewplatform/pkg/domain"
	"github.com/codeready-toolchain/interviewplatform/pkg/store"
	"github.com/codeready-toolchain/interviewplatform/pkg/token"
)

// CodeRunner is the subset of the Code Runner (C6) the orchestrator needs,
// defined at the point of use the way pkg/queue/worker.go defines
// SessionRegistry rather than importing a concrete type.
type CodeRunner interface {
	Run(ctx context.Context, language, source string, tests []*domain.TestCase) (passedAll bool, outputLog string, err error)
}

// Evaluator is the subset of the Evaluation Engine (C7) the orchestrator
// triggers on Complete.
type Evaluator interface {
	Evaluate(ctx context.Context, sessionID string) error
}

// FaceDetector is the subset of the Proctor Pipeline (C4) the orchestrator
// needs for one-shot ID verification.
type FaceDetector interface {
	CountFaces(ctx context.Context, image []byte) (int, error)
}

// ProctorRegistry is the subset of pkg/proctor.Registry the orchestrator
// needs to attach and detach a session's camera/audio Monitor at the points
// spec.md §5's "Proctor ↔ Orchestrator" section names: Monitor lifetime
// tracks session lifetime, started on activation and stopped on
// termination. Optional: set via SetProctorRegistry, nil is a valid
// no-proctoring configuration (used by tests and by any deployment that
// has not wired a live frame transport yet).
type ProctorRegistry interface {
	StartMonitor(ctx context.Context, sessionID string)
	StopMonitor(sessionID string)
}

// Orchestrator implements spec.md §4.3.
type Orchestrator struct {
	store     *store.Store
	minter    *token.Minter
	gateway   aigateway.Gateway
	coderunner CodeRunner
	evaluator Evaluator
	faces     FaceDetector
	proctor   ProctorRegistry
	locks     *lockRegistry
	idleTimeout time.Duration
	log       *slog.Logger
}

// SetProctorRegistry wires the live Proctor Pipeline registry. Called once
// at composition time, after New, since the registry and the orchestrator
// are constructed independently but reference each other's session lifecycle.
func (o *Orchestrator) SetProctorRegistry(r ProctorRegistry) {
	o.proctor = r
}

// New constructs an Orchestrator. idleTimeout defaults to 10 minutes.
func New(st *store.Store, minter *token.Minter, gw aigateway.Gateway, cr CodeRunner, ev Evaluator, fd FaceDetector, idleTimeout time.Duration, log *slog.Logger) *Orchestrator {
	if idleTimeout == 0 {
		idleTimeout = 10 * time.Minute
	}
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{
		store: st, minter: minter, gateway: gw, coderunner: cr, evaluator: ev, faces: fd,
		locks: newLockRegistry(), idleTimeout: idleTimeout, log: log,
	}
}

// verifyToken resolves rawToken to its interview id, translating any
// non-OK VerifyReason into the opaque apperr the public edge surfaces.
func (o *Orchestrator) verifyToken(ctx context.Context, rawToken string) (string, error) {
	res := o.minter.Verify(ctx, rawToken)
	if !res.Valid {
		return "", apperr.New(apperr.KindAuthz, string(res.Reason), token.PublicMessage(res.Reason))
	}
	return res.InterviewID, nil
}

// StartResult is the response shape of Start.
type StartResult struct {
	SessionID      string
	Questions      []*domain.Question
	CurrentQuestion int
	TotalQuestions  int
}

// Start implements spec.md §4.3 start.
func (o *Orchestrator) Start(ctx context.Context, rawToken string) (*StartResult, error) {
	interviewID, err := o.verifyToken(ctx, rawToken)
	if err != nil {
		return nil, err
	}

	unlock := o.locks.acquire(interviewID)
	defer unlock()

	sess, err := o.EnsureSession(ctx, interviewID)
	if err != nil {
		return nil, err
	}

	switch sess.Status {
	case domain.SessionCompleted, domain.SessionExpired, domain.SessionError:
		return nil, apperr.StateConflict("SESSION_TERMINAL", "session has already ended")
	case domain.SessionActive:
		return o.snapshot(ctx, sess)
	case domain.SessionScheduled, domain.SessionPaused:
		// fall through to activation below
	}

	now := time.Now().UTC()
	sess.Status = domain.SessionActive
	sess.StartedAt = &now
	sess.LastInteractionAt = &now

	if sess.TotalQuestions == 0 {
		if err := o.generateQuestions(ctx, sess); err != nil {
			return nil, err
		}
	}

	if err := o.store.Sessions.Update(ctx, sess); err != nil {
		return nil, fmt.Errorf("activate session: %w", err)
	}
	if o.proctor != nil {
		o.proctor.StartMonitor(ctx, sess.ID)
	}
	return o.snapshot(ctx, sess)
}

// EnsureSession returns the interview's Session, creating it on first
// access. Exported so the booking flow (pkg/api) can mint a session_key for
// the "interview scheduled" email before the candidate ever opens the link.
func (o *Orchestrator) EnsureSession(ctx context.Context, interviewID string) (*domain.Session, error) {
	sess, err := o.store.Sessions.GetByInterviewID(ctx, interviewID)
	if err == store.ErrNotFound {
		sess, err = o.createSession(ctx, interviewID)
	}
	if err != nil {
		return nil, fmt.Errorf("load or create session: %w", err)
	}
	return sess, nil
}

func (o *Orchestrator) createSession(ctx context.Context, interviewID string) (*domain.Session, error) {
	iv, err := o.store.Interviews.GetByID(ctx, interviewID)
	if err != nil {
		return nil, fmt.Errorf("load interview: %w", err)
	}
	job, err := o.store.Jobs.GetByID(ctx, iv.JobID)
	if err != nil {
		return nil, fmt.Errorf("load job: %w", err)
	}
	cand, err := o.store.Candidates.GetByID(ctx, iv.CandidateID)
	if err != nil {
		return nil, fmt.Errorf("load candidate: %w", err)
	}

	sess := &domain.Session{
		ID:             uuid.NewString(),
		SessionKey:     uuid.NewString(),
		InterviewID:    interviewID,
		CandidateName:  cand.DisplayName,
		CandidateEmail: cand.Email,
		JobDescription: job.Description,
		ResumeText:     cand.ResumeText,
		CodingLanguage: job.CodingLanguage,
		Status:         domain.SessionScheduled,
		IDVerification: domain.IDVerificationPending,
		CreatedAt:      time.Now().UTC(),
	}
	if err := o.store.Sessions.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return sess, nil
}

// generateQuestions requests the initial question set from the AI Gateway
// and persists it as MAIN questions, per spec.md §4.3/§4.5.
func (o *Orchestrator) generateQuestions(ctx context.Context, sess *domain.Session) error {
	generated, degraded, err := o.gateway.GenerateQuestions(ctx, sess.JobDescription, sess.ResumeText, sess.CodingLanguage)
	if err != nil {
		return fmt.Errorf("generate questions: %w", err)
	}
	if degraded {
		o.log.Warn("question generation degraded to fallback content", "session_id", sess.ID)
	}
	for i, g := range generated {
		q := &domain.Question{
			ID:             uuid.NewString(),
			SessionID:      sess.ID,
			Order:          i,
			Type:           g.Type,
			Level:          domain.QuestionMain,
			Text:           g.Text,
			CodingLanguage: g.CodingLanguage,
			CreatedAt:      time.Now().UTC(),
		}
		if err := o.store.Questions.Create(ctx, q); err != nil {
			return fmt.Errorf("persist generated question %d: %w", i, err)
		}
	}
	sess.TotalQuestions = len(generated)
	return nil
}

func (o *Orchestrator) snapshot(ctx context.Context, sess *domain.Session) (*StartResult, error) {
	questions, err := o.store.Questions.ListBySession(ctx, sess.ID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return &StartResult{
		SessionID:       sess.ID,
		Questions:       questions,
		CurrentQuestion: sess.CurrentQuestion,
		TotalQuestions:  sess.TotalQuestions,
	}, nil
}

// ResponsePayload is the tagged payload of submit_response.
type ResponsePayload struct {
	Kind           domain.ResponsePayloadKind
	Text           string // TEXT
	Audio          []byte // AUDIO
	AudioMIME      string
	CodeSource     string // CODE
	CodeLanguage   string
}

// SubmitResult is the response shape of SubmitResponse.
type SubmitResult struct {
	NextQuestionID string
	FollowUp       *domain.Question
	SessionStatus  domain.SessionStatus
}

// SubmitResponse implements spec.md §4.3 submit_response.
func (o *Orchestrator) SubmitResponse(ctx context.Context, sessionID, rawToken, questionID string, payload ResponsePayload) (*SubmitResult, error) {
	interviewID, err := o.verifyToken(ctx, rawToken)
	if err != nil {
		return nil, err
	}

	unlock := o.locks.acquire(interviewID)
	defer unlock()

	sess, err := o.store.Sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if sess.InterviewID != interviewID {
		return nil, apperr.New(apperr.KindAuthz, "TOKEN_SESSION_MISMATCH", "token does not authorize this session")
	}
	if sess.Status != domain.SessionActive {
		return nil, apperr.StateConflict("SESSION_TERMINAL", "session is not active")
	}

	q, err := o.store.Questions.GetByID(ctx, questionID)
	if err != nil || q.SessionID != sessionID {
		return nil, apperr.Validation("question_id", "question does not belong to this session")
	}

	if q.Level == domain.QuestionFollowUp {
		parentResponses, err := o.store.Responses.GetByQuestion(ctx, *q.ParentID)
		if err != nil {
			return nil, fmt.Errorf("load parent responses: %w", err)
		}
		if !hasNonEmptyResponse(parentResponses) {
			return nil, apperr.StateConflict("FOLLOWUP_PARENT_UNANSWERED", "parent question has not been answered yet")
		}
	}

	existing, err := o.store.Responses.GetByQuestion(ctx, questionID)
	if err != nil {
		return nil, fmt.Errorf("load existing responses: %w", err)
	}
	if hasNonEmptyResponse(existing) {
		return nil, apperr.StateConflict("ALREADY_ANSWERED", "question already has a response")
	}

	answerText, err := o.resolveAnswerText(ctx, payload)
	if err != nil {
		return nil, err
	}

	resp := &domain.Response{
		ID:          uuid.NewString(),
		QuestionID:  questionID,
		SessionID:   sessionID,
		Kind:        payload.Kind,
		Text:        answerText,
		SubmittedAt: time.Now().UTC(),
		CreatedAt:   time.Now().UTC(),
	}
	if err := o.store.Responses.Create(ctx, resp); err != nil {
		return nil, fmt.Errorf("persist response: %w", err)
	}

	if payload.Kind == domain.PayloadCode {
		if err := o.runCodeSubmission(ctx, sess, q, payload); err != nil {
			return nil, err
		}
	}

	var followUp *domain.Question
	if q.Level == domain.QuestionMain && strings.TrimSpace(answerText) != "" {
		followUp, err = o.maybeGenerateFollowUp(ctx, sess, q, answerText)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	sess.LastInteractionAt = &now
	sess.CurrentQuestion++

	nextID, allDone, err := o.nextQuestion(ctx, sess)
	if err != nil {
		return nil, err
	}
	if allDone {
		if err := o.completeLocked(ctx, sess); err != nil {
			return nil, err
		}
	} else if err := o.store.Sessions.Update(ctx, sess); err != nil {
		return nil, fmt.Errorf("update session progress: %w", err)
	}

	return &SubmitResult{NextQuestionID: nextID, FollowUp: followUp, SessionStatus: sess.Status}, nil
}

func hasNonEmptyResponse(responses []*domain.Response) bool {
	for _, r := range responses {
		if strings.TrimSpace(r.Text) != "" {
			return true
		}
	}
	return false
}

func (o *Orchestrator) resolveAnswerText(ctx context.Context, payload ResponsePayload) (string, error) {
	switch payload.Kind {
	case domain.PayloadText:
		return payload.Text, nil
	case domain.PayloadAudio:
		transcript, err := o.gateway.Transcribe(ctx, payload.Audio, payload.AudioMIME)
		if err != nil {
			return "", apperr.Wrap(apperr.KindDegraded, "TRANSCRIPTION_FAILED", err)
		}
		return transcript, nil
	case domain.PayloadCode:
		return payload.CodeSource, nil
	default:
		return "", apperr.Validation("kind", "unknown response payload kind")
	}
}

func (o *Orchestrator) runCodeSubmission(ctx context.Context, sess *domain.Session, q *domain.Question, payload ResponsePayload) error {
	tests, err := o.store.TestCases.ListByQuestion(ctx, q.ID)
	if err != nil {
		return fmt.Errorf("load test cases: %w", err)
	}
	if len(tests) == 0 {
		return apperr.New(apperr.KindValidation, "QUESTION_HAS_NO_TESTS", "coding question has no test cases configured")
	}
	lang := payload.CodeLanguage
	if lang == "" {
		lang = q.CodingLanguage
	}
	passedAll, outputLog, err := o.coderunner.Run(ctx, lang, payload.CodeSource, tests)
	if err != nil {
		return err
	}
	submission := &domain.CodeSubmission{
		ID:             uuid.NewString(),
		SessionID:      sess.ID,
		QuestionID:     q.ID,
		Language:       lang,
		Source:         payload.CodeSource,
		PassedAllTests: passedAll,
		OutputLog:      outputLog,
		SubmittedAt:    time.Now().UTC(),
	}
	return o.store.Code.Create(ctx, submission)
}

func (o *Orchestrator) maybeGenerateFollowUp(ctx context.Context, sess *domain.Session, parent *domain.Question, answerText string) (*domain.Question, error) {
	text, ok, err := o.gateway.GenerateFollowUp(ctx, parent.Text, answerText)
	if err != nil || !ok {
		return nil, nil
	}
	fu := &domain.Question{
		ID:        uuid.NewString(),
		SessionID: sess.ID,
		Order:     parent.Order, // same order as parent so it's listed directly after it
		Type:      parent.Type,
		Level:     domain.QuestionFollowUp,
		ParentID:  &parent.ID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	if err := o.store.Questions.Create(ctx, fu); err != nil {
		return nil, fmt.Errorf("persist follow-up question: %w", err)
	}
	sess.TotalQuestions++
	return fu, nil
}

// nextQuestion returns the id of the first question lacking a non-empty
// Response (and for CODING questions, a CodeSubmission), or allDone=true
// when none remain — the auto-completion trigger of spec.md §4.3.
func (o *Orchestrator) nextQuestion(ctx context.Context, sess *domain.Session) (nextID string, allDone bool, err error) {
	questions, err := o.store.Questions.ListBySession(ctx, sess.ID)
	if err != nil {
		return "", false, fmt.Errorf("list questions: %w", err)
	}
	codeSubs, err := o.store.Code.ListBySession(ctx, sess.ID)
	if err != nil {
		return "", false, fmt.Errorf("list code submissions: %w", err)
	}
	hasCodeSubmission := make(map[string]bool, len(codeSubs))
	for _, c := range codeSubs {
		hasCodeSubmission[c.QuestionID] = true
	}

	for _, q := range questions {
		responses, err := o.store.Responses.GetByQuestion(ctx, q.ID)
		if err != nil {
			return "", false, fmt.Errorf("load responses for %s: %w", q.ID, err)
		}
		answered := hasNonEmptyResponse(responses)
		if q.Type == domain.QuestionCoding {
			answered = answered && hasCodeSubmission[q.ID]
		}
		if !answered {
			return q.ID, false, nil
		}
	}
	return "", true, nil
}

// Complete implements spec.md §4.3 complete.
func (o *Orchestrator) Complete(ctx context.Context, sessionID, rawToken string) error {
	interviewID, err := o.verifyToken(ctx, rawToken)
	if err != nil {
		return err
	}

	unlock := o.locks.acquire(interviewID)
	defer unlock()

	sess, err := o.store.Sessions.GetByID(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if sess.InterviewID != interviewID {
		return apperr.New(apperr.KindAuthz, "TOKEN_SESSION_MISMATCH", "token does not authorize this session")
	}
	if sess.Status != domain.SessionActive {
		return apperr.StateConflict("SESSION_TERMINAL", "session is not active")
	}
	return o.completeLocked(ctx, sess)
}

// completeLocked transitions sess to COMPLETED and triggers evaluation
// best-effort. Called with the session's per-interview lock already held.
func (o *Orchestrator) completeLocked(ctx context.Context, sess *domain.Session) error {
	now := time.Now().UTC()
	sess.Status = domain.SessionCompleted
	sess.EndedAt = &now
	if err := o.store.Sessions.Update(ctx, sess); err != nil {
		return fmt.Errorf("complete session: %w", err)
	}
	if o.proctor != nil {
		o.proctor.StopMonitor(sess.ID)
	}

	if o.evaluator == nil {
		return nil
	}
	if err := o.evaluator.Evaluate(ctx, sess.ID); err != nil {
		// Evaluation is best-effort per spec.md §4.3: completion succeeds
		// regardless, and an operator-triggered re-evaluation can recover.
		o.log.Error("evaluation failed after session completion", "session_id", sess.ID, "error", err)
	}
	return nil
}

// Heartbeat implements spec.md §4.3 heartbeat.
func (o *Orchestrator) Heartbeat(ctx context.Context, sessionID string) error {
	sess, err := o.store.Sessions.GetByID(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if sess.Status != domain.SessionActive {
		return nil
	}
	now := time.Now().UTC()
	sess.LastInteractionAt = &now
	return o.store.Sessions.Update(ctx, sess)
}

// VerifyID implements spec.md §4.4's one-shot ID verification operation.
func (o *Orchestrator) VerifyID(ctx context.Context, sessionID, rawToken string, image []byte) error {
	interviewID, err := o.verifyToken(ctx, rawToken)
	if err != nil {
		return err
	}

	unlock := o.locks.acquire(interviewID)
	defer unlock()

	sess, err := o.store.Sessions.GetByID(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if sess.InterviewID != interviewID {
		return apperr.New(apperr.KindAuthz, "TOKEN_SESSION_MISMATCH", "token does not authorize this session")
	}

	faceCount, err := o.faces.CountFaces(ctx, image)
	if err != nil || faceCount != 2 {
		sess.IDVerification = domain.IDVerificationFailed
		_ = o.store.Sessions.Update(ctx, sess)
		return apperr.New(apperr.KindValidation, "WRONG_FACE_COUNT", "expected exactly two faces (candidate and ID photo)")
	}

	ocr, err := o.gateway.OCRIDCard(ctx, image)
	if err != nil {
		sess.IDVerification = domain.IDVerificationFailed
		_ = o.store.Sessions.Update(ctx, sess)
		return apperr.Wrap(apperr.KindDegraded, "OCR_FAILED", err)
	}

	if !nameMatches(ocr.Name, sess.CandidateName) {
		sess.IDVerification = domain.IDVerificationFailed
		_ = o.store.Sessions.Update(ctx, sess)
		return apperr.New(apperr.KindValidation, "NAME_MISMATCH", "extracted ID name does not match the registered candidate")
	}

	sess.IDVerification = domain.IDVerificationVerified
	sess.IDExtractedName = ocr.Name
	sess.IDExtractedNumber = ocr.IDNumber
	return o.store.Sessions.Update(ctx, sess)
}

// nameMatches checks the OCR-extracted name contains (case-insensitively)
// the candidate's first registered name token, per spec.md §4.4.
func nameMatches(extracted, registered string) bool {
	fields := strings.Fields(registered)
	if len(fields) == 0 {
		return false
	}
	return strings.Contains(strings.ToLower(extracted), strings.ToLower(fields[0]))
}

package api

import "time"

// JobResponse is returned by POST /jobs.
type JobResponse struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Company        string   `json:"company"`
	Domain         string   `json:"domain"`
	CodingLanguage string   `json:"coding_language"`
	Description    string   `json:"description"`
	TechStack      []string `json:"tech_stack"`
	CreatedAt      time.Time `json:"created_at"`
}

// CandidateResponse is returned by POST /candidates.
type CandidateResponse struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	ResumeText  string    `json:"resume_text"`
	CreatedAt   time.Time `json:"created_at"`
}

// SlotResponse is returned by POST /slots.
type SlotResponse struct {
	ID         string    `json:"id"`
	JobID      string    `json:"job_id"`
	Date       string    `json:"date"`
	StartTime  string    `json:"start"`
	EndTime    string    `json:"end"`
	Capacity   int       `json:"capacity"`
	Current    int       `json:"current"`
	Status     string    `json:"status"`
	Recurrence string    `json:"recurrence,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// InterviewResponse is the common Interview projection used by both the
// create and detail endpoints.
type InterviewResponse struct {
	ID            string     `json:"id"`
	CandidateID   string     `json:"candidate_id"`
	JobID         string     `json:"job_id"`
	Round         string     `json:"round"`
	Status        string     `json:"status"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
	EndedAt       *time.Time `json:"ended_at,omitempty"`
	LinkExpiresAt *time.Time `json:"link_expires_at,omitempty"`
	ScheduleID    *string    `json:"schedule_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// BookInterviewResponse is returned by POST /interviews/:id/book. EmailSent
// is false (with BookingEmailError populated) when notification delivery
// failed — per spec.md §4.8 the booking itself still succeeds.
type BookInterviewResponse struct {
	ScheduleID        string `json:"schedule_id"`
	EmailSent         bool   `json:"email_sent"`
	BookingEmailError string `json:"booking_ok_email_failed,omitempty"`
}

// RescheduleInterviewResponse is returned by POST /interviews/:id/reschedule.
type RescheduleInterviewResponse struct {
	ScheduleID        string `json:"schedule_id"`
	LinkToken         string `json:"link_token"`
	EmailSent         bool   `json:"email_sent"`
	BookingEmailError string `json:"booking_ok_email_failed,omitempty"`
}

// ScheduleResponse is the Schedule projection embedded in interview detail.
type ScheduleResponse struct {
	ID     string `json:"id"`
	SlotID string `json:"slot_id"`
	Status string `json:"status"`
}

// SessionSummaryResponse is the Session projection embedded in interview detail.
type SessionSummaryResponse struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	IsEvaluated bool   `json:"is_evaluated"`
}

// InterviewDetailResponse is returned by GET /interviews/:id.
type InterviewDetailResponse struct {
	Interview *InterviewResponse      `json:"interview"`
	Schedule  *ScheduleResponse       `json:"schedule,omitempty"`
	Session   *SessionSummaryResponse `json:"session,omitempty"`
}

// EvaluationResponse is returned by GET /sessions/:id/result.
type EvaluationResponse struct {
	SessionID          string  `json:"session_id"`
	OverallScore        float64 `json:"overall_score"`
	ResumeScore          float64 `json:"resume_score"`
	AnswersScore         float64 `json:"answers_score"`
	TechnicalScore       float64 `json:"technical_score"`
	BehavioralScore      float64 `json:"behavioral_score"`
	CodingScore          float64 `json:"coding_score"`
	FeedbackResume       string  `json:"feedback_resume"`
	FeedbackAnswers      string  `json:"feedback_answers"`
	FeedbackOverall      string  `json:"feedback_overall"`
	HireRecommendation   *bool   `json:"hire_recommendation"`
	Confidence           float64 `json:"confidence"`
}

// QuestionView is the candidate-facing projection of a domain.Question —
// deliberately narrower than the recruiter-facing store shape (no internal
// ordering/parent bookkeeping beyond what the candidate client needs to render).
type QuestionView struct {
	ID             string `json:"id"`
	Type           string `json:"type"`
	Text           string `json:"text"`
	CodingLanguage string `json:"coding_language,omitempty"`
	AudioURL       string `json:"audio_url,omitempty"`
}

// StartInterviewResponse is returned by POST /public/ai-interview/start.
type StartInterviewResponse struct {
	SessionID       string          `json:"session_id"`
	Questions       []*QuestionView `json:"questions"`
	CurrentQuestion int             `json:"current"`
	TotalQuestions  int             `json:"total"`
}

// SubmitResponseResponse is returned by POST /public/ai-interview/submit-response.
type SubmitResponseResponse struct {
	NextQuestionID string        `json:"next_question_id,omitempty"`
	FollowUp       *QuestionView `json:"follow_up,omitempty"`
	SessionStatus  string        `json:"session_status"`
}

// CompleteInterviewResponse is returned by POST /public/ai-interview/complete.
type CompleteInterviewResponse struct {
	Status  string `json:"status"`
	Summary string `json:"summary"`
}

// VerifyIDResponse is returned by POST /public/ai-interview/verify-id.
type VerifyIDResponse struct {
	Status string `json:"status"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// InterviewPortalResponse is returned by GET /public/interview/?session_key=…
// It re-mints a link_token from the session's bound interview (minting is
// deterministic over interview state, so this is safe to repeat) so the
// client shell can call the rest of the public endpoints without the
// candidate ever having seen the raw token.
type InterviewPortalResponse struct {
	InterviewID string `json:"interview_id"`
	SessionID   string `json:"session_id"`
	LinkToken   string `json:"link_token,omitempty"`
	Status      string `json:"status"`
}

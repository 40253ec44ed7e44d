package api

// CreateJobRequest is the body of POST /jobs.
type CreateJobRequest struct {
	Title          string   `json:"title" validate:"required"`
	Company        string   `json:"company" validate:"required"`
	Domain         string   `json:"domain"`
	CodingLanguage string   `json:"coding_language" validate:"required"`
	Description    string   `json:"description"`
	TechStack      []string `json:"tech_stack"`
}

// CreateCandidateRequest is the body of POST /candidates. ResumeText carries
// an already-extracted résumé body; no résumé-parsing library is wired for
// this edge, so upload-to-text extraction is the caller's job.
type CreateCandidateRequest struct {
	DisplayName string `json:"display_name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	ResumeText  string `json:"resume_text"`
}

// CreateSlotRequest is the body of POST /slots.
type CreateSlotRequest struct {
	JobID      string `json:"job_id" validate:"required"`
	Date       string `json:"date" validate:"required"`
	Start      string `json:"start" validate:"required"`
	End        string `json:"end" validate:"required"`
	Capacity   int    `json:"capacity" validate:"required,min=1"`
	Recurrence string `json:"recurrence"`
}

// CreateInterviewRequest is the body of POST /interviews.
type CreateInterviewRequest struct {
	CandidateID string `json:"candidate_id" validate:"required"`
	JobID       string `json:"job_id" validate:"required"`
	Round       string `json:"round"`
}

// BookInterviewRequest is the body of POST /interviews/:id/book.
type BookInterviewRequest struct {
	SlotID string `json:"slot_id" validate:"required"`
}

// RescheduleInterviewRequest is the body of POST /interviews/:id/reschedule.
type RescheduleInterviewRequest struct {
	NewSlotID string `json:"new_slot_id" validate:"required"`
}

// StartInterviewRequest is the body of POST /public/ai-interview/start.
type StartInterviewRequest struct {
	InterviewID string `json:"interview_id" validate:"required"`
	LinkToken   string `json:"link_token" validate:"required"`
}

// SubmitResponseRequest is the body of POST /public/ai-interview/submit-response.
type SubmitResponseRequest struct {
	SessionID    string `json:"session_id" validate:"required"`
	LinkToken    string `json:"link_token" validate:"required"`
	QuestionID   string `json:"question_id" validate:"required"`
	Kind         string `json:"kind" validate:"required,oneof=TEXT AUDIO CODE"`
	Text         string `json:"text"`
	AudioBase64  string `json:"audio_base64"`
	AudioMIME    string `json:"audio_mime"`
	CodeSource   string `json:"code_source"`
	CodeLanguage string `json:"code_language"`
}

// CompleteInterviewRequest is the body of POST /public/ai-interview/complete.
type CompleteInterviewRequest struct {
	SessionID string `json:"session_id" validate:"required"`
	LinkToken string `json:"link_token" validate:"required"`
}

// VerifyIDRequest is the body of POST /public/ai-interview/verify-id.
type VerifyIDRequest struct {
	SessionID   string `json:"session_id" validate:"required"`
	LinkToken   string `json:"link_token" validate:"required"`
	ImageBase64 string `json:"image_base64" validate:"required"`
}

// Package domain holds the core entity types of the interview platform,
// independent of how they are persisted (see pkg/store) or served
// (see pkg/api). Grounded on the field/enum shapes the teacher expresses
// via ent schema (ent/schema/alertsession.go and friends), translated to
// plain Go structs since ent's generated client is not available to us.
package domain

import "time"

// JobStatus-less: jobs have no lifecycle of their own in this spec; they are
// owned by the out-of-scope recruiter/job CRUD collaborator. The core only
// reads the fields it needs.

// Job is the subset of job fields the core depends on.
type Job struct {
	ID             string
	Title          string
	Company        string
	Domain         string
	CodingLanguage string // non-empty required before any bound session starts
	Description    string
	TechStack      []string
	RecruiterID    string
	CreatedAt      time.Time
}

// Candidate is the subset of candidate fields the core depends on.
type Candidate struct {
	ID          string
	DisplayName string
	Email       string
	ResumeText  string
	RecruiterID string
	CreatedAt   time.Time
}

// SlotStatus is a pure function of (current, max, cancelled) per spec §3.
type SlotStatus string

const (
	SlotAvailable SlotStatus = "AVAILABLE"
	SlotPartial   SlotStatus = "PARTIAL"
	SlotFull      SlotStatus = "FULL"
	SlotCancelled SlotStatus = "CANCELLED"
)

// RecomputeSlotStatus derives status from the booking counters, honoring the
// CANCELLED terminal state first.
func RecomputeSlotStatus(current, max int, cancelled bool) SlotStatus {
	if cancelled {
		return SlotCancelled
	}
	switch {
	case current >= max:
		return SlotFull
	case current > 0:
		return SlotPartial
	default:
		return SlotAvailable
	}
}

// Slot is a bookable window of civil time against a Job.
type Slot struct {
	ID        string
	JobID     string
	Date      string // YYYY-MM-DD, civil date in the interview timezone
	StartTime string // HH:MM, civil time
	EndTime   string // HH:MM, civil time
	Capacity  int
	Current   int
	Status    SlotStatus
	Recurrence string // optional descriptor, opaque to the core
	CreatedAt time.Time
}

// InterviewStatus enumerates the Interview lifecycle of spec §3.
type InterviewStatus string

const (
	InterviewNew                InterviewStatus = "NEW"
	InterviewPendingScheduling  InterviewStatus = "PENDING_SCHEDULING"
	InterviewScheduled          InterviewStatus = "SCHEDULED"
	InterviewInProgress         InterviewStatus = "IN_PROGRESS"
	InterviewCompleted          InterviewStatus = "COMPLETED"
	InterviewRejected           InterviewStatus = "REJECTED"
	InterviewOnHold             InterviewStatus = "ON_HOLD"
)

// Interview links a Candidate to a Job for one round, with a scheduled UTC
// window projected from its bound Slot.
type Interview struct {
	ID          string
	CandidateID string
	JobID       string
	Round       string
	StartedAt   *time.Time // UTC instant, set only via booking
	EndedAt     *time.Time // UTC instant
	LinkExpiresAt *time.Time
	Status      InterviewStatus
	ScheduleID  *string
	CreatedAt   time.Time
}

// ScheduleStatus enumerates the Schedule lifecycle of spec §3.
type ScheduleStatus string

const (
	ScheduleStatusPending   ScheduleStatus = "PENDING"
	ScheduleStatusConfirmed ScheduleStatus = "CONFIRMED"
	ScheduleStatusCancelled ScheduleStatus = "CANCELLED"
)

// Schedule links one Interview to one Slot.
type Schedule struct {
	ID          string
	InterviewID string
	SlotID      string
	Status      ScheduleStatus
	Note        string
	CreatedAt   time.Time
}

// SessionStatus enumerates the Session lifecycle of spec §3/§4.3.
type SessionStatus string

const (
	SessionScheduled SessionStatus = "SCHEDULED"
	SessionActive    SessionStatus = "ACTIVE"
	SessionPaused    SessionStatus = "PAUSED"
	SessionCompleted SessionStatus = "COMPLETED"
	SessionExpired   SessionStatus = "EXPIRED"
	SessionError     SessionStatus = "ERROR"
)

// IDVerificationStatus enumerates Session.id_verification_status.
type IDVerificationStatus string

const (
	IDVerificationPending IDVerificationStatus = "PENDING"
	IDVerificationVerified IDVerificationStatus = "VERIFIED"
	IDVerificationFailed  IDVerificationStatus = "FAILED"
)

// Session is the per-candidate interview runtime aggregate.
type Session struct {
	ID                 string
	SessionKey         string // unique opaque 128-bit UUID string (uuid.NewString)
	InterviewID        string
	CandidateName      string
	CandidateEmail     string
	JobDescription     string
	ResumeText         string
	CodingLanguage     string
	Status             SessionStatus
	CurrentQuestion    int
	TotalQuestions     int
	StartedAt          *time.Time
	EndedAt            *time.Time
	LastInteractionAt  *time.Time
	IDVerification     IDVerificationStatus
	IDExtractedName    string
	IDExtractedNumber  string
	ErrorMessage       string
	IsEvaluated        bool
	DeletedAt          *time.Time
	CreatedAt          time.Time
}

// QuestionType enumerates Question.type.
type QuestionType string

const (
	QuestionIceBreaker   QuestionType = "ICE_BREAKER"
	QuestionTechnical    QuestionType = "TECHNICAL"
	QuestionBehavioral   QuestionType = "BEHAVIORAL"
	QuestionCoding       QuestionType = "CODING"
	QuestionSystemDesign QuestionType = "SYSTEM_DESIGN"
	QuestionGeneral      QuestionType = "GENERAL"
)

// QuestionLevel enumerates Question.level.
type QuestionLevel string

const (
	QuestionMain     QuestionLevel = "MAIN"
	QuestionFollowUp QuestionLevel = "FOLLOW_UP"
)

// Question is one prompt posed to the candidate within a Session.
type Question struct {
	ID             string
	SessionID      string
	Order          int
	Type           QuestionType
	Level          QuestionLevel
	ParentID       *string // set iff Level == QuestionFollowUp
	Text           string
	CodingLanguage string // required iff Type == QuestionCoding
	AudioURL       string
	TTSDegraded    bool
	CreatedAt      time.Time
}

// ResponsePayloadKind enumerates Response.payload kind.
type ResponsePayloadKind string

const (
	PayloadText  ResponsePayloadKind = "TEXT"
	PayloadAudio ResponsePayloadKind = "AUDIO"
	PayloadCode  ResponsePayloadKind = "CODE"
)

// Response is a candidate's answer to a Question.
type Response struct {
	ID               string
	QuestionID       string
	SessionID        string
	Kind             ResponsePayloadKind
	Text             string // raw text, or transcript for AUDIO
	SubmittedAt      time.Time
	DurationSeconds  float64
	FillerWordCount  int
	WordsPerMinute   float64
	SentimentScore   float64 // -1..1
	CreatedAt        time.Time
}

// CodeSubmission is an immutable record of a candidate's code for a CODING question.
type CodeSubmission struct {
	ID             string
	SessionID      string
	QuestionID     string
	Language       string
	Source         string
	PassedAllTests bool
	OutputLog      string
	SubmittedAt    time.Time
}

// TestCase is one input/expected-output pair for a CODING question.
type TestCase struct {
	ID       string
	QuestionID string
	Input    string
	Expected string
	IsHidden bool
}

// WarningType enumerates proctoring warning categories of spec §4.4.
type WarningType string

const (
	WarningNoPerson         WarningType = "NO_PERSON"
	WarningMultiplePeople   WarningType = "MULTIPLE_PEOPLE"
	WarningPhoneDetected    WarningType = "PHONE_DETECTED"
	WarningLowConcentration WarningType = "LOW_CONCENTRATION"
	WarningTabSwitched      WarningType = "TAB_SWITCHED"
	WarningExcessiveNoise   WarningType = "EXCESSIVE_NOISE"
	WarningMultipleSpeakers WarningType = "MULTIPLE_SPEAKERS"
	WarningProctorDegraded  WarningType = "PROCTOR_DEGRADED"
)

// WarningLog is an append-only record of an activated proctoring warning.
type WarningLog struct {
	ID             string
	SessionID      string
	Type           WarningType
	OccurredAt     time.Time
	ScreenshotURL  string
}

// EvaluationResult is the blended assessment of a COMPLETED Session.
type EvaluationResult struct {
	ID                 string
	SessionID          string
	InterviewID        string
	OverallScore       float64 // 0-10 canonical
	ResumeScore        float64
	AnswersScore       float64
	TechnicalScore     float64
	BehavioralScore    float64
	CodingScore        float64
	FeedbackResume     string
	FeedbackAnswers    string
	FeedbackOverall    string
	HireRecommendation *bool
	Confidence         float64 // 0..1
	CreatedAt          time.Time
}

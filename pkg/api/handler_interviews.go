package api

import (
	"context"
	"net/http"
	"time"

	echo "github.com/labstack/echo/v5"
	"github.com/google/uuid"

	"github.com/codeready-toolchain/interviewplatform/pkg/domain"
	"github.com/codeready-toolchain/interviewplatform/pkg/notify"
	"github.com/codeready-toolchain/interviewplatform/pkg/token"
)

// istLocation is the fixed interview timezone notification emails format
// start times in, per spec.md §4.8 (default Asia/Kolkata, same zone the
// scheduler projects civil slot times out of).
var istLocation = func() *time.Location {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		return time.FixedZone("IST", 5*3600+1800)
	}
	return loc
}()

func formatIST(t time.Time) string {
	return t.In(istLocation).Format("2 Jan 2006, 3:04 PM") + " IST"
}

func toInterviewResponse(iv *domain.Interview) *InterviewResponse {
	return &InterviewResponse{
		ID:            iv.ID,
		CandidateID:   iv.CandidateID,
		JobID:         iv.JobID,
		Round:         iv.Round,
		Status:        string(iv.Status),
		StartedAt:     iv.StartedAt,
		EndedAt:       iv.EndedAt,
		LinkExpiresAt: iv.LinkExpiresAt,
		ScheduleID:    iv.ScheduleID,
		CreatedAt:     iv.CreatedAt,
	}
}

// createInterviewHandler handles POST /interviews.
func (s *Server) createInterviewHandler(c *echo.Context) error {
	var req CreateInterviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	iv := &domain.Interview{
		ID:          uuid.NewString(),
		CandidateID: req.CandidateID,
		JobID:       req.JobID,
		Round:       req.Round,
		Status:      domain.InterviewPendingScheduling,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.store.Interviews.Create(c.Request().Context(), iv); err != nil {
		return mapError(err)
	}

	return c.JSON(http.StatusCreated, toInterviewResponse(iv))
}

// bookSlot runs the book-or-reschedule operation shared by bookInterviewHandler
// and rescheduleInterviewHandler: book()'s own semantics ("if already
// scheduled to a different slot, release the old slot's count first") make
// the two operations identical at the scheduler layer — they differ only in
// what the HTTP response exposes.
func (s *Server) bookSlot(ctx context.Context, interviewID, slotID string) (*domain.Interview, *domain.Schedule, *domain.Session, string, error) {
	sched, err := s.scheduler.Book(ctx, interviewID, slotID)
	if err != nil {
		return nil, nil, nil, "", err
	}

	iv, err := s.store.Interviews.GetByID(ctx, interviewID)
	if err != nil {
		return nil, nil, nil, "", err
	}

	sess, err := s.orchestrator.EnsureSession(ctx, interviewID)
	if err != nil {
		return nil, nil, nil, "", err
	}

	var linkToken string
	if iv.StartedAt != nil && iv.EndedAt != nil {
		linkToken, _ = s.minter.Mint(token.InterviewTimeView{
			InterviewID:    iv.ID,
			CandidateEmail: sess.CandidateEmail,
			StartedAt:      *iv.StartedAt,
			EndedAt:        *iv.EndedAt,
		})
	}
	return iv, sched, sess, linkToken, nil
}

// notifyScheduled sends the "interview scheduled" email per spec.md §4.8.
// Delivery failure is never fatal to the booking — callers surface it via
// the booking_ok_email_failed response flag instead of an error response.
func (s *Server) notifyScheduled(ctx context.Context, iv *domain.Interview, sess *domain.Session) (sent bool, failureReason string) {
	if !s.cfg.LinkBaseURLUsable() {
		s.log.Warn("base URL not usable for outbound interview links; skipping notification", "interview_id", iv.ID)
		return false, "base URL not configured for outbound email"
	}
	job, err := s.store.Jobs.GetByID(ctx, iv.JobID)
	if err != nil {
		s.log.Error("load job for scheduled notification", "error", err, "interview_id", iv.ID)
		return false, err.Error()
	}

	msg := notify.ScheduledMessage{
		CandidateEmail: sess.CandidateEmail,
		CandidateName:  sess.CandidateName,
		JobTitle:       job.Title,
		StartTimeIST:   formatIST(*iv.StartedAt),
		SessionURL:     s.cfg.BaseURL + "/interview/?session_key=" + sess.SessionKey,
	}
	if err := s.notifySink.Send(ctx, msg); err != nil {
		s.log.Error("send interview-scheduled notification", "error", err, "interview_id", iv.ID)
		return false, err.Error()
	}
	return true, ""
}

// bookInterviewHandler handles POST /interviews/:id/book.
func (s *Server) bookInterviewHandler(c *echo.Context) error {
	interviewID := c.Param("id")
	var req BookInterviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	iv, sched, sess, _, err := s.bookSlot(ctx, interviewID, req.SlotID)
	if err != nil {
		return mapError(err)
	}

	emailSent, failureReason := s.notifyScheduled(ctx, iv, sess)
	return c.JSON(http.StatusOK, &BookInterviewResponse{
		ScheduleID:        sched.ID,
		EmailSent:         emailSent,
		BookingEmailError: failureReason,
	})
}

// rescheduleInterviewHandler handles POST /interviews/:id/reschedule. The
// new link token is returned directly since the old one self-invalidates:
// token.Minter signs over started_at, and Book() changes started_at to the
// new slot's projected time, so the previously minted token's signature no
// longer matches — no separate revocation bookkeeping is needed.
func (s *Server) rescheduleInterviewHandler(c *echo.Context) error {
	interviewID := c.Param("id")
	var req RescheduleInterviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	iv, sched, sess, linkToken, err := s.bookSlot(ctx, interviewID, req.NewSlotID)
	if err != nil {
		return mapError(err)
	}

	emailSent, failureReason := s.notifyScheduled(ctx, iv, sess)
	return c.JSON(http.StatusOK, &RescheduleInterviewResponse{
		ScheduleID:        sched.ID,
		LinkToken:         linkToken,
		EmailSent:         emailSent,
		BookingEmailError: failureReason,
	})
}

// cancelInterviewHandler handles POST /interviews/:id/cancel.
func (s *Server) cancelInterviewHandler(c *echo.Context) error {
	interviewID := c.Param("id")
	ctx := c.Request().Context()

	iv, err := s.store.Interviews.GetByID(ctx, interviewID)
	if err != nil {
		return mapError(err)
	}
	if iv.ScheduleID != nil {
		if err := s.scheduler.Release(ctx, *iv.ScheduleID); err != nil {
			return mapError(err)
		}
	}
	if err := s.store.Interviews.UpdateStatus(ctx, interviewID, domain.InterviewRejected); err != nil {
		return mapError(err)
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "cancelled"})
}

// getInterviewHandler handles GET /interviews/:id.
func (s *Server) getInterviewHandler(c *echo.Context) error {
	interviewID := c.Param("id")
	ctx := c.Request().Context()

	iv, err := s.store.Interviews.GetByID(ctx, interviewID)
	if err != nil {
		return mapError(err)
	}

	detail := &InterviewDetailResponse{Interview: toInterviewResponse(iv)}

	if iv.ScheduleID != nil {
		sched, err := s.store.Schedules.GetByID(ctx, *iv.ScheduleID)
		if err == nil {
			detail.Schedule = &ScheduleResponse{ID: sched.ID, SlotID: sched.SlotID, Status: string(sched.Status)}
		}
	}

	sess, err := s.store.Sessions.GetByInterviewID(ctx, interviewID)
	if err == nil {
		detail.Session = &SessionSummaryResponse{ID: sess.ID, Status: string(sess.Status), IsEvaluated: sess.IsEvaluated}
	}

	return c.JSON(http.StatusOK, detail)
}

// getSessionResultHandler handles GET /sessions/:id/result.
func (s *Server) getSessionResultHandler(c *echo.Context) error {
	sessionID := c.Param("id")
	ctx := c.Request().Context()

	eval, err := s.store.Evaluations.GetBySession(ctx, sessionID)
	if err != nil {
		return mapError(err)
	}

	return c.JSON(http.StatusOK, &EvaluationResponse{
		SessionID:          eval.SessionID,
		OverallScore:       eval.OverallScore,
		ResumeScore:        eval.ResumeScore,
		AnswersScore:       eval.AnswersScore,
		TechnicalScore:     eval.TechnicalScore,
		BehavioralScore:    eval.BehavioralScore,
		CodingScore:        eval.CodingScore,
		FeedbackResume:     eval.FeedbackResume,
		FeedbackAnswers:    eval.FeedbackAnswers,
		FeedbackOverall:    eval.FeedbackOverall,
		HireRecommendation: eval.HireRecommendation,
		Confidence:         eval.Confidence,
	})
}

package api

import (
	"encoding/base64"
	"net/http"

	echo "github.com/labstack/echo/v5"

	"github.com/codeready-toolchain/interviewplatform/pkg/domain"
	"github.com/codeready-toolchain/interviewplatform/pkg/interview"
	"github.com/codeready-toolchain/interviewplatform/pkg/token"
)

func toQuestionView(q *domain.Question) *QuestionView {
	return &QuestionView{
		ID:             q.ID,
		Type:           string(q.Type),
		Text:           q.Text,
		CodingLanguage: q.CodingLanguage,
		AudioURL:       q.AudioURL,
	}
}

func toQuestionViews(qs []*domain.Question) []*QuestionView {
	out := make([]*QuestionView, len(qs))
	for i, q := range qs {
		out[i] = toQuestionView(q)
	}
	return out
}

// startInterviewHandler handles POST /public/ai-interview/start.
func (s *Server) startInterviewHandler(c *echo.Context) error {
	var req StartInterviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := s.orchestrator.Start(c.Request().Context(), req.LinkToken)
	if err != nil {
		return mapError(err)
	}

	return c.JSON(http.StatusOK, &StartInterviewResponse{
		SessionID:       result.SessionID,
		Questions:       toQuestionViews(result.Questions),
		CurrentQuestion: result.CurrentQuestion,
		TotalQuestions:  result.TotalQuestions,
	})
}

// submitResponseHandler handles POST /public/ai-interview/submit-response.
func (s *Server) submitResponseHandler(c *echo.Context) error {
	var req SubmitResponseRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	payload := interview.ResponsePayload{
		Kind:         domain.ResponsePayloadKind(req.Kind),
		Text:         req.Text,
		AudioMIME:    req.AudioMIME,
		CodeSource:   req.CodeSource,
		CodeLanguage: req.CodeLanguage,
	}
	if req.Kind == string(domain.PayloadAudio) && req.AudioBase64 != "" {
		audio, err := base64.StdEncoding.DecodeString(req.AudioBase64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "audio_base64 is not valid base64")
		}
		payload.Audio = audio
	}

	result, err := s.orchestrator.SubmitResponse(c.Request().Context(), req.SessionID, req.LinkToken, req.QuestionID, payload)
	if err != nil {
		return mapError(err)
	}

	var followUp *QuestionView
	if result.FollowUp != nil {
		followUp = toQuestionView(result.FollowUp)
	}
	return c.JSON(http.StatusOK, &SubmitResponseResponse{
		NextQuestionID: result.NextQuestionID,
		FollowUp:       followUp,
		SessionStatus:  string(result.SessionStatus),
	})
}

// completeInterviewHandler handles POST /public/ai-interview/complete.
func (s *Server) completeInterviewHandler(c *echo.Context) error {
	var req CompleteInterviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := s.orchestrator.Complete(c.Request().Context(), req.SessionID, req.LinkToken); err != nil {
		return mapError(err)
	}

	return c.JSON(http.StatusOK, &CompleteInterviewResponse{
		Status:  "completed",
		Summary: "Thanks for completing the interview. Your responses are being evaluated.",
	})
}

// verifyIDHandler handles POST /public/ai-interview/verify-id.
func (s *Server) verifyIDHandler(c *echo.Context) error {
	var req VerifyIDRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	image, err := base64.StdEncoding.DecodeString(req.ImageBase64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "image_base64 is not valid base64")
	}

	if err := s.orchestrator.VerifyID(c.Request().Context(), req.SessionID, req.LinkToken, image); err != nil {
		return mapError(err)
	}

	return c.JSON(http.StatusOK, &VerifyIDResponse{Status: "success"})
}

// interviewPortalHandler handles GET /public/interview/?session_key=…. It
// resolves the opaque session_key to the bound interview and re-mints a
// link_token (minting is deterministic over interview state, so repeating
// it is safe) so the client shell can drive the rest of the public
// endpoints without ever being handed the interview id or raw token out of
// band.
func (s *Server) interviewPortalHandler(c *echo.Context) error {
	sessionKey := c.QueryParam("session_key")
	if sessionKey == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "session_key is required")
	}

	ctx := c.Request().Context()
	sess, err := s.store.Sessions.GetBySessionKey(ctx, sessionKey)
	if err != nil {
		return mapError(err)
	}
	iv, err := s.store.Interviews.GetByID(ctx, sess.InterviewID)
	if err != nil {
		return mapError(err)
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

	return c.JSON(http.StatusOK, &InterviewPortalResponse{
		InterviewID: iv.ID,
		SessionID:   sess.ID,
		LinkToken:   linkToken,
		Status:      string(sess.Status),
	})
}

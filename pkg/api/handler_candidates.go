package api

import (
	"net/http"
	"time"

	echo "github.com/labstack/echo/v5"
	"github.com/google/uuid"

	"github.com/codeready-toolchain/interviewplatform/pkg/domain"
)

// createCandidateHandler handles POST /candidates.
func (s *Server) createCandidateHandler(c *echo.Context) error {
	var req CreateCandidateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	cand := &domain.Candidate{
		ID:          uuid.NewString(),
		DisplayName: req.DisplayName,
		Email:       req.Email,
		ResumeText:  req.ResumeText,
		RecruiterID: recruiterID(c),
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.store.Candidates.Create(c.Request().Context(), cand); err != nil {
		return mapError(err)
	}

	return c.JSON(http.StatusCreated, &CandidateResponse{
		ID:          cand.ID,
		DisplayName: cand.DisplayName,
		Email:       cand.Email,
		ResumeText:  cand.ResumeText,
		CreatedAt:   cand.CreatedAt,
	})
}

package api

import (
	"net/http"
	"time"

	echo "github.com/labstack/echo/v5"
	"github.com/google/uuid"

	"github.com/codeready-toolchain/interviewplatform/pkg/domain"
)

// createJobHandler handles POST /jobs.
func (s *Server) createJobHandler(c *echo.Context) error {
	var req CreateJobRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	job := &domain.Job{
		ID:             uuid.NewString(),
		Title:          req.Title,
		Company:        req.Company,
		Domain:         req.Domain,
		CodingLanguage: req.CodingLanguage,
		Description:    req.Description,
		TechStack:      req.TechStack,
		RecruiterID:    recruiterID(c),
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.store.Jobs.Create(c.Request().Context(), job); err != nil {
		return mapError(err)
	}

	return c.JSON(http.StatusCreated, &JobResponse{
		ID:             job.ID,
		Title:          job.Title,
		Company:        job.Company,
		Domain:         job.Domain,
		CodingLanguage: job.CodingLanguage,
		Description:    job.Description,
		TechStack:      job.TechStack,
		CreatedAt:      job.CreatedAt,
	})
}

package api

import (
	"net/http"

	echo "github.com/labstack/echo/v5"
)

// createSlotHandler handles POST /slots.
func (s *Server) createSlotHandler(c *echo.Context) error {
	var req CreateSlotRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	job, err := s.store.Jobs.GetByID(ctx, req.JobID)
	if err != nil {
		return mapError(err)
	}

	slot, err := s.scheduler.CreateSlot(ctx, job, req.Date, req.Start, req.End, req.Capacity, req.Recurrence)
	if err != nil {
		return mapError(err)
	}

	return c.JSON(http.StatusCreated, &SlotResponse{
		ID:         slot.ID,
		JobID:      slot.JobID,
		Date:       slot.Date,
		StartTime:  slot.StartTime,
		EndTime:    slot.EndTime,
		Capacity:   slot.Capacity,
		Current:    slot.Current,
		Status:     string(slot.Status),
		Recurrence: slot.Recurrence,
		CreatedAt:  slot.CreatedAt,
	})
}

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	echo "github.com/labstack/echo/v5"
	"github.com/stretchr/testify/assert"
)

func TestCreateSlotHandler_Validation(t *testing.T) {
	s := &Server{}

	tests := []struct {
		name string
		body string
	}{
		{"missing job_id", `{"date":"2026-08-01","start":"10:00","end":"11:00","capacity":1}`},
		{"missing date", `{"job_id":"j1","start":"10:00","end":"11:00","capacity":1}`},
		{"zero capacity", `{"job_id":"j1","date":"2026-08-01","start":"10:00","end":"11:00","capacity":0}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/slots", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := s.createSlotHandler(c)
			if assert.Error(t, err) {
				he, ok := err.(*echo.HTTPError)
				if assert.True(t, ok, "expected echo.HTTPError") {
					assert.Equal(t, http.StatusBadRequest, he.Code)
				}
			}
		})
	}
}

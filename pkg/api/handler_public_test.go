package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	echo "github.com/labstack/echo/v5"
	"github.com/stretchr/testify/assert"
)

func TestStartInterviewHandler_Validation(t *testing.T) {
	s := &Server{}
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/public/ai-interview/start", strings.NewReader(`{"interview_id":"iv-1"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := s.startInterviewHandler(c)
	if assert.Error(t, err) {
		he, ok := err.(*echo.HTTPError)
		if assert.True(t, ok, "expected echo.HTTPError") {
			assert.Equal(t, http.StatusBadRequest, he.Code)
		}
	}
}

func TestSubmitResponseHandler_InvalidAudioBase64(t *testing.T) {
	s := &Server{}
	e := echo.New()
	body := `{"session_id":"s1","link_token":"t1","question_id":"q1","kind":"AUDIO","audio_base64":"not-base64!!"}`
	req := httptest.NewRequest(http.MethodPost, "/public/ai-interview/submit-response", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := s.submitResponseHandler(c)
	if assert.Error(t, err) {
		he, ok := err.(*echo.HTTPError)
		if assert.True(t, ok, "expected echo.HTTPError") {
			assert.Equal(t, http.StatusBadRequest, he.Code)
		}
	}
}

func TestSubmitResponseHandler_InvalidKind(t *testing.T) {
	s := &Server{}
	e := echo.New()
	body := `{"session_id":"s1","link_token":"t1","question_id":"q1","kind":"BOGUS"}`
	req := httptest.NewRequest(http.MethodPost, "/public/ai-interview/submit-response", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := s.submitResponseHandler(c)
	if assert.Error(t, err) {
		he, ok := err.(*echo.HTTPError)
		if assert.True(t, ok, "expected echo.HTTPError") {
			assert.Equal(t, http.StatusBadRequest, he.Code)
		}
	}
}

func TestVerifyIDHandler_InvalidImageBase64(t *testing.T) {
	s := &Server{}
	e := echo.New()
	body := `{"session_id":"s1","link_token":"t1","image_base64":"not-base64!!"}`
	req := httptest.NewRequest(http.MethodPost, "/public/ai-interview/verify-id", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := s.verifyIDHandler(c)
	if assert.Error(t, err) {
		he, ok := err.(*echo.HTTPError)
		if assert.True(t, ok, "expected echo.HTTPError") {
			assert.Equal(t, http.StatusBadRequest, he.Code)
		}
	}
}

func TestInterviewPortalHandler_MissingSessionKey(t *testing.T) {
	s := &Server{}
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/public/interview/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := s.interviewPortalHandler(c)
	if assert.Error(t, err) {
		he, ok := err.(*echo.HTTPError)
		if assert.True(t, ok, "expected echo.HTTPError") {
			assert.Equal(t, http.StatusBadRequest, he.Code)
		}
	}
}

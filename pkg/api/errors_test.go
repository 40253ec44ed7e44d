package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/codeready-toolchain/interviewplatform/pkg/apperr"
	"github.com/codeready-toolchain/interviewplatform/pkg/store"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"not found", store.ErrNotFound, http.StatusNotFound},
		{"validation", apperr.Validation("job_id", "job_id is required"), http.StatusBadRequest},
		{"authz", apperr.New(apperr.KindAuthz, "SIGNATURE_MISMATCH", "invalid or expired link"), http.StatusUnauthorized},
		{"state conflict", apperr.StateConflict("SLOT_FULL", "slot has no remaining capacity"), http.StatusConflict},
		{"degraded", apperr.Wrap(apperr.KindDegraded, "TRANSCRIPTION_FAILED", errors.New("asr down")), http.StatusBadGateway},
		{"sandbox", apperr.New(apperr.KindSandbox, "RUNNER_TIMEOUT", "code execution timed out"), http.StatusBadGateway},
		{"unclassified", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			he := mapError(tt.err)
			assert.Equal(t, tt.wantCode, he.Code)
		})
	}
}

func TestMapError_AuthzMessageIsOpaque(t *testing.T) {
	he := mapError(apperr.New(apperr.KindAuthz, "SIGNATURE_MISMATCH", "invalid or expired link"))
	assert.Equal(t, "invalid or expired link", he.Message)
	assert.NotContains(t, he.Message, "SIGNATURE_MISMATCH")
}

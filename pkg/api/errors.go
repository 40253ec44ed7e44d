package api

import (
	"errors"
	"log/slog"
	"net/http"

	echo "github.com/labstack/echo/v5"

	"github.com/codeready-toolchain/interviewplatform/pkg/apperr"
	"github.com/codeready-toolchain/interviewplatform/pkg/store"
)

// mapError centralizes apperr.Kind → HTTP status translation:
// validation→400, authorization→401 (opaque message), state conflict→409,
// degraded/sandbox→502, internal/unclassified→500 (opaque, logged).
// Degraded AI calls that have a fallback succeed without an error and never
// reach here; pkg/interview does return KindDegraded for a failed
// transcription (TRANSCRIPTION_FAILED) or ID OCR (OCR_FAILED), and those
// map to 502.
func mapError(err error) *echo.HTTPError {
	if errors.Is(err, store.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "resource not found")
	}

	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		msg := appErr.Message
		if msg == "" && appErr.Cause != nil {
			msg = appErr.Cause.Error()
		}
		switch appErr.Kind {
		case apperr.KindValidation:
			if appErr.Field != "" {
				msg = appErr.Field + ": " + msg
			}
			return echo.NewHTTPError(http.StatusBadRequest, msg)
		case apperr.KindAuthz:
			return echo.NewHTTPError(http.StatusUnauthorized, msg)
		case apperr.KindStateConflict:
			return echo.NewHTTPError(http.StatusConflict, msg)
		case apperr.KindDegraded:
			return echo.NewHTTPError(http.StatusBadGateway, msg)
		case apperr.KindSandbox:
			return echo.NewHTTPError(http.StatusBadGateway, msg)
		}
	}

	slog.Error("unexpected internal error", "error", err)
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
}

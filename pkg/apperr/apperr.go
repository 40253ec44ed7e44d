// Package apperr defines the error kinds shared across the interview
// platform, per the propagation policy in SPEC_FULL.md §9.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for uniform handling at the edge layer.
type Kind string

const (
	KindValidation   Kind = "VALIDATION"
	KindAuthz        Kind = "AUTHORIZATION"
	KindStateConflict Kind = "STATE_CONFLICT"
	KindDegraded     Kind = "DEGRADED"
	KindSandbox      Kind = "SANDBOX"
	KindInternal     Kind = "INTERNAL"
)

// Error is the common error type returned by core operations.
type Error struct {
	Kind    Kind
	Code    string // machine-readable reason, e.g. "SLOT_FULL", "SESSION_TERMINAL"
	Message string // human-readable, safe to show to the caller class implied by Kind
	Field   string // set for KindValidation
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Code, e.Cause)
	}
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New constructs an Error with the given kind and code.
func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Wrap constructs an Error that wraps an underlying cause.
func Wrap(kind Kind, code string, cause error) *Error {
	return &Error{Kind: kind, Code: code, Cause: cause}
}

// Validation constructs a field-scoped validation error.
func Validation(field, message string) *Error {
	return &Error{Kind: KindValidation, Code: "VALIDATION", Field: field, Message: message}
}

// StateConflict constructs a 409-class state conflict error.
func StateConflict(code, message string) *Error {
	return &Error{Kind: KindStateConflict, Code: code, Message: message}
}

// Of reports whether err is an *Error of the given kind.
func Of(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// CodeOf returns the Code of err if it is an *Error, else "".
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Package domainerrors defines coded errors shared across bounded contexts.
//
// Services return these so transports can translate them into consistent
// HTTP responses without inspecting error strings. Infrastructure layers
// return sentinel errors (pkg/platform/sentinel) instead; services wrap
// those into coded errors at the boundary.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a domain error for transport mapping and retry decisions.
type Code string

const (
	CodeInvalidInput      Code = "invalid_input"
	CodeNotFound          Code = "not_found"
	CodeConflict          Code = "conflict"
	CodeInvalidTransition Code = "invalid_transition"
	CodeDependencyFailure Code = "dependency_failure"
	CodeInternal          Code = "internal"
)

// Error is a coded domain error. Details carries a caller-presentable
// payload (for example the conflicting interviews on a scheduling conflict).
type Error struct {
	Code    Code
	Message string
	Details any
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New creates a coded error with no underlying cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

// WithDetails returns a copy of the error carrying a presentable payload.
func (e *Error) WithDetails(details any) *Error {
	clone := *e
	clone.Details = details
	return &clone
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a code to the status the thin HTTP layer should write.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeInvalidInput:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeInvalidTransition:
		return http.StatusUnprocessableEntity
	case CodeDependencyFailure:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

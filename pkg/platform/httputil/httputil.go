// Package httputil carries the JSON response helpers shared by every
// handler.
package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	dErrors "talentflow/pkg/domain-errors"
)

type errorBody struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
	Details          any    `json:"details,omitempty"`
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps a domain error onto an HTTP status and JSON body.
// Internal errors keep their description out of the response; everything
// else surfaces the message, and conflict errors additionally carry their
// details so callers can show the blocking intervals.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	body := errorBody{Error: string(code)}
	if code != dErrors.CodeInternal {
		body.ErrorDescription = err.Error()
	}

	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) && domainErr.Details != nil {
		body.Details = domainErr.Details
	}
	WriteJSON(w, dErrors.ToHTTPStatus(code), body)
}

// DecodeAndPrepare decodes the JSON request body into T, answering the
// request itself on failure. The bool reports whether the handler should
// continue.
func DecodeAndPrepare[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (T, bool) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "request body is required"))
			return req, false
		}
		logger.WarnContext(ctx, "malformed request body",
			"request_id", requestID,
			"error", err.Error(),
		)
		WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid request body"))
		return req, false
	}
	return req, true
}

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/casavia/casavia-core/internal/auth"
	"github.com/casavia/casavia-core/internal/listing"
)

// Error represents a structured error response.
type Error struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Common error codes.
const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeMissingField = "missing_field"
	ErrCodeInvalidInput = "invalid_input"
	ErrCodeInvalidEmail = "invalid_email"
	ErrCodeNotFound     = "not_found"
	ErrCodeUnauthorized = "unauthorised"
	ErrCodeForbidden    = "forbidden"
	ErrCodeConflict     = "conflict"
	ErrCodeInternal     = "internal_error"
)

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeError writes a structured error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, Error{
		Status:  status,
		Code:    code,
		Message: message,
	})
}

// writeBadRequest writes a 400 error response.
func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, ErrCodeBadRequest, message)
}

// writeUnauthorized writes a 401 error response.
func writeUnauthorized(w http.ResponseWriter, message string) {
	writeError(w, http.StatusUnauthorized, ErrCodeUnauthorized, message)
}

// writeInternalError writes a 500 error response.
func writeInternalError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusInternalServerError, ErrCodeInternal, message)
}

// writeServiceError maps a service-layer sentinel error onto its HTTP
// status and client-facing message. Anything unrecognised is an
// internal error: the detail is logged by the caller, never surfaced.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, auth.ErrMissingField), errors.Is(err, listing.ErrMissingField):
		writeError(w, http.StatusBadRequest, ErrCodeMissingField, "All fields are required")
	case errors.Is(err, auth.ErrInvalidInput), errors.Is(err, listing.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid input detected")
	case errors.Is(err, auth.ErrInvalidEmail):
		writeError(w, http.StatusBadRequest, ErrCodeInvalidEmail, "Please provide a valid email address")
	case errors.Is(err, auth.ErrUserNotFound):
		writeError(w, http.StatusNotFound, ErrCodeNotFound, "User not found")
	case errors.Is(err, listing.ErrNotFound):
		writeError(w, http.StatusNotFound, ErrCodeNotFound, "Property not found")
	case errors.Is(err, auth.ErrWrongPassword):
		writeUnauthorized(w, "Incorrect password")
	case errors.Is(err, auth.ErrWrongCurrentPassword):
		writeError(w, http.StatusBadRequest, ErrCodeBadRequest, "Current password is incorrect")
	case errors.Is(err, auth.ErrPasswordMismatch):
		writeError(w, http.StatusBadRequest, ErrCodeBadRequest, "New password and confirmation do not match")
	case errors.Is(err, auth.ErrWeakPassword):
		writeError(w, http.StatusBadRequest, ErrCodeBadRequest,
			fmt.Sprintf("Password must be at least %d characters long", auth.MinPasswordLength))
	case errors.Is(err, auth.ErrResetTokenInvalid):
		writeError(w, http.StatusBadRequest, ErrCodeBadRequest, "Invalid or expired reset token")
	case errors.Is(err, auth.ErrEmailExists):
		writeError(w, http.StatusConflict, ErrCodeConflict, "Email address is already in use")
	default:
		s.logger.Error("unhandled service error",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", r.Context().Value(ctxKeyRequestID),
		)
		writeInternalError(w, "An unexpected error occurred")
	}
}

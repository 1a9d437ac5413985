package helpers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"eventhub/internal/domain"
)

// Error codes for API error responses. Use these with WriteJSONError.
const (
	ErrCodeBadRequest    = "bad_request"
	ErrCodeUnauthorized  = "unauthorized"
	ErrCodeForbidden     = "forbidden"
	ErrCodeNotFound      = "not_found"
	ErrCodeConflict      = "conflict"
	ErrCodeEventFull     = "event_full"
	ErrCodeTimeout       = "timeout"
	ErrCodeInternalError = "internal_error"
)

// APIError is the error object in the standardized API response envelope.
// swagger:model APIError
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIResponse is the standardized envelope for all API responses.
// On success: Data is set, Error is nil. On error: Data is nil, Error is set.
// swagger:model APIResponse
type APIResponse struct {
	Data  any       `json:"data"`
	Error *APIError `json:"error"`
}

// WriteJSONSuccess sets Content-Type to application/json, writes statusCode, and
// encodes an APIResponse with the given data and error set to nil.
func WriteJSONSuccess(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(APIResponse{Data: data, Error: nil})
}

// WriteJSONError sets Content-Type to application/json, writes statusCode, and
// encodes an APIResponse with data nil and the given error code and message.
func WriteJSONError(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(APIResponse{
		Data:  nil,
		Error: &APIError{Code: code, Message: message},
	})
}

// StatusForError maps a domain error to its HTTP status, error code and client message.
// Unknown errors map to 500 with a generic message so internals never leak.
func StatusForError(err error) (status int, code, message string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrCodeBadRequest, err.Error()
	case errors.Is(err, domain.ErrNotParticipating):
		return http.StatusBadRequest, ErrCodeBadRequest, "user is not participating in this event"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, ErrCodeUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized, ErrCodeUnauthorized, "invalid or expired token"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, ErrCodeForbidden, "forbidden"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, ErrCodeNotFound, "user not found"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, ErrCodeNotFound, "event not found"
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusConflict, ErrCodeConflict, "email already registered"
	case errors.Is(err, domain.ErrAlreadyJoined):
		return http.StatusConflict, ErrCodeConflict, "user already joined this event"
	case errors.Is(err, domain.ErrCapacityBelowParticipants):
		return http.StatusConflict, ErrCodeConflict, "max_participants is below the current number of participants"
	case errors.Is(err, domain.ErrEventFull):
		return http.StatusConflict, ErrCodeEventFull, "event is full"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, ErrCodeTimeout, "request timed out"
	}
	return http.StatusInternalServerError, ErrCodeInternalError, "internal server error"
}

// WriteDomainError writes the error envelope for err. Server-side failures are logged with the
// request method and path; the client only sees the generic message.
func WriteDomainError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status, code, message := StatusForError(err)
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	}
	WriteJSONError(w, status, code, message)
}

package common

import (
	"errors"
	"net/http"
)

// AppError is an expected, operational failure. The boundary layer maps it
// verbatim to a response: Status as the HTTP status, Code and Message as the body.
type AppError struct {
	Kind    error
	Code    string
	Message string
	Status  int
}

func (e *AppError) Error() string {
	return e.Message
}

// Unwrap exposes the kind so errors.Is(err, ErrorUnauthorized) matches.
func (e *AppError) Unwrap() error {
	return e.Kind
}

func newAppError(kind error, status int, code, message string) *AppError {
	return &AppError{Kind: kind, Code: code, Message: message, Status: status}
}

func BadRequest(message string) *AppError {
	return newAppError(ErrorBadRequest, http.StatusBadRequest, "BAD_REQUEST", message)
}

func Unauthorized(message string) *AppError {
	if message == "" {
		message = "Unauthorized"
	}
	return newAppError(ErrorUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED", message)
}

func Forbidden(message string) *AppError {
	if message == "" {
		message = "Forbidden"
	}
	return newAppError(ErrorForbidden, http.StatusForbidden, "FORBIDDEN", message)
}

func NotFound(message string) *AppError {
	return newAppError(ErrorNotFound, http.StatusNotFound, "NOT_FOUND", message)
}

func Conflict(message string) *AppError {
	return newAppError(ErrorConflict, http.StatusConflict, "CONFLICT", message)
}

func Validation(message string) *AppError {
	return newAppError(ErrorValidation, http.StatusUnprocessableEntity, "VALIDATION_ERROR", message)
}

func TooManyRequests(message string) *AppError {
	if message == "" {
		message = "Too many requests"
	}
	return newAppError(ErrorTooManyRequests, http.StatusTooManyRequests, "TOO_MANY_REQUESTS", message)
}

// AsAppError reports whether err carries an AppError and returns it.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

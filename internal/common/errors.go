// Package common defines the error taxonomy shared by repositories, services
// and the HTTP boundary. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Operational kinds carried by AppError.
	ErrorBadRequest      = errors.New("bad request")
	ErrorUnauthorized    = errors.New("unauthorized")
	ErrorForbidden       = errors.New("forbidden")
	ErrorConflict        = errors.New("conflict")
	ErrorValidation      = errors.New("validation error")
	ErrorTooManyRequests = errors.New("too many requests")

	// Non-operational failures end up here at the boundary.
	ErrorInternal = errors.New("internal error")
)

// Package apperror defines the error taxonomy shared by all domain services.
// Services return these sentinels (usually wrapped with fmt.Errorf and %w) and
// handlers translate them to HTTP status codes with HTTPStatus.
package apperror

import (
	"errors"
	"net/http"
)

var (
	// ErrForbidden is returned when the actor is not allowed to perform the
	// requested operation on the target resource.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound is returned when the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned on uniqueness violations, e.g. a second patient
	// profile for the same user or a duplicate care link request.
	ErrConflict = errors.New("conflict")

	// ErrInvalidTransition is returned when a state change is requested from a
	// state that does not permit it.
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrStoreUnavailable is returned when the database cannot be reached.
	// Callers may retry; the failure is never swallowed.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// HTTPStatus maps a service error to the HTTP status code of the public API.
// Unrecognized errors map to 500.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

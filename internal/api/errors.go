package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/phrazzld/users-api/internal/api/shared"
	"github.com/phrazzld/users-api/internal/domain"
	"github.com/phrazzld/users-api/internal/service"
	"github.com/phrazzld/users-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Client input errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidFormat),
		errors.Is(err, service.ErrEmptyUpdate),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Not found errors
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, service.ErrDuplicateEmail),
		errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Lookup failures and operations that ran out of time, including
	// waiting for a pooled connection
	case errors.Is(err, service.ErrEmailLookupFailed),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		return "Validation failed"

	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid user ID"

	case errors.Is(err, domain.ErrInvalidFormat):
		return "Invalid request body"

	case errors.Is(err, service.ErrEmptyUpdate):
		return "No fields provided for update"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid user data"

	case errors.Is(err, store.ErrNotFound):
		return "User not found"

	case errors.Is(err, service.ErrDuplicateEmail),
		errors.Is(err, store.ErrDuplicate):
		return "Email already exists"

	case errors.Is(err, service.ErrEmailLookupFailed),
		errors.Is(err, context.DeadlineExceeded):
		return "Service temporarily unavailable, please retry"

	default:
		return "An unexpected error occurred"
	}
}

// ErrorResponder writes error envelopes for service errors.
// With Debug set, unhandled errors include diagnostic details.
type ErrorResponder struct {
	Debug bool
}

// HandleAPIError maps err to a status code and safe message and writes the
// error envelope. Validation errors list every violation in the errors field.
// Unhandled errors carry the request path, method and timestamp. Conflicts
// are logged at WARN.
func (e ErrorResponder) HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)
	resp := shared.NewErrorResponse(r, status, GetSafeErrorMessage(err))

	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		resp.Errors = vErr.Errors
		resp.Error = strings.Join(vErr.Errors, "; ")
	}

	var opts []shared.ResponseOption
	if status == http.StatusConflict {
		opts = append(opts, shared.WithElevatedLogLevel())
	}

	if status == http.StatusInternalServerError {
		resp = resp.WithRequestInfo(r)
		if e.Debug {
			resp.Details = &shared.ErrorDetails{
				Message: err.Error(),
				Type:    fmt.Sprintf("%T", err),
				Stack:   string(debug.Stack()),
			}
		}
	}

	shared.RespondWithErrorResponse(w, r, resp, err, opts...)
}

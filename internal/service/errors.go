package service

import "errors"

// Service errors - sentinel errors callers check with errors.Is.
// The API layer maps them to HTTP status codes.
var (
	// ErrDuplicateEmail indicates another user already has the requested email,
	// whether caught by the pre-check or by the storage constraint.
	// API layer should map this to HTTP 409 Conflict.
	ErrDuplicateEmail = errors.New("email already in use")

	// ErrEmptyUpdate indicates an update request supplied no recognised fields.
	// API layer should map this to HTTP 400 Bad Request.
	ErrEmptyUpdate = errors.New("no fields provided for update")

	// ErrEmailLookupFailed indicates the duplicate-email pre-check could not
	// run and the service is configured to fail closed.
	// API layer should map this to HTTP 503 Service Unavailable.
	ErrEmailLookupFailed = errors.New("email availability could not be verified")
)

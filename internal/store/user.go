package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/users-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create inserts a new user and returns the stored record with its
	// storage-assigned ID and timestamps.
	// Returns ErrEmailExists if the unique email constraint rejects the row.
	// Returns ErrInvalidEntity if another constraint rejects the row.
	Create(ctx context.Context, params domain.NewUserParams) (*domain.User, error)

	// GetByID retrieves a user by primary key.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// FindByEmail looks up a user by exact email, ignoring the user with
	// excludeID when excludeID is positive. It never returns an error: lookup
	// failures are reported through the EmailLookup status.
	FindByEmail(ctx context.Context, email string, excludeID int64) EmailLookup

	// List returns one page of users matching params together with the
	// total number of matching users.
	List(ctx context.Context, params ListParams) (*Page, error)

	// Update applies a partial update and always refreshes updated_at.
	// Returns ErrUserNotFound if the user does not exist.
	// Returns ErrEmailExists if the new email is already taken.
	Update(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error)

	// Delete permanently removes a user. It reports false, with a nil error,
	// when no user had the given ID.
	Delete(ctx context.Context, id int64) (bool, error)

	// WithTx returns a new UserStore instance that uses the provided transaction.
	// The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) UserStore
}

// EmailLookupStatus is the outcome of an email pre-check.
type EmailLookupStatus int

// Possible email lookup outcomes.
const (
	EmailNotFound EmailLookupStatus = iota
	EmailFound
	EmailLookupFailed
)

// String returns a log-friendly name for the status.
func (s EmailLookupStatus) String() string {
	switch s {
	case EmailFound:
		return "found"
	case EmailLookupFailed:
		return "lookup_failed"
	default:
		return "not_found"
	}
}

// EmailLookup is the result of UserStore.FindByEmail.
// User is set only for EmailFound, Err only for EmailLookupFailed.
type EmailLookup struct {
	Status EmailLookupStatus
	User   *domain.User
	Err    error
}

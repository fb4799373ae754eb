package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/users-api/internal/domain"
	"github.com/phrazzld/users-api/internal/platform/logger"
	"github.com/phrazzld/users-api/internal/store"
)

// UserService provides the user CRUD operations.
type UserService interface {
	// CreateUser sanitizes and validates in, then stores a new user.
	CreateUser(ctx context.Context, in domain.UserInput) (*domain.User, error)

	// GetUser retrieves a user by ID.
	GetUser(ctx context.Context, id int64) (*domain.User, error)

	// ListUsers returns one page of users matching params.
	ListUsers(ctx context.Context, params store.ListParams) (*store.Page, error)

	// UpdateUser applies the fields present in in to the user with the given ID.
	UpdateUser(ctx context.Context, id int64, in domain.UserInput) (*domain.User, error)

	// DeleteUser permanently removes a user.
	// Returns store.ErrUserNotFound if there was no such user.
	DeleteUser(ctx context.Context, id int64) error
}

// Options tunes UserServiceImpl behaviour.
type Options struct {
	// EmailPrecheckFailClosed rejects a write with ErrEmailLookupFailed when the
	// duplicate-email pre-check fails. When false the write proceeds and the
	// storage unique constraint remains the only guard.
	EmailPrecheckFailClosed bool
}

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	userStore store.UserStore
	logger    *slog.Logger
	opts      Options
}

var _ UserService = (*UserServiceImpl)(nil)

// NewUserService creates a new UserService.
// It panics if userStore is nil.
func NewUserService(userStore store.UserStore, logger *slog.Logger, opts Options) *UserServiceImpl {
	if userStore == nil {
		panic("userStore cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UserServiceImpl{
		userStore: userStore,
		logger:    logger.With(slog.String("component", "user_service")),
		opts:      opts,
	}
}

// CreateUser implements UserService.CreateUser.
// Returns *domain.ValidationError for invalid input and ErrDuplicateEmail
// when the email is taken.
func (s *UserServiceImpl) CreateUser(ctx context.Context, in domain.UserInput) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	in = domain.Sanitize(in)
	if errs := domain.ValidateUserInput(in, false); len(errs) > 0 {
		log.Debug("user input rejected", slog.Int("error_count", len(errs)))
		return nil, domain.NewValidationError(errs)
	}
	params := in.NewUserParams()

	if err := s.checkEmailAvailable(ctx, params.Email, 0); err != nil {
		return nil, err
	}

	user, err := s.userStore.Create(ctx, params)
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("storage rejected duplicate email on create")
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// GetUser implements UserService.GetUser.
func (s *UserServiceImpl) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	if id <= 0 {
		return nil, domain.ErrInvalidID
	}

	user, err := s.userStore.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	return user, nil
}

// ListUsers implements UserService.ListUsers.
func (s *UserServiceImpl) ListUsers(ctx context.Context, params store.ListParams) (*store.Page, error) {
	page, err := s.userStore.List(ctx, params.Normalize())
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return page, nil
}

// UpdateUser implements UserService.UpdateUser.
// Returns ErrEmptyUpdate when in has no fields, *domain.ValidationError for
// invalid fields, ErrDuplicateEmail when the new email is taken and
// store.ErrUserNotFound when the user does not exist.
func (s *UserServiceImpl) UpdateUser(ctx context.Context, id int64, in domain.UserInput) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if id <= 0 {
		return nil, domain.ErrInvalidID
	}
	if in.IsEmpty() {
		return nil, ErrEmptyUpdate
	}

	in = domain.Sanitize(in)
	if errs := domain.ValidateUserInput(in, true); len(errs) > 0 {
		log.Debug("user update rejected",
			slog.Int64("user_id", id),
			slog.Int("error_count", len(errs)))
		return nil, domain.NewValidationError(errs)
	}
	patch := in.Patch()

	if patch.Email != nil {
		if err := s.checkEmailAvailable(ctx, *patch.Email, id); err != nil {
			return nil, err
		}
	}

	user, err := s.userStore.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("storage rejected duplicate email on update", slog.Int64("user_id", id))
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// DeleteUser implements UserService.DeleteUser.
func (s *UserServiceImpl) DeleteUser(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.ErrInvalidID
	}

	deleted, err := s.userStore.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if !deleted {
		return store.ErrUserNotFound
	}
	return nil
}

// checkEmailAvailable runs the advisory pre-check. A lookup failure is
// logged and, unless the service fails closed, treated as "available".
func (s *UserServiceImpl) checkEmailAvailable(ctx context.Context, email string, excludeID int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	res := s.userStore.FindByEmail(ctx, email, excludeID)
	switch res.Status {
	case store.EmailFound:
		return ErrDuplicateEmail
	case store.EmailLookupFailed:
		if s.opts.EmailPrecheckFailClosed {
			log.Error("email pre-check failed, rejecting write",
				slog.String("error", errString(res.Err)))
			return fmt.Errorf("%w: %w", ErrEmailLookupFailed, res.Err)
		}
		log.Warn("email pre-check failed, relying on unique constraint",
			slog.String("error", errString(res.Err)))
	}
	return nil
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

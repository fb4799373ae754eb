package mocks

import (
	"context"

	"github.com/phrazzld/users-api/internal/domain"
	"github.com/phrazzld/users-api/internal/store"
)

// MockUserService implements service.UserService for testing.
// Unset function fields return the default values.
type MockUserService struct {
	CreateUserFn func(ctx context.Context, in domain.UserInput) (*domain.User, error)
	GetUserFn    func(ctx context.Context, id int64) (*domain.User, error)
	ListUsersFn  func(ctx context.Context, params store.ListParams) (*store.Page, error)
	UpdateUserFn func(ctx context.Context, id int64, in domain.UserInput) (*domain.User, error)
	DeleteUserFn func(ctx context.Context, id int64) error

	// Default return values
	User         *domain.User
	Page         *store.Page
	DefaultError error
}

// CreateUser implements the UserService.CreateUser method
func (m *MockUserService) CreateUser(ctx context.Context, in domain.UserInput) (*domain.User, error) {
	if m.CreateUserFn != nil {
		return m.CreateUserFn(ctx, in)
	}
	return m.User, m.DefaultError
}

// GetUser implements the UserService.GetUser method
func (m *MockUserService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	if m.GetUserFn != nil {
		return m.GetUserFn(ctx, id)
	}
	return m.User, m.DefaultError
}

// ListUsers implements the UserService.ListUsers method
func (m *MockUserService) ListUsers(ctx context.Context, params store.ListParams) (*store.Page, error) {
	if m.ListUsersFn != nil {
		return m.ListUsersFn(ctx, params)
	}
	return m.Page, m.DefaultError
}

// UpdateUser implements the UserService.UpdateUser method
func (m *MockUserService) UpdateUser(ctx context.Context, id int64, in domain.UserInput) (*domain.User, error) {
	if m.UpdateUserFn != nil {
		return m.UpdateUserFn(ctx, id, in)
	}
	return m.User, m.DefaultError
}

// DeleteUser implements the UserService.DeleteUser method
func (m *MockUserService) DeleteUser(ctx context.Context, id int64) error {
	if m.DeleteUserFn != nil {
		return m.DeleteUserFn(ctx, id)
	}
	return m.DefaultError
}

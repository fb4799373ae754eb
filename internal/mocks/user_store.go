package mocks

import (
	"context"
	"database/sql"

	"github.com/phrazzld/users-api/internal/domain"
	"github.com/phrazzld/users-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// TestifyMockUserStore is a mock of store.UserStore interface for use with testify/mock
type TestifyMockUserStore struct {
	mock.Mock
}

var _ store.UserStore = (*TestifyMockUserStore)(nil)

func userArg(args mock.Arguments, i int) *domain.User {
	if u, ok := args.Get(i).(*domain.User); ok {
		return u
	}
	return nil
}

// Create is a mock implementation of store.UserStore.Create
func (m *TestifyMockUserStore) Create(ctx context.Context, params domain.NewUserParams) (*domain.User, error) {
	args := m.Called(ctx, params)
	return userArg(args, 0), args.Error(1)
}

// GetByID is a mock implementation of store.UserStore.GetByID
func (m *TestifyMockUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	return userArg(args, 0), args.Error(1)
}

// FindByEmail is a mock implementation of store.UserStore.FindByEmail
func (m *TestifyMockUserStore) FindByEmail(ctx context.Context, email string, excludeID int64) store.EmailLookup {
	args := m.Called(ctx, email, excludeID)
	return args.Get(0).(store.EmailLookup)
}

// List is a mock implementation of store.UserStore.List
func (m *TestifyMockUserStore) List(ctx context.Context, params store.ListParams) (*store.Page, error) {
	args := m.Called(ctx, params)
	if p, ok := args.Get(0).(*store.Page); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

// Update is a mock implementation of store.UserStore.Update
func (m *TestifyMockUserStore) Update(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
	args := m.Called(ctx, id, patch)
	return userArg(args, 0), args.Error(1)
}

// Delete is a mock implementation of store.UserStore.Delete
func (m *TestifyMockUserStore) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// WithTx is a mock implementation of store.UserStore.WithTx
func (m *TestifyMockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	args := m.Called(tx)
	if ret, ok := args.Get(0).(store.UserStore); ok {
		return ret
	}
	return m
}

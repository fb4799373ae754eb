// Package mocks provides centralized mock implementations for testing.
//
// TestifyMockUserStore is driven by testify/mock expectations and suits
// service tests that assert on call arguments. MockUserService uses function
// fields and suits handler tests that only need canned results:
//
//	svc := &mocks.MockUserService{
//	    GetUserFn: func(ctx context.Context, id int64) (*domain.User, error) {
//	        return nil, store.ErrUserNotFound
//	    },
//	}
package mocks

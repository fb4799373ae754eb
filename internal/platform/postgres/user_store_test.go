package postgres_test

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/users-api/internal/config"
	"github.com/phrazzld/users-api/internal/domain"
	"github.com/phrazzld/users-api/internal/platform/postgres"
	"github.com/phrazzld/users-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userCols = []string{"id", "name", "email", "age", "created_at", "updated_at"}

func newMockUserStore(t *testing.T) (*postgres.PostgresUserStore, sqlmock.Sqlmock) {
	t.Helper()
	p, mock, _ := newMockPool(t, config.DatabaseConfig{})
	return postgres.NewPostgresUserStore(p, nil), mock
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func TestNewPostgresUserStore_PanicsOnNilDB(t *testing.T) {
	assert.Panics(t, func() { postgres.NewPostgresUserStore(nil, nil) })
}

func TestPostgresUserStore_Create(t *testing.T) {
	now := time.Now().UTC()

	t.Run("success", func(t *testing.T) {
		s, mock := newMockUserStore(t)
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users (name, email, age)")).
			WithArgs("Ann Lee", "ann@example.com", 30).
			WillReturnRows(sqlmock.NewRows(userCols).AddRow(int64(1), "Ann Lee", "ann@example.com", int64(30), now, now))

		u, err := s.Create(context.Background(), domain.NewUserParams{Name: "Ann Lee", Email: "ann@example.com", Age: intPtr(30)})
		require.NoError(t, err)
		assert.Equal(t, int64(1), u.ID)
		require.NotNil(t, u.Age)
		assert.Equal(t, 30, *u.Age)
		assert.Equal(t, now, u.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown age is stored as NULL", func(t *testing.T) {
		s, mock := newMockUserStore(t)
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
			WithArgs("Bo", "bo@example.com", nil).
			WillReturnRows(sqlmock.NewRows(userCols).AddRow(int64(2), "Bo", "bo@example.com", nil, now, now))

		u, err := s.Create(context.Background(), domain.NewUserParams{Name: "Bo", Email: "bo@example.com"})
		require.NoError(t, err)
		assert.Nil(t, u.Age)
	})

	t.Run("duplicate email", func(t *testing.T) {
		s, mock := newMockUserStore(t)
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

		u, err := s.Create(context.Background(), domain.NewUserParams{Name: "Bo", Email: "bo@example.com"})
		assert.Nil(t, u)
		assert.ErrorIs(t, err, store.ErrEmailExists)
	})

	t.Run("check violation", func(t *testing.T) {
		s, mock := newMockUserStore(t)
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
			WillReturnError(&pgconn.PgError{Code: "23514", ConstraintName: "users_age_check"})

		_, err := s.Create(context.Background(), domain.NewUserParams{Name: "Bo", Email: "bo@example.com", Age: intPtr(500)})
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
		var storeErr *store.StoreError
		assert.True(t, errors.As(err, &storeErr))
	})

	t.Run("connection failure", func(t *testing.T) {
		s, mock := newMockUserStore(t)
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).WillReturnError(errors.New("conn reset"))

		_, err := s.Create(context.Background(), domain.NewUserParams{Name: "Bo", Email: "bo@example.com"})
		assert.ErrorIs(t, err, store.ErrStorage)
	})
}

func TestPostgresUserStore_GetByID(t *testing.T) {
	now := time.Now().UTC()
	query := regexp.QuoteMeta("FROM users WHERE id = $1")

	t.Run("found", func(t *testing.T) {
		s, mock := newMockUserStore(t)
		mock.ExpectQuery(query).WithArgs(int64(9)).
			WillReturnRows(sqlmock.NewRows(userCols).AddRow(int64(9), "Cy", "cy@example.com", int64(0), now, now))

		u, err := s.GetByID(context.Background(), 9)
		require.NoError(t, err)
		require.NotNil(t, u.Age)
		assert.Equal(t, 0, *u.Age)
	})

	t.Run("not found", func(t *testing.T) {
		s, mock := newMockUserStore(t)
		mock.ExpectQuery(query).WithArgs(int64(9)).WillReturnRows(sqlmock.NewRows(userCols))

		u, err := s.GetByID(context.Background(), 9)
		assert.Nil(t, u)
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})

	t.Run("storage failure", func(t *testing.T) {
		s, mock := newMockUserStore(t)
		mock.ExpectQuery(query).WillReturnError(errors.New("timeout"))

		_, err := s.GetByID(context.Background(), 9)
		assert.ErrorIs(t, err, store.ErrStorage)
		assert.False(t, store.IsNotFoundError(err))
	})
}

func TestPostgresUserStore_FindByEmail(t *testing.T) {
	now := time.Now().UTC()

	t.Run("found", func(t *testing.T) {
		s, mock := newMockUserStore(t)
		mock.ExpectQuery(regexp.QuoteMeta("WHERE email = $1 LIMIT 1")).WithArgs("a@example.com").
			WillReturnRows(sqlmock.NewRows(userCols).AddRow(int64(4), "Al", "a@example.com", nil, now, now))

		res := s.FindByEmail(context.Background(), "a@example.com", 0)
		assert.Equal(t, store.EmailFound, res.Status)
		require.NotNil(t, res.User)
		assert.Equal(t, int64(4), res.User.ID)
	})

	t.Run("excluding the current user", func(t *testing.T) {
		s, mock := newMockUserStore(t)
		mock.ExpectQuery(regexp.QuoteMeta("WHERE email = $1 AND id <> $2 LIMIT 1")).
			WithArgs("a@example.com", int64(4)).
			WillReturnRows(sqlmock.NewRows(userCols))

		res := s.FindByEmail(context.Background(), "a@example.com", 4)
		assert.Equal(t, store.EmailNotFound, res.Status)
		assert.Nil(t, res.User)
		assert.NoError(t, res.Err)
	})

	t.Run("lookup failure is distinguishable", func(t *testing.T) {
		s, mock := newMockUserStore(t)
		mock.ExpectQuery(regexp.QuoteMeta("WHERE email = $1")).WillReturnError(errors.New("too many connections"))

		res := s.FindByEmail(context.Background(), "a@example.com", 0)
		assert.Equal(t, store.EmailLookupFailed, res.Status)
		assert.ErrorIs(t, res.Err, store.ErrStorage)
	})
}

func TestPostgresUserStore_List(t *testing.T) {
	now := time.Now().UTC()

	t.Run("filters and pagination", func(t *testing.T) {
		s, mock := newMockUserStore(t)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM users WHERE name ILIKE $1")).
			WithArgs("%an%").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(3)))
		mock.ExpectQuery(regexp.QuoteMeta("ORDER BY name ASC, id ASC LIMIT $2 OFFSET $3")).
			WithArgs("%an%", 2, 2).
			WillReturnRows(sqlmock.NewRows(userCols).AddRow(int64(3), "Dan", "dan@example.com", nil, now, now))

		page, err := s.List(context.Background(), store.ListParams{
			Name: "an", SortBy: store.SortByName, SortOrder: store.SortAsc, Page: 2, Limit: 2,
		})
		require.NoError(t, err)
		require.Len(t, page.Users, 1)
		assert.Equal(t, "Dan", page.Users[0].Name)
		assert.Equal(t, store.Pagination{Page: 2, Limit: 2, Total: 3, TotalPages: 2, HasNext: false, HasPrev: true}, page.Pagination)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty result has empty slice", func(t *testing.T) {
		s, mock := newMockUserStore(t)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM users")).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(0)))
		mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC, id DESC")).
			WithArgs(10, 0).
			WillReturnRows(sqlmock.NewRows(userCols))

		page, err := s.List(context.Background(), store.ListParams{})
		require.NoError(t, err)
		assert.NotNil(t, page.Users)
		assert.Empty(t, page.Users)
		assert.Equal(t, int64(0), page.Pagination.TotalPages)
	})

	t.Run("count failure", func(t *testing.T) {
		s, mock := newMockUserStore(t)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).WillReturnError(errors.New("down"))

		_, err := s.List(context.Background(), store.ListParams{})
		assert.ErrorIs(t, err, store.ErrStorage)
	})

	t.Run("row iteration failure", func(t *testing.T) {
		s, mock := newMockUserStore(t)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(2)))
		mock.ExpectQuery(regexp.QuoteMeta("ORDER BY")).
			WillReturnRows(sqlmock.NewRows(userCols).
				AddRow(int64(1), "Al", "a@example.com", nil, now, now).
				AddRow(int64(2), "Bo", "b@example.com", nil, now, now).
				RowError(1, errors.New("stream broken")))

		_, err := s.List(context.Background(), store.ListParams{})
		assert.ErrorIs(t, err, store.ErrStorage)
	})
}

func TestPostgresUserStore_Update(t *testing.T) {
	now := time.Now().UTC()

	t.Run("partial update", func(t *testing.T) {
		s, mock := newMockUserStore(t)
		mock.ExpectQuery(regexp.QuoteMeta("UPDATE users SET name = $1, updated_at = NOW() WHERE id = $2")).
			WithArgs("Eve", int64(5)).
			WillReturnRows(sqlmock.NewRows(userCols).AddRow(int64(5), "Eve", "e@example.com", int64(40), now, now))

		u, err := s.Update(context.Background(), 5, domain.UserPatch{Name: strPtr("Eve")})
		require.NoError(t, err)
		assert.Equal(t, "Eve", u.Name)
	})

	t.Run("not found", func(t *testing.T) {
		s, mock := newMockUserStore(t)
		mock.ExpectQuery(regexp.QuoteMeta("UPDATE users")).WillReturnRows(sqlmock.NewRows(userCols))

		_, err := s.Update(context.Background(), 5, domain.UserPatch{SetAge: true})
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})

	t.Run("duplicate email", func(t *testing.T) {
		s, mock := newMockUserStore(t)
		mock.ExpectQuery(regexp.QuoteMeta("UPDATE users")).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

		_, err := s.Update(context.Background(), 5, domain.UserPatch{Email: strPtr("taken@example.com")})
		assert.ErrorIs(t, err, store.ErrEmailExists)
	})
}

func TestPostgresUserStore_Delete(t *testing.T) {
	query := regexp.QuoteMeta("DELETE FROM users WHERE id = $1")

	t.Run("deleted", func(t *testing.T) {
		s, mock := newMockUserStore(t)
		mock.ExpectExec(query).WithArgs(int64(5)).WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := s.Delete(context.Background(), 5)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("absent id", func(t *testing.T) {
		s, mock := newMockUserStore(t)
		mock.ExpectExec(query).WithArgs(int64(5)).WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := s.Delete(context.Background(), 5)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("storage failure", func(t *testing.T) {
		s, mock := newMockUserStore(t)
		mock.ExpectExec(query).WillReturnError(errors.New("broken pipe"))

		ok, err := s.Delete(context.Background(), 5)
		assert.False(t, ok)
		assert.ErrorIs(t, err, store.ErrStorage)
	})
}

func TestPostgresUserStore_WithTx(t *testing.T) {
	p, mock, _ := newMockPool(t, config.DatabaseConfig{})
	s := postgres.NewPostgresUserStore(p, nil)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users")).WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := store.RunInTransaction(context.Background(), p, func(ctx context.Context, tx *sql.Tx) error {
		_, err := s.WithTx(tx).Delete(ctx, 1)
		return err
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

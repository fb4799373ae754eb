package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/phrazzld/users-api/internal/domain"
	"github.com/phrazzld/users-api/internal/platform/logger"
	"github.com/phrazzld/users-api/internal/store"
)

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the UserStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresUserStore(db store.DBTX, logger *slog.Logger) *PostgresUserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		u   domain.User
		age sql.NullInt64
	)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &age, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	if age.Valid {
		v := int(age.Int64)
		u.Age = &v
	}
	return &u, nil
}

// ageArg converts an optional age into a bind parameter, NULL when unknown.
func ageArg(age *int) any {
	if age == nil {
		return nil
	}
	return *age
}

// Create implements store.UserStore.Create.
// Returns store.ErrEmailExists if another user already has the email.
func (s *PostgresUserStore) Create(ctx context.Context, params domain.NewUserParams) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO users (name, email, age)
		VALUES ($1, $2, $3)
		RETURNING ` + userColumns

	user, err := scanUser(s.db.QueryRowContext(ctx, query, params.Name, params.Email, ageArg(params.Age)))
	if err != nil {
		mapped := MapError(err)
		if errors.Is(mapped, store.ErrEmailExists) {
			log.Warn("email already exists during user creation")
			return nil, mapped
		}
		log.Error("failed to create user", slog.String("error", err.Error()))
		return nil, store.NewStoreError("user", "create", "failed to insert user", mapped)
	}

	log.Info("user created", slog.Int64("user_id", user.ID))
	return user, nil
}

// GetByID implements store.UserStore.GetByID.
// Returns store.ErrUserNotFound if the user does not exist.
func (s *PostgresUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("user not found", slog.Int64("user_id", id))
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user by ID",
			slog.String("error", err.Error()),
			slog.Int64("user_id", id))
		return nil, store.NewStoreError("user", "get", "failed to load user", MapError(err))
	}

	return user, nil
}

// FindByEmail implements store.UserStore.FindByEmail.
func (s *PostgresUserStore) FindByEmail(ctx context.Context, email string, excludeID int64) store.EmailLookup {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	args := []any{email}
	if excludeID > 0 {
		query += ` AND id <> $2`
		args = append(args, excludeID)
	}
	query += ` LIMIT 1`

	user, err := scanUser(s.db.QueryRowContext(ctx, query, args...))
	switch {
	case err == nil:
		return store.EmailLookup{Status: store.EmailFound, User: user}
	case errors.Is(err, sql.ErrNoRows):
		return store.EmailLookup{Status: store.EmailNotFound}
	default:
		log.Error("email lookup failed", slog.String("error", err.Error()))
		return store.EmailLookup{
			Status: store.EmailLookupFailed,
			Err:    store.NewStoreError("user", "find_by_email", "email lookup failed", MapError(err)),
		}
	}
}

// List implements store.UserStore.List.
// params are normalized before use, so callers may pass raw values.
func (s *PostgresUserStore) List(ctx context.Context, params store.ListParams) (*store.Page, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	p := params.Normalize()
	listSQL, listArgs, countSQL, countArgs := buildListQuery(p)

	var total int64
	if err := s.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		log.Error("failed to count users", slog.String("error", err.Error()))
		return nil, store.NewStoreError("user", "list", "failed to count users", MapError(err))
	}

	rows, err := s.db.QueryContext(ctx, listSQL, listArgs...)
	if err != nil {
		log.Error("failed to list users", slog.String("error", err.Error()))
		return nil, store.NewStoreError("user", "list", "failed to query users", MapError(err))
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			log.Warn("failed to close rows", slog.String("error", cerr.Error()))
		}
	}()

	users := make([]*domain.User, 0, p.Limit)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			log.Error("failed to scan user row", slog.String("error", err.Error()))
			return nil, store.NewStoreError("user", "list", "failed to scan user", MapError(err))
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating user rows", slog.String("error", err.Error()))
		return nil, store.NewStoreError("user", "list", "failed to read users", MapError(err))
	}

	log.Debug("users listed",
		slog.Int("page", p.Page),
		slog.Int("limit", p.Limit),
		slog.Int("returned", len(users)),
		slog.Int64("total", total))

	return &store.Page{
		Users:      users,
		Pagination: store.NewPagination(p.Page, p.Limit, total),
	}, nil
}

// Update implements store.UserStore.Update.
// Returns store.ErrUserNotFound if the user does not exist and
// store.ErrEmailExists if the new email belongs to another user.
func (s *PostgresUserStore) Update(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args := buildUpdateQuery(id, patch)

	user, err := scanUser(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("user not found for update", slog.Int64("user_id", id))
			return nil, store.ErrUserNotFound
		}
		mapped := MapError(err)
		if errors.Is(mapped, store.ErrEmailExists) {
			log.Warn("email already exists during user update", slog.Int64("user_id", id))
			return nil, mapped
		}
		log.Error("failed to update user",
			slog.String("error", err.Error()),
			slog.Int64("user_id", id))
		return nil, store.NewStoreError("user", "update", "failed to update user", mapped)
	}

	log.Info("user updated", slog.Int64("user_id", id))
	return user, nil
}

// Delete implements store.UserStore.Delete.
// It reports false, without error, when no user had the given ID.
func (s *PostgresUserStore) Delete(ctx context.Context, id int64) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete user",
			slog.String("error", err.Error()),
			slog.Int64("user_id", id))
		return false, store.NewStoreError("user", "delete", "failed to delete user", MapError(err))
	}

	n, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected", slog.String("error", err.Error()))
		return false, store.NewStoreError("user", "delete", "failed to get rows affected", MapError(err))
	}

	if n == 0 {
		log.Debug("user not found for delete", slog.Int64("user_id", id))
		return false, nil
	}

	log.Info("user deleted", slog.Int64("user_id", id))
	return true, nil
}

// WithTx implements store.UserStore.WithTx.
func (s *PostgresUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &PostgresUserStore{
		db:     tx,
		logger: s.logger,
	}
}

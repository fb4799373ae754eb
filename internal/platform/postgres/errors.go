package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/users-api/internal/store"
)

// PostgreSQL error codes
const (
	uniqueViolationCode       = "23505"
	checkViolationCode        = "23514"
	notNullViolationCode      = "23502"
	stringTooLongCode         = "22001"
	numericOutOfRangeCode     = "22003"
	invalidTextRepresentation = "22P02"
)

// emailUniqueConstraint is the name Postgres gives the UNIQUE constraint on users.email.
const emailUniqueConstraint = "users_email_key"

// MapError maps a database error to an appropriate store error.
// The original error stays in the chain for logging; callers only need
// errors.Is against the store sentinels. Errors without a specific mapping
// are wrapped in store.ErrStorage so raw driver errors never escape the store.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %w", store.ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			if pgErr.ConstraintName == emailUniqueConstraint || pgErr.ColumnName == "email" {
				return fmt.Errorf("%w: %w", store.ErrEmailExists, err)
			}
			return fmt.Errorf("%w: %w", store.ErrDuplicate, err)
		case checkViolationCode:
			return fmt.Errorf(
				"%w: check constraint violation (%s): %w",
				store.ErrInvalidEntity,
				pgErr.ConstraintName,
				err,
			)
		case notNullViolationCode:
			return fmt.Errorf(
				"%w: not null violation (%s): %w",
				store.ErrInvalidEntity,
				pgErr.ColumnName,
				err,
			)
		case stringTooLongCode, numericOutOfRangeCode, invalidTextRepresentation:
			return fmt.Errorf("%w: value rejected (%s): %w", store.ErrInvalidEntity, pgErr.Code, err)
		}
	}

	return fmt.Errorf("%w: %w", store.ErrStorage, err)
}

// IsUniqueViolation checks if the given error is a PostgreSQL unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

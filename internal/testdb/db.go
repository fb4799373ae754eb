package testdb

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/phrazzld/users-api/internal/config"
	"github.com/phrazzld/users-api/internal/platform/postgres"
	"github.com/phrazzld/users-api/internal/platform/postgres/migrations"
	"github.com/phrazzld/users-api/internal/store"
	"github.com/stretchr/testify/require"
)

// TestTimeout defines a default timeout for test database operations.
const TestTimeout = 5 * time.Second

// GetTestDatabaseURL returns the database URL for tests.
// It checks DATABASE_URL and USERS_TEST_DB_URL in that order.
func GetTestDatabaseURL() string {
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		return dbURL
	}
	return os.Getenv("USERS_TEST_DB_URL")
}

// GetTestPoolWithT opens a Pool against the test database, migrates the schema
// and registers cleanup. The test is skipped when no database URL is set.
func GetTestPoolWithT(t *testing.T) *postgres.Pool {
	t.Helper()

	dbURL := GetTestDatabaseURL()
	if dbURL == "" {
		t.Skip("DATABASE_URL or USERS_TEST_DB_URL not set - skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	pool, err := postgres.Open(ctx, config.DatabaseConfig{
		URL:             dbURL,
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
		ConnectTimeout:  TestTimeout,
	}, nil)
	require.NoError(t, err, "Failed to open test database")
	t.Cleanup(func() {
		if err := pool.Close(); err != nil {
			t.Logf("Warning: failed to close database pool: %v", err)
		}
	})

	SetupTestDatabaseSchema(t, pool.DB())
	return pool
}

// SetupTestDatabaseSchema applies all pending migrations.
func SetupTestDatabaseSchema(t *testing.T, db *sql.DB) {
	t.Helper()
	err := migrations.Run(context.Background(), db, nil, "up")
	require.NoError(t, err, "Failed to run migrations")
}

// WithTx runs fn inside a transaction that is always rolled back, so tests
// can write freely without affecting each other.
func WithTx(t *testing.T, db store.TxBeginner, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err, "Failed to begin transaction")

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("Warning: failed to rollback transaction: %v", err)
		}
	}()

	fn(t, tx)
}

// TruncateUsers empties the users table and restarts its identity. Used by
// end-to-end tests whose requests cannot share a test transaction.
func TruncateUsers(t *testing.T, db *sql.DB) {
	t.Helper()
	_, err := db.ExecContext(context.Background(), "TRUNCATE users RESTART IDENTITY")
	require.NoError(t, err, "Failed to truncate users")
}

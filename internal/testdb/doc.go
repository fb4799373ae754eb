// Package testdb provides helpers for integration tests that need a real
// PostgreSQL database: connection setup from DATABASE_URL, schema migration
// through the embedded goose migrations, and transaction-scoped isolation.
//
// Tests using it are expected to carry the `integration` build tag and are
// skipped when no database URL is configured.
package testdb

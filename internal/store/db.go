package store

import (
	"context"
	"database/sql"
)

// DBTX abstracts the query surface shared by *sql.DB, *sql.Tx and the
// instrumented postgres Pool, so stores run unchanged inside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

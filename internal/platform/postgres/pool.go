package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/phrazzld/users-api/internal/config"
	"github.com/phrazzld/users-api/internal/platform/logger"
	"github.com/phrazzld/users-api/internal/redact"
	"github.com/phrazzld/users-api/internal/store"
)

// Statement kinds reported in QueryEvent.Op.
const (
	OpQuery    = "query"
	OpQueryRow = "query_row"
	OpExec     = "exec"
	OpPrepare  = "prepare"
	OpPing     = "ping"
)

const maxLoggedQueryLen = 500

// QueryEvent describes one statement executed through a Pool.
type QueryEvent struct {
	Op       string
	Query    string
	Args     []any
	Duration time.Duration
	Err      error
}

// QueryObserver is notified after every statement a Pool executes.
// Implementations must be safe for concurrent use.
type QueryObserver interface {
	ObserveQuery(ctx context.Context, ev QueryEvent)
}

// QueryObserverFunc adapts a function to QueryObserver.
type QueryObserverFunc func(ctx context.Context, ev QueryEvent)

// ObserveQuery calls f(ctx, ev).
func (f QueryObserverFunc) ObserveQuery(ctx context.Context, ev QueryEvent) {
	f(ctx, ev)
}

// Pool is the process-wide connection pool. It wraps *sql.DB (pgx stdlib
// driver) and times, logs and reports every statement. A Pool is safe for
// concurrent use and satisfies store.DBTX.
type Pool struct {
	db        *sql.DB
	logger    *slog.Logger
	observers []QueryObserver
	slowQuery time.Duration

	closeOnce sync.Once
	closeErr  error
}

var _ store.DBTX = (*Pool)(nil)
var _ store.TxBeginner = (*Pool)(nil)

// Open builds a pgx connection config from cfg, opens the pool and runs the
// liveness probe. An unreachable database is an error: callers are expected
// to abort startup.
func Open(
	ctx context.Context,
	cfg config.DatabaseConfig,
	logger *slog.Logger,
	observers ...QueryObserver,
) (*Pool, error) {
	connConfig, err := pgx.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("invalid database configuration: %s", redact.Error(err))
	}
	if cfg.ConnectTimeout > 0 {
		connConfig.ConnectTimeout = cfg.ConnectTimeout
	}
	if cfg.StatementTimeout > 0 {
		connConfig.RuntimeParams["statement_timeout"] = strconv.FormatInt(cfg.StatementTimeout.Milliseconds(), 10)
	}

	p := NewPool(stdlib.OpenDB(*connConfig), cfg, logger, observers...)

	if err := p.Ping(ctx); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("database liveness probe failed: %w", err)
	}

	p.logger.Info("database pool ready",
		slog.String("target", cfg.String()),
		slog.Int("max_open_conns", cfg.MaxOpenConns),
		slog.Int("max_idle_conns", cfg.MaxIdleConns))
	return p, nil
}

// NewPool wraps an already opened *sql.DB, applying the pool limits from cfg.
// It panics if db is nil.
func NewPool(db *sql.DB, cfg config.DatabaseConfig, logger *slog.Logger, observers ...QueryObserver) *Pool {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	obs := make([]QueryObserver, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			obs = append(obs, o)
		}
	}

	return &Pool{
		db:        db,
		logger:    logger.With(slog.String("component", "db_pool")),
		observers: obs,
		slowQuery: cfg.SlowQueryThreshold,
	}
}

// DB returns the underlying *sql.DB, e.g. for running migrations.
func (p *Pool) DB() *sql.DB {
	return p.db
}

// QueryContext executes a query that returns rows.
func (p *Pool) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := p.db.QueryContext(ctx, query, args...)
	p.observe(ctx, OpQuery, query, args, start, err)
	return rows, err
}

// QueryRowContext executes a query expected to return at most one row.
// Only errors surfaced before Scan are observed.
func (p *Pool) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	start := time.Now()
	row := p.db.QueryRowContext(ctx, query, args...)
	p.observe(ctx, OpQueryRow, query, args, start, row.Err())
	return row
}

// ExecContext executes a statement that returns no rows.
func (p *Pool) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	res, err := p.db.ExecContext(ctx, query, args...)
	p.observe(ctx, OpExec, query, args, start, err)
	return res, err
}

// PrepareContext creates a prepared statement. The caller must close it.
func (p *Pool) PrepareContext(ctx context.Context, query string) (*sql.Stmt, error) {
	start := time.Now()
	stmt, err := p.db.PrepareContext(ctx, query)
	p.observe(ctx, OpPrepare, query, nil, start, err)
	return stmt, err
}

// Conn checks out a dedicated connection. The caller must close it to
// return it to the pool.
func (p *Pool) Conn(ctx context.Context) (*sql.Conn, error) {
	conn, err := p.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	return conn, nil
}

// BeginTx starts a transaction on a pooled connection.
func (p *Pool) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	return p.db.BeginTx(ctx, opts)
}

// Ping runs the liveness probe (SELECT 1).
func (p *Pool) Ping(ctx context.Context) error {
	const probe = "SELECT 1"
	start := time.Now()
	var one int
	err := p.db.QueryRowContext(ctx, probe).Scan(&one)
	p.observe(ctx, OpPing, probe, nil, start, err)
	return err
}

// Stats returns connection pool statistics.
func (p *Pool) Stats() sql.DBStats {
	return p.db.Stats()
}

// Close closes the pool. It is safe to call more than once and on a nil Pool.
func (p *Pool) Close() error {
	if p == nil {
		return nil
	}
	p.closeOnce.Do(func() {
		p.closeErr = p.db.Close()
		p.logger.Info("database pool closed")
	})
	return p.closeErr
}

func (p *Pool) observe(ctx context.Context, op, query string, args []any, start time.Time, err error) {
	d := time.Since(start)
	ev := QueryEvent{Op: op, Query: query, Args: args, Duration: d, Err: err}
	for _, o := range p.observers {
		p.notify(ctx, o, ev)
	}

	log := logger.FromContextOrDefault(ctx, p.logger)
	switch {
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		log.Error("database statement failed",
			slog.String("op", op),
			slog.String("statement", compactQuery(query)),
			slog.Any("params", redact.Args(args)),
			slog.Duration("duration", d),
			slog.String("error", redact.Error(err)))
	case p.slowQuery > 0 && d > p.slowQuery:
		log.Warn("slow database statement",
			slog.String("op", op),
			slog.String("statement", compactQuery(query)),
			slog.Duration("duration", d),
			slog.Duration("threshold", p.slowQuery))
	default:
		log.Debug("database statement executed",
			slog.String("op", op),
			slog.Duration("duration", d))
	}
}

func (p *Pool) notify(ctx context.Context, o QueryObserver, ev QueryEvent) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("query observer panicked", slog.Any("panic", r))
		}
	}()
	o.ObserveQuery(ctx, ev)
}

// compactQuery collapses whitespace so multi-line SQL logs on one line.
func compactQuery(q string) string {
	q = strings.Join(strings.Fields(q), " ")
	if len(q) > maxLoggedQueryLen {
		return q[:maxLoggedQueryLen] + "..."
	}
	return q
}

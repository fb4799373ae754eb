// Package migrations embeds the SQL schema migrations and runs them with goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
)

// TableName is the goose version table.
const TableName = "schema_migrations"

// SourceDir is where new migration files are written by the create command,
// relative to the repository root.
const SourceDir = "internal/platform/postgres/migrations"

//go:embed *.sql
var FS embed.FS

// Commands accepted by Run.
var Commands = []string{"up", "down", "reset", "status", "version", "create"}

// slogGooseLogger adapts the goose logger interface to slog.
type slogGooseLogger struct {
	logger *slog.Logger
}

// Printf implements goose.Logger by forwarding messages at info level.
func (l *slogGooseLogger) Printf(format string, v ...any) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

// Fatalf implements goose.Logger. It logs at error level and does NOT exit;
// the failure is returned to the caller instead.
func (l *slogGooseLogger) Fatalf(format string, v ...any) {
	l.logger.Error(fmt.Sprintf(format, v...))
}

// Run executes a goose command against db using the embedded migrations.
// "create" takes the new migration name as its first arg and writes a SQL
// file under SourceDir.
func Run(ctx context.Context, db *sql.DB, logger *slog.Logger, command string, args ...string) error {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With(
		slog.String("correlation_id", uuid.NewString()),
		slog.String("component", "migrations"),
		slog.String("command", command),
	)

	goose.SetLogger(&slogGooseLogger{logger: log})
	goose.SetTableName(TableName)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	start := time.Now()
	log.Info("starting migration command")

	var err error
	switch command {
	case "up":
		goose.SetBaseFS(FS)
		err = goose.UpContext(ctx, db, ".")
	case "down":
		goose.SetBaseFS(FS)
		err = goose.DownContext(ctx, db, ".")
	case "reset":
		goose.SetBaseFS(FS)
		err = goose.ResetContext(ctx, db, ".")
	case "status":
		goose.SetBaseFS(FS)
		err = goose.StatusContext(ctx, db, ".")
	case "version":
		goose.SetBaseFS(FS)
		err = goose.VersionContext(ctx, db, ".")
	case "create":
		if len(args) == 0 || args[0] == "" {
			return fmt.Errorf("migration name is required for 'create' command")
		}
		goose.SetBaseFS(nil)
		err = goose.Create(db, SourceDir, args[0], "sql")
	default:
		return fmt.Errorf("unknown migration command: %s (expected one of %v)", command, Commands)
	}

	if err != nil {
		log.Error("migration command failed",
			slog.String("error", err.Error()),
			slog.Duration("duration", time.Since(start)))
		return fmt.Errorf("migration command '%s' failed: %w", command, err)
	}

	log.Info("migration command completed", slog.Duration("duration", time.Since(start)))
	return nil
}

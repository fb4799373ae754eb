package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/users-api/internal/config"
	"github.com/phrazzld/users-api/internal/platform/postgres/migrations"
)

// runMigrations executes a migration command. "create" only writes a new
// SQL file and does not connect to the database.
func runMigrations(ctx context.Context, cfg *config.Config, logger *slog.Logger, command string, args ...string) error {
	var db *sql.DB
	if command != "create" {
		pool, err := setupAppDatabase(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := pool.Close(); err != nil {
				logger.Error("failed to close database pool", slog.String("error", err.Error()))
			}
		}()
		db = pool.DB()
	}

	if err := migrations.Run(ctx, db, logger, command, args...); err != nil {
		return fmt.Errorf("migration %s failed: %w", command, err)
	}
	return nil
}

package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/users-api/internal/config"
	"github.com/phrazzld/users-api/internal/platform/postgres"
)

// setupAppDatabase opens the connection pool and verifies the database is
// reachable. Startup fails if the liveness probe fails.
func setupAppDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*postgres.Pool, error) {
	pool, err := postgres.Open(ctx, cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.Info("database connection established",
		slog.String("database", cfg.Database.String()),
		slog.Int("max_open_conns", cfg.Database.MaxOpenConns))
	return pool, nil
}

package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/users-api/internal/config"
	"github.com/phrazzld/users-api/internal/platform/postgres"
	"github.com/phrazzld/users-api/internal/service"
	"github.com/phrazzld/users-api/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	pool   *postgres.Pool

	userStore   store.UserStore
	userService service.UserService
}

// newApplication wires stores and services on top of an open pool.
func newApplication(cfg *config.Config, logger *slog.Logger, pool *postgres.Pool) *application {
	app := &application{
		config: cfg,
		logger: logger,
		pool:   pool,
	}

	app.userStore = postgres.NewPostgresUserStore(pool, logger)
	app.userService = service.NewUserService(app.userStore, logger, service.Options{
		EmailPrecheckFailClosed: cfg.Database.EmailPrecheckFailClosed,
	})

	logger.Info("application initialized",
		slog.Bool("email_precheck_fail_closed", cfg.Database.EmailPrecheckFailClosed),
		slog.Bool("rate_limit_enabled", cfg.RateLimit.Enabled))
	return app
}

// Run serves HTTP until ctx is canceled, then shuts down and releases resources.
func (app *application) Run(ctx context.Context) error {
	defer app.cleanup()

	router := app.setupRouter()
	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.pool != nil {
		if err := app.pool.Close(); err != nil {
			app.logger.Error("error closing database pool", slog.String("error", err.Error()))
		}
	}
	app.logger.Info("application shutdown completed")
}

package main

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/phrazzld/users-api/internal/config"
	"github.com/phrazzld/users-api/internal/platform/logger"
	"github.com/phrazzld/users-api/internal/platform/postgres/migrations"
	"github.com/spf13/cobra"
)

// newRootCmd builds the command tree. Running the binary without a
// subcommand starts the server.
func newRootCmd() *cobra.Command {
	var migrate bool

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, migrate)
		},
	}
	serveCmd.Flags().BoolVar(&migrate, "migrate", false, "apply pending migrations before serving")

	rootCmd := &cobra.Command{
		Use:           "users-api",
		Short:         "REST API for managing users",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          serveCmd.RunE,
	}
	rootCmd.Flags().AddFlagSet(serveCmd.Flags())

	rootCmd.AddCommand(serveCmd, newMigrateCmd(), newVersionCmd())
	return rootCmd
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status|version|reset|create NAME]",
		Short:     "Manage database migrations",
		ValidArgs: migrations.Commands,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("migration command required (one of %v)", migrations.Commands)
			}
			if !slices.Contains(migrations.Commands, args[0]) {
				return fmt.Errorf("unknown migration command %q (expected one of %v)", args[0], migrations.Commands)
			}
			if args[0] == "create" && len(args) != 2 {
				return fmt.Errorf("create requires exactly one migration name")
			}
			if args[0] != "create" && len(args) != 1 {
				return fmt.Errorf("%s takes no arguments", args[0])
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfigAndLogger()
			if err != nil {
				return err
			}
			return runMigrations(cmd.Context(), cfg, log, args[0], args[1:]...)
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "users-api %s (commit %s)\n", version, commit)
		},
	}
}

func runServe(cmd *cobra.Command, migrate bool) error {
	cfg, log, err := loadConfigAndLogger()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	pool, err := setupAppDatabase(ctx, cfg, log)
	if err != nil {
		return err
	}

	if migrate {
		if err := migrations.Run(ctx, pool.DB(), log, "up"); err != nil {
			_ = pool.Close()
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
	}

	app := newApplication(cfg, log, pool)
	return app.Run(ctx)
}

// loadConfigAndLogger loads configuration and installs the process logger.
func loadConfigAndLogger() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server, cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("environment", cfg.Server.Environment),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("database", cfg.Database.String()))

	return cfg, log, nil
}

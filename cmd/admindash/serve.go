package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"admindash/auth"
	"admindash/internal/config"
	"admindash/internal/persistence"
	"admindash/internal/server"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	logger := server.NewLogger(slog.LevelInfo)

	db, err := persistence.Open(ctx, cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := persistence.Migrate(ctx, db); err != nil {
		return err
	}

	authLog := server.NewAuthLogger(logger)
	registerHandler := auth.NewRegisterUserHandler(
		auth.NewRepositoryManager(db),
		auth.NewPasswordHasher(cfg.GetBcryptCost()),
		authLog,
	)

	if err := persistence.SeedUsers(ctx, cfg.Seed.UsersPath, registerHandler, authLog); err != nil {
		return err
	}

	if cfg.Content.Enabled {
		if err := persistence.LoadFixtures(ctx, db, cfg.Content.FixturesPath); err != nil {
			return err
		}
	}

	srv := server.New(cfg, db, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Listen()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("shutting down", "reason", ctx.Err())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

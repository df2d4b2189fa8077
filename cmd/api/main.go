package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inventory-backend/internal/application/sweeper"
	"inventory-backend/internal/config"
	"inventory-backend/internal/infrastructure/database"
	"inventory-backend/internal/interfaces/router"
	"inventory-backend/internal/pkg/logger"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const shutdownTimeout = 10 * time.Second

var (
	rootCmd = &cobra.Command{
		Use:           "api",
		Short:         "Inventory management backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}

	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}
			db, err := database.Open(cfg.DBDriver, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			if err := database.AutoMigrate(db); err != nil {
				return err
			}
			log.Info().Str("driver", cfg.DBDriver).Msg("migration complete")
			return nil
		},
	}

	sweepCmd = &cobra.Command{
		Use:   "sweep",
		Short: "Mark assets due for replacement within six months as expiring soon",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}
			srv, err := router.CreateApp(cfg)
			if err != nil {
				return err
			}
			defer srv.Close()
			res, err := srv.Assets.SweepExpiring(cmd.Context(), "cli")
			if err != nil {
				return err
			}
			fmt.Printf("Updated %d assets to 'expiring soon' status (%s .. %s)\n",
				res.AffectedRows, res.CheckDate, res.ExpiryThreshold)
			return nil
		},
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("inventory-backend %s\n", version)
		},
	}
)

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, sweepCmd, versionCmd)
}

func setup() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := logger.Setup(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile}); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func serve(ctx context.Context) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	srv, err := router.CreateApp(cfg)
	if err != nil {
		return err
	}
	defer srv.Close()

	if cfg.DBAutoMigrate {
		if err := database.AutoMigrate(srv.DB); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
		log.Info().Msg("database schema migrated")
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := &sweeper.Runner{Sweeper: srv.Assets, Rdb: srv.Rdb, Interval: cfg.SweepInterval}
	go runner.Start(ctx)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Str("version", version).Msg("server starting")
		errCh <- srv.App.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down")
	if err := srv.App.ShutdownWithTimeout(shutdownTimeout); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Error().Err(err).AnErr("cause", errors.Unwrap(err)).Msg("command failed")
		os.Exit(1)
	}
}

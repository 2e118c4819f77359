package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/niklvrr/codereviewbot/internal/app"
	"github.com/niklvrr/codereviewbot/internal/config"
	"github.com/niklvrr/codereviewbot/internal/infrastructure/db"
	"github.com/niklvrr/codereviewbot/pkg/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:          "codereviewbot",
		Short:        "Mirrors GitHub pull request reviews into Slack",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&envFile, "config", "", "env file with settings (default .env when present)")

	cmd.AddCommand(newServeCommand(&envFile))
	cmd.AddCommand(newMigrateCommand(&envFile))
	return cmd
}

func newServeCommand(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap(*envFile)
			if err != nil {
				return err
			}
			defer log.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := app.New(ctx, cfg, log)
			if err != nil {
				log.Error("failed to init app", zap.Error(err))
				return err
			}

			return a.Run(ctx)
		},
	}
}

func newMigrateCommand(envFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap(*envFile)
			if err != nil {
				return err
			}
			defer log.Sync()

			if err := db.RunMigrations(cfg.Database.URL, cfg.Database.MigrationsPath, log); err != nil {
				return err
			}
			log.Info("migrations applied")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down [steps]",
		Short: "Roll back migrations, one step by default",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps := 1
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n <= 0 {
					return fmt.Errorf("invalid steps %q", args[0])
				}
				steps = n
			}

			cfg, log, err := bootstrap(*envFile)
			if err != nil {
				return err
			}
			defer log.Sync()

			if err := db.RollbackMigrations(cfg.Database.URL, cfg.Database.MigrationsPath, steps, log); err != nil {
				return err
			}
			log.Info("migrations rolled back", zap.Int("steps", steps))
			return nil
		},
	})

	return cmd
}

func bootstrap(envFile string) (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(envFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.NewLogger(cfg.App.Env)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}

	return cfg, log, nil
}

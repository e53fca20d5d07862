package main

import (
	"context"
	"fmt"

	"github.com/gartstein/catalog/internal/catalog/config"
	gorm "github.com/gartstein/catalog/internal/catalog/db"
	"github.com/gartstein/catalog/internal/pkg/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app holds what every subcommand needs once configuration is loaded.
type app struct {
	configPath string
	cfg        *config.Config
	logger     *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "catalog",
		Short:         "Product catalog service",
		Long:          "Catalog serves the product and company REST API, seeds companies and tails product events.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.init()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			a.syncLogger()
		},
	}
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", config.DefaultPath, "Path to the YAML configuration file")

	serveCmd := newServeCmd(a)
	rootCmd.AddCommand(serveCmd, newSeedCmd(a), newEventsCmd(a))
	// serve is the default
	rootCmd.RunE = serveCmd.RunE
	return rootCmd
}

func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

func (a *app) syncLogger() {
	if a.logger == nil {
		return
	}
	// stderr cannot be synced on some platforms
	_ = a.logger.Sync()
}

func (a *app) openRepository(ctx context.Context) (*gorm.Repository, error) {
	repo, err := gorm.NewRepository(ctx, a.cfg.Database(), a.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return repo, nil
}

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/TemirB/order-invoices/internal/config"
	"github.com/TemirB/order-invoices/internal/database"
	"github.com/TemirB/order-invoices/internal/domain"
)

var version = "dev"

func newRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "app",
		Short:         "Order invoices service",
		Long:          "Imports and manages invoices attached to orders, backed by Postgres or memory.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env", config.DefaultEnvFile, "dotenv file loaded before the environment")

	loadConfig := func() (config.Config, *zap.Logger, error) {
		cfg, err := config.Load(envFile)
		if err != nil {
			return config.Config{}, nil, fmt.Errorf("config: %w", err)
		}
		logger, err := newLogger(cfg.LogLevel)
		if err != nil {
			return config.Config{}, nil, fmt.Errorf("logger: %w", err)
		}
		return cfg, logger, nil
	}

	root.AddCommand(
		newServeCmd(loadConfig),
		newMigrateCmd(loadConfig),
		newImportCmd(loadConfig),
	)
	return root
}

type configLoader func() (config.Config, *zap.Logger, error)

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	if lvl == zapcore.DebugLevel {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	return zcfg.Build()
}

func openStorage(ctx context.Context, cfg config.Config, logger *zap.Logger) (domain.Repository, error) {
	if cfg.Storage == config.StorageMemory {
		logger.Warn("Using in-memory storage; data is lost on exit")
		return database.NewMemory(), nil
	}
	pool, err := database.NewPool(ctx, cfg.DSN(), cfg.Pg.TraceLevel, logger)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}
	return database.New(pool), nil
}

func migrateUp(cfg config.Config, logger *zap.Logger) error {
	m, err := database.NewMigrator(cfg.MigrateURL(), logger)
	if err != nil {
		return err
	}
	defer m.Close()
	return m.Up()
}

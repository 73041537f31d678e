package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TemirB/order-invoices/internal/config"
	"github.com/TemirB/order-invoices/internal/database"
)

func newMigrateCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Apply or roll back the embedded schema migrations",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down"},
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, logger, err := load()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			if cfg.Storage != config.StoragePostgres {
				return fmt.Errorf("migrate requires STORAGE=%s", config.StoragePostgres)
			}

			m, err := database.NewMigrator(cfg.MigrateURL(), logger)
			if err != nil {
				return err
			}
			defer m.Close()

			if len(args) == 1 && args[0] == "down" {
				return m.Down()
			}
			return m.Up()
		},
	}
}

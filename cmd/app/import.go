package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TemirB/order-invoices/internal/application/service"
	"github.com/TemirB/order-invoices/internal/cache"
	"github.com/TemirB/order-invoices/internal/importer"
	"github.com/TemirB/order-invoices/internal/observability"
)

func newImportCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json>",
		Short: "Import a JSON array of invoices against the configured storage",
		Example: `  app import invoices.json
  STORAGE=memory app import invoices.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := load()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			records, err := importer.DecodeBatch(f)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			repo, err := openStorage(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer repo.Close()

			orderCache, err := cache.New(cfg.CacheCap)
			if err != nil {
				return err
			}
			metrics := observability.NewNoop()
			orders := service.NewOrderService(orderCache, repo, logger.Named("orders"), metrics)
			invoices := service.NewInvoiceService(repo, importer.NewResolver(orders), logger.Named("invoices"), metrics)

			created, st, err := invoices.ImportWithStats(ctx, records)
			if err != nil {
				return fmt.Errorf("import %s: %w", args[0], err)
			}
			logger.Info("Import finished",
				zap.String("file", args[0]),
				zap.Int("created", st.Created),
				zap.Float64("db_ms", st.DBMs),
			)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(created)
		},
	}
}

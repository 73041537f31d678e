package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TemirB/order-invoices/internal/application/handler"
	"github.com/TemirB/order-invoices/internal/application/service"
	"github.com/TemirB/order-invoices/internal/cache"
	"github.com/TemirB/order-invoices/internal/config"
	"github.com/TemirB/order-invoices/internal/httpapi"
	"github.com/TemirB/order-invoices/internal/importer"
	"github.com/TemirB/order-invoices/internal/kafka"
	"github.com/TemirB/order-invoices/internal/observability"
	"github.com/TemirB/order-invoices/internal/pkg/breaker"
)

func newServeCmd(load configLoader) *cobra.Command {
	var withMigrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (and the order feed consumer when enabled)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := load()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if withMigrate && cfg.Storage == config.StoragePostgres {
				if err := migrateUp(cfg, logger); err != nil {
					return err
				}
			}
			return serve(ctx, cfg, logger)
		},
	}
	cmd.Flags().BoolVar(&withMigrate, "migrate", false, "apply migrations before starting")
	return cmd
}

func serve(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	repo, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer repo.Close()

	metrics := observability.NewInmem(cfg.MetricsBuffer)

	orderCache, err := cache.New(cfg.CacheCap)
	if err != nil {
		return err
	}
	warmCtx, cancelWarm := context.WithTimeout(ctx, 10*time.Second)
	n, err := orderCache.Warm(warmCtx, repo)
	cancelWarm()
	if err != nil {
		logger.Warn("Cache warm-up failed", zap.Error(err))
	} else {
		logger.Info("Cache warmed", zap.Int("orders", n))
	}

	orders := service.NewOrderService(orderCache, repo, logger.Named("orders"), metrics)
	invoices := service.NewInvoiceService(repo, importer.NewResolver(orders), logger.Named("invoices"), metrics)

	if cfg.Kafka.Enabled {
		startConsumer(ctx, cfg, orders, metrics, logger)
	}

	srv := httpapi.New(orders, invoices, cfg.StaticDir, logger.Named("http"), metrics)
	if err := srv.ListenAndServe(ctx, cfg.HTTPAddr); err != nil {
		return err
	}
	logger.Info("Server stopped")
	return nil
}

func startConsumer(ctx context.Context, cfg config.Config, orders *service.OrderService, metrics *observability.Inmem, logger *zap.Logger) {
	log := logger.Named("kafka")

	topicCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	if err := kafka.EnsureTopic(topicCtx, cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.Partitions, 1, log); err != nil {
		log.Warn("could not ensure topic", zap.Error(err))
	}
	cancel()

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		GroupID:  cfg.Kafka.Group,
		Topic:    cfg.Kafka.Topic,
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  time.Second,
	})

	h := handler.NewHandler(orders, breaker.New(cfg.Breaker), cfg.Retry, log)
	consumer := kafka.NewConsumer(h, reader, cfg.Kafka.Workers, metrics, log)

	go func() {
		consumer.Start(ctx)
		if err := reader.Close(); err != nil {
			log.Warn("reader close failed", zap.Error(err))
		}
	}()
}

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/TemirB/order-invoices/internal/config"
	"github.com/TemirB/order-invoices/internal/domain"
	"github.com/TemirB/order-invoices/internal/kafka"
	"github.com/TemirB/order-invoices/internal/pkg/retry"
)

//go:generate mockgen -source handler.go -destination=handler_mock_test.go -package=handler

var (
	ErrBadJSON     = errors.New("bad json")
	ErrUpsert      = errors.New("upsert failed")
	ErrCircuitOpen = errors.New("circuit breaker open")
)

type Service interface {
	Upsert(ctx context.Context, order *domain.Order) error
}

type brk interface {
	Allow() error
	Success()
	Failure()
}

// Handler applies order snapshots from the order feed.
type Handler struct {
	service     Service
	breaker     brk
	logger      *zap.Logger
	retryPolicy config.Retry
}

func NewHandler(service Service, breaker brk, retryPolicy config.Retry, logger *zap.Logger) *Handler {
	return &Handler{
		service:     service,
		breaker:     breaker,
		logger:      logger,
		retryPolicy: retryPolicy,
	}
}

// Handle processes one message. Malformed snapshots are reported with
// kafka.ErrSkip so the consumer commits past them; storage failures count
// against the breaker and leave the offset uncommitted.
func (h *Handler) Handle(ctx context.Context, message kafkago.Message) error {
	var order domain.Order
	if err := json.Unmarshal(message.Value, &order); err != nil {
		h.logger.Error("bad json format",
			zap.Error(err),
			zap.Int("partition", message.Partition),
			zap.Int64("offset", message.Offset),
		)
		return fmt.Errorf("%w: %w", ErrBadJSON, kafka.ErrSkip)
	}
	order.OrderID = strings.TrimSpace(order.OrderID)
	if order.OrderID == "" {
		h.logger.Error("missing orderId",
			zap.Int("partition", message.Partition),
			zap.Int64("offset", message.Offset),
		)
		return fmt.Errorf("%w: missing orderId: %w", ErrBadJSON, kafka.ErrSkip)
	}

	if err := h.breaker.Allow(); err != nil {
		h.logger.Warn("circuit breaker is open",
			zap.Error(err),
			zap.Int("partition", message.Partition),
			zap.Int64("offset", message.Offset),
		)
		return fmt.Errorf("%w: %v", ErrCircuitOpen, err)
	}

	if err := retry.Do(ctx, h.retryPolicy, func() error {
		return h.service.Upsert(ctx, &order)
	}); err != nil {
		h.logger.Error("upsert failed after retries",
			zap.String("order_id", order.OrderID),
			zap.Error(err),
			zap.Int("partition", message.Partition),
			zap.Int64("offset", message.Offset),
		)
		h.breaker.Failure()
		return fmt.Errorf("%w: %v", ErrUpsert, err)
	}

	h.breaker.Success()
	h.logger.Info("successfully processed order",
		zap.String("order_id", order.OrderID),
		zap.Int("partition", message.Partition),
		zap.Int64("offset", message.Offset),
		zap.Int("value_bytes", len(message.Value)),
	)
	return nil
}

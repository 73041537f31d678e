package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/TemirB/order-invoices/internal/domain"
	"github.com/TemirB/order-invoices/internal/observability"
)

//go:generate mockgen -source order.go -destination=order_mock_test.go -package=service

type Cache interface {
	Set(*domain.Order)
	Get(string) (*domain.Order, bool)
}

type OrderStorage interface {
	CreateOrder(context.Context, *domain.Order) error
	UpsertOrder(context.Context, *domain.Order) error
	GetOrderByOrderID(context.Context, string) (*domain.Order, error)
	ListOrders(context.Context) ([]domain.Order, error)
}

// OrderService fronts order storage with the LRU cache. It is also the
// order finder behind invoice imports.
type OrderService struct {
	cache   Cache
	storage OrderStorage
	logger  *zap.Logger
	metrics observability.Metrics
}

func NewOrderService(cache Cache, storage OrderStorage, logger *zap.Logger, metrics observability.Metrics) *OrderService {
	return &OrderService{
		cache:   cache,
		storage: storage,
		logger:  logger,
		metrics: metrics,
	}
}

func (s *OrderService) Create(ctx context.Context, order *domain.Order) error {
	t0 := time.Now()
	if err := s.storage.CreateOrder(ctx, order); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			s.logger.Warn("Order already exists", zap.String("order_id", order.OrderID))
			return err
		}
		s.logger.Error("Error while creating order in db",
			zap.String("order_id", order.OrderID),
			zap.Error(err),
		)
		return err
	}
	s.cache.Set(order)

	s.logger.Info("Order created",
		zap.String("order_id", order.OrderID),
		zap.Float64("db_write_ms", convertToMs(t0)),
	)
	return nil
}

// UpsertWithStats stores an order snapshot keyed by its orderId.
func (s *OrderService) UpsertWithStats(ctx context.Context, order *domain.Order) (WriteStats, error) {
	var st WriteStats

	t0 := time.Now()
	if err := s.storage.UpsertOrder(ctx, order); err != nil {
		s.logger.Error("Error while upserting order in db",
			zap.String("order_id", order.OrderID),
			zap.Error(err),
		)
		return st, err
	}
	st.DBWriteMs = convertToMs(t0)

	s.cache.Set(order)

	s.logger.Info("Order upserted",
		zap.String("order_id", order.OrderID),
		zap.Float64("db_write_ms", st.DBWriteMs),
	)
	return st, nil
}

func (s *OrderService) Upsert(ctx context.Context, order *domain.Order) error {
	_, err := s.UpsertWithStats(ctx, order)
	return err
}

func (s *OrderService) List(ctx context.Context) ([]domain.Order, error) {
	orders, err := s.storage.ListOrders(ctx)
	if err != nil {
		s.logger.Error("Error while listing orders", zap.Error(err))
		return nil, err
	}
	return orders, nil
}

func (s *OrderService) GetOrderByOrderID(ctx context.Context, orderID string) (*domain.Order, error) {
	o, _, err := s.GetOrderByOrderIDWithStats(ctx, orderID)
	return o, err
}

func (s *OrderService) GetOrderByOrderIDWithStats(ctx context.Context, orderID string) (*domain.Order, LookupStats, error) {
	var st LookupStats

	tCacheStart := time.Now()
	if order, ok := s.cache.Get(orderID); ok {
		st.Source = SourceCache
		st.CacheMs = convertToMs(tCacheStart)
		s.metrics.IncCacheHit()
		s.metrics.ObserveLookup(string(st.Source), st.CacheMs, 0)

		s.logger.Debug("Order fetched from cache",
			zap.String("order_id", orderID),
			zap.Float64("cache_ms", st.CacheMs),
		)
		return order, st, nil
	}

	s.metrics.IncCacheMiss()
	st.CacheMs = convertToMs(tCacheStart)

	tDbStart := time.Now()
	order, err := s.storage.GetOrderByOrderID(ctx, orderID)
	if errors.Is(err, domain.ErrNotFound) {
		s.logger.Info("Order not found", zap.String("order_id", orderID))
		return nil, st, err
	}
	if err != nil {
		s.logger.Error("Can't fetch order",
			zap.String("order_id", orderID),
			zap.Error(err),
			zap.Float64("cache_ms", st.CacheMs),
		)
		return nil, st, err
	}

	st.Source = SourceDB
	st.DBMs = convertToMs(tDbStart)

	s.cache.Set(order)

	s.metrics.ObserveLookup(string(st.Source), st.CacheMs, st.DBMs)
	s.logger.Debug("Order fetched from DB",
		zap.String("order_id", orderID),
		zap.Float64("cache_ms", st.CacheMs),
		zap.Float64("db_ms", st.DBMs),
	)
	return order, st, nil
}

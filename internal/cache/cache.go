package cache

import (
	"context"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/TemirB/order-invoices/internal/domain"
	"github.com/TemirB/order-invoices/internal/pkg/pool"
)

//go:generate mockgen -source cache.go -destination=cache_mock_test.go -package=cache

const warmWorkers = 4

type repo interface {
	GetOrderByOrderID(ctx context.Context, orderID string) (*domain.Order, error)
	RecentOrderIDs(ctx context.Context, limit int) ([]string, error)
}

// Cache holds orders keyed by their business orderId.
type Cache struct {
	size int
	lru  *lru.Cache[string, domain.Order]
}

func New(size int) (*Cache, error) {
	c, err := lru.New[string, domain.Order](size)
	if err != nil {
		return nil, err
	}
	return &Cache{
		size: size,
		lru:  c,
	}, nil
}

// Warm loads up to size of the most recent orders. It returns the number cached;
// orders that fail to load are skipped.
func (c *Cache) Warm(ctx context.Context, repo repo) (int, error) {
	ids, err := repo.RecentOrderIDs(ctx, c.size)
	if err != nil {
		return 0, err
	}
	var n atomic.Int64
	p := pool.New(warmWorkers)
	for _, id := range ids {
		id := id
		p.Submit(func() {
			o, err := repo.GetOrderByOrderID(ctx, id)
			if err != nil {
				return
			}
			c.Set(o)
			n.Add(1)
		})
	}
	p.Wait()
	return int(n.Load()), nil
}

func (c *Cache) Get(orderID string) (*domain.Order, bool) {
	order, ok := c.lru.Get(orderID)
	if !ok {
		return nil, false
	}
	return &order, true
}

func (c *Cache) Set(order *domain.Order) {
	c.lru.Add(order.OrderID, *order)
}

func (c *Cache) Len() int { return c.lru.Len() }

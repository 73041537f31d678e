package importer

import (
	"context"
	"errors"

	"github.com/TemirB/order-invoices/internal/domain"
)

type Resolver struct {
	finder OrderFinder
}

func NewResolver(finder OrderFinder) *Resolver {
	return &Resolver{finder: finder}
}

func (r *Resolver) Resolve(ctx context.Context, orderID string) (string, bool, error) {
	order, err := r.finder.GetOrderByOrderID(ctx, orderID)
	if errors.Is(err, domain.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return order.ID, true, nil
}

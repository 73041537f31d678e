package importer

import (
	"context"

	"github.com/TemirB/order-invoices/internal/domain"
)

//go:generate mockgen -source ports.go -destination=ports_mock_test.go -package=importer

type InvoiceStore interface {
	CreateInvoice(ctx context.Context, invoice *domain.Invoice) error
}

type OrderFinder interface {
	GetOrderByOrderID(ctx context.Context, orderID string) (*domain.Order, error)
}

// OrderLookup resolves a business order id to the order's internal id.
// found is false when no order matches; err is reserved for lookup failures.
type OrderLookup interface {
	Resolve(ctx context.Context, orderID string) (internalID string, found bool, err error)
}

type LookupFunc func(ctx context.Context, orderID string) (string, bool, error)

func (f LookupFunc) Resolve(ctx context.Context, orderID string) (string, bool, error) {
	return f(ctx, orderID)
}

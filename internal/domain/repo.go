package domain

import "context"

// OrderRepository is the order side of storage. CreateOrder and UpsertOrder
// fill in ID and CreatedAt.
type OrderRepository interface {
	CreateOrder(ctx context.Context, order *Order) error
	UpsertOrder(ctx context.Context, order *Order) error
	GetOrderByOrderID(ctx context.Context, orderID string) (*Order, error)
	ListOrders(ctx context.Context) ([]Order, error)
	RecentOrderIDs(ctx context.Context, limit int) ([]string, error)
}

// InvoiceRepository is the invoice side of storage. Lookups by id return
// ErrNotFound when nothing matches; List and Get expand the order reference.
type InvoiceRepository interface {
	CreateInvoice(ctx context.Context, invoice *Invoice) error
	ListInvoices(ctx context.Context) ([]InvoiceView, error)
	GetInvoice(ctx context.Context, id string) (*InvoiceView, error)
	UpdateInvoice(ctx context.Context, id string, patch InvoicePatch) (*Invoice, error)
	DeleteInvoice(ctx context.Context, id string) (*Invoice, error)
}

type Repository interface {
	OrderRepository
	InvoiceRepository
	Close()
}

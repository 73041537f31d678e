package database

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/TemirB/order-invoices/internal/domain"
)

// Memory is a process-local Repository for development and tests.
type Memory struct {
	mu       sync.RWMutex
	orders   map[string]domain.Order // by internal id
	byNumber map[string]string       // orderId -> internal id
	invoices map[string]domain.Invoice
	seq      []string // invoice ids in insertion order
	now      func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		orders:   make(map[string]domain.Order),
		byNumber: make(map[string]string),
		invoices: make(map[string]domain.Invoice),
		now:      time.Now,
	}
}

func (m *Memory) Close() {}

func (m *Memory) CreateOrder(_ context.Context, o *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byNumber[o.OrderID]; ok {
		return fmt.Errorf("order %s: %w", o.OrderID, domain.ErrAlreadyExists)
	}
	m.insertOrder(o)
	return nil
}

func (m *Memory) UpsertOrder(_ context.Context, o *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.byNumber[o.OrderID]
	if !ok {
		m.insertOrder(o)
		return nil
	}
	stored := m.orders[id]
	o.ID, o.CreatedAt = stored.ID, stored.CreatedAt
	m.orders[id] = *o
	return nil
}

func (m *Memory) insertOrder(o *domain.Order) {
	o.ID = uuid.NewString()
	o.CreatedAt = m.now().UTC()
	m.orders[o.ID] = *o
	m.byNumber[o.OrderID] = o.ID
}

func (m *Memory) GetOrderByOrderID(_ context.Context, orderID string) (*domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byNumber[orderID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	o := m.orders[id]
	return &o, nil
}

func (m *Memory) ListOrders(_ context.Context) ([]domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ordersNewestFirst(), nil
}

func (m *Memory) RecentOrderIDs(_ context.Context, limit int) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	orders := m.ordersNewestFirst()
	if limit >= 0 && len(orders) > limit {
		orders = orders[:limit]
	}
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.OrderID)
	}
	return ids, nil
}

func (m *Memory) ordersNewestFirst() []domain.Order {
	out := make([]domain.Order, 0, len(m.orders))
	for _, o := range m.orders {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return newer(out[i], out[j]) })
	return out
}

func newer(a, b domain.Order) bool {
	if a.CreatedAt.Equal(b.CreatedAt) {
		return a.OrderID < b.OrderID
	}
	return a.CreatedAt.After(b.CreatedAt)
}

func (m *Memory) CreateInvoice(_ context.Context, inv *domain.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.orders[inv.OrderRef]; !ok {
		return fmt.Errorf("order ref %s: %w", inv.OrderRef, domain.ErrOrderRefNotFound)
	}
	inv.ID = uuid.NewString()
	inv.CreatedAt = m.now().UTC()
	m.invoices[inv.ID] = *inv
	m.seq = append(m.seq, inv.ID)
	return nil
}

func (m *Memory) ListInvoices(_ context.Context) ([]domain.InvoiceView, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	views := make([]domain.InvoiceView, 0, len(m.seq))
	for _, id := range m.seq {
		views = append(views, m.view(m.invoices[id]))
	}
	return views, nil
}

func (m *Memory) GetInvoice(_ context.Context, id string) (*domain.InvoiceView, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	inv, ok := m.invoices[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	v := m.view(inv)
	return &v, nil
}

func (m *Memory) view(inv domain.Invoice) domain.InvoiceView {
	v := domain.InvoiceView{Invoice: inv}
	if o, ok := m.orders[inv.OrderRef]; ok {
		v.Order = &o
	}
	return v
}

func (m *Memory) UpdateInvoice(_ context.Context, id string, patch domain.InvoicePatch) (*domain.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	inv, ok := m.invoices[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if patch.OrderRef != nil {
		if _, ok := m.orders[*patch.OrderRef]; !ok {
			return nil, fmt.Errorf("order ref %s: %w", *patch.OrderRef, domain.ErrOrderRefNotFound)
		}
	}
	patch.Apply(&inv)
	m.invoices[id] = inv
	return &inv, nil
}

func (m *Memory) DeleteInvoice(_ context.Context, id string) (*domain.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	inv, ok := m.invoices[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	delete(m.invoices, id)
	for i, sid := range m.seq {
		if sid == id {
			m.seq = append(m.seq[:i], m.seq[i+1:]...)
			break
		}
	}
	return &inv, nil
}

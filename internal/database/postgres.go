package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/TemirB/order-invoices/internal/domain"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

type Repo struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) Close() { r.pool.Close() }

const orderColumns = `id::text, order_id, customer_name, contact_email, contact_phone, quotation_number, created_at`

func scanOrder(row pgx.Row, o *domain.Order) error {
	return row.Scan(&o.ID, &o.OrderID, &o.CustomerName, &o.ContactEmail, &o.ContactPhone,
		&o.QuotationNumber, &o.CreatedAt)
}

func (r *Repo) CreateOrder(ctx context.Context, o *domain.Order) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO orders (order_id, customer_name, contact_email, contact_phone, quotation_number)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id::text, created_at
	`, o.OrderID, o.CustomerName, o.ContactEmail, o.ContactPhone, o.QuotationNumber,
	).Scan(&o.ID, &o.CreatedAt)
	if isPgError(err, pgUniqueViolation) {
		return fmt.Errorf("order %s: %w", o.OrderID, domain.ErrAlreadyExists)
	}
	return err
}

func (r *Repo) UpsertOrder(ctx context.Context, o *domain.Order) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO orders (order_id, customer_name, contact_email, contact_phone, quotation_number)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (order_id) DO UPDATE SET
		  customer_name=EXCLUDED.customer_name,
		  contact_email=EXCLUDED.contact_email,
		  contact_phone=EXCLUDED.contact_phone,
		  quotation_number=EXCLUDED.quotation_number
		RETURNING id::text, created_at
	`, o.OrderID, o.CustomerName, o.ContactEmail, o.ContactPhone, o.QuotationNumber,
	).Scan(&o.ID, &o.CreatedAt)
}

func (r *Repo) GetOrderByOrderID(ctx context.Context, orderID string) (*domain.Order, error) {
	var o domain.Order
	err := scanOrder(r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE order_id=$1`, orderID), &o)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *Repo) ListOrders(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		var o domain.Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *Repo) RecentOrderIDs(ctx context.Context, limit int) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT order_id FROM orders
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

const invoiceColumns = `i.id::text, i.order_ref::text, i.invoice_id, i.invoice_number, i.invoice_date, i.created_at`

func scanInvoice(row pgx.Row, inv *domain.Invoice, extra ...any) error {
	var date time.Time
	dest := append([]any{&inv.ID, &inv.OrderRef, &inv.InvoiceID, &inv.InvoiceNumber, &date, &inv.CreatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return err
	}
	inv.InvoiceDate = domain.NewDate(date)
	return nil
}

func scanInvoiceView(row pgx.Row) (domain.InvoiceView, error) {
	var v domain.InvoiceView
	o := &domain.Order{}
	err := scanInvoice(row, &v.Invoice,
		&o.ID, &o.OrderID, &o.CustomerName, &o.ContactEmail, &o.ContactPhone, &o.QuotationNumber, &o.CreatedAt)
	v.Order = o
	return v, err
}

func (r *Repo) CreateInvoice(ctx context.Context, inv *domain.Invoice) error {
	ref, err := uuid.Parse(inv.OrderRef)
	if err != nil {
		return fmt.Errorf("order ref %q: %w", inv.OrderRef, domain.ErrOrderRefNotFound)
	}
	err = r.pool.QueryRow(ctx, `
		INSERT INTO invoices (order_ref, invoice_id, invoice_number, invoice_date)
		VALUES ($1,$2,$3,$4)
		RETURNING id::text, created_at
	`, ref, inv.InvoiceID, inv.InvoiceNumber, inv.InvoiceDate.Time(),
	).Scan(&inv.ID, &inv.CreatedAt)
	if isPgError(err, pgForeignKeyViolation) {
		return fmt.Errorf("order ref %s: %w", inv.OrderRef, domain.ErrOrderRefNotFound)
	}
	return err
}

const invoiceViewQuery = `
	SELECT ` + invoiceColumns + `,
	       o.id::text, o.order_id, o.customer_name, o.contact_email, o.contact_phone, o.quotation_number, o.created_at
	FROM invoices i
	JOIN orders o ON o.id = i.order_ref`

func (r *Repo) ListInvoices(ctx context.Context) ([]domain.InvoiceView, error) {
	rows, err := r.pool.Query(ctx, invoiceViewQuery+` ORDER BY i.created_at, i.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	views := []domain.InvoiceView{}
	for rows.Next() {
		v, err := scanInvoiceView(rows)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, rows.Err()
}

func (r *Repo) GetInvoice(ctx context.Context, id string) (*domain.InvoiceView, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	v, err := scanInvoiceView(r.pool.QueryRow(ctx, invoiceViewQuery+` WHERE i.id=$1`, uid))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *Repo) UpdateInvoice(ctx context.Context, id string, patch domain.InvoicePatch) (*domain.Invoice, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	var ref *uuid.UUID
	if patch.OrderRef != nil {
		parsed, err := uuid.Parse(*patch.OrderRef)
		if err != nil {
			return nil, fmt.Errorf("order ref %q: %w", *patch.OrderRef, domain.ErrOrderRefNotFound)
		}
		ref = &parsed
	}
	var date *time.Time
	if patch.InvoiceDate != nil {
		t := patch.InvoiceDate.Time()
		date = &t
	}

	var inv domain.Invoice
	err = scanInvoice(r.pool.QueryRow(ctx, `
		UPDATE invoices AS i SET
		  order_ref=COALESCE($2, i.order_ref),
		  invoice_id=COALESCE($3, i.invoice_id),
		  invoice_number=COALESCE($4, i.invoice_number),
		  invoice_date=COALESCE($5, i.invoice_date)
		WHERE i.id=$1
		RETURNING `+invoiceColumns,
		uid, ref, patch.InvoiceID, patch.InvoiceNumber, date,
	), &inv)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if isPgError(err, pgForeignKeyViolation) {
		return nil, fmt.Errorf("order ref %s: %w", *patch.OrderRef, domain.ErrOrderRefNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *Repo) DeleteInvoice(ctx context.Context, id string) (*domain.Invoice, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	var inv domain.Invoice
	err = scanInvoice(r.pool.QueryRow(ctx, `DELETE FROM invoices AS i WHERE i.id=$1 RETURNING `+invoiceColumns, uid), &inv)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func isPgError(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/TemirB/order-invoices/internal/domain"
	"github.com/TemirB/order-invoices/internal/importer"
	"github.com/TemirB/order-invoices/internal/observability"
)

//go:generate mockgen -source invoice.go -destination=invoice_mock_test.go -package=service

type InvoiceStorage interface {
	CreateInvoice(context.Context, *domain.Invoice) error
	ListInvoices(context.Context) ([]domain.InvoiceView, error)
	GetInvoice(context.Context, string) (*domain.InvoiceView, error)
	UpdateInvoice(context.Context, string, domain.InvoicePatch) (*domain.Invoice, error)
	DeleteInvoice(context.Context, string) (*domain.Invoice, error)
}

var ErrEmptyInvoiceNumber = errors.New("invoiceNumber must not be empty")

// InvoiceUpdate holds the client-facing fields of PUT /invoices/{id}.
// OrderID is a business order id and is resolved before storing.
type InvoiceUpdate struct {
	OrderID       *string `json:"orderId"`
	InvoiceID     *string `json:"invoiceId"`
	InvoiceNumber *string `json:"invoiceNumber"`
	InvoiceDate   *string `json:"invoiceDate"`
}

type InvoiceService struct {
	storage  InvoiceStorage
	importer *importer.Importer
	lookup   importer.OrderLookup
	logger   *zap.Logger
	metrics  observability.Metrics
}

func NewInvoiceService(storage InvoiceStorage, lookup importer.OrderLookup, logger *zap.Logger, metrics observability.Metrics) *InvoiceService {
	return &InvoiceService{
		storage:  storage,
		importer: importer.New(storage, logger.Named("importer")),
		lookup:   lookup,
		logger:   logger,
		metrics:  metrics,
	}
}

func (s *InvoiceService) ImportWithStats(ctx context.Context, records []importer.RawInvoiceInput) ([]domain.Invoice, ImportStats, error) {
	st := ImportStats{Records: len(records)}

	t0 := time.Now()
	created, err := s.importer.Import(ctx, records, s.lookup)
	st.DBMs = convertToMs(t0)
	st.Created = len(created)
	if err != nil {
		st.Created = persistedBefore(err)
	}

	s.metrics.ObserveImport(st.Records, st.Created, st.DBMs, err == nil)
	if err != nil {
		s.logImportError(err, st)
		return nil, st, err
	}

	s.logger.Info("Invoices imported",
		zap.Int("records", st.Records),
		zap.Float64("db_ms", st.DBMs),
	)
	return created, st, nil
}

func (s *InvoiceService) Import(ctx context.Context, records []importer.RawInvoiceInput) ([]domain.Invoice, error) {
	created, _, err := s.ImportWithStats(ctx, records)
	return created, err
}

// persistedBefore reports how many invoices a failed import left saved.
func persistedBefore(err error) int {
	var recErr *importer.RecordError
	var storeErr *importer.StorageError
	switch {
	case errors.As(err, &storeErr):
		return storeErr.Persisted
	case errors.As(err, &recErr):
		return recErr.Persisted
	}
	return 0
}

func (s *InvoiceService) logImportError(err error, st ImportStats) {
	fields := []zap.Field{zap.Int("records", st.Records), zap.Int("created", st.Created), zap.Error(err)}

	var recErr *importer.RecordError
	var storeErr *importer.StorageError
	switch {
	case errors.As(err, &storeErr):
		fields = append(fields, zap.Int("record", storeErr.Index), zap.Int("persisted", storeErr.Persisted))
		s.logger.Error("Invoice import failed", fields...)
	case errors.As(err, &recErr):
		fields = append(fields, zap.Int("record", recErr.Index), zap.Int("persisted", recErr.Persisted))
		s.logger.Warn("Invoice import rejected", fields...)
	default:
		s.logger.Warn("Invoice import rejected", fields...)
	}
}

func (s *InvoiceService) List(ctx context.Context) ([]domain.InvoiceView, error) {
	views, err := s.storage.ListInvoices(ctx)
	if err != nil {
		s.logger.Error("Error while listing invoices", zap.Error(err))
		return nil, err
	}
	return views, nil
}

func (s *InvoiceService) Get(ctx context.Context, id string) (*domain.InvoiceView, error) {
	v, err := s.storage.GetInvoice(ctx, id)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		s.logger.Error("Error while fetching invoice", zap.String("id", id), zap.Error(err))
	}
	return v, err
}

// Update replaces the provided fields. An unknown orderId yields
// importer.ErrOrderNotFound and an unparsable date importer.ErrInvalidDate.
func (s *InvoiceService) Update(ctx context.Context, id string, in InvoiceUpdate) (*domain.Invoice, error) {
	patch, err := s.patchFrom(ctx, in)
	if err != nil {
		return nil, err
	}

	inv, err := s.storage.UpdateInvoice(ctx, id, patch)
	if errors.Is(err, domain.ErrOrderRefNotFound) {
		s.logger.Warn("Order removed before invoice update", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", importer.ErrOrderNotFound, err)
	}
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error("Error while updating invoice", zap.String("id", id), zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("Invoice updated",
		zap.String("id", id),
		zap.String("invoice_id", inv.InvoiceID),
	)
	return inv, nil
}

func (s *InvoiceService) patchFrom(ctx context.Context, in InvoiceUpdate) (domain.InvoicePatch, error) {
	patch := domain.InvoicePatch{
		InvoiceID:     in.InvoiceID,
		InvoiceNumber: in.InvoiceNumber,
	}
	if in.InvoiceNumber != nil && strings.TrimSpace(*in.InvoiceNumber) == "" {
		return patch, ErrEmptyInvoiceNumber
	}
	if in.InvoiceDate != nil {
		date, err := domain.ParseDate(*in.InvoiceDate)
		if err != nil {
			return patch, fmt.Errorf("%w: %v", importer.ErrInvalidDate, err)
		}
		patch.InvoiceDate = &date
	}
	if in.OrderID != nil {
		ref, found, err := s.lookup.Resolve(ctx, *in.OrderID)
		if err != nil {
			return patch, err
		}
		if !found {
			return patch, fmt.Errorf("%w: %s", importer.ErrOrderNotFound, *in.OrderID)
		}
		patch.OrderRef = &ref
	}
	return patch, nil
}

func (s *InvoiceService) Delete(ctx context.Context, id string) (*domain.Invoice, error) {
	inv, err := s.storage.DeleteInvoice(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error("Error while deleting invoice", zap.String("id", id), zap.Error(err))
		}
		return nil, err
	}
	s.logger.Info("Invoice deleted",
		zap.String("id", id),
		zap.String("invoice_id", inv.InvoiceID),
	)
	return inv, nil
}

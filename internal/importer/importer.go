package importer

import (
	"context"
	"errors"
	"reflect"
	"strings"

	"github.com/TemirB/order-invoices/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Importer struct {
	store    InvoiceStore
	validate *validator.Validate
	newID    func() string
	logger   *zap.Logger
}

func New(store InvoiceStore, logger *zap.Logger) *Importer {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)

	return &Importer{
		store:    store,
		validate: v,
		newID:    uuid.NewString,
		logger:   logger,
	}
}

// WithIDGenerator replaces the generator used for records without an invoiceId.
func (im *Importer) WithIDGenerator(gen func() string) *Importer {
	im.newID = gen
	return im
}

// Import creates one invoice per record, in order. The first failing record
// aborts the batch; invoices saved before it stay saved and are counted in
// the returned error's Persisted field.
func (im *Importer) Import(ctx context.Context, records []RawInvoiceInput, lookup OrderLookup) ([]domain.Invoice, error) {
	if records == nil {
		return nil, ErrInvalidInputShape
	}

	created := make([]domain.Invoice, 0, len(records))
	for i, rec := range records {
		if missing := im.missingFields(rec); len(missing) > 0 {
			return nil, &RecordError{Index: i, Fields: missing, Persisted: len(created), Err: ErrMissingRequiredFields}
		}

		orderRef, found, err := lookup.Resolve(ctx, rec.OrderID)
		if err != nil {
			return nil, &StorageError{Index: i, Op: "resolve order", Persisted: len(created), Err: err}
		}
		if !found {
			return nil, &RecordError{Index: i, OrderID: rec.OrderID, Persisted: len(created), Err: ErrOrderNotFound}
		}

		invoiceID := rec.InvoiceID
		if strings.TrimSpace(invoiceID) == "" {
			invoiceID = im.newID()
		}

		date, err := domain.ParseDate(rec.InvoiceDate)
		if err != nil {
			return nil, &RecordError{Index: i, Value: rec.InvoiceDate, Persisted: len(created), Err: ErrInvalidDate, Cause: err}
		}

		invoice := domain.Invoice{
			OrderRef:      orderRef,
			InvoiceID:     invoiceID,
			InvoiceNumber: rec.InvoiceNumber,
			InvoiceDate:   date,
		}
		if err := im.store.CreateInvoice(ctx, &invoice); err != nil {
			return nil, &StorageError{Index: i, Op: "create invoice", Persisted: len(created), Err: err}
		}

		im.logger.Debug("Invoice created",
			zap.Int("record", i),
			zap.String("order_id", rec.OrderID),
			zap.String("invoice_id", invoice.InvoiceID),
		)
		created = append(created, invoice)
	}
	return created, nil
}

func (im *Importer) missingFields(rec RawInvoiceInput) []string {
	err := im.validate.Struct(rec)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return fields
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

package importer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// RawInvoiceInput is one record of a submitted batch.
type RawInvoiceInput struct {
	OrderID       string `json:"orderId" validate:"required"`
	InvoiceID     string `json:"invoiceId,omitempty"`
	InvoiceNumber string `json:"invoiceNumber" validate:"required"`
	InvoiceDate   string `json:"invoiceDate" validate:"required"`
}

// DecodeBatch reads a JSON array of records. Any other top-level value yields
// ErrInvalidInputShape. An element that is not an object, or has a field of the
// wrong JSON type, yields a RecordError wrapping ErrInvalidFieldType.
func DecodeBatch(r io.Reader) ([]RawInvoiceInput, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInputShape, err)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, ErrInvalidInputShape
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInputShape, err)
	}

	records := make([]RawInvoiceInput, 0, len(elems))
	for i, elem := range elems {
		var rec RawInvoiceInput
		if err := json.Unmarshal(elem, &rec); err != nil {
			return nil, recordDecodeError(i, elem, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func recordDecodeError(index int, elem json.RawMessage, err error) *RecordError {
	recErr := &RecordError{Index: index, Err: ErrInvalidFieldType, Cause: err}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		recErr.Fields = []string{typeErr.Field}
		return recErr
	}
	recErr.Value = string(bytes.TrimSpace(elem))
	return recErr
}

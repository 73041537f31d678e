package importer

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidInputShape     = errors.New("expected an array of invoices")
	ErrMissingRequiredFields = errors.New("missing required fields")
	ErrOrderNotFound         = errors.New("order not found")
	ErrInvalidDate           = errors.New("invalid invoice date")
	ErrInvalidFieldType      = errors.New("invalid field type")
	ErrStorage               = errors.New("storage failure")
)

// RecordError rejects a batch because of the record at Index. Persisted is
// the number of invoices already saved by the same call; they are not rolled back.
type RecordError struct {
	Index     int
	Fields    []string
	OrderID   string
	Value     string
	Persisted int
	Err       error
	Cause     error
}

func (e *RecordError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "record %d: %v", e.Index, e.Err)
	switch {
	case len(e.Fields) > 0:
		fmt.Fprintf(&b, " (%s)", strings.Join(e.Fields, ", "))
	case e.OrderID != "":
		fmt.Fprintf(&b, " (order_id=%s)", e.OrderID)
	case e.Value != "":
		fmt.Fprintf(&b, " (value=%q)", e.Value)
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

func (e *RecordError) Unwrap() error { return e.Err }

// StorageError wraps an unexpected failure of order lookup or invoice persistence.
type StorageError struct {
	Index     int
	Op        string
	Persisted int
	Err       error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("record %d: %s: %v", e.Index, e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

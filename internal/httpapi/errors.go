package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/TemirB/order-invoices/internal/application/service"
	"github.com/TemirB/order-invoices/internal/domain"
	"github.com/TemirB/order-invoices/internal/importer"
)

type errorBody struct {
	Message string   `json:"message"`
	Index   *int     `json:"index,omitempty"`
	Fields  []string `json:"fields,omitempty"`
	Error   string   `json:"error,omitempty"`
}

func intPtr(i int) *int { return &i }

func orderNotFoundMessage(orderID string) string {
	return fmt.Sprintf("Order with ID %s not found.", orderID)
}

// importErrorResponse maps an import failure to its status and body.
func importErrorResponse(err error) (int, errorBody) {
	var recErr *importer.RecordError
	hasRecord := errors.As(err, &recErr)

	switch {
	case errors.Is(err, importer.ErrInvalidInputShape):
		return http.StatusBadRequest, errorBody{Message: "Expected an array of invoices"}
	case errors.Is(err, importer.ErrMissingRequiredFields) && hasRecord:
		return http.StatusBadRequest, errorBody{Message: "Missing required fields.", Index: intPtr(recErr.Index), Fields: recErr.Fields}
	case errors.Is(err, importer.ErrOrderNotFound) && hasRecord:
		return http.StatusBadRequest, errorBody{Message: orderNotFoundMessage(recErr.OrderID), Index: intPtr(recErr.Index)}
	case errors.Is(err, importer.ErrInvalidDate) && hasRecord:
		return http.StatusBadRequest, errorBody{Message: "Invalid invoice date.", Index: intPtr(recErr.Index)}
	case errors.Is(err, importer.ErrInvalidFieldType) && hasRecord:
		return http.StatusBadRequest, errorBody{Message: "Invalid field type.", Index: intPtr(recErr.Index), Fields: recErr.Fields}
	default:
		return http.StatusInternalServerError, errorBody{Message: "Error creating invoice", Error: err.Error()}
	}
}

// updateErrorResponse maps a PUT /invoices/{id} failure.
func updateErrorResponse(err error, in service.InvoiceUpdate) (int, errorBody) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, errorBody{Message: "Invoice not found"}
	case errors.Is(err, importer.ErrOrderNotFound):
		orderID := ""
		if in.OrderID != nil {
			orderID = *in.OrderID
		}
		return http.StatusBadRequest, errorBody{Message: orderNotFoundMessage(orderID)}
	case errors.Is(err, importer.ErrInvalidDate):
		return http.StatusBadRequest, errorBody{Message: "Invalid invoice date."}
	case errors.Is(err, service.ErrEmptyInvoiceNumber):
		return http.StatusBadRequest, errorBody{Message: "Missing required fields.", Fields: []string{"invoiceNumber"}}
	default:
		return http.StatusInternalServerError, errorBody{Message: "Error updating invoice", Error: err.Error()}
	}
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

package domain

import "time"

// Order is owned by order management. Invoices only need OrderID -> ID resolution;
// the remaining attributes are carried through untouched.
type Order struct {
	ID              string    `json:"id"`
	OrderID         string    `json:"orderId"`
	CustomerName    string    `json:"customerName"`
	ContactEmail    string    `json:"contactEmail,omitempty"`
	ContactPhone    string    `json:"contactPhone,omitempty"`
	QuotationNumber string    `json:"quotationNumber,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

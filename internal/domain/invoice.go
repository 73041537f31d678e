package domain

import "time"

type Invoice struct {
	ID            string    `json:"id"`
	OrderRef      string    `json:"orderRef"`
	InvoiceID     string    `json:"invoiceId"`
	InvoiceNumber string    `json:"invoiceNumber"`
	InvoiceDate   Date      `json:"invoiceDate"`
	CreatedAt     time.Time `json:"createdAt"`
}

// InvoiceView is an invoice with its order reference expanded to the full order.
type InvoiceView struct {
	Invoice
	Order *Order `json:"order"`
}

// InvoicePatch lists the mutable invoice fields. Nil fields are left as stored.
type InvoicePatch struct {
	OrderRef      *string
	InvoiceID     *string
	InvoiceNumber *string
	InvoiceDate   *Date
}

func (p InvoicePatch) IsEmpty() bool {
	return p.OrderRef == nil && p.InvoiceID == nil && p.InvoiceNumber == nil && p.InvoiceDate == nil
}

func (p InvoicePatch) Apply(inv *Invoice) {
	if p.OrderRef != nil {
		inv.OrderRef = *p.OrderRef
	}
	if p.InvoiceID != nil {
		inv.InvoiceID = *p.InvoiceID
	}
	if p.InvoiceNumber != nil {
		inv.InvoiceNumber = *p.InvoiceNumber
	}
	if p.InvoiceDate != nil {
		inv.InvoiceDate = *p.InvoiceDate
	}
}

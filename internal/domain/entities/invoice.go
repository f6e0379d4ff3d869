package entities

import "time"

// InvoiceStatus represents the lifecycle of an invoice.

type InvoiceStatus string

const (
	InvoiceStatusDraft         InvoiceStatus = "draft"
	InvoiceStatusSent          InvoiceStatus = "sent"
	InvoiceStatusPaid          InvoiceStatus = "paid"
	InvoiceStatusPartiallyPaid InvoiceStatus = "partially_paid"
	InvoiceStatusOverdue       InvoiceStatus = "overdue"
	InvoiceStatusVoid          InvoiceStatus = "void"
)

func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid,
		InvoiceStatusPartiallyPaid, InvoiceStatusOverdue, InvoiceStatusVoid:
		return true
	}
	return false
}

// Invoice is the billing document persisted in DynamoDB.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI1 (customer_id-index): customer_id
//
// SourceJobID/SourceEstimateID record the derivation chain when the invoice
// was produced by completing a job. Line items and tax rate come verbatim
// from the originating estimate when it still exists; otherwise a single
// synthetic zero-priced line stands in and pricing is filled in manually.

type Invoice struct {
	ID               string        `json:"id"`
	ReferenceNumber  string        `json:"reference_number"`
	CustomerID       string        `json:"customer_id"`
	CustomerName     string        `json:"customer_name"`
	SourceJobID      string        `json:"source_job_id,omitempty"`
	SourceEstimateID string        `json:"source_estimate_id,omitempty"`
	LineItems        []LineItem    `json:"line_items"`
	TaxRate          float64       `json:"tax_rate"`
	Subtotal         float64       `json:"subtotal"`
	TaxAmount        float64       `json:"tax_amount"`
	TotalAmount      float64       `json:"total_amount"`
	Status           InvoiceStatus `json:"status"`
	PaidAmount       float64       `json:"paid_amount"`
	PaymentDate      *time.Time    `json:"payment_date,omitempty"`
	DueDate          time.Time     `json:"due_date"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// Recalculate recomputes line totals and the money summary in place.
func (i *Invoice) Recalculate() {
	items, totals := ComputeTotals(i.LineItems, i.TaxRate)
	i.LineItems = items
	i.Subtotal = totals.Subtotal
	i.TaxAmount = totals.TaxAmount
	i.TotalAmount = totals.Total
}

// IsOverdue reports whether the invoice is unpaid past its due date. Void
// and fully paid invoices are never overdue.
func (i Invoice) IsOverdue(now time.Time) bool {
	switch i.Status {
	case InvoiceStatusSent, InvoiceStatusPartiallyPaid, InvoiceStatusOverdue:
		return now.After(i.DueDate)
	}
	return false
}

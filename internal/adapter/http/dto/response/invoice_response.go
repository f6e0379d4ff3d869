package response

import (
	"time"

	"fixflow_crm/internal/domain/entities"
)

type InvoiceResponse struct {
	ID               string             `json:"id"`
	ReferenceNumber  string             `json:"reference_number"`
	CustomerID       string             `json:"customer_id"`
	CustomerName     string             `json:"customer_name,omitempty"`
	SourceJobID      string             `json:"source_job_id,omitempty"`
	SourceEstimateID string             `json:"source_estimate_id,omitempty"`
	LineItems        []LineItemResponse `json:"line_items"`
	TaxRate          float64            `json:"tax_rate"`
	Subtotal         float64            `json:"subtotal"`
	TaxAmount        float64            `json:"tax_amount"`
	TotalAmount      float64            `json:"total_amount"`
	Status           string             `json:"status"`
	PaidAmount       float64            `json:"paid_amount"`
	PaymentDate      *time.Time         `json:"payment_date,omitempty"`
	DueDate          time.Time          `json:"due_date"`
	Overdue          bool               `json:"overdue"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

// FromInvoice renders an invoice. Overdue is display state computed
// against now, not persisted.
func FromInvoice(i entities.Invoice, now time.Time) InvoiceResponse {
	return InvoiceResponse{
		ID:               i.ID,
		ReferenceNumber:  i.ReferenceNumber,
		CustomerID:       i.CustomerID,
		CustomerName:     i.CustomerName,
		SourceJobID:      i.SourceJobID,
		SourceEstimateID: i.SourceEstimateID,
		LineItems:        fromLineItems(i.LineItems),
		TaxRate:          i.TaxRate,
		Subtotal:         i.Subtotal,
		TaxAmount:        i.TaxAmount,
		TotalAmount:      i.TotalAmount,
		Status:           string(i.Status),
		PaidAmount:       i.PaidAmount,
		PaymentDate:      i.PaymentDate,
		DueDate:          i.DueDate,
		Overdue:          i.IsOverdue(now),
		CreatedAt:        i.CreatedAt,
		UpdatedAt:        i.UpdatedAt,
	}
}

func FromInvoices(is []entities.Invoice, now time.Time) []InvoiceResponse {
	out := make([]InvoiceResponse, len(is))
	for i, inv := range is {
		out[i] = FromInvoice(inv, now)
	}
	return out
}

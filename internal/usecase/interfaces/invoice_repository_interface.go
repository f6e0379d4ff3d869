package interfaces

import (
	"context"
	"time"

	"fixflow_crm/internal/domain/entities"
)

// IInvoiceRepository abstracts DynamoDB persistence for Invoice.

type IInvoiceRepository interface {
	Create(ctx context.Context, i entities.Invoice) (entities.Invoice, error)
	GetByID(ctx context.Context, id string) (entities.Invoice, error)
	ListByCustomerID(ctx context.Context, customerID string) ([]entities.Invoice, error)
	UpdateStatus(ctx context.Context, id string, status entities.InvoiceStatus) (entities.Invoice, error)
	RecordPayment(ctx context.Context, id string, paidAmount float64, status entities.InvoiceStatus, paymentDate time.Time) (entities.Invoice, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int, error)
}

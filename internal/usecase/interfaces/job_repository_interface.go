package interfaces

import (
	"context"
	"time"

	"fixflow_crm/internal/domain/entities"
)

// IJobRepository abstracts DynamoDB persistence for Job.
//
// UpdateStatus takes an optional completion date so that the first
// transition into completed persists status and completion date in the
// same write; a nil completionDate leaves the stored value untouched.

type IJobRepository interface {
	Create(ctx context.Context, j entities.Job) (entities.Job, error)
	GetByID(ctx context.Context, id string) (entities.Job, error)
	ListByCustomerID(ctx context.Context, customerID string) ([]entities.Job, error)
	UpdateStatus(ctx context.Context, id string, status entities.JobStatus, completionDate *time.Time) (entities.Job, error)
	AssignTechnician(ctx context.Context, id string, technicianID string) (entities.Job, error)
	Schedule(ctx context.Context, id string, scheduledDate time.Time) (entities.Job, error)
	MarkInvoiceCreated(ctx context.Context, id string) (entities.Job, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int, error)
}

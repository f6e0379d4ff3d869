package interfaces

import (
	"context"
	"time"

	"fixflow_crm/internal/domain/entities"
)

// IEstimateRepository abstracts DynamoDB persistence for Estimate.
//
// Contract notes:
//   - A zero-value entity with an empty ID means "not found".
//   - MarkJobCreated only ever sets the guard flag to true; no method
//     resets it.
//   - CountCreatedSince feeds the reference number allocator.

type IEstimateRepository interface {
	Create(ctx context.Context, e entities.Estimate) (entities.Estimate, error)
	GetByID(ctx context.Context, id string) (entities.Estimate, error)
	ListByCustomerID(ctx context.Context, customerID string) ([]entities.Estimate, error)
	UpdateDetails(ctx context.Context, e entities.Estimate) (entities.Estimate, error)
	UpdateStatus(ctx context.Context, id string, status entities.EstimateStatus) (entities.Estimate, error)
	MarkJobCreated(ctx context.Context, id string) (entities.Estimate, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int, error)
}

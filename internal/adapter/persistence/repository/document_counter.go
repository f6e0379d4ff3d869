package repository

import (
	"context"
	"fmt"
	"time"

	"fixflow_crm/internal/domain/entities"
	"fixflow_crm/internal/usecase/interfaces"
)

// DocumentCounter fans the allocator's created-since count out to the
// per-kind repositories.

type DocumentCounter struct {
	estimates *EstimateDynamoRepository
	jobs      *JobDynamoRepository
	invoices  *InvoiceDynamoRepository
}

var _ interfaces.IDocumentCounter = (*DocumentCounter)(nil)

func NewDocumentCounter(estimates *EstimateDynamoRepository, jobs *JobDynamoRepository, invoices *InvoiceDynamoRepository) *DocumentCounter {
	return &DocumentCounter{estimates: estimates, jobs: jobs, invoices: invoices}
}

func (c *DocumentCounter) CountCreatedSince(ctx context.Context, kind entities.DocumentKind, since time.Time) (int, error) {
	switch kind {
	case entities.DocumentKindEstimate:
		return c.estimates.CountCreatedSince(ctx, since)
	case entities.DocumentKindJob:
		return c.jobs.CountCreatedSince(ctx, since)
	case entities.DocumentKindInvoice:
		return c.invoices.CountCreatedSince(ctx, since)
	default:
		return 0, fmt.Errorf("unknown document kind %q", kind)
	}
}

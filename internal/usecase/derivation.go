package usecase

import (
	"fmt"
	"strings"
	"time"

	"fixflow_crm/internal/domain/entities"

	"github.com/google/uuid"
)

const invoiceDueDays = 30

// Derivation rules: pure builders mapping a source document to the draft
// of its derived document. They never mutate the source; ids and
// timestamps are the only non-deterministic outputs.

// BuildJobFromEstimate maps an accepted estimate to a draft job.
//
// The job carries no pricing. Its description falls back from the
// estimate's notes to the joined line-item descriptions to a generic
// reference to the estimate.
func BuildJobFromEstimate(e entities.Estimate, now time.Time) entities.Job {
	description := strings.TrimSpace(e.Notes)
	if description == "" {
		descs := make([]string, 0, len(e.LineItems))
		for _, it := range e.LineItems {
			if d := strings.TrimSpace(it.Description); d != "" {
				descs = append(descs, d)
			}
		}
		description = strings.Join(descs, ", ")
	}
	if description == "" {
		description = fmt.Sprintf("Work order for estimate %s", e.ReferenceNumber)
	}

	return entities.Job{
		ID:               uuid.NewString(),
		CustomerID:       e.CustomerID,
		CustomerName:     e.CustomerName,
		Description:      description,
		Status:           entities.JobStatusPendingSchedule,
		SourceEstimateID: e.ID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// BuildInvoiceFromJob maps a completed job to a draft invoice.
//
// When the originating estimate still exists its line items and tax rate
// are copied verbatim (fresh line ids, amounts preserved). Without an
// estimate a single synthetic zero-priced line stands in. Totals are
// always recomputed from the resulting lines, never trusted from the
// source.
func BuildInvoiceFromJob(j entities.Job, est *entities.Estimate, now time.Time) entities.Invoice {
	inv := entities.Invoice{
		ID:           uuid.NewString(),
		CustomerID:   j.CustomerID,
		CustomerName: j.CustomerName,
		SourceJobID:  j.ID,
		Status:       entities.InvoiceStatusDraft,
		DueDate:      now.AddDate(0, 0, invoiceDueDays),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if est != nil {
		inv.SourceEstimateID = est.ID
		inv.TaxRate = est.TaxRate
		inv.LineItems = make([]entities.LineItem, len(est.LineItems))
		for i, it := range est.LineItems {
			it.ID = uuid.NewString()
			inv.LineItems[i] = it
		}
	} else {
		description := strings.TrimSpace(j.Description)
		if description == "" {
			description = fmt.Sprintf("Services rendered for job %s", j.ReferenceNumber)
		}
		inv.LineItems = []entities.LineItem{{
			ID:          uuid.NewString(),
			Description: description,
			Quantity:    1,
			UnitPrice:   0,
		}}
	}

	inv.Recalculate()
	return inv
}

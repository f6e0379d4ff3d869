package usecase

import (
	"testing"
	"time"

	"fixflow_crm/internal/domain/entities"
)

func TestBuildJobFromEstimate(t *testing.T) {
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

	base := entities.Estimate{
		ID:              "est-1",
		ReferenceNumber: "EST-20260210-001",
		CustomerID:      "cust-1",
		CustomerName:    "Acme Facilities",
		LineItems: []entities.LineItem{
			{ID: "li-1", Description: "HVAC inspection", Quantity: 1, UnitPrice: 150, Total: 150},
			{ID: "li-2", Description: "Filter replacement", Quantity: 2, UnitPrice: 30, Total: 60},
		},
		TaxRate:     0.1,
		Subtotal:    210,
		TaxAmount:   21,
		TotalAmount: 231,
		Notes:       "Rooftop unit, access via service elevator",
		Status:      entities.EstimateStatusAccepted,
	}

	t.Run("draft fields", func(t *testing.T) {
		j := BuildJobFromEstimate(base, now)

		if j.ID == "" || j.ID == base.ID {
			t.Fatalf("expected fresh job id, got %q", j.ID)
		}
		if j.CustomerID != "cust-1" || j.CustomerName != "Acme Facilities" {
			t.Fatalf("customer not carried over: %+v", j)
		}
		if j.Status != entities.JobStatusPendingSchedule {
			t.Fatalf("expected pending_schedule, got %s", j.Status)
		}
		if j.SourceEstimateID != "est-1" {
			t.Fatalf("expected source estimate est-1, got %q", j.SourceEstimateID)
		}
		if j.InvoiceCreated {
			t.Fatalf("new job must not have invoice_created set")
		}
		if j.TechnicianID != "" || j.ScheduledDate != nil || j.CompletionDate != nil {
			t.Fatalf("expected unassigned unscheduled job, got %+v", j)
		}
		if !j.CreatedAt.Equal(now) || !j.UpdatedAt.Equal(now) {
			t.Fatalf("unexpected timestamps: %+v", j)
		}
	})

	t.Run("description from notes", func(t *testing.T) {
		j := BuildJobFromEstimate(base, now)
		if j.Description != "Rooftop unit, access via service elevator" {
			t.Fatalf("unexpected description: %q", j.Description)
		}
	})

	t.Run("description falls back to line items", func(t *testing.T) {
		e := base
		e.Notes = "   "
		j := BuildJobFromEstimate(e, now)
		if j.Description != "HVAC inspection, Filter replacement" {
			t.Fatalf("unexpected description: %q", j.Description)
		}
	})

	t.Run("description falls back to reference", func(t *testing.T) {
		e := base
		e.Notes = ""
		e.LineItems = nil
		j := BuildJobFromEstimate(e, now)
		if j.Description != "Work order for estimate EST-20260210-001" {
			t.Fatalf("unexpected description: %q", j.Description)
		}
	})

	t.Run("source estimate is not mutated", func(t *testing.T) {
		e := base
		_ = BuildJobFromEstimate(e, now)
		if e.Status != entities.EstimateStatusAccepted || len(e.LineItems) != 2 {
			t.Fatalf("source estimate changed: %+v", e)
		}
	})
}

func TestBuildInvoiceFromJob(t *testing.T) {
	now := time.Date(2026, 2, 20, 9, 0, 0, 0, time.UTC)

	job := entities.Job{
		ID:               "job-1",
		ReferenceNumber:  "JOB-20260211-004",
		CustomerID:       "cust-1",
		CustomerName:     "Acme Facilities",
		Description:      "HVAC repair",
		Status:           entities.JobStatusCompleted,
		SourceEstimateID: "est-1",
	}

	est := entities.Estimate{
		ID:      "est-1",
		TaxRate: 0.08,
		LineItems: []entities.LineItem{
			{ID: "li-1", Description: "Compressor swap", Quantity: 1, UnitPrice: 400},
			{ID: "li-2", Description: "Refrigerant recharge", Quantity: 2, UnitPrice: 75},
		},
	}

	t.Run("copies estimate pricing", func(t *testing.T) {
		inv := BuildInvoiceFromJob(job, &est, now)

		if inv.SourceJobID != "job-1" || inv.SourceEstimateID != "est-1" {
			t.Fatalf("derivation chain not recorded: %+v", inv)
		}
		if inv.Status != entities.InvoiceStatusDraft {
			t.Fatalf("expected draft, got %s", inv.Status)
		}
		if inv.TaxRate != 0.08 {
			t.Fatalf("expected tax rate 0.08, got %v", inv.TaxRate)
		}
		if len(inv.LineItems) != 2 {
			t.Fatalf("expected 2 line items, got %d", len(inv.LineItems))
		}
		for i, it := range inv.LineItems {
			src := est.LineItems[i]
			if it.ID == src.ID || it.ID == "" {
				t.Fatalf("expected fresh line id, got %q", it.ID)
			}
			if it.Description != src.Description || it.Quantity != src.Quantity || it.UnitPrice != src.UnitPrice {
				t.Fatalf("line %d not copied verbatim: %+v", i, it)
			}
		}
		if inv.Subtotal != 550 || inv.TaxAmount != 44 || inv.TotalAmount != 594 {
			t.Fatalf("unexpected totals: %+v", inv)
		}
		if !inv.DueDate.Equal(now.AddDate(0, 0, 30)) {
			t.Fatalf("expected due date 30 days out, got %v", inv.DueDate)
		}
	})

	t.Run("synthetic line without estimate", func(t *testing.T) {
		inv := BuildInvoiceFromJob(job, nil, now)

		if inv.SourceEstimateID != "" {
			t.Fatalf("expected no estimate link, got %q", inv.SourceEstimateID)
		}
		if len(inv.LineItems) != 1 {
			t.Fatalf("expected single synthetic line, got %d", len(inv.LineItems))
		}
		line := inv.LineItems[0]
		if line.Description != "HVAC repair" || line.Quantity != 1 || line.UnitPrice != 0 || line.Total != 0 {
			t.Fatalf("unexpected synthetic line: %+v", line)
		}
		if inv.TaxRate != 0 || inv.TotalAmount != 0 {
			t.Fatalf("expected zero pricing, got %+v", inv)
		}
	})

	t.Run("synthetic line falls back to job reference", func(t *testing.T) {
		j := job
		j.Description = "  "
		inv := BuildInvoiceFromJob(j, nil, now)
		if inv.LineItems[0].Description != "Services rendered for job JOB-20260211-004" {
			t.Fatalf("unexpected description: %q", inv.LineItems[0].Description)
		}
	})
}

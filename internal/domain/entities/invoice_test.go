package entities

import (
	"testing"
	"time"
)

func TestInvoiceIsOverdue(t *testing.T) {
	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	before := due.Add(-24 * time.Hour)
	after := due.Add(24 * time.Hour)

	cases := []struct {
		name   string
		status InvoiceStatus
		now    time.Time
		want   bool
	}{
		{"sent past due", InvoiceStatusSent, after, true},
		{"sent before due", InvoiceStatusSent, before, false},
		{"partially paid past due", InvoiceStatusPartiallyPaid, after, true},
		{"overdue past due", InvoiceStatusOverdue, after, true},
		{"draft past due", InvoiceStatusDraft, after, false},
		{"paid past due", InvoiceStatusPaid, after, false},
		{"void past due", InvoiceStatusVoid, after, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			i := Invoice{Status: tc.status, DueDate: due}
			if got := i.IsOverdue(tc.now); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestInvoiceRecalculate(t *testing.T) {
	i := Invoice{
		LineItems: []LineItem{
			{Quantity: 2, UnitPrice: 30},
			{Quantity: 1, UnitPrice: 40},
		},
		TaxRate: 0.1,
	}
	i.Recalculate()

	if i.Subtotal != 100 || i.TaxAmount != 10 || i.TotalAmount != 110 {
		t.Fatalf("unexpected totals: %+v", i)
	}
}

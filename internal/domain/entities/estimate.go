package entities

import "time"

// EstimateStatus represents the lifecycle of an estimate.
//
// Domain notes:
//   - Draft -> Sent -> {Accepted, Rejected}; Expired is reachable from
//     Draft and Sent.
//   - Accepted, Rejected and Expired are terminal.
//   - The transition into Accepted is the only one that triggers job
//     derivation.

type EstimateStatus string

const (
	EstimateStatusDraft    EstimateStatus = "draft"
	EstimateStatusSent     EstimateStatus = "sent"
	EstimateStatusAccepted EstimateStatus = "accepted"
	EstimateStatusRejected EstimateStatus = "rejected"
	EstimateStatusExpired  EstimateStatus = "expired"
)

var estimateTransitions = map[EstimateStatus][]EstimateStatus{
	EstimateStatusDraft: {EstimateStatusSent, EstimateStatusExpired},
	EstimateStatusSent:  {EstimateStatusAccepted, EstimateStatusRejected, EstimateStatusExpired},
}

// CanTransitionTo reports whether the estimate state machine allows moving
// from s to next.
func (s EstimateStatus) CanTransitionTo(next EstimateStatus) bool {
	for _, allowed := range estimateTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s EstimateStatus) Valid() bool {
	switch s {
	case EstimateStatusDraft, EstimateStatusSent, EstimateStatusAccepted,
		EstimateStatusRejected, EstimateStatusExpired:
		return true
	}
	return false
}

// Estimate is the customer quote persisted in DynamoDB.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI1 (customer_id-index): customer_id
//
// Monetary representation:
//   - Subtotal/TaxAmount/TotalAmount are derived from LineItems and TaxRate
//     and recomputed on every mutation, never taken from input.
//
// JobCreated is the derivation guard flag: once a job has been derived from
// this estimate it is set true and never reset.

type Estimate struct {
	ID              string         `json:"id"`
	ReferenceNumber string         `json:"reference_number"`
	CustomerID      string         `json:"customer_id"`
	CustomerName    string         `json:"customer_name"`
	LineItems       []LineItem     `json:"line_items"`
	TaxRate         float64        `json:"tax_rate"`
	Subtotal        float64        `json:"subtotal"`
	TaxAmount       float64        `json:"tax_amount"`
	TotalAmount     float64        `json:"total_amount"`
	Notes           string         `json:"notes"`
	Status          EstimateStatus `json:"status"`
	JobCreated      bool           `json:"job_created"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// Recalculate recomputes line totals and the money summary in place.
func (e *Estimate) Recalculate() {
	items, totals := ComputeTotals(e.LineItems, e.TaxRate)
	e.LineItems = items
	e.Subtotal = totals.Subtotal
	e.TaxAmount = totals.TaxAmount
	e.TotalAmount = totals.Total
}

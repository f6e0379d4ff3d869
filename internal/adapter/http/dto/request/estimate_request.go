package request

import "strings"

type LineItemRequest struct {
	Description string  `json:"description" binding:"required"`
	Quantity    float64 `json:"quantity" binding:"required"`
	UnitPrice   float64 `json:"unit_price"`
}

// CreateEstimateRequest is the payload accepted by POST /estimates. Line
// totals and document totals are never accepted from the caller; they are
// recomputed server-side.
type CreateEstimateRequest struct {
	CustomerID   string            `json:"customer_id" binding:"required"`
	CustomerName string            `json:"customer_name"`
	LineItems    []LineItemRequest `json:"line_items" binding:"required"`
	TaxRate      float64           `json:"tax_rate"`
	Notes        string            `json:"notes"`
}

func (r CreateEstimateRequest) ResolveCustomerID() string {
	return strings.TrimSpace(r.CustomerID)
}

// UpdateEstimateDetailsRequest is the payload accepted by PUT /estimates/:id.
type UpdateEstimateDetailsRequest struct {
	LineItems []LineItemRequest `json:"line_items" binding:"required"`
	TaxRate   float64           `json:"tax_rate"`
	Notes     string            `json:"notes"`
}

package response

import (
	"time"

	"fixflow_crm/internal/domain/entities"
)

type LineItemResponse struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Total       float64 `json:"total"`
}

func fromLineItems(items []entities.LineItem) []LineItemResponse {
	out := make([]LineItemResponse, len(items))
	for i, it := range items {
		out[i] = LineItemResponse{
			ID:          it.ID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Total:       it.Total,
		}
	}
	return out
}

type EstimateResponse struct {
	ID              string             `json:"id"`
	ReferenceNumber string             `json:"reference_number"`
	CustomerID      string             `json:"customer_id"`
	CustomerName    string             `json:"customer_name,omitempty"`
	LineItems       []LineItemResponse `json:"line_items"`
	TaxRate         float64            `json:"tax_rate"`
	Subtotal        float64            `json:"subtotal"`
	TaxAmount       float64            `json:"tax_amount"`
	TotalAmount     float64            `json:"total_amount"`
	Notes           string             `json:"notes,omitempty"`
	Status          string             `json:"status"`
	JobCreated      bool               `json:"job_created"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

func FromEstimate(e entities.Estimate) EstimateResponse {
	return EstimateResponse{
		ID:              e.ID,
		ReferenceNumber: e.ReferenceNumber,
		CustomerID:      e.CustomerID,
		CustomerName:    e.CustomerName,
		LineItems:       fromLineItems(e.LineItems),
		TaxRate:         e.TaxRate,
		Subtotal:        e.Subtotal,
		TaxAmount:       e.TaxAmount,
		TotalAmount:     e.TotalAmount,
		Notes:           e.Notes,
		Status:          string(e.Status),
		JobCreated:      e.JobCreated,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

func FromEstimates(es []entities.Estimate) []EstimateResponse {
	out := make([]EstimateResponse, len(es))
	for i, e := range es {
		out[i] = FromEstimate(e)
	}
	return out
}

package response

import (
	"time"

	"fixflow_crm/internal/domain/entities"
)

type JobResponse struct {
	ID               string     `json:"id"`
	ReferenceNumber  string     `json:"reference_number"`
	CustomerID       string     `json:"customer_id"`
	CustomerName     string     `json:"customer_name,omitempty"`
	TechnicianID     string     `json:"technician_id,omitempty"`
	Description      string     `json:"description"`
	Status           string     `json:"status"`
	ScheduledDate    *time.Time `json:"scheduled_date,omitempty"`
	CompletionDate   *time.Time `json:"completion_date,omitempty"`
	SourceEstimateID string     `json:"source_estimate_id,omitempty"`
	InvoiceCreated   bool       `json:"invoice_created"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func FromJob(j entities.Job) JobResponse {
	return JobResponse{
		ID:               j.ID,
		ReferenceNumber:  j.ReferenceNumber,
		CustomerID:       j.CustomerID,
		CustomerName:     j.CustomerName,
		TechnicianID:     j.TechnicianID,
		Description:      j.Description,
		Status:           string(j.Status),
		ScheduledDate:    j.ScheduledDate,
		CompletionDate:   j.CompletionDate,
		SourceEstimateID: j.SourceEstimateID,
		InvoiceCreated:   j.InvoiceCreated,
		CreatedAt:        j.CreatedAt,
		UpdatedAt:        j.UpdatedAt,
	}
}

func FromJobs(js []entities.Job) []JobResponse {
	out := make([]JobResponse, len(js))
	for i, j := range js {
		out[i] = FromJob(j)
	}
	return out
}

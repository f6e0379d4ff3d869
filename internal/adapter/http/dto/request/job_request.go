package request

import (
	"strings"
	"time"
)

// CreateJobRequest is the payload accepted by POST /jobs for manually
// opened work orders. Jobs derived from accepted estimates are created by
// the lifecycle engine instead.
type CreateJobRequest struct {
	CustomerID   string `json:"customer_id" binding:"required"`
	CustomerName string `json:"customer_name"`
	Description  string `json:"description" binding:"required"`
	TechnicianID string `json:"technician_id"`
}

func (r CreateJobRequest) ResolveCustomerID() string {
	return strings.TrimSpace(r.CustomerID)
}

type AssignTechnicianRequest struct {
	TechnicianID string `json:"technician_id" binding:"required"`
}

type ScheduleJobRequest struct {
	ScheduledDate time.Time `json:"scheduled_date" binding:"required"`
}

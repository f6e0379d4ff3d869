package entities

import "time"

// JobStatus represents the lifecycle of a job (work order).
//
// Pending Schedule -> Scheduled -> Dispatched -> In Progress ->
// {Completed, On Hold, Cancelled, Requires Follow-up}. On Hold and
// Requires Follow-up may return to any earlier working state. Completed
// and Cancelled are terminal. The transition into Completed is the only
// one that triggers invoice derivation.

type JobStatus string

const (
	JobStatusPendingSchedule  JobStatus = "pending_schedule"
	JobStatusScheduled        JobStatus = "scheduled"
	JobStatusDispatched       JobStatus = "dispatched"
	JobStatusInProgress       JobStatus = "in_progress"
	JobStatusCompleted        JobStatus = "completed"
	JobStatusOnHold           JobStatus = "on_hold"
	JobStatusCancelled        JobStatus = "cancelled"
	JobStatusRequiresFollowUp JobStatus = "requires_follow_up"
)

var jobWorkingStates = []JobStatus{
	JobStatusPendingSchedule,
	JobStatusScheduled,
	JobStatusDispatched,
	JobStatusInProgress,
}

var jobTransitions = map[JobStatus][]JobStatus{
	JobStatusPendingSchedule:  {JobStatusScheduled, JobStatusOnHold, JobStatusCancelled},
	JobStatusScheduled:        {JobStatusDispatched, JobStatusOnHold, JobStatusCancelled},
	JobStatusDispatched:       {JobStatusInProgress, JobStatusOnHold, JobStatusCancelled},
	JobStatusInProgress:       {JobStatusCompleted, JobStatusOnHold, JobStatusCancelled, JobStatusRequiresFollowUp},
	JobStatusOnHold:           jobWorkingStates,
	JobStatusRequiresFollowUp: jobWorkingStates,
}

// CanTransitionTo reports whether the job state machine allows moving from
// s to next.
func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	for _, allowed := range jobTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusPendingSchedule, JobStatusScheduled, JobStatusDispatched,
		JobStatusInProgress, JobStatusCompleted, JobStatusOnHold,
		JobStatusCancelled, JobStatusRequiresFollowUp:
		return true
	}
	return false
}

// Job is the work order persisted in DynamoDB.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI1 (customer_id-index): customer_id
//
// A job carries no pricing. Pricing reappears only when the job derives an
// invoice, at which point line items are copied from the originating
// estimate (SourceEstimateID) when it still exists.
//
// InvoiceCreated is the derivation guard flag: once an invoice has been
// derived from this job it is set true and never reset.

type Job struct {
	ID               string     `json:"id"`
	ReferenceNumber  string     `json:"reference_number"`
	CustomerID       string     `json:"customer_id"`
	CustomerName     string     `json:"customer_name"`
	TechnicianID     string     `json:"technician_id,omitempty"`
	Description      string     `json:"description"`
	Status           JobStatus  `json:"status"`
	ScheduledDate    *time.Time `json:"scheduled_date,omitempty"`
	CompletionDate   *time.Time `json:"completion_date,omitempty"`
	SourceEstimateID string     `json:"source_estimate_id,omitempty"`
	InvoiceCreated   bool       `json:"invoice_created"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

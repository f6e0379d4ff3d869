package response

import (
	"fixflow_crm/internal/usecase"
)

// DerivationResponse reports the lifecycle outcome attached to a status
// change: either the derived document's identity, or why nothing was
// derived.
type DerivationResponse struct {
	Triggered        bool   `json:"triggered"`
	Skipped          bool   `json:"skipped,omitempty"`
	SkipReason       string `json:"skip_reason,omitempty"`
	DerivedKind      string `json:"derived_kind,omitempty"`
	DerivedID        string `json:"derived_id,omitempty"`
	DerivedReference string `json:"derived_reference,omitempty"`
}

func fromLifecycleResult(r usecase.LifecycleResult) DerivationResponse {
	return DerivationResponse{
		Triggered:        r.Triggered,
		Skipped:          r.Skipped,
		SkipReason:       r.SkipReason,
		DerivedKind:      string(r.DerivedKind),
		DerivedID:        r.DerivedID,
		DerivedReference: r.DerivedReference,
	}
}

// EstimateStatusChangeResponse carries the committed status change plus
// the derivation outcome. DerivationError is set when the status change
// succeeded but the follow-up derivation did not; the caller is expected
// to surface it as a distinct notification.
type EstimateStatusChangeResponse struct {
	Estimate        EstimateResponse   `json:"estimate"`
	Derivation      DerivationResponse `json:"derivation"`
	DerivationError string             `json:"derivation_error,omitempty"`
}

func FromEstimateStatusChange(c usecase.EstimateStatusChange) EstimateStatusChangeResponse {
	out := EstimateStatusChangeResponse{
		Estimate:   FromEstimate(c.Estimate),
		Derivation: fromLifecycleResult(c.Derivation),
	}
	if c.DerivationError != nil {
		out.DerivationError = c.DerivationError.Error()
	}
	return out
}

type JobStatusChangeResponse struct {
	Job             JobResponse        `json:"job"`
	Derivation      DerivationResponse `json:"derivation"`
	DerivationError string             `json:"derivation_error,omitempty"`
}

func FromJobStatusChange(c usecase.JobStatusChange) JobStatusChangeResponse {
	out := JobStatusChangeResponse{
		Job:        FromJob(c.Job),
		Derivation: fromLifecycleResult(c.Derivation),
	}
	if c.DerivationError != nil {
		out.DerivationError = c.DerivationError.Error()
	}
	return out
}

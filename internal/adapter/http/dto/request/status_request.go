package request

import "strings"

// StatusUpdateRequest is the shared payload for PATCH .../:id/status
// endpoints on estimates and jobs.
type StatusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
}

func (r StatusUpdateRequest) ResolveStatus() string {
	return strings.ToLower(strings.TrimSpace(r.Status))
}

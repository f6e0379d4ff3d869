package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"fixflow_crm/internal/domain/entities"
	"fixflow_crm/internal/usecase/interfaces"

	"github.com/google/uuid"
)

var (
	ErrJobNotFound          = errors.New("job not found")
	ErrInvalidJobID         = errors.New("invalid job id")
	ErrInvalidTechnicianID  = errors.New("invalid technician id")
	ErrInvalidScheduledDate = errors.New("invalid scheduled date")
	ErrInvalidDescription   = errors.New("invalid description")
)

type CreateJobInput struct {
	CustomerID   string
	CustomerName string
	Description  string
	TechnicianID string
}

// JobStatusChange mirrors EstimateStatusChange for jobs: the committed
// status save plus the derivation outcome, kept separate.
type JobStatusChange struct {
	Job             entities.Job
	Derivation      LifecycleResult
	DerivationError error
}

// IJobUseCase exposes job (work order) operations to the HTTP layer.

type IJobUseCase interface {
	Create(ctx context.Context, in CreateJobInput) (entities.Job, error)
	GetByID(ctx context.Context, id string) (entities.Job, error)
	ListByCustomerID(ctx context.Context, customerID string) ([]entities.Job, error)
	AssignTechnician(ctx context.Context, id, technicianID string) (entities.Job, error)
	Schedule(ctx context.Context, id string, scheduledDate time.Time) (entities.Job, error)
	UpdateStatus(ctx context.Context, id string, next entities.JobStatus) (JobStatusChange, error)
}

type JobUseCase struct {
	repo      interfaces.IJobRepository
	allocator ISequenceAllocator
	lifecycle ILifecycleUseCase
}

var _ IJobUseCase = (*JobUseCase)(nil)

func NewJobUseCase(repo interfaces.IJobRepository, allocator ISequenceAllocator, lifecycle ILifecycleUseCase) *JobUseCase {
	return &JobUseCase{repo: repo, allocator: allocator, lifecycle: lifecycle}
}

// Create registers a manually opened job. Jobs derived from accepted
// estimates go through the lifecycle orchestrator instead.
func (u *JobUseCase) Create(ctx context.Context, in CreateJobInput) (entities.Job, error) {
	in.CustomerID = strings.TrimSpace(in.CustomerID)
	if in.CustomerID == "" {
		return entities.Job{}, ErrInvalidCustomerID
	}
	in.Description = strings.TrimSpace(in.Description)
	if in.Description == "" {
		return entities.Job{}, ErrInvalidDescription
	}

	now := time.Now().UTC()
	ref, err := u.allocator.Allocate(ctx, entities.DocumentKindJob, now)
	if err != nil {
		return entities.Job{}, err
	}

	j := entities.Job{
		ID:              uuid.NewString(),
		ReferenceNumber: ref,
		CustomerID:      in.CustomerID,
		CustomerName:    strings.TrimSpace(in.CustomerName),
		TechnicianID:    strings.TrimSpace(in.TechnicianID),
		Description:     in.Description,
		Status:          entities.JobStatusPendingSchedule,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	return u.repo.Create(ctx, j)
}

func (u *JobUseCase) GetByID(ctx context.Context, id string) (entities.Job, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Job{}, ErrInvalidJobID
	}

	j, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Job{}, err
	}
	if j.ID == "" {
		return entities.Job{}, ErrJobNotFound
	}
	return j, nil
}

func (u *JobUseCase) ListByCustomerID(ctx context.Context, customerID string) ([]entities.Job, error) {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return nil, ErrInvalidCustomerID
	}
	return u.repo.ListByCustomerID(ctx, customerID)
}

func (u *JobUseCase) AssignTechnician(ctx context.Context, id, technicianID string) (entities.Job, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Job{}, ErrInvalidJobID
	}
	technicianID = strings.TrimSpace(technicianID)
	if technicianID == "" {
		return entities.Job{}, ErrInvalidTechnicianID
	}

	updated, err := u.repo.AssignTechnician(ctx, id, technicianID)
	if err != nil {
		return entities.Job{}, err
	}
	if updated.ID == "" {
		return entities.Job{}, ErrJobNotFound
	}
	return updated, nil
}

func (u *JobUseCase) Schedule(ctx context.Context, id string, scheduledDate time.Time) (entities.Job, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Job{}, ErrInvalidJobID
	}
	if scheduledDate.IsZero() {
		return entities.Job{}, ErrInvalidScheduledDate
	}

	updated, err := u.repo.Schedule(ctx, id, scheduledDate.UTC())
	if err != nil {
		return entities.Job{}, err
	}
	if updated.ID == "" {
		return entities.Job{}, ErrJobNotFound
	}
	return updated, nil
}

// UpdateStatus persists a validated status transition and then hands the
// transition to the lifecycle orchestrator.
//
// CompletionDate is written together with the status on the first
// transition into completed only; re-saving a completed job leaves it
// untouched.
func (u *JobUseCase) UpdateStatus(ctx context.Context, id string, next entities.JobStatus) (JobStatusChange, error) {
	if !next.Valid() {
		return JobStatusChange{}, ErrInvalidStatus
	}

	current, err := u.GetByID(ctx, id)
	if err != nil {
		return JobStatusChange{}, err
	}

	previous := current.Status
	if previous != next && !previous.CanTransitionTo(next) {
		return JobStatusChange{}, ErrInvalidStatusTransition
	}

	var completionDate *time.Time
	if next == entities.JobStatusCompleted && previous != entities.JobStatusCompleted && current.CompletionDate == nil {
		now := time.Now().UTC()
		completionDate = &now
	}

	updated, err := u.repo.UpdateStatus(ctx, current.ID, next, completionDate)
	if err != nil {
		return JobStatusChange{}, err
	}
	if updated.ID == "" {
		return JobStatusChange{}, ErrJobNotFound
	}

	result, derr := u.lifecycle.OnStatusChange(ctx, entities.DocumentKindJob, updated.ID, string(previous), string(next))
	if derr == nil && result.Triggered {
		updated.InvoiceCreated = true
	}

	return JobStatusChange{Job: updated, Derivation: result, DerivationError: derr}, nil
}

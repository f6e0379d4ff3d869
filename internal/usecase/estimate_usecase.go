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
	ErrEstimateNotFound        = errors.New("estimate not found")
	ErrInvalidEstimateID       = errors.New("invalid estimate id")
	ErrInvalidCustomerID       = errors.New("invalid customer id")
	ErrInvalidLineItems        = errors.New("invalid line items")
	ErrInvalidTaxRate          = errors.New("invalid tax rate")
	ErrInvalidStatus           = errors.New("invalid status")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
)

// LineItemInput is the caller-facing shape of a line item. Totals are
// never accepted from input; they are recomputed server-side.
type LineItemInput struct {
	Description string
	Quantity    float64
	UnitPrice   float64
}

type CreateEstimateInput struct {
	CustomerID   string
	CustomerName string
	LineItems    []LineItemInput
	TaxRate      float64
	Notes        string
}

// EstimateStatusChange is the outcome of a status update. The status save
// and the derivation are distinct outcomes: DerivationError never implies
// the status change failed, it already committed.
type EstimateStatusChange struct {
	Estimate        entities.Estimate
	Derivation      LifecycleResult
	DerivationError error
}

// IEstimateUseCase exposes estimate operations to the HTTP layer.

type IEstimateUseCase interface {
	Create(ctx context.Context, in CreateEstimateInput) (entities.Estimate, error)
	GetByID(ctx context.Context, id string) (entities.Estimate, error)
	ListByCustomerID(ctx context.Context, customerID string) ([]entities.Estimate, error)
	UpdateDetails(ctx context.Context, id string, items []LineItemInput, taxRate float64, notes string) (entities.Estimate, error)
	UpdateStatus(ctx context.Context, id string, next entities.EstimateStatus) (EstimateStatusChange, error)
}

type EstimateUseCase struct {
	repo      interfaces.IEstimateRepository
	allocator ISequenceAllocator
	lifecycle ILifecycleUseCase
}

var _ IEstimateUseCase = (*EstimateUseCase)(nil)

func NewEstimateUseCase(repo interfaces.IEstimateRepository, allocator ISequenceAllocator, lifecycle ILifecycleUseCase) *EstimateUseCase {
	return &EstimateUseCase{repo: repo, allocator: allocator, lifecycle: lifecycle}
}

func (u *EstimateUseCase) Create(ctx context.Context, in CreateEstimateInput) (entities.Estimate, error) {
	in.CustomerID = strings.TrimSpace(in.CustomerID)
	if in.CustomerID == "" {
		return entities.Estimate{}, ErrInvalidCustomerID
	}
	items, err := buildLineItems(in.LineItems)
	if err != nil {
		return entities.Estimate{}, err
	}
	if err := validateTaxRate(in.TaxRate); err != nil {
		return entities.Estimate{}, err
	}

	now := time.Now().UTC()
	ref, err := u.allocator.Allocate(ctx, entities.DocumentKindEstimate, now)
	if err != nil {
		return entities.Estimate{}, err
	}

	e := entities.Estimate{
		ID:              uuid.NewString(),
		ReferenceNumber: ref,
		CustomerID:      in.CustomerID,
		CustomerName:    strings.TrimSpace(in.CustomerName),
		LineItems:       items,
		TaxRate:         in.TaxRate,
		Notes:           strings.TrimSpace(in.Notes),
		Status:          entities.EstimateStatusDraft,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	e.Recalculate()

	return u.repo.Create(ctx, e)
}

func (u *EstimateUseCase) GetByID(ctx context.Context, id string) (entities.Estimate, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Estimate{}, ErrInvalidEstimateID
	}

	e, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Estimate{}, err
	}
	if e.ID == "" {
		return entities.Estimate{}, ErrEstimateNotFound
	}
	return e, nil
}

func (u *EstimateUseCase) ListByCustomerID(ctx context.Context, customerID string) ([]entities.Estimate, error) {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return nil, ErrInvalidCustomerID
	}
	return u.repo.ListByCustomerID(ctx, customerID)
}

func (u *EstimateUseCase) UpdateDetails(ctx context.Context, id string, itemInputs []LineItemInput, taxRate float64, notes string) (entities.Estimate, error) {
	e, err := u.GetByID(ctx, id)
	if err != nil {
		return entities.Estimate{}, err
	}

	items, err := buildLineItems(itemInputs)
	if err != nil {
		return entities.Estimate{}, err
	}
	if err := validateTaxRate(taxRate); err != nil {
		return entities.Estimate{}, err
	}

	e.LineItems = items
	e.TaxRate = taxRate
	e.Notes = strings.TrimSpace(notes)
	e.Recalculate()

	updated, err := u.repo.UpdateDetails(ctx, e)
	if err != nil {
		return entities.Estimate{}, err
	}
	if updated.ID == "" {
		return entities.Estimate{}, ErrEstimateNotFound
	}
	return updated, nil
}

// UpdateStatus persists a validated status transition and then hands the
// transition to the lifecycle orchestrator. A derivation failure is
// reported alongside the already-committed status change, never instead
// of it.
func (u *EstimateUseCase) UpdateStatus(ctx context.Context, id string, next entities.EstimateStatus) (EstimateStatusChange, error) {
	if !next.Valid() {
		return EstimateStatusChange{}, ErrInvalidStatus
	}

	current, err := u.GetByID(ctx, id)
	if err != nil {
		return EstimateStatusChange{}, err
	}

	previous := current.Status
	if previous != next && !previous.CanTransitionTo(next) {
		return EstimateStatusChange{}, ErrInvalidStatusTransition
	}

	updated, err := u.repo.UpdateStatus(ctx, current.ID, next)
	if err != nil {
		return EstimateStatusChange{}, err
	}
	if updated.ID == "" {
		return EstimateStatusChange{}, ErrEstimateNotFound
	}

	result, derr := u.lifecycle.OnStatusChange(ctx, entities.DocumentKindEstimate, updated.ID, string(previous), string(next))
	if derr == nil && result.Triggered {
		// MarkJobCreated happened after the status write; reflect it.
		updated.JobCreated = true
	}

	return EstimateStatusChange{Estimate: updated, Derivation: result, DerivationError: derr}, nil
}

func buildLineItems(inputs []LineItemInput) ([]entities.LineItem, error) {
	if len(inputs) == 0 {
		return nil, ErrInvalidLineItems
	}
	items := make([]entities.LineItem, len(inputs))
	for i, in := range inputs {
		desc := strings.TrimSpace(in.Description)
		if desc == "" || in.Quantity <= 0 || in.UnitPrice < 0 {
			return nil, ErrInvalidLineItems
		}
		items[i] = entities.LineItem{
			ID:          uuid.NewString(),
			Description: desc,
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
		}
	}
	return items, nil
}

func validateTaxRate(rate float64) error {
	if rate < 0 || rate > 1 {
		return ErrInvalidTaxRate
	}
	return nil
}

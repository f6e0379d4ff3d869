package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fixflow_crm/internal/domain/entities"
	"fixflow_crm/internal/usecase/interfaces"

	log "github.com/sirupsen/logrus"
)

var (
	ErrDerivationPersistFailed = errors.New("derived document persist failed")
	ErrGuardFlagPersistFailed  = errors.New("derivation guard flag persist failed")
)

// LifecycleResult reports the outcome of one status-change trigger.
//
// A skipped derivation (guard flag already set, or the transition is not a
// trigger) is a no-op signal, not an error. When Triggered is true and the
// returned error is ErrGuardFlagPersistFailed, the derived document was
// created but the source guard flag was not set, so a later qualifying
// transition may derive a duplicate.
type LifecycleResult struct {
	Triggered        bool
	Skipped          bool
	SkipReason       string
	DerivedKind      entities.DocumentKind
	DerivedID        string
	DerivedReference string
}

// ILifecycleUseCase is the single entry point for status-driven document
// derivation: estimate accepted => job, job completed => invoice.

type ILifecycleUseCase interface {
	OnStatusChange(ctx context.Context, kind entities.DocumentKind, id string, previous, next string) (LifecycleResult, error)
}

type LifecycleUseCase struct {
	estimateRepo interfaces.IEstimateRepository
	jobRepo      interfaces.IJobRepository
	invoiceRepo  interfaces.IInvoiceRepository
	allocator    ISequenceAllocator
}

var _ ILifecycleUseCase = (*LifecycleUseCase)(nil)

func NewLifecycleUseCase(
	estimateRepo interfaces.IEstimateRepository,
	jobRepo interfaces.IJobRepository,
	invoiceRepo interfaces.IInvoiceRepository,
	allocator ISequenceAllocator,
) *LifecycleUseCase {
	return &LifecycleUseCase{
		estimateRepo: estimateRepo,
		jobRepo:      jobRepo,
		invoiceRepo:  invoiceRepo,
		allocator:    allocator,
	}
}

type transitionKey struct {
	kind entities.DocumentKind
	into string
}

// derivationTriggers is the transition table: (source kind, status
// transitioned into) -> derivation. Transitions absent from the table
// never fire a derivation; new derivations are added by extending the
// table.
var derivationTriggers = map[transitionKey]func(*LifecycleUseCase, context.Context, string) (LifecycleResult, error){
	{kind: entities.DocumentKindEstimate, into: string(entities.EstimateStatusAccepted)}: (*LifecycleUseCase).deriveJobFromEstimate,
	{kind: entities.DocumentKindJob, into: string(entities.JobStatusCompleted)}:          (*LifecycleUseCase).deriveInvoiceFromJob,
}

// OnStatusChange runs at most one derivation for an already-persisted
// status change. The status change itself is never rolled back here: a
// derivation failure is a distinct outcome surfaced to the caller.
func (u *LifecycleUseCase) OnStatusChange(ctx context.Context, kind entities.DocumentKind, id string, previous, next string) (LifecycleResult, error) {
	if previous == next {
		return LifecycleResult{Skipped: true, SkipReason: "status unchanged"}, nil
	}

	derive, ok := derivationTriggers[transitionKey{kind: kind, into: next}]
	if !ok {
		return LifecycleResult{}, nil
	}

	log.Printf("[lifecycle][usecase] trigger kind=%s id=%s %s->%s", kind, id, previous, next)
	return derive(u, ctx, id)
}

// deriveJobFromEstimate creates the job for a freshly accepted estimate.
//
// Write order matters: create the job first, then mark job_created on the
// estimate. If the flag write fails the job already exists, which a retry
// of the same transition can duplicate; that window is inherited from the
// non-transactional store contract and reported via
// ErrGuardFlagPersistFailed rather than hidden.
func (u *LifecycleUseCase) deriveJobFromEstimate(ctx context.Context, estimateID string) (LifecycleResult, error) {
	est, err := u.estimateRepo.GetByID(ctx, estimateID)
	if err != nil {
		return LifecycleResult{}, err
	}
	if est.ID == "" {
		return LifecycleResult{}, ErrEstimateNotFound
	}
	if est.JobCreated {
		log.Printf("[lifecycle][usecase] skip estimate_id=%s job already created", estimateID)
		return LifecycleResult{Skipped: true, SkipReason: "job already created"}, nil
	}

	now := time.Now().UTC()
	draft := BuildJobFromEstimate(est, now)

	ref, err := u.allocator.Allocate(ctx, entities.DocumentKindJob, now)
	if err != nil {
		log.Printf("[lifecycle][usecase] job allocation failed estimate_id=%s err=%v", estimateID, err)
		return LifecycleResult{}, err
	}
	draft.ReferenceNumber = ref

	created, err := u.jobRepo.Create(ctx, draft)
	if err != nil {
		log.Printf("[lifecycle][usecase] job create failed estimate_id=%s err=%v", estimateID, err)
		return LifecycleResult{}, fmt.Errorf("%w: %v", ErrDerivationPersistFailed, err)
	}

	result := LifecycleResult{
		Triggered:        true,
		DerivedKind:      entities.DocumentKindJob,
		DerivedID:        created.ID,
		DerivedReference: created.ReferenceNumber,
	}

	if _, err := u.estimateRepo.MarkJobCreated(ctx, est.ID); err != nil {
		log.Printf("[lifecycle][usecase] guard flag update failed estimate_id=%s job_id=%s err=%v", est.ID, created.ID, err)
		return result, fmt.Errorf("%w: %v", ErrGuardFlagPersistFailed, err)
	}

	log.Printf("[lifecycle][usecase] job derived estimate_id=%s job_id=%s reference=%s", est.ID, created.ID, created.ReferenceNumber)
	return result, nil
}

// deriveInvoiceFromJob creates the invoice for a freshly completed job. A
// missing originating estimate is not an error: the invoice falls back to
// a single synthetic line item.
func (u *LifecycleUseCase) deriveInvoiceFromJob(ctx context.Context, jobID string) (LifecycleResult, error) {
	job, err := u.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return LifecycleResult{}, err
	}
	if job.ID == "" {
		return LifecycleResult{}, ErrJobNotFound
	}
	if job.InvoiceCreated {
		log.Printf("[lifecycle][usecase] skip job_id=%s invoice already created", jobID)
		return LifecycleResult{Skipped: true, SkipReason: "invoice already created"}, nil
	}

	var est *entities.Estimate
	if job.SourceEstimateID != "" {
		found, err := u.estimateRepo.GetByID(ctx, job.SourceEstimateID)
		if err != nil {
			return LifecycleResult{}, err
		}
		if found.ID != "" {
			est = &found
		} else {
			log.Printf("[lifecycle][usecase] originating estimate missing job_id=%s estimate_id=%s; using synthetic line item", jobID, job.SourceEstimateID)
		}
	}

	now := time.Now().UTC()
	draft := BuildInvoiceFromJob(job, est, now)

	ref, err := u.allocator.Allocate(ctx, entities.DocumentKindInvoice, now)
	if err != nil {
		log.Printf("[lifecycle][usecase] invoice allocation failed job_id=%s err=%v", jobID, err)
		return LifecycleResult{}, err
	}
	draft.ReferenceNumber = ref

	created, err := u.invoiceRepo.Create(ctx, draft)
	if err != nil {
		log.Printf("[lifecycle][usecase] invoice create failed job_id=%s err=%v", jobID, err)
		return LifecycleResult{}, fmt.Errorf("%w: %v", ErrDerivationPersistFailed, err)
	}

	result := LifecycleResult{
		Triggered:        true,
		DerivedKind:      entities.DocumentKindInvoice,
		DerivedID:        created.ID,
		DerivedReference: created.ReferenceNumber,
	}

	if _, err := u.jobRepo.MarkInvoiceCreated(ctx, job.ID); err != nil {
		log.Printf("[lifecycle][usecase] guard flag update failed job_id=%s invoice_id=%s err=%v", job.ID, created.ID, err)
		return result, fmt.Errorf("%w: %v", ErrGuardFlagPersistFailed, err)
	}

	log.Printf("[lifecycle][usecase] invoice derived job_id=%s invoice_id=%s reference=%s", job.ID, created.ID, created.ReferenceNumber)
	return result, nil
}

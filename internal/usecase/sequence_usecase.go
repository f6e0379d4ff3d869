package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fixflow_crm/internal/domain/entities"
	"fixflow_crm/internal/usecase/interfaces"
)

var (
	ErrAllocationFailed = errors.New("reference number allocation failed")
	ErrInvalidKind      = errors.New("invalid document kind")
)

// ISequenceAllocator produces human-readable daily reference numbers
// (PREFIX-YYYYMMDD-NNN) for estimates, jobs and invoices.

type ISequenceAllocator interface {
	Allocate(ctx context.Context, kind entities.DocumentKind, now time.Time) (string, error)
}

// SequenceAllocator derives the next sequence from the count of documents
// of the same kind created today.
//
// Two allocations issued between the count read and the subsequent write
// can produce the same number; the reference number is a display
// identifier and the store-assigned id remains the true key.
type SequenceAllocator struct {
	counter interfaces.IDocumentCounter
}

var _ ISequenceAllocator = (*SequenceAllocator)(nil)

func NewSequenceAllocator(counter interfaces.IDocumentCounter) *SequenceAllocator {
	return &SequenceAllocator{counter: counter}
}

func (a *SequenceAllocator) Allocate(ctx context.Context, kind entities.DocumentKind, now time.Time) (string, error) {
	if !kind.Valid() {
		return "", ErrInvalidKind
	}

	now = now.UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	count, err := a.counter.CountCreatedSince(ctx, kind, dayStart)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAllocationFailed, err)
	}

	return fmt.Sprintf("%s-%s-%03d", kind.ReferencePrefix(), now.Format("20060102"), count+1), nil
}

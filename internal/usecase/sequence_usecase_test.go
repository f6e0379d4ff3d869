package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"fixflow_crm/internal/domain/entities"
	mock_interfaces "fixflow_crm/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

func TestSequenceAllocator_Allocate(t *testing.T) {
	t.Run("invalid kind", func(t *testing.T) {
		a := NewSequenceAllocator(nil)
		_, err := a.Allocate(context.Background(), entities.DocumentKind("receipt"), time.Now())
		if !errors.Is(err, ErrInvalidKind) {
			t.Fatalf("expected ErrInvalidKind, got %v", err)
		}
	})

	t.Run("formats prefix date and sequence", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		counter := mock_interfaces.NewMockIDocumentCounter(ctrl)
		a := NewSequenceAllocator(counter)

		now := time.Date(2024, 7, 15, 14, 30, 0, 0, time.UTC)
		dayStart := time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC)
		counter.EXPECT().CountCreatedSince(gomock.Any(), entities.DocumentKindEstimate, dayStart).Return(2, nil)

		ref, err := a.Allocate(context.Background(), entities.DocumentKindEstimate, now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ref != "EST-20240715-003" {
			t.Fatalf("expected EST-20240715-003, got %s", ref)
		}
	})

	t.Run("first document of the day", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		counter := mock_interfaces.NewMockIDocumentCounter(ctrl)
		a := NewSequenceAllocator(counter)

		now := time.Date(2024, 1, 2, 0, 0, 1, 0, time.UTC)
		counter.EXPECT().CountCreatedSince(gomock.Any(), entities.DocumentKindInvoice, gomock.Any()).Return(0, nil)

		ref, err := a.Allocate(context.Background(), entities.DocumentKindInvoice, now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ref != "INV-20240102-001" {
			t.Fatalf("expected INV-20240102-001, got %s", ref)
		}
	})

	t.Run("sequence past three digits keeps growing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		counter := mock_interfaces.NewMockIDocumentCounter(ctrl)
		a := NewSequenceAllocator(counter)

		now := time.Date(2024, 7, 15, 9, 0, 0, 0, time.UTC)
		counter.EXPECT().CountCreatedSince(gomock.Any(), entities.DocumentKindJob, gomock.Any()).Return(999, nil)

		ref, err := a.Allocate(context.Background(), entities.DocumentKindJob, now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ref != "JOB-20240715-1000" {
			t.Fatalf("expected JOB-20240715-1000, got %s", ref)
		}
	})

	t.Run("non utc clock is normalized to the utc day", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		counter := mock_interfaces.NewMockIDocumentCounter(ctrl)
		a := NewSequenceAllocator(counter)

		// 2024-07-15 22:00 in UTC-5 is already 2024-07-16 in UTC.
		loc := time.FixedZone("UTC-5", -5*60*60)
		now := time.Date(2024, 7, 15, 22, 0, 0, 0, loc)
		dayStart := time.Date(2024, 7, 16, 0, 0, 0, 0, time.UTC)
		counter.EXPECT().CountCreatedSince(gomock.Any(), entities.DocumentKindEstimate, dayStart).Return(0, nil)

		ref, err := a.Allocate(context.Background(), entities.DocumentKindEstimate, now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ref != "EST-20240716-001" {
			t.Fatalf("expected EST-20240716-001, got %s", ref)
		}
	})

	t.Run("counter failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		counter := mock_interfaces.NewMockIDocumentCounter(ctrl)
		a := NewSequenceAllocator(counter)

		counter.EXPECT().CountCreatedSince(gomock.Any(), entities.DocumentKindEstimate, gomock.Any()).Return(0, errors.New("dynamo down"))

		_, err := a.Allocate(context.Background(), entities.DocumentKindEstimate, time.Now())
		if !errors.Is(err, ErrAllocationFailed) {
			t.Fatalf("expected ErrAllocationFailed, got %v", err)
		}
	})
}

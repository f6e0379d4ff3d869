package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"fixflow_crm/internal/domain/entities"
	mock_interfaces "fixflow_crm/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

type lifecycleMocks struct {
	estimateRepo *mock_interfaces.MockIEstimateRepository
	jobRepo      *mock_interfaces.MockIJobRepository
	invoiceRepo  *mock_interfaces.MockIInvoiceRepository
	counter      *mock_interfaces.MockIDocumentCounter
}

func newLifecycleUnderTest(ctrl *gomock.Controller) (*LifecycleUseCase, lifecycleMocks) {
	m := lifecycleMocks{
		estimateRepo: mock_interfaces.NewMockIEstimateRepository(ctrl),
		jobRepo:      mock_interfaces.NewMockIJobRepository(ctrl),
		invoiceRepo:  mock_interfaces.NewMockIInvoiceRepository(ctrl),
		counter:      mock_interfaces.NewMockIDocumentCounter(ctrl),
	}
	uc := NewLifecycleUseCase(m.estimateRepo, m.jobRepo, m.invoiceRepo, NewSequenceAllocator(m.counter))
	return uc, m
}

func TestLifecycleUseCase_OnStatusChange(t *testing.T) {
	t.Run("unchanged status is skipped", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, _ := newLifecycleUnderTest(ctrl)

		res, err := uc.OnStatusChange(context.Background(), entities.DocumentKindEstimate, "est-1", "accepted", "accepted")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.Skipped || res.SkipReason != "status unchanged" {
			t.Fatalf("expected unchanged skip, got %+v", res)
		}
	})

	t.Run("non trigger transition is a no-op", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, _ := newLifecycleUnderTest(ctrl)

		res, err := uc.OnStatusChange(context.Background(), entities.DocumentKindEstimate, "est-1", "draft", "sent")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Triggered || res.Skipped {
			t.Fatalf("expected empty result, got %+v", res)
		}
	})

	t.Run("invoice kind never triggers", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, _ := newLifecycleUnderTest(ctrl)

		res, err := uc.OnStatusChange(context.Background(), entities.DocumentKindInvoice, "inv-1", "draft", "sent")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Triggered {
			t.Fatalf("expected no derivation, got %+v", res)
		}
	})
}

func TestLifecycleUseCase_DeriveJobFromEstimate(t *testing.T) {
	accepted := entities.Estimate{
		ID:              "est-1",
		ReferenceNumber: "EST-20260210-001",
		CustomerID:      "cust-1",
		CustomerName:    "Acme Facilities",
		Notes:           "Replace rooftop compressor",
		Status:          entities.EstimateStatusAccepted,
	}

	t.Run("creates job then sets guard flag", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newLifecycleUnderTest(ctrl)

		getCall := m.estimateRepo.EXPECT().GetByID(gomock.Any(), "est-1").Return(accepted, nil)
		countCall := m.counter.EXPECT().CountCreatedSince(gomock.Any(), entities.DocumentKindJob, gomock.Any()).Return(4, nil).After(getCall)
		createCall := m.jobRepo.EXPECT().Create(gomock.Any(), gomock.AssignableToTypeOf(entities.Job{})).DoAndReturn(
			func(_ context.Context, j entities.Job) (entities.Job, error) {
				if j.SourceEstimateID != "est-1" || j.Status != entities.JobStatusPendingSchedule {
					t.Fatalf("unexpected job draft: %+v", j)
				}
				if !strings.HasPrefix(j.ReferenceNumber, "JOB-") || !strings.HasSuffix(j.ReferenceNumber, "-005") {
					t.Fatalf("unexpected reference: %q", j.ReferenceNumber)
				}
				if j.Description != "Replace rooftop compressor" {
					t.Fatalf("unexpected description: %q", j.Description)
				}
				return j, nil
			},
		).After(countCall)
		m.estimateRepo.EXPECT().MarkJobCreated(gomock.Any(), "est-1").Return(accepted, nil).After(createCall)

		res, err := uc.OnStatusChange(context.Background(), entities.DocumentKindEstimate, "est-1", "sent", "accepted")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.Triggered || res.DerivedKind != entities.DocumentKindJob {
			t.Fatalf("expected triggered job derivation, got %+v", res)
		}
		if res.DerivedID == "" || res.DerivedReference == "" {
			t.Fatalf("expected derived identifiers, got %+v", res)
		}
	})

	t.Run("guard flag already set skips without writes", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newLifecycleUnderTest(ctrl)

		done := accepted
		done.JobCreated = true
		m.estimateRepo.EXPECT().GetByID(gomock.Any(), "est-1").Return(done, nil)

		res, err := uc.OnStatusChange(context.Background(), entities.DocumentKindEstimate, "est-1", "sent", "accepted")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.Skipped || res.SkipReason != "job already created" {
			t.Fatalf("expected guard skip, got %+v", res)
		}
	})

	t.Run("estimate missing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newLifecycleUnderTest(ctrl)

		m.estimateRepo.EXPECT().GetByID(gomock.Any(), "est-1").Return(entities.Estimate{}, nil)

		_, err := uc.OnStatusChange(context.Background(), entities.DocumentKindEstimate, "est-1", "sent", "accepted")
		if !errors.Is(err, ErrEstimateNotFound) {
			t.Fatalf("expected ErrEstimateNotFound, got %v", err)
		}
	})

	t.Run("allocation failure aborts before create", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newLifecycleUnderTest(ctrl)

		m.estimateRepo.EXPECT().GetByID(gomock.Any(), "est-1").Return(accepted, nil)
		m.counter.EXPECT().CountCreatedSince(gomock.Any(), entities.DocumentKindJob, gomock.Any()).Return(0, errors.New("dynamo down"))

		_, err := uc.OnStatusChange(context.Background(), entities.DocumentKindEstimate, "est-1", "sent", "accepted")
		if !errors.Is(err, ErrAllocationFailed) {
			t.Fatalf("expected ErrAllocationFailed, got %v", err)
		}
	})

	t.Run("job create failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newLifecycleUnderTest(ctrl)

		m.estimateRepo.EXPECT().GetByID(gomock.Any(), "est-1").Return(accepted, nil)
		m.counter.EXPECT().CountCreatedSince(gomock.Any(), entities.DocumentKindJob, gomock.Any()).Return(0, nil)
		m.jobRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(entities.Job{}, errors.New("conditional check failed"))

		res, err := uc.OnStatusChange(context.Background(), entities.DocumentKindEstimate, "est-1", "sent", "accepted")
		if !errors.Is(err, ErrDerivationPersistFailed) {
			t.Fatalf("expected ErrDerivationPersistFailed, got %v", err)
		}
		if res.Triggered {
			t.Fatalf("expected untriggered result, got %+v", res)
		}
	})

	t.Run("guard flag failure still reports created job", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newLifecycleUnderTest(ctrl)

		m.estimateRepo.EXPECT().GetByID(gomock.Any(), "est-1").Return(accepted, nil)
		m.counter.EXPECT().CountCreatedSince(gomock.Any(), entities.DocumentKindJob, gomock.Any()).Return(0, nil)
		m.jobRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, j entities.Job) (entities.Job, error) { return j, nil },
		)
		m.estimateRepo.EXPECT().MarkJobCreated(gomock.Any(), "est-1").Return(entities.Estimate{}, errors.New("dynamo down"))

		res, err := uc.OnStatusChange(context.Background(), entities.DocumentKindEstimate, "est-1", "sent", "accepted")
		if !errors.Is(err, ErrGuardFlagPersistFailed) {
			t.Fatalf("expected ErrGuardFlagPersistFailed, got %v", err)
		}
		if !res.Triggered || res.DerivedID == "" {
			t.Fatalf("expected result to carry the created job, got %+v", res)
		}
	})
}

func TestLifecycleUseCase_DeriveInvoiceFromJob(t *testing.T) {
	completed := entities.Job{
		ID:               "job-1",
		ReferenceNumber:  "JOB-20260211-004",
		CustomerID:       "cust-1",
		CustomerName:     "Acme Facilities",
		Description:      "HVAC repair",
		Status:           entities.JobStatusCompleted,
		SourceEstimateID: "est-1",
	}

	est := entities.Estimate{
		ID:      "est-1",
		TaxRate: 0.1,
		LineItems: []entities.LineItem{
			{ID: "li-1", Description: "Compressor swap", Quantity: 1, UnitPrice: 400},
		},
	}

	t.Run("copies estimate pricing into the invoice", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newLifecycleUnderTest(ctrl)

		m.jobRepo.EXPECT().GetByID(gomock.Any(), "job-1").Return(completed, nil)
		m.estimateRepo.EXPECT().GetByID(gomock.Any(), "est-1").Return(est, nil)
		m.counter.EXPECT().CountCreatedSince(gomock.Any(), entities.DocumentKindInvoice, gomock.Any()).Return(0, nil)
		m.invoiceRepo.EXPECT().Create(gomock.Any(), gomock.AssignableToTypeOf(entities.Invoice{})).DoAndReturn(
			func(_ context.Context, i entities.Invoice) (entities.Invoice, error) {
				if i.SourceJobID != "job-1" || i.SourceEstimateID != "est-1" {
					t.Fatalf("derivation chain not recorded: %+v", i)
				}
				if i.TotalAmount != 440 {
					t.Fatalf("expected total 440, got %v", i.TotalAmount)
				}
				if !strings.HasPrefix(i.ReferenceNumber, "INV-") {
					t.Fatalf("unexpected reference: %q", i.ReferenceNumber)
				}
				return i, nil
			},
		)
		m.jobRepo.EXPECT().MarkInvoiceCreated(gomock.Any(), "job-1").Return(completed, nil)

		res, err := uc.OnStatusChange(context.Background(), entities.DocumentKindJob, "job-1", "in_progress", "completed")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.Triggered || res.DerivedKind != entities.DocumentKindInvoice {
			t.Fatalf("expected triggered invoice derivation, got %+v", res)
		}
	})

	t.Run("missing estimate falls back to synthetic line", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newLifecycleUnderTest(ctrl)

		m.jobRepo.EXPECT().GetByID(gomock.Any(), "job-1").Return(completed, nil)
		m.estimateRepo.EXPECT().GetByID(gomock.Any(), "est-1").Return(entities.Estimate{}, nil)
		m.counter.EXPECT().CountCreatedSince(gomock.Any(), entities.DocumentKindInvoice, gomock.Any()).Return(0, nil)
		m.invoiceRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, i entities.Invoice) (entities.Invoice, error) {
				if len(i.LineItems) != 1 || i.LineItems[0].UnitPrice != 0 {
					t.Fatalf("expected synthetic zero-priced line, got %+v", i.LineItems)
				}
				if i.SourceEstimateID != "" {
					t.Fatalf("expected no estimate link, got %q", i.SourceEstimateID)
				}
				return i, nil
			},
		)
		m.jobRepo.EXPECT().MarkInvoiceCreated(gomock.Any(), "job-1").Return(completed, nil)

		res, err := uc.OnStatusChange(context.Background(), entities.DocumentKindJob, "job-1", "in_progress", "completed")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.Triggered {
			t.Fatalf("expected triggered derivation, got %+v", res)
		}
	})

	t.Run("guard flag already set skips", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newLifecycleUnderTest(ctrl)

		done := completed
		done.InvoiceCreated = true
		m.jobRepo.EXPECT().GetByID(gomock.Any(), "job-1").Return(done, nil)

		res, err := uc.OnStatusChange(context.Background(), entities.DocumentKindJob, "job-1", "in_progress", "completed")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.Skipped || res.SkipReason != "invoice already created" {
			t.Fatalf("expected guard skip, got %+v", res)
		}
	})

	t.Run("job missing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newLifecycleUnderTest(ctrl)

		m.jobRepo.EXPECT().GetByID(gomock.Any(), "job-1").Return(entities.Job{}, nil)

		_, err := uc.OnStatusChange(context.Background(), entities.DocumentKindJob, "job-1", "in_progress", "completed")
		if !errors.Is(err, ErrJobNotFound) {
			t.Fatalf("expected ErrJobNotFound, got %v", err)
		}
	})
}

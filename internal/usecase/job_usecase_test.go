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

func TestJobUseCase_Create(t *testing.T) {
	t.Run("invalid customer id", func(t *testing.T) {
		uc := NewJobUseCase(nil, nil, nil)
		_, err := uc.Create(context.Background(), CreateJobInput{CustomerID: " ", Description: "x"})
		if !errors.Is(err, ErrInvalidCustomerID) {
			t.Fatalf("expected ErrInvalidCustomerID, got %v", err)
		}
	})

	t.Run("invalid description", func(t *testing.T) {
		uc := NewJobUseCase(nil, nil, nil)
		_, err := uc.Create(context.Background(), CreateJobInput{CustomerID: "cust-1", Description: "   "})
		if !errors.Is(err, ErrInvalidDescription) {
			t.Fatalf("expected ErrInvalidDescription, got %v", err)
		}
	})

	t.Run("create success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIJobRepository(ctrl)
		counter := mock_interfaces.NewMockIDocumentCounter(ctrl)
		uc := NewJobUseCase(repo, NewSequenceAllocator(counter), nil)

		counter.EXPECT().CountCreatedSince(gomock.Any(), entities.DocumentKindJob, gomock.Any()).Return(1, nil)
		repo.EXPECT().Create(gomock.Any(), gomock.AssignableToTypeOf(entities.Job{})).DoAndReturn(
			func(_ context.Context, j entities.Job) (entities.Job, error) {
				if j.ID == "" || j.ReferenceNumber == "" {
					t.Fatalf("expected generated identifiers: %+v", j)
				}
				if j.Status != entities.JobStatusPendingSchedule {
					t.Fatalf("expected pending_schedule, got %s", j.Status)
				}
				if j.SourceEstimateID != "" {
					t.Fatalf("manual job must not link an estimate: %+v", j)
				}
				return j, nil
			},
		)

		_, err := uc.Create(context.Background(), CreateJobInput{CustomerID: "cust-1", Description: "Boiler service"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestJobUseCase_AssignTechnician(t *testing.T) {
	t.Run("invalid technician id", func(t *testing.T) {
		uc := NewJobUseCase(nil, nil, nil)
		_, err := uc.AssignTechnician(context.Background(), "job-1", " ")
		if !errors.Is(err, ErrInvalidTechnicianID) {
			t.Fatalf("expected ErrInvalidTechnicianID, got %v", err)
		}
	})

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIJobRepository(ctrl)
		uc := NewJobUseCase(repo, nil, nil)

		repo.EXPECT().AssignTechnician(gomock.Any(), "job-1", "tech-1").Return(entities.Job{}, nil)

		_, err := uc.AssignTechnician(context.Background(), "job-1", "tech-1")
		if !errors.Is(err, ErrJobNotFound) {
			t.Fatalf("expected ErrJobNotFound, got %v", err)
		}
	})
}

func TestJobUseCase_Schedule(t *testing.T) {
	t.Run("zero date", func(t *testing.T) {
		uc := NewJobUseCase(nil, nil, nil)
		_, err := uc.Schedule(context.Background(), "job-1", time.Time{})
		if !errors.Is(err, ErrInvalidScheduledDate) {
			t.Fatalf("expected ErrInvalidScheduledDate, got %v", err)
		}
	})

	t.Run("schedules in utc", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIJobRepository(ctrl)
		uc := NewJobUseCase(repo, nil, nil)

		loc := time.FixedZone("UTC-3", -3*60*60)
		local := time.Date(2026, 3, 2, 9, 0, 0, 0, loc)
		repo.EXPECT().Schedule(gomock.Any(), "job-1", local.UTC()).Return(entities.Job{ID: "job-1"}, nil)

		_, err := uc.Schedule(context.Background(), "job-1", local)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestJobUseCase_UpdateStatus(t *testing.T) {
	inProgress := entities.Job{
		ID:              "job-1",
		ReferenceNumber: "JOB-20260211-004",
		CustomerID:      "cust-1",
		Description:     "HVAC repair",
		Status:          entities.JobStatusInProgress,
	}

	newJobEnv := func(ctrl *gomock.Controller) (*JobUseCase, *mock_interfaces.MockIJobRepository, lifecycleMocks) {
		m := lifecycleMocks{
			estimateRepo: mock_interfaces.NewMockIEstimateRepository(ctrl),
			jobRepo:      mock_interfaces.NewMockIJobRepository(ctrl),
			invoiceRepo:  mock_interfaces.NewMockIInvoiceRepository(ctrl),
			counter:      mock_interfaces.NewMockIDocumentCounter(ctrl),
		}
		allocator := NewSequenceAllocator(m.counter)
		lifecycle := NewLifecycleUseCase(m.estimateRepo, m.jobRepo, m.invoiceRepo, allocator)
		return NewJobUseCase(m.jobRepo, allocator, lifecycle), m.jobRepo, m
	}

	t.Run("invalid transition", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, repo, _ := newJobEnv(ctrl)

		pending := inProgress
		pending.Status = entities.JobStatusPendingSchedule
		repo.EXPECT().GetByID(gomock.Any(), "job-1").Return(pending, nil)

		_, err := uc.UpdateStatus(context.Background(), "job-1", entities.JobStatusCompleted)
		if !errors.Is(err, ErrInvalidStatusTransition) {
			t.Fatalf("expected ErrInvalidStatusTransition, got %v", err)
		}
	})

	t.Run("first completion stamps completion date and derives invoice", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, repo, m := newJobEnv(ctrl)

		completed := inProgress
		completed.Status = entities.JobStatusCompleted

		repo.EXPECT().GetByID(gomock.Any(), "job-1").Return(inProgress, nil)
		repo.EXPECT().UpdateStatus(gomock.Any(), "job-1", entities.JobStatusCompleted, gomock.Not(gomock.Nil())).Return(completed, nil)
		repo.EXPECT().GetByID(gomock.Any(), "job-1").Return(completed, nil)
		m.counter.EXPECT().CountCreatedSince(gomock.Any(), entities.DocumentKindInvoice, gomock.Any()).Return(0, nil)
		m.invoiceRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, i entities.Invoice) (entities.Invoice, error) { return i, nil },
		)
		repo.EXPECT().MarkInvoiceCreated(gomock.Any(), "job-1").Return(completed, nil)

		res, err := uc.UpdateStatus(context.Background(), "job-1", entities.JobStatusCompleted)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.Derivation.Triggered || res.Derivation.DerivedKind != entities.DocumentKindInvoice {
			t.Fatalf("expected invoice derivation, got %+v", res.Derivation)
		}
		if !res.Job.InvoiceCreated {
			t.Fatalf("expected invoice_created reflected on the returned job")
		}
	})

	t.Run("re-saving completed keeps the completion date", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, repo, _ := newJobEnv(ctrl)

		stamped := time.Date(2026, 2, 20, 10, 0, 0, 0, time.UTC)
		completed := inProgress
		completed.Status = entities.JobStatusCompleted
		completed.CompletionDate = &stamped

		repo.EXPECT().GetByID(gomock.Any(), "job-1").Return(completed, nil)
		repo.EXPECT().UpdateStatus(gomock.Any(), "job-1", entities.JobStatusCompleted, gomock.Nil()).Return(completed, nil)

		res, err := uc.UpdateStatus(context.Background(), "job-1", entities.JobStatusCompleted)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.Derivation.Skipped || res.Derivation.SkipReason != "status unchanged" {
			t.Fatalf("expected unchanged skip, got %+v", res.Derivation)
		}
	})

	t.Run("cancellation does not derive", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, repo, _ := newJobEnv(ctrl)

		cancelled := inProgress
		cancelled.Status = entities.JobStatusCancelled

		repo.EXPECT().GetByID(gomock.Any(), "job-1").Return(inProgress, nil)
		repo.EXPECT().UpdateStatus(gomock.Any(), "job-1", entities.JobStatusCancelled, gomock.Nil()).Return(cancelled, nil)

		res, err := uc.UpdateStatus(context.Background(), "job-1", entities.JobStatusCancelled)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Derivation.Triggered {
			t.Fatalf("cancellation must not derive an invoice: %+v", res.Derivation)
		}
	})

	t.Run("guard flag failure surfaces on derivation error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, repo, m := newJobEnv(ctrl)

		completed := inProgress
		completed.Status = entities.JobStatusCompleted

		repo.EXPECT().GetByID(gomock.Any(), "job-1").Return(inProgress, nil)
		repo.EXPECT().UpdateStatus(gomock.Any(), "job-1", entities.JobStatusCompleted, gomock.Not(gomock.Nil())).Return(completed, nil)
		repo.EXPECT().GetByID(gomock.Any(), "job-1").Return(completed, nil)
		m.counter.EXPECT().CountCreatedSince(gomock.Any(), entities.DocumentKindInvoice, gomock.Any()).Return(0, nil)
		m.invoiceRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, i entities.Invoice) (entities.Invoice, error) { return i, nil },
		)
		repo.EXPECT().MarkInvoiceCreated(gomock.Any(), "job-1").Return(entities.Job{}, errors.New("dynamo down"))

		res, err := uc.UpdateStatus(context.Background(), "job-1", entities.JobStatusCompleted)
		if err != nil {
			t.Fatalf("status change must not fail on derivation error, got %v", err)
		}
		if !errors.Is(res.DerivationError, ErrGuardFlagPersistFailed) {
			t.Fatalf("expected ErrGuardFlagPersistFailed, got %v", res.DerivationError)
		}
		if !res.Derivation.Triggered || res.Derivation.DerivedID == "" {
			t.Fatalf("expected result to carry the created invoice, got %+v", res.Derivation)
		}
		if res.Job.InvoiceCreated {
			t.Fatalf("invoice_created must not be reported when the flag write failed")
		}
	})
}

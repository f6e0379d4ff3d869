package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"fixflow_crm/internal/domain/entities"
	"fixflow_crm/internal/usecase/interfaces"

	log "github.com/sirupsen/logrus"
)

var (
	ErrInvoiceNotFound      = errors.New("invoice not found")
	ErrInvalidInvoiceID     = errors.New("invalid invoice id")
	ErrInvalidPaymentAmount = errors.New("invalid payment amount")
	ErrInvoiceNotPayable    = errors.New("invoice not payable")
	ErrInvoiceNotVoidable   = errors.New("invoice not voidable")
	ErrGatewayNotConfigured = errors.New("payment gateway not configured")
)

// IInvoiceUseCase exposes invoice operations to the HTTP layer. Invoices
// are only ever created by the lifecycle orchestrator when a job
// completes; there is no manual create.

type IInvoiceUseCase interface {
	GetByID(ctx context.Context, id string) (entities.Invoice, error)
	ListByCustomerID(ctx context.Context, customerID string) ([]entities.Invoice, error)
	Send(ctx context.Context, id string) (entities.Invoice, error)
	Void(ctx context.Context, id string) (entities.Invoice, error)
	RecordPayment(ctx context.Context, id string, amount float64, payload json.RawMessage) (entities.Invoice, error)
}

type InvoiceUseCase struct {
	repo    interfaces.IInvoiceRepository
	gateway interfaces.IPaymentGateway
}

var _ IInvoiceUseCase = (*InvoiceUseCase)(nil)

func NewInvoiceUseCase(repo interfaces.IInvoiceRepository, gateway interfaces.IPaymentGateway) *InvoiceUseCase {
	return &InvoiceUseCase{repo: repo, gateway: gateway}
}

func (u *InvoiceUseCase) GetByID(ctx context.Context, id string) (entities.Invoice, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Invoice{}, ErrInvalidInvoiceID
	}

	i, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Invoice{}, err
	}
	if i.ID == "" {
		return entities.Invoice{}, ErrInvoiceNotFound
	}
	return i, nil
}

func (u *InvoiceUseCase) ListByCustomerID(ctx context.Context, customerID string) ([]entities.Invoice, error) {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return nil, ErrInvalidCustomerID
	}
	return u.repo.ListByCustomerID(ctx, customerID)
}

func (u *InvoiceUseCase) Send(ctx context.Context, id string) (entities.Invoice, error) {
	i, err := u.GetByID(ctx, id)
	if err != nil {
		return entities.Invoice{}, err
	}
	if i.Status != entities.InvoiceStatusDraft {
		return entities.Invoice{}, ErrInvalidStatusTransition
	}

	updated, err := u.repo.UpdateStatus(ctx, i.ID, entities.InvoiceStatusSent)
	if err != nil {
		return entities.Invoice{}, err
	}
	if updated.ID == "" {
		return entities.Invoice{}, ErrInvoiceNotFound
	}
	return updated, nil
}

func (u *InvoiceUseCase) Void(ctx context.Context, id string) (entities.Invoice, error) {
	i, err := u.GetByID(ctx, id)
	if err != nil {
		return entities.Invoice{}, err
	}
	if i.Status == entities.InvoiceStatusPaid || i.Status == entities.InvoiceStatusVoid {
		return entities.Invoice{}, ErrInvoiceNotVoidable
	}

	updated, err := u.repo.UpdateStatus(ctx, i.ID, entities.InvoiceStatusVoid)
	if err != nil {
		return entities.Invoice{}, err
	}
	if updated.ID == "" {
		return entities.Invoice{}, ErrInvoiceNotFound
	}
	return updated, nil
}

// RecordPayment charges the payment provider and applies the collected
// amount to the invoice. The paid amount accumulates; the invoice moves to
// paid once it covers the total, otherwise to partially paid.
func (u *InvoiceUseCase) RecordPayment(ctx context.Context, id string, amount float64, payload json.RawMessage) (entities.Invoice, error) {
	log.Printf("[invoice][usecase] record-payment start invoice_id=%s amount=%.2f", id, amount)
	if amount <= 0 {
		return entities.Invoice{}, ErrInvalidPaymentAmount
	}
	if u.gateway == nil {
		return entities.Invoice{}, ErrGatewayNotConfigured
	}

	i, err := u.GetByID(ctx, id)
	if err != nil {
		return entities.Invoice{}, err
	}
	switch i.Status {
	case entities.InvoiceStatusVoid, entities.InvoiceStatusPaid:
		log.Printf("[invoice][usecase] record-payment rejected invoice_id=%s status=%s", i.ID, i.Status)
		return entities.Invoice{}, ErrInvoiceNotPayable
	}

	payload = enrichPaymentPayload(payload, i, amount)

	providerPaymentID, providerStatus, _, err := u.gateway.CreatePayment(ctx, payload)
	if err != nil {
		log.Printf("[invoice][usecase] gateway failed invoice_id=%s err=%v", i.ID, err)
		return entities.Invoice{}, err
	}
	log.Printf("[invoice][usecase] gateway success invoice_id=%s provider_payment_id=%s provider_status=%s", i.ID, providerPaymentID, providerStatus)

	newPaid := i.PaidAmount + amount
	status := entities.InvoiceStatusPartiallyPaid
	if newPaid >= i.TotalAmount {
		status = entities.InvoiceStatusPaid
	}

	updated, err := u.repo.RecordPayment(ctx, i.ID, newPaid, status, time.Now().UTC())
	if err != nil {
		return entities.Invoice{}, err
	}
	if updated.ID == "" {
		return entities.Invoice{}, ErrInvoiceNotFound
	}
	log.Printf("[invoice][usecase] record-payment success invoice_id=%s paid_amount=%.2f status=%s", updated.ID, updated.PaidAmount, updated.Status)
	return updated, nil
}

// enrichPaymentPayload fills the provider request with the reconciliation
// fields the provider expects. The invoice in the store is the source of
// truth for the amount.
func enrichPaymentPayload(payload json.RawMessage, i entities.Invoice, amount float64) json.RawMessage {
	m := map[string]any{}
	if len(payload) > 0 && json.Valid(payload) {
		_ = json.Unmarshal(payload, &m)
	}
	if _, ok := m["external_reference"]; !ok {
		m["external_reference"] = i.ID
	}
	if _, ok := m["description"]; !ok {
		m["description"] = fmt.Sprintf("Invoice %s", i.ReferenceNumber)
	}
	m["transaction_amount"] = amount

	b, err := json.Marshal(m)
	if err != nil {
		return payload
	}
	return b
}

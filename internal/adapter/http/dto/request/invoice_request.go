package request

import "encoding/json"

// RecordPaymentRequest is the payload accepted by POST /invoices/:id/payments.
// ProviderPayload is passed through to the payment gateway; the charged
// amount always comes from Amount, not from the payload.
type RecordPaymentRequest struct {
	Amount          float64         `json:"amount" binding:"required"`
	ProviderPayload json.RawMessage `json:"provider_payload"`
}

package entities

// LineItem is a single priced line inside an Estimate or Invoice.
//
// Total is derived state (Quantity * UnitPrice). It is recomputed on every
// mutation and never trusted from input.

type LineItem struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Total       float64 `json:"total"`
}

// Totals is the money summary derived from a line-item set and a tax rate.
type Totals struct {
	Subtotal  float64
	TaxAmount float64
	Total     float64
}

// ComputeTotals recomputes every line total plus the subtotal/tax/total
// summary. It returns the normalized line items; the input slice is not
// modified.
func ComputeTotals(items []LineItem, taxRate float64) ([]LineItem, Totals) {
	out := make([]LineItem, len(items))
	var t Totals
	for i, it := range items {
		it.Total = it.Quantity * it.UnitPrice
		t.Subtotal += it.Total
		out[i] = it
	}
	t.TaxAmount = t.Subtotal * taxRate
	t.Total = t.Subtotal + t.TaxAmount
	return out, t
}

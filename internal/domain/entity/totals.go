package entity

import "github.com/shopspring/decimal"

// LineTotal is the engine's per-line breakdown. Amounts are per unit unless
// the name says otherwise.
type LineTotal struct {
	Index int `json:"index"`

	// EffectiveBase is the unit price after promotion plus variation deltas
	EffectiveBase  decimal.Decimal `json:"effective_base"`
	LineDiscount   decimal.Decimal `json:"line_discount"`
	FinalUnitPrice decimal.Decimal `json:"final_unit_price"`
	// Total is FinalUnitPrice × quantity
	Total decimal.Decimal `json:"total"`
}

// Totals is the auditable result of pricing a cart. No field is rounded;
// rounding happens only when the figures are rendered.
type Totals struct {
	// Subtotal is the sum of original unit prices × quantity. Bundles count at
	// their component price.
	Subtotal        decimal.Decimal `json:"subtotal"`
	VariationTotal  decimal.Decimal `json:"variation_total"`
	ProductDiscount decimal.Decimal `json:"product_discount"`
	LineDiscount    decimal.Decimal `json:"line_discount"`

	SubtotalAfterLineDiscounts decimal.Decimal `json:"subtotal_after_line_discounts"`

	VoucherCode string `json:"voucher_code,omitempty"`
	// VoucherDiscount is nil when no voucher is applied
	VoucherDiscount *decimal.Decimal `json:"voucher_discount,omitempty"`
	ManualDiscount  decimal.Decimal  `json:"manual_discount"`

	BaseForTax decimal.Decimal `json:"base_for_tax"`
	TaxPercent decimal.Decimal `json:"tax_percent"`
	TaxAmount  decimal.Decimal `json:"tax_amount"`
	GrandTotal decimal.Decimal `json:"grand_total"`

	Lines   []LineTotal       `json:"lines"`
	Bundles []decimal.Decimal `json:"bundles,omitempty"`
}

// VoucherAmount returns the voucher discount or zero when none is applied
func (t *Totals) VoucherAmount() decimal.Decimal {
	if t.VoucherDiscount == nil {
		return decimal.Zero
	}
	return *t.VoucherDiscount
}

// HasVoucher reports whether a voucher was applied to the transaction
func (t *Totals) HasVoucher() bool {
	return t.VoucherDiscount != nil
}

// Package pricing turns a cart into an auditable Totals record. Every
// function here is pure; nothing is rounded.
package pricing

import (
	"github.com/sangkips/kasir-api/internal/domain/entity"
	"github.com/sangkips/kasir-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ApplyDiscount returns the amount d takes off base. The result is never
// negative and never larger than base. Negative inputs count as zero.
func ApplyDiscount(base decimal.Decimal, d entity.Discount) decimal.Decimal {
	base = nonNegative(base)
	value := nonNegative(d.Value)

	var amount decimal.Decimal
	switch d.Kind {
	case enum.DiscountKindPercentage:
		amount = base.Mul(value).Div(hundred)
	default:
		amount = value
	}
	return decimal.Min(amount, base)
}

// PromotionalPrice applies a product-level promotion to a catalog price and
// returns the promoted unit price together with the per-unit discount. A nil
// promotion leaves the price untouched.
func PromotionalPrice(original decimal.Decimal, promo *entity.Discount) (price, discount decimal.Decimal) {
	if promo == nil || promo.IsZero() {
		return original, decimal.Zero
	}
	discount = ApplyDiscount(original, *promo)
	return original.Sub(discount), discount
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

func percentOf(base, percent decimal.Decimal) decimal.Decimal {
	return base.Mul(percent).Div(hundred)
}

package pricing

import (
	"fmt"
	"strings"

	"github.com/sangkips/kasir-api/internal/domain/entity"
	"github.com/sangkips/kasir-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// Reasons reported when a voucher does not apply
const (
	ReasonNoMatchingItems = "no matching items"
	ReasonInactive        = "voucher is not active"
)

// VoucherResult is the outcome of resolving a voucher against a cart
type VoucherResult struct {
	Applicable bool            `json:"applicable"`
	Discount   decimal.Decimal `json:"discount"`
	Reason     string          `json:"reason,omitempty"`

	// ApplicableSubtotal is the part of the cart the voucher discounts
	ApplicableSubtotal decimal.Decimal `json:"applicable_subtotal"`
	// MinSpend is the unmet threshold when the reason is a minimum spend
	MinSpend *decimal.Decimal `json:"min_spend,omitempty"`
}

// MinSpendReason words the reason for an unmet minimum spend. amount is
// already formatted for display.
func MinSpendReason(amount string) string {
	return fmt.Sprintf("minimum spend of %s required", amount)
}

// InScope reports whether a voucher may discount the given line. A category
// scope without a category, or a product scope without products, covers every
// line.
func InScope(line entity.CartLine, v *entity.Voucher) bool {
	switch v.Scope {
	case enum.VoucherScopeCategory:
		return v.Category == "" || strings.EqualFold(line.Category, v.Category)
	case enum.VoucherScopeProducts:
		return len(v.ProductIDs) == 0 || v.ProductIDs.Contains(line.ProductID)
	default:
		return true
	}
}

// ResolveVoucher decides whether v applies to the cart and how much it takes
// off. Bundle lines are never in scope.
func ResolveVoucher(cart entity.Cart, v *entity.Voucher) VoucherResult {
	if !v.Active {
		return VoucherResult{Reason: ReasonInactive}
	}

	matched := false
	applicable := decimal.Zero
	for _, l := range cart.Lines {
		if !InScope(l, v) {
			continue
		}
		matched = true
		applicable = applicable.Add(l.UnitPrice().Mul(qty(l.Quantity)))
	}
	if !matched {
		return VoucherResult{Reason: ReasonNoMatchingItems}
	}

	if v.MinSpend.Valid && minSpendBase(cart).LessThan(v.MinSpend.Decimal) {
		minSpend := v.MinSpend.Decimal
		return VoucherResult{
			Reason:             MinSpendReason(minSpend.String()),
			ApplicableSubtotal: applicable,
			MinSpend:           &minSpend,
		}
	}

	return VoucherResult{
		Applicable:         true,
		Discount:           ApplyDiscount(applicable, v.Discount()),
		ApplicableSubtotal: applicable,
	}
}

// minSpendBase is the cart subtotal after product promotions, variation
// deltas included. Bundles count at their original price.
func minSpendBase(cart entity.Cart) decimal.Decimal {
	total := decimal.Zero
	for _, l := range cart.Lines {
		total = total.Add(l.UnitPrice().Add(l.VariationTotal()).Mul(qty(l.Quantity)))
	}
	for _, b := range cart.Bundles {
		total = total.Add(b.OriginalPrice().Mul(qty(b.Quantity)))
	}
	return total
}

func qty(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}

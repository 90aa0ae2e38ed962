package pricing

import (
	"github.com/sangkips/kasir-api/internal/domain/entity"
)

// Validate checks the engine's preconditions. Calculate calls it first; the
// service layer may call it earlier to reject a request.
func Validate(in Input) error {
	for i, l := range in.Cart.Lines {
		if l.Quantity < 1 {
			return violation("line %d: quantity must be at least 1, got %d", i, l.Quantity)
		}
		if l.OriginalPrice.IsNegative() {
			return violation("line %d: negative original price", i)
		}
		if l.ProductDiscount.IsNegative() || l.ProductDiscount.GreaterThan(l.OriginalPrice) {
			return violation("line %d: product discount outside [0, original price]", i)
		}
		if err := validateDiscount(l.LineDiscount); err != nil {
			return violation("line %d: %v", i, err)
		}
		if l.UnitPrice().Add(l.VariationTotal()).IsNegative() {
			return violation("line %d: variations push the unit price below zero", i)
		}
	}
	for i, b := range in.Cart.Bundles {
		if b.Quantity < 1 {
			return violation("bundle %d: quantity must be at least 1, got %d", i, b.Quantity)
		}
		if b.Price.IsNegative() {
			return violation("bundle %d: negative price", i)
		}
		for j, c := range b.Components {
			if c.Quantity < 1 || c.UnitPrice.IsNegative() {
				return violation("bundle %d component %d: invalid quantity or price", i, j)
			}
		}
	}
	if in.GlobalDiscount.Percent.IsNegative() || in.GlobalDiscount.Fixed.IsNegative() {
		return violation("negative global discount")
	}
	if in.TaxPercent.IsNegative() {
		return violation("negative tax percent")
	}
	if in.Voucher != nil {
		if err := validateDiscount(in.Voucher.Discount()); err != nil {
			return violation("voucher %s: %v", in.Voucher.Code, err)
		}
	}
	return nil
}

type discountError string

func (e discountError) Error() string { return string(e) }

func validateDiscount(d entity.Discount) error {
	if !d.Kind.IsValid() {
		return discountError("unknown discount kind")
	}
	if d.Value.IsNegative() {
		return discountError("negative discount value")
	}
	return nil
}

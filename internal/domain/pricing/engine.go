package pricing

import (
	"github.com/sangkips/kasir-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Input is everything the engine needs to price a transaction
type Input struct {
	Cart entity.Cart
	// Voucher is the applied voucher, nil when none is applied
	Voucher        *entity.Voucher
	GlobalDiscount entity.GlobalDiscount
	TaxPercent     decimal.Decimal
}

// Calculate folds the cart into Totals. The order of operations is fixed:
// line discounts, then either the voucher or the manual global discount,
// then tax on what remains.
func Calculate(in Input) (*entity.Totals, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}

	t := &entity.Totals{
		Subtotal:                   decimal.Zero,
		VariationTotal:             decimal.Zero,
		ProductDiscount:            decimal.Zero,
		LineDiscount:               decimal.Zero,
		SubtotalAfterLineDiscounts: decimal.Zero,
		ManualDiscount:             decimal.Zero,
		TaxPercent:                 in.TaxPercent,
		Lines:                      make([]entity.LineTotal, 0, len(in.Cart.Lines)),
	}

	for i, l := range in.Cart.Lines {
		q := qty(l.Quantity)
		variations := l.VariationTotal()
		base := l.UnitPrice().Add(variations)
		discount := ApplyDiscount(base, l.LineDiscount)
		final := base.Sub(discount)

		t.Subtotal = t.Subtotal.Add(l.OriginalPrice.Mul(q))
		t.ProductDiscount = t.ProductDiscount.Add(l.ProductDiscount.Mul(q))
		t.VariationTotal = t.VariationTotal.Add(variations.Mul(q))
		t.LineDiscount = t.LineDiscount.Add(discount.Mul(q))
		t.SubtotalAfterLineDiscounts = t.SubtotalAfterLineDiscounts.Add(final.Mul(q))

		t.Lines = append(t.Lines, entity.LineTotal{
			Index:          i,
			EffectiveBase:  base,
			LineDiscount:   discount,
			FinalUnitPrice: final,
			Total:          final.Mul(q),
		})
	}

	for _, b := range in.Cart.Bundles {
		q := qty(b.Quantity)
		total := b.Price.Mul(q)
		t.Subtotal = t.Subtotal.Add(b.OriginalPrice().Mul(q))
		t.SubtotalAfterLineDiscounts = t.SubtotalAfterLineDiscounts.Add(total)
		t.Bundles = append(t.Bundles, total)
	}

	if in.Voucher != nil {
		result := ResolveVoucher(in.Cart, in.Voucher)
		discount := decimal.Zero
		if result.Applicable {
			discount = result.Discount
		}
		t.VoucherCode = in.Voucher.Code
		t.VoucherDiscount = &discount
	} else {
		t.ManualDiscount = percentOf(t.SubtotalAfterLineDiscounts, in.GlobalDiscount.Percent).
			Add(in.GlobalDiscount.Fixed)
	}

	t.BaseForTax = nonNegative(t.SubtotalAfterLineDiscounts.Sub(t.VoucherAmount()).Sub(t.ManualDiscount))
	t.TaxAmount = decimal.Zero
	if t.BaseForTax.IsPositive() {
		t.TaxAmount = percentOf(t.BaseForTax, in.TaxPercent)
	}
	t.GrandTotal = nonNegative(t.BaseForTax.Add(t.TaxAmount))

	return t, nil
}

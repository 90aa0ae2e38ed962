package pricing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/kasir-api/internal/domain/entity"
	"github.com/sangkips/kasir-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveVoucher_FixedWithMinSpend(t *testing.T) {
	cart := entity.Cart{Lines: []entity.CartLine{line("10000", 2)}}
	v := voucherAll(enum.DiscountKindFixed, "5000")
	v.MinSpend = decimal.NewNullDecimal(dec("10000"))

	res := ResolveVoucher(cart, v)

	assert.True(t, res.Applicable)
	assert.Empty(t, res.Reason)
	assertAmount(t, "5000", res.Discount)
	assertAmount(t, "20000", res.ApplicableSubtotal)
}

func TestResolveVoucher_MinSpendNotReached(t *testing.T) {
	cart := entity.Cart{Lines: []entity.CartLine{line("10000", 1)}}
	v := voucherAll(enum.DiscountKindFixed, "5000")
	v.MinSpend = decimal.NewNullDecimal(dec("50000"))

	res := ResolveVoucher(cart, v)

	assert.False(t, res.Applicable)
	assert.Equal(t, MinSpendReason("50000"), res.Reason)
	require.NotNil(t, res.MinSpend)
	assertAmount(t, "50000", *res.MinSpend)
	assertAmount(t, "0", res.Discount)
}

func TestResolveVoucher_MinSpendCountsVariationsAfterPromotion(t *testing.T) {
	l := line("10000", 1)
	l.ProductDiscount = dec("1000")
	l.Variations = []entity.VariationAdjustment{{Variation: "Size", Option: "Large", PriceAdjustment: dec("1000")}}
	v := voucherAll(enum.DiscountKindFixed, "500")
	v.MinSpend = decimal.NewNullDecimal(dec("10000"))

	res := ResolveVoucher(entity.Cart{Lines: []entity.CartLine{l}}, v)

	assert.True(t, res.Applicable)
	// the discounted subtotal excludes variations
	assertAmount(t, "9000", res.ApplicableSubtotal)
}

func TestResolveVoucher_PercentageOnlyDiscountsScopedLines(t *testing.T) {
	drink := line("10000", 1)
	drink.Category = "Drinks"
	food := line("30000", 1)
	food.Category = "Food"

	v := &entity.Voucher{Code: "FOOD10", Kind: enum.DiscountKindPercentage, Value: dec("10"), Scope: enum.VoucherScopeCategory, Category: "food", Active: true}

	res := ResolveVoucher(entity.Cart{Lines: []entity.CartLine{drink, food}}, v)

	assert.True(t, res.Applicable)
	assertAmount(t, "30000", res.ApplicableSubtotal)
	assertAmount(t, "3000", res.Discount)
}

func TestResolveVoucher_ProductScope(t *testing.T) {
	target := line("8000", 3)
	other := line("5000", 1)
	v := &entity.Voucher{Code: "PICK", Kind: enum.DiscountKindFixed, Value: dec("50000"), Scope: enum.VoucherScopeProducts, ProductIDs: entity.ProductIDList{target.ProductID}, Active: true}

	res := ResolveVoucher(entity.Cart{Lines: []entity.CartLine{target, other}}, v)

	assert.True(t, res.Applicable)
	// fixed voucher is capped at the scoped subtotal
	assertAmount(t, "24000", res.Discount)
}

func TestResolveVoucher_NoMatchingItems(t *testing.T) {
	v := &entity.Voucher{Code: "PICK", Kind: enum.DiscountKindFixed, Value: dec("1000"), Scope: enum.VoucherScopeProducts, ProductIDs: entity.ProductIDList{uuid.New()}, Active: true}

	res := ResolveVoucher(entity.Cart{Lines: []entity.CartLine{line("8000", 1)}}, v)

	assert.False(t, res.Applicable)
	assert.Equal(t, ReasonNoMatchingItems, res.Reason)
}

func TestResolveVoucher_BundlesNeverInScope(t *testing.T) {
	cart := entity.Cart{Bundles: []entity.BundleLine{{Name: "Combo", Price: dec("30000"), Quantity: 1}}}

	res := ResolveVoucher(cart, voucherAll(enum.DiscountKindPercentage, "10"))

	assert.False(t, res.Applicable)
	assert.Equal(t, ReasonNoMatchingItems, res.Reason)
}

func TestResolveVoucher_Inactive(t *testing.T) {
	v := voucherAll(enum.DiscountKindFixed, "1000")
	v.Active = false

	res := ResolveVoucher(entity.Cart{Lines: []entity.CartLine{line("8000", 1)}}, v)

	assert.False(t, res.Applicable)
	assert.Equal(t, ReasonInactive, res.Reason)
}

func TestInScope_EmptyTargetCoversEveryLine(t *testing.T) {
	l := line("8000", 1)

	category := &entity.Voucher{Scope: enum.VoucherScopeCategory}
	products := &entity.Voucher{Scope: enum.VoucherScopeProducts}
	assert.True(t, InScope(l, category))
	assert.True(t, InScope(l, products))

	category.Category = "Food"
	products.ProductIDs = entity.ProductIDList{uuid.New()}
	assert.False(t, InScope(l, category))
	assert.False(t, InScope(l, products))
}

func TestResolveVoucher_CategoryScopeWithoutCategory(t *testing.T) {
	v := &entity.Voucher{Code: "ALL5", Kind: enum.DiscountKindPercentage, Value: dec("5"), Scope: enum.VoucherScopeCategory, Active: true}

	res := ResolveVoucher(entity.Cart{Lines: []entity.CartLine{line("10000", 1), line("30000", 1)}}, v)

	assert.True(t, res.Applicable)
	assertAmount(t, "40000", res.ApplicableSubtotal)
	assertAmount(t, "2000", res.Discount)
}

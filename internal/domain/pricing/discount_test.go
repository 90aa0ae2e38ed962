package pricing

import (
	"testing"

	"github.com/sangkips/kasir-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
)

func TestApplyDiscount(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		discount entity.Discount
		want     string
	}{
		{"fixed below base", "10000", fixed("2000"), "2000"},
		{"fixed capped at base", "10000", fixed("15000"), "10000"},
		{"percentage", "10000", percent("15"), "1500"},
		{"percentage above 100 capped", "10000", percent("150"), "10000"},
		{"fractional percentage", "333", percent("10"), "33.3"},
		{"zero value", "10000", fixed("0"), "0"},
		{"negative value floors to zero", "10000", fixed("-500"), "0"},
		{"negative base floors to zero", "-100", percent("10"), "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertAmount(t, tt.want, ApplyDiscount(dec(tt.base), tt.discount))
		})
	}
}

func TestApplyDiscount_NeverExceedsBase(t *testing.T) {
	bases := []string{"0", "1", "999.99", "10000", "250000"}
	discounts := []entity.Discount{fixed("0"), fixed("1"), fixed("5000"), fixed("1000000"), percent("0"), percent("33.3"), percent("100"), percent("250")}

	for _, b := range bases {
		for _, d := range discounts {
			amount := ApplyDiscount(dec(b), d)
			assert.False(t, amount.IsNegative(), "base %s discount %+v", b, d)
			assert.True(t, amount.LessThanOrEqual(dec(b)), "base %s discount %+v gave %s", b, d, amount)
		}
	}
}

func TestPromotionalPrice(t *testing.T) {
	price, discount := PromotionalPrice(dec("20000"), nil)
	assertAmount(t, "20000", price)
	assertAmount(t, "0", discount)

	promo := percent("25")
	price, discount = PromotionalPrice(dec("20000"), &promo)
	assertAmount(t, "15000", price)
	assertAmount(t, "5000", discount)

	oversized := fixed("30000")
	price, discount = PromotionalPrice(dec("20000"), &oversized)
	assertAmount(t, "0", price)
	assertAmount(t, "20000", discount)
}

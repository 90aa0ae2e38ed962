package pricing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/kasir-api/internal/domain/entity"
	"github.com/sangkips/kasir-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertAmount(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s %v", want, got.String(), msgAndArgs)
}

func line(price string, quantity int) entity.CartLine {
	return entity.CartLine{
		ProductID:     uuid.New(),
		Name:          "Item",
		Category:      "Drinks",
		Quantity:      quantity,
		OriginalPrice: dec(price),
	}
}

func fixed(v string) entity.Discount {
	return entity.Discount{Kind: enum.DiscountKindFixed, Value: dec(v)}
}

func percent(v string) entity.Discount {
	return entity.Discount{Kind: enum.DiscountKindPercentage, Value: dec(v)}
}

func voucherAll(kind enum.DiscountKind, value string) *entity.Voucher {
	return &entity.Voucher{
		Code:   "HEMAT",
		Kind:   kind,
		Value:  dec(value),
		Scope:  enum.VoucherScopeAll,
		Active: true,
	}
}

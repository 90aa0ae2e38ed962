package currency

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatter_Number(t *testing.T) {
	f := Default()

	tests := []struct {
		in   string
		want string
	}{
		{"0", "0"},
		{"999", "999"},
		{"22000", "22.000"},
		{"1234567", "1.234.567"},
		{"1499.5", "1.500"},
		{"1499.4", "1.499"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Number(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestFormatter_SignsAndSymbol(t *testing.T) {
	f := Default()

	assert.Equal(t, "-5.000", f.Negative(decimal.NewFromInt(5000)))
	assert.Equal(t, "-5.000", f.Negative(decimal.NewFromInt(-5000)))
	assert.Equal(t, "+3.000", f.Signed(decimal.NewFromInt(3000)))
	assert.Equal(t, "-1.000", f.Signed(decimal.NewFromInt(-1000)))
	assert.Equal(t, "Rp 22.000", f.WithSymbol(decimal.NewFromInt(22000)))
}

func TestFormatter_EnglishLocale(t *testing.T) {
	f := NewFormatter("en", "$")
	assert.Equal(t, "$ 1,234", f.WithSymbol(decimal.NewFromInt(1234)))
}

func TestNewFormatter_BadLocaleFallsBack(t *testing.T) {
	f := NewFormatter("not a locale!!", "")
	assert.Equal(t, "10.000", f.WithSymbol(decimal.NewFromInt(10000)))
}

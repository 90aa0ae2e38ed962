// Package currency formats monetary amounts for receipts. Amounts are rounded
// to whole currency units here and nowhere else.
package currency

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter renders decimal amounts with locale-aware digit grouping.
type Formatter struct {
	printer *message.Printer
	symbol  string
}

// NewFormatter returns a Formatter for the given BCP 47 locale tag.
// An unparseable tag falls back to Indonesian.
func NewFormatter(locale, symbol string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Indonesian
	}
	return &Formatter{printer: message.NewPrinter(tag), symbol: symbol}
}

// Default is the Indonesian Rupiah formatter.
func Default() *Formatter {
	return NewFormatter("id", "Rp")
}

// Round rounds an amount to whole currency units, half away from zero.
func Round(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(0)
}

// Number formats an amount as a grouped whole number, e.g. 22000 -> "22.000".
func (f *Formatter) Number(amount decimal.Decimal) string {
	return f.printer.Sprintf("%d", Round(amount).IntPart())
}

// Negative formats an amount prefixed with a minus sign, used for discount lines.
func (f *Formatter) Negative(amount decimal.Decimal) string {
	return "-" + f.Number(amount.Abs())
}

// Signed formats an adjustment with an explicit sign, "+3.000" or "-1.000".
func (f *Formatter) Signed(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return f.Negative(amount)
	}
	return "+" + f.Number(amount)
}

// WithSymbol formats an amount prefixed with the currency symbol, "Rp 22.000".
func (f *Formatter) WithSymbol(amount decimal.Decimal) string {
	if f.symbol == "" {
		return f.Number(amount)
	}
	return f.symbol + " " + f.Number(amount)
}

// Symbol returns the configured currency symbol.
func (f *Formatter) Symbol() string {
	return f.symbol
}

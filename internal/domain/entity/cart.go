package entity

import (
	"github.com/google/uuid"
	"github.com/sangkips/kasir-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// Discount is a (kind, value) pair. A percentage value is expressed in
// percent (10 means 10%).
type Discount struct {
	Kind  enum.DiscountKind `json:"kind"`
	Value decimal.Decimal   `json:"value"`
}

// IsZero reports whether the discount has no effect
func (d Discount) IsZero() bool {
	return !d.Value.IsPositive()
}

// VariationAdjustment is a selected product option and its price delta.
// The delta may be negative.
type VariationAdjustment struct {
	Variation       string          `json:"variation"`
	Option          string          `json:"option"`
	PriceAdjustment decimal.Decimal `json:"price_adjustment"`
}

// CartLine is a single product line in the cart.
type CartLine struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Quantity  int       `json:"quantity"`

	// OriginalPrice is the catalog unit price before any promotion
	OriginalPrice decimal.Decimal `json:"original_price"`
	// ProductDiscount is the per-unit promotion already applied upstream
	ProductDiscount decimal.Decimal `json:"product_discount"`

	Variations   []VariationAdjustment `json:"variations,omitempty"`
	LineDiscount Discount              `json:"line_discount"`
}

// UnitPrice returns the unit price after the product-level promotion
func (l CartLine) UnitPrice() decimal.Decimal {
	return l.OriginalPrice.Sub(l.ProductDiscount)
}

// VariationTotal returns the per-unit sum of all selected variation deltas
func (l CartLine) VariationTotal() decimal.Decimal {
	total := decimal.Zero
	for _, v := range l.Variations {
		total = total.Add(v.PriceAdjustment)
	}
	return total
}

// BundleComponent is one product inside a bundle. It is kept for display and
// for computing the bundle's original price.
type BundleComponent struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// BundleLine is a composite line sold at one fixed price. It never receives
// product, line or voucher discounts.
type BundleLine struct {
	BundleID   uuid.UUID         `json:"bundle_id"`
	Name       string            `json:"name"`
	Price      decimal.Decimal   `json:"price"`
	Quantity   int               `json:"quantity"`
	Components []BundleComponent `json:"components"`
}

// OriginalPrice returns the price of one bundle if its components were bought separately
func (b BundleLine) OriginalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, c := range b.Components {
		total = total.Add(c.UnitPrice.Mul(decimal.NewFromInt(int64(c.Quantity))))
	}
	return total
}

// Saving returns the implied per-bundle saving, never negative
func (b BundleLine) Saving() decimal.Decimal {
	return decimal.Max(b.OriginalPrice().Sub(b.Price), decimal.Zero)
}

// GlobalDiscount is the cashier's manual transaction-wide discount. Both parts
// are additive.
type GlobalDiscount struct {
	Percent decimal.Decimal `json:"percent"`
	Fixed   decimal.Decimal `json:"fixed"`
}

// IsZero reports whether neither component is set
func (g GlobalDiscount) IsZero() bool {
	return g.Percent.IsZero() && g.Fixed.IsZero()
}

// Cart holds everything the pricing engine folds into Totals
type Cart struct {
	Lines   []CartLine   `json:"lines"`
	Bundles []BundleLine `json:"bundles,omitempty"`
}

// IsEmpty reports whether the cart has no lines at all
func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0 && len(c.Bundles) == 0
}

// ItemCount returns the number of units sold, bundles counted once each
func (c Cart) ItemCount() int {
	count := 0
	for _, l := range c.Lines {
		count += l.Quantity
	}
	for _, b := range c.Bundles {
		count += b.Quantity
	}
	return count
}

package request

import (
	"github.com/google/uuid"
	"github.com/sangkips/kasir-api/internal/domain/entity"
	"github.com/sangkips/kasir-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// DiscountRequest is a (kind, value) pair; value is in percent for "percentage"
type DiscountRequest struct {
	Kind  enum.DiscountKind `json:"kind"`
	Value decimal.Decimal   `json:"value"`
}

// VariationRequest is a selected product option
type VariationRequest struct {
	Variation       string          `json:"variation" binding:"required"`
	Option          string          `json:"option" binding:"required"`
	PriceAdjustment decimal.Decimal `json:"price_adjustment"`
}

// CartLineRequest is a product line
type CartLineRequest struct {
	ProductID       uuid.UUID          `json:"product_id"`
	Name            string             `json:"name" binding:"required,max=255"`
	Category        string             `json:"category" binding:"max=100"`
	Quantity        int                `json:"quantity" binding:"required,min=1"`
	OriginalPrice   decimal.Decimal    `json:"original_price"`
	ProductDiscount decimal.Decimal    `json:"product_discount"`
	Variations      []VariationRequest `json:"variations" binding:"dive"`
	LineDiscount    *DiscountRequest   `json:"line_discount"`
}

// BundleComponentRequest is one product inside a bundle
type BundleComponentRequest struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name" binding:"required"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity" binding:"required,min=1"`
}

// BundleLineRequest is a bundle sold at one fixed price
type BundleLineRequest struct {
	BundleID   uuid.UUID                `json:"bundle_id"`
	Name       string                   `json:"name" binding:"required,max=255"`
	Price      decimal.Decimal          `json:"price"`
	Quantity   int                      `json:"quantity" binding:"required,min=1"`
	Components []BundleComponentRequest `json:"components" binding:"dive"`
}

// CartRequest is the cart as sent by the register
type CartRequest struct {
	Lines   []CartLineRequest   `json:"lines" binding:"dive"`
	Bundles []BundleLineRequest `json:"bundles" binding:"dive"`
}

// GlobalDiscountRequest is the cashier's manual transaction discount
type GlobalDiscountRequest struct {
	Percent decimal.Decimal `json:"percent"`
	Fixed   decimal.Decimal `json:"fixed"`
}

// CheckoutTotalsRequest represents a totals calculation request
type CheckoutTotalsRequest struct {
	Cart           CartRequest           `json:"cart" binding:"required"`
	VoucherCode    string                `json:"voucher_code" binding:"omitempty,max=50"`
	GlobalDiscount GlobalDiscountRequest `json:"global_discount"`
	// TaxPercent overrides the store default when present
	TaxPercent *decimal.Decimal `json:"tax_percent"`
}

// ApplyVoucherRequest represents a voucher check against a cart
type ApplyVoucherRequest struct {
	Cart CartRequest `json:"cart" binding:"required"`
	Code string      `json:"code" binding:"required,max=50"`
}

// ToEntity converts the request cart into the domain cart
func (r CartRequest) ToEntity() entity.Cart {
	cart := entity.Cart{
		Lines: make([]entity.CartLine, 0, len(r.Lines)),
	}
	for _, l := range r.Lines {
		line := entity.CartLine{
			ProductID:       l.ProductID,
			Name:            l.Name,
			Category:        l.Category,
			Quantity:        l.Quantity,
			OriginalPrice:   l.OriginalPrice,
			ProductDiscount: l.ProductDiscount,
		}
		for _, v := range l.Variations {
			line.Variations = append(line.Variations, entity.VariationAdjustment{
				Variation:       v.Variation,
				Option:          v.Option,
				PriceAdjustment: v.PriceAdjustment,
			})
		}
		if l.LineDiscount != nil {
			line.LineDiscount = entity.Discount{Kind: l.LineDiscount.Kind, Value: l.LineDiscount.Value}
		}
		cart.Lines = append(cart.Lines, line)
	}
	for _, b := range r.Bundles {
		bundle := entity.BundleLine{
			BundleID: b.BundleID,
			Name:     b.Name,
			Price:    b.Price,
			Quantity: b.Quantity,
		}
		for _, c := range b.Components {
			bundle.Components = append(bundle.Components, entity.BundleComponent{
				ProductID: c.ProductID,
				Name:      c.Name,
				UnitPrice: c.UnitPrice,
				Quantity:  c.Quantity,
			})
		}
		cart.Bundles = append(cart.Bundles, bundle)
	}
	return cart
}

// ToEntity converts the manual discount
func (r GlobalDiscountRequest) ToEntity() entity.GlobalDiscount {
	return entity.GlobalDiscount{Percent: r.Percent, Fixed: r.Fixed}
}

package request

import "github.com/shopspring/decimal"

// UpdateStoreSettingsRequest represents a store settings update
type UpdateStoreSettingsRequest struct {
	Name              string          `json:"name" binding:"required,min=1,max=255"`
	Address           string          `json:"address" binding:"max=255"`
	Phone             string          `json:"phone" binding:"max=50"`
	BonPrefix         string          `json:"bon_prefix" binding:"max=20"`
	DefaultTaxPercent decimal.Decimal `json:"default_tax_percent"`
	ReceiptFooter     string          `json:"receipt_footer" binding:"max=255"`
	LogoURL           string          `json:"logo_url" binding:"omitempty,url,max=255"`
	ReceiptTemplate   string          `json:"receipt_template" binding:"omitempty,oneof=thermal simple modern"`
}

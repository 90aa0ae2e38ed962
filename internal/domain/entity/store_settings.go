package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/kasir-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StoreSettings holds the store identity printed on receipts
type StoreSettings struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name              string               `gorm:"size:255;not null" json:"name"`
	Address           string               `gorm:"size:255" json:"address"`
	Phone             string               `gorm:"size:50" json:"phone"`
	BonPrefix         string               `gorm:"size:20" json:"bon_prefix"`
	DefaultTaxPercent decimal.Decimal      `gorm:"type:numeric(5,2);not null" json:"default_tax_percent"`
	ReceiptFooter     string               `gorm:"size:255" json:"receipt_footer,omitempty"`
	LogoURL           string               `gorm:"size:255" json:"logo_url,omitempty"`
	ReceiptTemplate   enum.ReceiptTemplate `gorm:"default:0" json:"receipt_template"`
}

// BeforeCreate generates a UUID before creating store settings
func (s *StoreSettings) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the StoreSettings model
func (StoreSettings) TableName() string {
	return "store_settings"
}

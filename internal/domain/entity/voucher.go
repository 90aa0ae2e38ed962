package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/kasir-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductIDList is a set of product references stored as a JSON array
type ProductIDList []uuid.UUID

// Contains reports whether id is in the list
func (l ProductIDList) Contains(id uuid.UUID) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

func (l ProductIDList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]uuid.UUID(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *ProductIDList) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("cannot scan %T into ProductIDList", value)
	}
	if len(raw) == 0 {
		*l = nil
		return nil
	}
	var ids []uuid.UUID
	if err := json.Unmarshal(raw, &ids); err != nil {
		return err
	}
	*l = ids
	return nil
}

// Voucher is a discount code managed by the back office and consumed
// read-only by the pricing engine.
type Voucher struct {
	ID         uuid.UUID           `gorm:"type:uuid;primary_key" json:"id"`
	Code       string              `gorm:"size:50;uniqueIndex;not null" json:"code"`
	Kind       enum.DiscountKind   `gorm:"default:0" json:"kind"`
	Value      decimal.Decimal     `gorm:"type:numeric(15,2);not null" json:"value"`
	MinSpend   decimal.NullDecimal `gorm:"type:numeric(15,2)" json:"min_spend"`
	Scope      enum.VoucherScope   `gorm:"default:0" json:"scope"`
	Category   string              `gorm:"size:100" json:"category,omitempty"`
	ProductIDs ProductIDList       `gorm:"type:text" json:"product_ids,omitempty"`
	Active     bool                `gorm:"not null" json:"active"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
	DeletedAt  gorm.DeletedAt      `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID and normalizes the code before creating a voucher
func (v *Voucher) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	v.Code = NormalizeVoucherCode(v.Code)
	return nil
}

// TableName returns the table name for the Voucher model
func (Voucher) TableName() string {
	return "vouchers"
}

// Discount returns the voucher's (kind, value) pair
func (v *Voucher) Discount() Discount {
	return Discount{Kind: v.Kind, Value: v.Value}
}

// NormalizeVoucherCode upper-cases and trims a code for comparison
func NormalizeVoucherCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

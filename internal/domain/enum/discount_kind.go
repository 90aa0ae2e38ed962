package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// DiscountKind says how a discount value is interpreted
type DiscountKind int

const (
	DiscountKindFixed      DiscountKind = 0
	DiscountKindPercentage DiscountKind = 1
)

func (k DiscountKind) String() string {
	names := [...]string{"fixed", "percentage"}
	if int(k) < 0 || int(k) >= len(names) {
		return "fixed"
	}
	return names[k]
}

// IsValid reports whether k is one of the declared kinds
func (k DiscountKind) IsValid() bool {
	return k == DiscountKindFixed || k == DiscountKindPercentage
}

func (k DiscountKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *DiscountKind) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*k = DiscountKind(i)
		return nil
	}
	switch str {
	case "fixed", "":
		*k = DiscountKindFixed
	case "percentage":
		*k = DiscountKindPercentage
	default:
		return fmt.Errorf("unknown discount kind %q", str)
	}
	return nil
}

func (k DiscountKind) Value() (driver.Value, error) {
	return int64(k), nil
}

func (k *DiscountKind) Scan(value interface{}) error {
	if value == nil {
		*k = DiscountKindFixed
		return nil
	}
	switch v := value.(type) {
	case int64:
		*k = DiscountKind(v)
	case int:
		*k = DiscountKind(v)
	}
	return nil
}

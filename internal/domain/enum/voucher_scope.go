package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// VoucherScope limits which cart lines a voucher may discount
type VoucherScope int

const (
	VoucherScopeAll      VoucherScope = 0
	VoucherScopeCategory VoucherScope = 1
	VoucherScopeProducts VoucherScope = 2
)

func (s VoucherScope) String() string {
	names := [...]string{"all", "category", "products"}
	if int(s) < 0 || int(s) >= len(names) {
		return "all"
	}
	return names[s]
}

func (s VoucherScope) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *VoucherScope) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = VoucherScope(i)
		return nil
	}
	switch str {
	case "all", "":
		*s = VoucherScopeAll
	case "category":
		*s = VoucherScopeCategory
	case "products":
		*s = VoucherScopeProducts
	default:
		return fmt.Errorf("unknown voucher scope %q", str)
	}
	return nil
}

func (s VoucherScope) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *VoucherScope) Scan(value interface{}) error {
	if value == nil {
		*s = VoucherScopeAll
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = VoucherScope(v)
	case int:
		*s = VoucherScope(v)
	}
	return nil
}

package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// ReceiptTemplate selects the receipt layout
type ReceiptTemplate int

const (
	// ReceiptTemplateThermal is the compact 32-column layout sent to the printer
	ReceiptTemplateThermal ReceiptTemplate = 0
	// ReceiptTemplateModern is the richer layout used for on-screen preview and export
	ReceiptTemplateModern ReceiptTemplate = 1
)

func (t ReceiptTemplate) String() string {
	names := [...]string{"thermal", "modern"}
	if int(t) < 0 || int(t) >= len(names) {
		return "thermal"
	}
	return names[t]
}

// ParseReceiptTemplate maps a template name to its value. "simple" is
// accepted as an alias of "thermal".
func ParseReceiptTemplate(s string) (ReceiptTemplate, error) {
	switch s {
	case "thermal", "simple", "":
		return ReceiptTemplateThermal, nil
	case "modern":
		return ReceiptTemplateModern, nil
	}
	return ReceiptTemplateThermal, fmt.Errorf("unknown receipt template %q", s)
}

func (t ReceiptTemplate) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *ReceiptTemplate) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = ReceiptTemplate(i)
		return nil
	}
	parsed, err := ParseReceiptTemplate(str)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t ReceiptTemplate) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *ReceiptTemplate) Scan(value interface{}) error {
	if value == nil {
		*t = ReceiptTemplateThermal
		return nil
	}
	switch v := value.(type) {
	case int64:
		*t = ReceiptTemplate(v)
	case int:
		*t = ReceiptTemplate(v)
	}
	return nil
}

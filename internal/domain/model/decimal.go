//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Decimal is a monetary value the backend sends either as a JSON string or
// as a bare number. It keeps the textual form and is never parsed into a float.
type Decimal string

// UnmarshalJSON accepts "12.50", 12.5 and null.
func (d *Decimal) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case bytes.Equal(trimmed, []byte("null")):
		*d = ""
	case len(trimmed) > 0 && trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*d = Decimal(s)
	default:
		var n json.Number
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return fmt.Errorf("decimal: %w", err)
		}
		*d = Decimal(n.String())
	}
	return nil
}

// String returns the textual value, "0" when empty.
func (d Decimal) String() string {
	if d == "" {
		return "0"
	}
	return string(d)
}

package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Metadata carries small string annotations on a persisted row, stored as a
// JSONB column. The reminder ledger uses it to keep send details (subject,
// provider message id) next to the dedup key.
type Metadata map[string]string

// Scan implements sql.Scanner for reading the JSONB column.
func (m *Metadata) Scan(value interface{}) error {
	if value == nil {
		*m = Metadata{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported metadata column type %T", value)
	}

	out := Metadata{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return err
	}
	*m = out
	return nil
}

// Value implements driver.Valuer for writing the JSONB column.
func (m Metadata) Value() (driver.Value, error) {
	if len(m) == 0 {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

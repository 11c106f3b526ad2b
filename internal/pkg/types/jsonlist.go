package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONStrings stores an ordered string collection in a single JSON column.
// All three supported databases (MySQL, PostgreSQL, SQLite) round-trip it as
// text. A NULL column scans to an empty, non-nil slice.
type JSONStrings []string

// Value implements driver.Valuer.
func (s JSONStrings) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	raw, err := json.Marshal([]string(s))
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// Scan implements sql.Scanner.
func (s *JSONStrings) Scan(src interface{}) error {
	if src == nil {
		*s = JSONStrings{}
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for JSONStrings", src)
	}
	if len(raw) == 0 {
		*s = JSONStrings{}
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("decode JSONStrings column: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	*s = out
	return nil
}

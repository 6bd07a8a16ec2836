package repository

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// stringList is the JSONB encoding of tags and keywords. It is the only place
// the raw encoded form exists; repositories hand plain []string to callers.
type stringList []string

// Scan implements sql.Scanner.
func (l *stringList) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = stringList{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into string list", src)
	}

	var items []string
	if err := json.Unmarshal(raw, &items); err != nil {
		return fmt.Errorf("failed to decode string list: %w", err)
	}
	if items == nil {
		items = []string{}
	}
	*l = items
	return nil
}

// Value implements driver.Valuer. A nil list is stored as [].
func (l stringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, fmt.Errorf("failed to encode string list: %w", err)
	}
	return string(b), nil
}

// Strings returns the list as a non-nil []string.
func (l stringList) Strings() []string {
	if l == nil {
		return []string{}
	}
	return []string(l)
}

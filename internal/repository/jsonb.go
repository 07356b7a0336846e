package repository

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// jsonbStrings is the single codec for the string-array JSONB columns
// (amenities, event_images, registration_documents). A nil slice maps to a
// NULL column and back.
type jsonbStrings []string

func (j jsonbStrings) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal([]string(j))
}

func (j *jsonbStrings) Scan(src any) error {
	if src == nil {
		*j = nil
		return nil
	}

	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", src)
	}

	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("failed to decode jsonb string array: %w", err)
	}
	*j = out
	return nil
}

package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// Attributes is an optional string-keyed, string-valued extension map
// stored as jsonb. It carries forward-compatible extra fields on records
// that accept them (doctors, patients, leaves) without resorting to an
// open-ended dynamic shape.
type Attributes map[string]string

// Value implements driver.Valuer.
func (a Attributes) Value() (driver.Value, error) {
	if len(a) == 0 {
		return nil, nil
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner.
func (a *Attributes) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New(fmt.Sprint("Failed to unmarshal jsonb value:", value))
	}

	result := map[string]string{}
	err := json.Unmarshal(bytes, &result)
	*a = Attributes(result)
	return err
}

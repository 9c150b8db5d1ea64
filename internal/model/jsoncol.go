package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"log"
)

// StringList is stored as a JSON array in a text column.
type StringList []string

func (l *StringList) Scan(value interface{}) error {
	var out []string
	if err := scanJSON(value, &out); err != nil {
		return err
	}
	if out == nil {
		out = []string{}
	}
	*l = out
	return nil
}

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return marshalJSON([]string(l))
}

// SaleItems is the line-item snapshot list of a sale, stored as JSON text.
type SaleItems []SaleItem

func (s *SaleItems) Scan(value interface{}) error {
	var out []SaleItem
	if err := scanJSON(value, &out); err != nil {
		return err
	}
	if out == nil {
		out = []SaleItem{}
	}
	*s = out
	return nil
}

func (s SaleItems) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	return marshalJSON([]SaleItem(s))
}

// JSONMap holds kind-specific audit details.
type JSONMap map[string]interface{}

func (m *JSONMap) Scan(value interface{}) error {
	out := map[string]interface{}{}
	if err := scanJSON(value, &out); err != nil {
		return err
	}
	if out == nil {
		out = map[string]interface{}{}
	}
	*m = out
	return nil
}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	return marshalJSON(map[string]interface{}(m))
}

// scanJSON decodes a text/blob column. Undecodable content leaves dst untouched
// and is logged, so one corrupt row does not fail a whole listing.
func scanJSON(value interface{}, dst interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported JSON column type %T", value)
	}
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		log.Printf("[model] ignoring undecodable JSON column value: %v", err)
	}
	return nil
}

func marshalJSON(v interface{}) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

package data

import (
	"encoding/json"
)

// Row represents a single table row
// Key = column name, Value = cell value
type Row struct {
	Data map[string]interface{}
}

// NewRow creates a new Row with the given data
func NewRow(data map[string]interface{}) Row {
	if data == nil {
		data = make(map[string]interface{})
	}
	return Row{Data: data}
}

// Get returns the value stored for a column
func (r Row) Get(column string) (interface{}, bool) {
	v, ok := r.Data[column]
	return v, ok
}

// Float returns a numeric cell as float64.
// INT cells (int64 / int) are widened.
func (r Row) Float(column string) (float64, bool) {
	return ToFloat(r.Data[column])
}

// String returns a text cell.
func (r Row) String(column string) (string, bool) {
	s, ok := r.Data[column].(string)
	return s, ok
}

// Copy creates a copy of the row to prevent mutation
func (r Row) Copy() Row {
	copy := make(map[string]interface{}, len(r.Data))
	for k, v := range r.Data {
		copy[k] = v
	}
	return Row{Data: copy}
}

// UnmarshalJSON implements json.Unmarshaler interface
// This allows Row to be unmarshaled from JSON as a map
func (r *Row) UnmarshalJSON(data []byte) error {
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	r.Data = m
	return nil
}

// MarshalJSON implements json.Marshaler interface
// This allows Row to be marshaled to JSON as a map
func (r Row) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Data)
}

// ToFloat converts the numeric cell representations to float64
func ToFloat(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case float64:
		return val, true
	}
	return 0, false
}

// ToInt64 converts various numeric types to int64
// Returns the int64 value and true if successful, 0 and false otherwise
func ToInt64(v interface{}) (int64, bool) {
	switch val := v.(type) {
	case float64:
		if val == float64(int64(val)) {
			return int64(val), true
		}
	case int64:
		return val, true
	case int:
		return int64(val), true
	}
	return 0, false
}

package schema

import (
	"fmt"
	"strings"
)

type ColumnType string

const (
	ColumnTypeInt   ColumnType = "INT"
	ColumnTypeFloat ColumnType = "FLOAT"
	ColumnTypeText  ColumnType = "TEXT"
	ColumnTypeEnum  ColumnType = "ENUM"
)

// ParseColumnType accepts the type names used in schema files, case-insensitively
func ParseColumnType(s string) (ColumnType, error) {
	switch ColumnType(strings.ToUpper(strings.TrimSpace(s))) {
	case ColumnTypeInt:
		return ColumnTypeInt, nil
	case ColumnTypeFloat:
		return ColumnTypeFloat, nil
	case ColumnTypeText:
		return ColumnTypeText, nil
	case ColumnTypeEnum:
		return ColumnTypeEnum, nil
	}
	return "", fmt.Errorf("unknown column type %q", s)
}

// IsNumeric reports whether values of this type are filtered by range
func (t ColumnType) IsNumeric() bool {
	return t == ColumnTypeInt || t == ColumnTypeFloat
}

// Column describes one column of a table.
//
// Values is the declared order of an ENUM column; it is both the allowed set and
// the sort order. Min and Max are optional inclusive bounds for numeric columns,
// MinExclusive turns the lower bound into a strict one (bmi > 0).
type Column struct {
	Name         string     `json:"name"`
	Label        string     `json:"label,omitempty"`
	Type         ColumnType `json:"type"`
	Values       []string   `json:"values,omitempty"`
	Min          *float64   `json:"min,omitempty"`
	Max          *float64   `json:"max,omitempty"`
	MinExclusive bool       `json:"min_exclusive,omitempty"`
}

// IsCategorical reports whether the column is filtered by value set
func (c Column) IsCategorical() bool {
	return !c.Type.IsNumeric()
}

// DisplayName returns the label, falling back to the column name
func (c Column) DisplayName() string {
	if c.Label != "" {
		return c.Label
	}
	return c.Name
}

// EnumIndex returns the declared position of v, or -1 if v is not declared
func (c Column) EnumIndex(v string) int {
	for i, allowed := range c.Values {
		if allowed == v {
			return i
		}
	}
	return -1
}

func (c Column) validate() error {
	if c.Name == "" {
		return fmt.Errorf("column name is empty")
	}
	if _, err := ParseColumnType(string(c.Type)); err != nil {
		return fmt.Errorf("column %s: %w", c.Name, err)
	}
	if c.Type == ColumnTypeEnum && len(c.Values) == 0 {
		return fmt.Errorf("column %s: ENUM requires at least one value", c.Name)
	}
	if c.Type != ColumnTypeEnum && len(c.Values) > 0 {
		return fmt.Errorf("column %s: values are only allowed on ENUM columns", c.Name)
	}
	seen := make(map[string]bool, len(c.Values))
	for _, v := range c.Values {
		if seen[v] {
			return fmt.Errorf("column %s: duplicate enum value %q", c.Name, v)
		}
		seen[v] = true
	}
	if (c.Min != nil || c.Max != nil) && !c.Type.IsNumeric() {
		return fmt.Errorf("column %s: bounds are only allowed on numeric columns", c.Name)
	}
	if c.Min != nil && c.Max != nil && *c.Min > *c.Max {
		return fmt.Errorf("column %s: min %v greater than max %v", c.Name, *c.Min, *c.Max)
	}
	return nil
}

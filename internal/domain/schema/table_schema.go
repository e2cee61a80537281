package schema

import "fmt"

// TableSchema represents table metadata (from a schema file)
type TableSchema struct {
	TableName string
	Columns   []Column
}

// GetColumn returns the column definition by name
func (s *TableSchema) GetColumn(name string) (*Column, bool) {
	for i := range s.Columns {
		if s.Columns[i].Name == name {
			return &s.Columns[i], true
		}
	}
	return nil, false
}

// ColumnNames returns column names in declaration order
func (s *TableSchema) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// Validate checks the schema definition itself, not any data
func (s *TableSchema) Validate() error {
	if s.TableName == "" {
		return fmt.Errorf("schema has no table name")
	}
	if len(s.Columns) == 0 {
		return fmt.Errorf("table %s has no columns", s.TableName)
	}
	seen := make(map[string]bool, len(s.Columns))
	for _, c := range s.Columns {
		if err := c.validate(); err != nil {
			return fmt.Errorf("table %s: %w", s.TableName, err)
		}
		if seen[c.Name] {
			return fmt.Errorf("table %s: duplicate column %s", s.TableName, c.Name)
		}
		seen[c.Name] = true
	}
	return nil
}

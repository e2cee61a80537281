package schema

import (
	"fmt"
	"math"

	"github.com/leengari/viewdash/internal/domain/data"
	"github.com/leengari/viewdash/internal/domain/errors"
)

// Table is an immutable, schema-tagged collection of rows.
// It is built once per session and only read afterwards, so it carries no lock.
type Table struct {
	Name   string
	Path   string // source the rows were loaded from
	Schema *TableSchema
	rows   []data.Row
}

// NewTable validates every row against the schema and returns the table.
// Rows are copied so later changes to the caller's maps cannot leak in;
// INT cells are normalized to int64 and FLOAT cells to float64.
func NewTable(name, path string, s *TableSchema, rows []data.Row) (*Table, error) {
	if s == nil {
		return nil, fmt.Errorf("table %s: schema is nil", name)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	t := &Table{
		Name:   name,
		Path:   path,
		Schema: s,
		rows:   make([]data.Row, 0, len(rows)),
	}

	for i, r := range rows {
		row := r.Copy()
		if err := t.ValidateRow(row, i); err != nil {
			return nil, err
		}
		for _, col := range s.Columns {
			switch col.Type {
			case ColumnTypeInt:
				n, _ := data.ToInt64(row.Data[col.Name])
				row.Data[col.Name] = n
			case ColumnTypeFloat:
				f, _ := data.ToFloat(row.Data[col.Name])
				row.Data[col.Name] = f
			}
		}
		t.rows = append(t.rows, row)
	}

	return t, nil
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.rows)
}

// Row returns the row at position i. Callers must not mutate it.
func (t *Table) Row(i int) data.Row {
	return t.rows[i]
}

// Rows returns the rows in load order. The slice is a copy; the row maps are shared
// and must not be mutated.
func (t *Table) Rows() []data.Row {
	rows := make([]data.Row, len(t.rows))
	copy(rows, t.rows)
	return rows
}

// ValidateRow validates a row against the table schema
func (t *Table) ValidateRow(row data.Row, rowIndex int) error {
	for key := range row.Data {
		if _, ok := t.Schema.GetColumn(key); !ok {
			return &errors.ConstraintError{
				Table:      t.Name,
				Column:     key,
				Constraint: "unknown_column",
				Reason:     "column is not declared in the schema",
				RowIndex:   rowIndex,
			}
		}
	}

	for _, col := range t.Schema.Columns {
		value, exists := row.Data[col.Name]
		if !exists || value == nil {
			return errors.NewNotNullViolation(t.Name, col.Name, rowIndex)
		}
		if err := t.validateValue(col, value, rowIndex); err != nil {
			return err
		}
	}
	return nil
}

// validateValue validates that a value matches the column type, declaration and bounds
func (t *Table) validateValue(col Column, value interface{}, rowIndex int) error {
	switch col.Type {
	case ColumnTypeInt:
		if _, ok := value.(int64); !ok {
			if _, ok := value.(int); !ok {
				return errors.NewTypeMismatch(t.Name, col.Name, value, string(col.Type), rowIndex)
			}
		}
	case ColumnTypeFloat:
		f, ok := data.ToFloat(value)
		if !ok {
			return errors.NewTypeMismatch(t.Name, col.Name, value, string(col.Type), rowIndex)
		}
		// NaN slips past every bound check and has no place in the sort order
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return errors.NewBoundViolation(t.Name, col.Name, value, "finite", "must be a finite number", rowIndex)
		}
	case ColumnTypeText:
		if _, ok := value.(string); !ok {
			return errors.NewTypeMismatch(t.Name, col.Name, value, string(col.Type), rowIndex)
		}
	case ColumnTypeEnum:
		s, ok := value.(string)
		if !ok {
			return errors.NewTypeMismatch(t.Name, col.Name, value, string(col.Type), rowIndex)
		}
		if col.EnumIndex(s) < 0 {
			return errors.NewEnumViolation(t.Name, col.Name, s, col.Values, rowIndex)
		}
		return nil
	}

	if !col.Type.IsNumeric() {
		return nil
	}

	n, _ := data.ToFloat(value)
	if col.Min != nil {
		if col.MinExclusive && n <= *col.Min {
			return errors.NewBoundViolation(t.Name, col.Name, value, "min", fmt.Sprintf("must be greater than %v", *col.Min), rowIndex)
		}
		if !col.MinExclusive && n < *col.Min {
			return errors.NewBoundViolation(t.Name, col.Name, value, "min", fmt.Sprintf("must be at least %v", *col.Min), rowIndex)
		}
	}
	if col.Max != nil && n > *col.Max {
		return errors.NewBoundViolation(t.Name, col.Name, value, "max", fmt.Sprintf("must be at most %v", *col.Max), rowIndex)
	}
	return nil
}

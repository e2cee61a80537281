package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels for errors.Is checks at call sites.
var (
	ErrDataLoad          = errors.New("data load failed")
	ErrInvalidSortColumn = errors.New("invalid sort column")
	ErrInvalidPageSize   = errors.New("invalid page size")
	ErrInvalidFilter     = errors.New("invalid filter")
	ErrColumnNotFound    = errors.New("column not found")
	ErrConstraint        = errors.New("constraint violation")
)

// DataLoadError is returned when the data source cannot be read or a row is malformed.
// It is fatal to the session: no partial table is ever returned alongside it.
type DataLoadError struct {
	Source string // file path or handle description
	Line   int    // 1-based line in the source (0 if not line specific)
	Column string // offending column (empty if not column specific)
	Reason string
	Err    error
}

func (e *DataLoadError) Error() string {
	parts := []string{fmt.Sprintf("failed to load %s", e.Source)}

	if e.Line > 0 {
		parts = append(parts, fmt.Sprintf("line %d", e.Line))
	}
	if e.Column != "" {
		parts = append(parts, fmt.Sprintf("column %s", e.Column))
	}
	if e.Reason != "" {
		parts = append(parts, e.Reason)
	}
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}

	return strings.Join(parts, ": ")
}

func (e *DataLoadError) Unwrap() error { return e.Err }

func (e *DataLoadError) Is(target error) bool { return target == ErrDataLoad }

// InvalidSortColumnError is returned when a sort column is not part of the schema
type InvalidSortColumnError struct {
	TableName  string
	ColumnName string
}

func (e *InvalidSortColumnError) Error() string {
	return fmt.Sprintf("invalid sort column %q for table %q", e.ColumnName, e.TableName)
}

func (e *InvalidSortColumnError) Is(target error) bool { return target == ErrInvalidSortColumn }

// InvalidPageSizeError is returned when a page size is outside the configured set
type InvalidPageSizeError struct {
	Size    int
	Allowed []int
}

func (e *InvalidPageSizeError) Error() string {
	return fmt.Sprintf("invalid page size %d (allowed: %v)", e.Size, e.Allowed)
}

func (e *InvalidPageSizeError) Is(target error) bool { return target == ErrInvalidPageSize }

// InvalidFilterError is returned for a filter constraint the schema cannot satisfy
type InvalidFilterError struct {
	Column string
	Reason string
}

func (e *InvalidFilterError) Error() string {
	return fmt.Sprintf("invalid filter on column %q: %s", e.Column, e.Reason)
}

func (e *InvalidFilterError) Is(target error) bool { return target == ErrInvalidFilter }

// ColumnNotFoundError is returned when a referenced column is not in the schema
type ColumnNotFoundError struct {
	TableName  string
	ColumnName string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column %q not found in table %q", e.ColumnName, e.TableName)
}

func (e *ColumnNotFoundError) Is(target error) bool { return target == ErrColumnNotFound }

// ConstraintError represents a row value that violates its column definition
// (type mismatch, undeclared enum value, bound violation, missing value).
type ConstraintError struct {
	Table      string      // table name
	Column     string      // column name
	Value      interface{} // offending value (may be nil)
	Constraint string      // "not_null", "type_mismatch", "enum", "min", "max"
	Reason     string      // human-readable explanation (optional)
	RowIndex   int         // row number (0-based) where violation occurred (-1 if unknown)
}

func (e *ConstraintError) Error() string {
	var parts []string

	parts = append(parts, fmt.Sprintf("constraint violation in %s.%s", e.Table, e.Column))

	if e.Constraint != "" {
		parts = append(parts, fmt.Sprintf("(%s)", e.Constraint))
	}

	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}

	if e.Reason != "" {
		parts = append(parts, e.Reason)
	}

	if e.RowIndex >= 0 {
		parts = append(parts, fmt.Sprintf("at row %d", e.RowIndex))
	}

	return strings.Join(parts, " - ")
}

func (e *ConstraintError) Is(target error) bool { return target == ErrConstraint }

func NewNotNullViolation(table, column string, rowIndex int) *ConstraintError {
	return &ConstraintError{
		Table:      table,
		Column:     column,
		Constraint: "not_null",
		Reason:     "missing required value",
		RowIndex:   rowIndex,
	}
}

func NewTypeMismatch(table, column string, value interface{}, expectedType string, rowIndex int) *ConstraintError {
	return &ConstraintError{
		Table:      table,
		Column:     column,
		Value:      value,
		Constraint: "type_mismatch",
		Reason:     fmt.Sprintf("expected type %s", expectedType),
		RowIndex:   rowIndex,
	}
}

func NewEnumViolation(table, column string, value interface{}, allowed []string, rowIndex int) *ConstraintError {
	return &ConstraintError{
		Table:      table,
		Column:     column,
		Value:      value,
		Constraint: "enum",
		Reason:     fmt.Sprintf("expected one of %v", allowed),
		RowIndex:   rowIndex,
	}
}

func NewBoundViolation(table, column string, value interface{}, bound string, reason string, rowIndex int) *ConstraintError {
	return &ConstraintError{
		Table:      table,
		Column:     column,
		Value:      value,
		Constraint: bound,
		Reason:     reason,
		RowIndex:   rowIndex,
	}
}

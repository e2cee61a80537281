package filter

import (
	"math"
	"sort"

	"github.com/leengari/viewdash/internal/domain/data"
	"github.com/leengari/viewdash/internal/domain/errors"
	"github.com/leengari/viewdash/internal/domain/schema"
)

// PredicateFunc is a function that tests whether a row matches certain criteria
type PredicateFunc func(data.Row) bool

// Range is a closed numeric interval [Min, Max]
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies inside the range, both ends inclusive
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Spec holds per-column inclusion constraints.
// Columns are AND-combined; values within a set are OR-combined.
// A column absent from both maps is unrestricted. A present but empty set admits nothing.
//
// Spec is used as a value: the With* helpers return a modified copy and never touch
// the receiver's maps.
type Spec struct {
	Ranges map[string]Range    `json:"ranges,omitempty"`
	Sets   map[string][]string `json:"sets,omitempty"`
}

// Clone returns a deep copy of the spec
func (s Spec) Clone() Spec {
	out := Spec{
		Ranges: make(map[string]Range, len(s.Ranges)),
		Sets:   make(map[string][]string, len(s.Sets)),
	}
	for col, r := range s.Ranges {
		out.Ranges[col] = r
	}
	for col, values := range s.Sets {
		out.Sets[col] = append([]string{}, values...)
	}
	return out
}

// WithRange returns a copy constraining column to [min, max]
func (s Spec) WithRange(column string, min, max float64) Spec {
	out := s.Clone()
	delete(out.Sets, column)
	out.Ranges[column] = Range{Min: min, Max: max}
	return out
}

// WithValues returns a copy constraining column to the given values
func (s Spec) WithValues(column string, values ...string) Spec {
	out := s.Clone()
	delete(out.Ranges, column)
	out.Sets[column] = append([]string{}, values...)
	return out
}

// Without returns a copy with any constraint on column removed
func (s Spec) Without(column string) Spec {
	out := s.Clone()
	delete(out.Ranges, column)
	delete(out.Sets, column)
	return out
}

// IsEmpty returns true if no column is constrained
func (s Spec) IsEmpty() bool {
	return len(s.Ranges) == 0 && len(s.Sets) == 0
}

// Columns returns the constrained column names, sorted
func (s Spec) Columns() []string {
	cols := make([]string, 0, len(s.Ranges)+len(s.Sets))
	for col := range s.Ranges {
		cols = append(cols, col)
	}
	for col := range s.Sets {
		if _, dup := s.Ranges[col]; !dup {
			cols = append(cols, col)
		}
	}
	sort.Strings(cols)
	return cols
}

// Validate checks every constraint against the schema.
// Columns are checked in sorted order so the reported error is deterministic.
func (s Spec) Validate(ts *schema.TableSchema) error {
	for _, name := range s.Columns() {
		col, ok := ts.GetColumn(name)
		if !ok {
			return &errors.InvalidFilterError{Column: name, Reason: "column not in schema"}
		}

		r, hasRange := s.Ranges[name]
		_, hasSet := s.Sets[name]

		if hasRange && hasSet {
			return &errors.InvalidFilterError{Column: name, Reason: "both a range and a value set are given"}
		}
		if hasRange {
			if !col.Type.IsNumeric() {
				return &errors.InvalidFilterError{Column: name, Reason: "range filter on categorical column"}
			}
			if math.IsNaN(r.Min) || math.IsNaN(r.Max) {
				return &errors.InvalidFilterError{Column: name, Reason: "range bound is NaN"}
			}
			if r.Min > r.Max {
				return &errors.InvalidFilterError{Column: name, Reason: "range min greater than max"}
			}
		}
		if hasSet && !col.IsCategorical() {
			return &errors.InvalidFilterError{Column: name, Reason: "value set filter on numeric column"}
		}
	}
	return nil
}

// Predicate validates the spec and compiles it into a single row test.
// Lookup sets are built once here, not per row.
func (s Spec) Predicate(ts *schema.TableSchema) (PredicateFunc, error) {
	if err := s.Validate(ts); err != nil {
		return nil, err
	}
	if s.IsEmpty() {
		return func(data.Row) bool { return true }, nil
	}

	checks := make([]PredicateFunc, 0, len(s.Ranges)+len(s.Sets))

	for _, name := range s.Columns() {
		column := name
		if r, ok := s.Ranges[column]; ok {
			checks = append(checks, func(row data.Row) bool {
				v, ok := row.Float(column)
				return ok && r.Contains(v)
			})
			continue
		}

		allowed := make(map[string]bool, len(s.Sets[column]))
		for _, v := range s.Sets[column] {
			allowed[v] = true
		}
		checks = append(checks, func(row data.Row) bool {
			v, ok := row.String(column)
			return ok && allowed[v]
		})
	}

	return func(row data.Row) bool {
		for _, check := range checks {
			if !check(row) {
				return false
			}
		}
		return true
	}, nil
}

// Apply returns the rows of t that satisfy the spec, in table order
func Apply(t *schema.Table, s Spec) ([]data.Row, error) {
	pred, err := s.Predicate(t.Schema)
	if err != nil {
		return nil, err
	}

	n := t.Len()
	result := make([]data.Row, 0, n)
	for i := 0; i < n; i++ {
		row := t.Row(i)
		if pred(row) {
			result = append(result, row)
		}
	}
	return result, nil
}

// Defaults returns the spec that an untouched filter panel represents:
// every numeric column spans [min, max] of the table, every categorical column
// allows all of its values. Applying it keeps every row.
func Defaults(t *schema.Table) Spec {
	spec := Spec{
		Ranges: make(map[string]Range),
		Sets:   make(map[string][]string),
	}

	for _, col := range t.Schema.Columns {
		switch {
		case col.Type.IsNumeric():
			if r, ok := columnRange(t, col.Name); ok {
				spec.Ranges[col.Name] = r
			}
		case col.Type == schema.ColumnTypeEnum:
			spec.Sets[col.Name] = append([]string{}, col.Values...)
		default:
			spec.Sets[col.Name] = distinctValues(t, col.Name)
		}
	}
	return spec
}

func columnRange(t *schema.Table, column string) (Range, bool) {
	if t.Len() == 0 {
		return Range{}, false
	}
	r := Range{Min: math.Inf(1), Max: math.Inf(-1)}
	for i := 0; i < t.Len(); i++ {
		v, ok := t.Row(i).Float(column)
		if !ok {
			continue
		}
		r.Min = math.Min(r.Min, v)
		r.Max = math.Max(r.Max, v)
	}
	return r, r.Min <= r.Max
}

func distinctValues(t *schema.Table, column string) []string {
	seen := make(map[string]bool)
	values := make([]string, 0)
	for i := 0; i < t.Len(); i++ {
		v, ok := t.Row(i).String(column)
		if !ok || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}
	return values
}

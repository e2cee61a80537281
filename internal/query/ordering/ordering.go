package ordering

import (
	"fmt"
	"sort"
	"strings"

	"github.com/leengari/viewdash/internal/domain/data"
	"github.com/leengari/viewdash/internal/domain/errors"
	"github.com/leengari/viewdash/internal/domain/schema"
)

// Direction specifies the direction of sorting
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// String returns the string representation of a Direction
func (d Direction) String() string {
	switch d {
	case Ascending:
		return "asc"
	case Descending:
		return "desc"
	default:
		return fmt.Sprintf("unknown(%d)", int(d))
	}
}

// ParseDirection accepts asc/ascending and desc/descending, case-insensitively
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	}
	return Ascending, fmt.Errorf("unknown sort direction %q", s)
}

// Spec is a single-column ordering directive. An empty Column means "keep input order".
type Spec struct {
	Column    string    `json:"column"`
	Direction Direction `json:"direction"`
}

// IsSorted returns true if this spec requests an ordering
func (s Spec) IsSorted() bool {
	return s.Column != ""
}

// CompareFunc returns a negative number when a sorts before b, positive when after,
// and zero for ties.
type CompareFunc func(a, b data.Row) int

// Validate checks that the sort column exists in the schema
func (s Spec) Validate(ts *schema.TableSchema) error {
	if !s.IsSorted() {
		return nil
	}
	if _, ok := ts.GetColumn(s.Column); !ok {
		return &errors.InvalidSortColumnError{TableName: ts.TableName, ColumnName: s.Column}
	}
	if s.Direction != Ascending && s.Direction != Descending {
		return fmt.Errorf("sort on %s: unknown direction %d", s.Column, int(s.Direction))
	}
	return nil
}

// Comparator builds the ascending comparison for a column.
//
//	INT, FLOAT  numeric value
//	TEXT        byte-wise lexicographic (locale independent)
//	ENUM        declared value order; undeclared values after declared ones, lexicographic
//
// Missing or mistyped cells compare greater than every present value.
func Comparator(col schema.Column) CompareFunc {
	switch {
	case col.Type.IsNumeric():
		return func(a, b data.Row) int {
			av, aok := a.Float(col.Name)
			bv, bok := b.Float(col.Name)
			if c, done := compareMissing(aok, bok); done {
				return c
			}
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			}
			return 0
		}
	case col.Type == schema.ColumnTypeEnum:
		return func(a, b data.Row) int {
			av, aok := a.String(col.Name)
			bv, bok := b.String(col.Name)
			if c, done := compareMissing(aok, bok); done {
				return c
			}
			ai, bi := col.EnumIndex(av), col.EnumIndex(bv)
			switch {
			case ai >= 0 && bi >= 0:
				return ai - bi
			case ai >= 0:
				return -1
			case bi >= 0:
				return 1
			}
			return strings.Compare(av, bv)
		}
	default:
		return func(a, b data.Row) int {
			av, aok := a.String(col.Name)
			bv, bok := b.String(col.Name)
			if c, done := compareMissing(aok, bok); done {
				return c
			}
			return strings.Compare(av, bv)
		}
	}
}

func compareMissing(aok, bok bool) (int, bool) {
	switch {
	case aok && bok:
		return 0, false
	case aok:
		return -1, true
	case bok:
		return 1, true
	}
	return 0, true
}

// Apply returns a stably sorted copy of rows. Ties keep their input order in both
// directions; descending order inverts the comparison, not the result.
// The input slice is never reordered.
func Apply(ts *schema.TableSchema, rows []data.Row, s Spec) ([]data.Row, error) {
	if err := s.Validate(ts); err != nil {
		return nil, err
	}

	sorted := make([]data.Row, len(rows))
	copy(sorted, rows)

	if !s.IsSorted() {
		return sorted, nil
	}

	col, _ := ts.GetColumn(s.Column)
	cmp := Comparator(*col)
	if s.Direction == Descending {
		asc := cmp
		cmp = func(a, b data.Row) int { return asc(b, a) }
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return cmp(sorted[i], sorted[j]) < 0
	})
	return sorted, nil
}

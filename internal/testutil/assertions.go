package testutil

import (
	"testing"

	"github.com/leengari/viewdash/internal/domain/data"
)

// AssertRowCount checks if the result has the expected number of rows
func AssertRowCount(t *testing.T, actual, expected int, context string) {
	t.Helper()
	if actual != expected {
		t.Errorf("%s: expected %d rows, got %d", context, expected, actual)
	}
}

// AssertColumnValues checks that a column holds the expected values, row by row
func AssertColumnValues(t *testing.T, rows []data.Row, column string, expected []interface{}, context string) {
	t.Helper()
	if len(rows) != len(expected) {
		t.Fatalf("%s: expected %d rows, got %d", context, len(expected), len(rows))
	}
	for i, row := range rows {
		if got := row.Data[column]; got != expected[i] {
			t.Errorf("%s: row %d column %s: expected %v, got %v", context, i, column, expected[i], got)
		}
	}
}

// Ages extracts the age column, which fixtures use as a row identity
func Ages(rows []data.Row) []int64 {
	ages := make([]int64, len(rows))
	for i, row := range rows {
		ages[i], _ = data.ToInt64(row.Data["age"])
	}
	return ages
}

package aggregate

import (
	"fmt"
	"math"

	"github.com/leengari/viewdash/internal/domain/data"
	"github.com/leengari/viewdash/internal/domain/errors"
	"github.com/leengari/viewdash/internal/domain/schema"
	"github.com/leengari/viewdash/internal/query/ordering"
)

// Group summarizes one value of the group column over a measure column
type Group struct {
	Key   string  `json:"key"`
	Count int     `json:"count"`
	Sum   float64 `json:"sum"`
	Mean  float64 `json:"mean"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// MeanBy groups rows by a categorical column and summarizes a numeric measure,
// e.g. average charges per region. Groups come back in the group column's sort order
// (declared order for ENUM columns). Groups with no rows are omitted.
func MeanBy(ts *schema.TableSchema, rows []data.Row, groupColumn, measureColumn string) ([]Group, error) {
	groupCol, ok := ts.GetColumn(groupColumn)
	if !ok {
		return nil, &errors.ColumnNotFoundError{TableName: ts.TableName, ColumnName: groupColumn}
	}
	if !groupCol.IsCategorical() {
		return nil, fmt.Errorf("group by %s: %w", groupColumn, &errors.InvalidFilterError{
			Column: groupColumn,
			Reason: "group column must be categorical",
		})
	}
	measureCol, ok := ts.GetColumn(measureColumn)
	if !ok {
		return nil, &errors.ColumnNotFoundError{TableName: ts.TableName, ColumnName: measureColumn}
	}
	if !measureCol.Type.IsNumeric() {
		return nil, fmt.Errorf("measure %s: %w", measureColumn, &errors.InvalidFilterError{
			Column: measureColumn,
			Reason: "measure column must be numeric",
		})
	}

	// sort first so groups appear in column order and each group is contiguous
	sorted, err := ordering.Apply(ts, rows, ordering.Spec{Column: groupColumn})
	if err != nil {
		return nil, err
	}

	groups := make([]Group, 0)
	var current *Group
	for _, row := range sorted {
		key, _ := row.String(groupColumn)
		v, ok := row.Float(measureColumn)
		if !ok {
			continue
		}
		if current == nil || current.Key != key {
			groups = append(groups, Group{Key: key, Min: math.Inf(1), Max: math.Inf(-1)})
			current = &groups[len(groups)-1]
		}
		current.Count++
		current.Sum += v
		current.Min = math.Min(current.Min, v)
		current.Max = math.Max(current.Max, v)
	}

	for i := range groups {
		groups[i].Mean = groups[i].Sum / float64(groups[i].Count)
	}
	return groups, nil
}

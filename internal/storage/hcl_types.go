package storage

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"

	"github.com/leengari/viewdash/internal/domain/schema"
)

// schemaFile is the root of a .hcl schema file: exactly one table block
type schemaFile struct {
	Table  tableBlock `hcl:"table,block"`
	Remain hcl.Body   `hcl:",remain"`
}

type tableBlock struct {
	Name    string        `hcl:"name,label"`
	Columns []columnBlock `hcl:"column,block"`
}

type columnBlock struct {
	Name         string     `hcl:"name,label"`
	Type         string     `hcl:"type"`
	Label        string     `hcl:"label,optional"`
	Values       []string   `hcl:"values,optional"`
	Min          *cty.Value `hcl:"min,optional"`
	Max          *cty.Value `hcl:"max,optional"`
	MinExclusive bool       `hcl:"min_exclusive,optional"`
}

func (t tableBlock) toSchema() (*schema.TableSchema, error) {
	ts := &schema.TableSchema{
		TableName: t.Name,
		Columns:   make([]schema.Column, 0, len(t.Columns)),
	}

	for _, c := range t.Columns {
		colType, err := schema.ParseColumnType(c.Type)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", c.Name, err)
		}
		min, err := boundValue(c.Min)
		if err != nil {
			return nil, fmt.Errorf("column %s: min: %w", c.Name, err)
		}
		max, err := boundValue(c.Max)
		if err != nil {
			return nil, fmt.Errorf("column %s: max: %w", c.Name, err)
		}
		ts.Columns = append(ts.Columns, schema.Column{
			Name:         c.Name,
			Label:        c.Label,
			Type:         colType,
			Values:       c.Values,
			Min:          min,
			Max:          max,
			MinExclusive: c.MinExclusive,
		})
	}

	if err := ts.Validate(); err != nil {
		return nil, err
	}
	return ts, nil
}

// boundValue converts an optional numeric attribute; null or absent means unbounded
func boundValue(v *cty.Value) (*float64, error) {
	if v == nil || v.IsNull() {
		return nil, nil
	}
	if !v.IsKnown() || v.Type() != cty.Number {
		return nil, fmt.Errorf("expected a number, got %s", v.Type().FriendlyName())
	}
	f, _ := v.AsBigFloat().Float64()
	return &f, nil
}

package storage

import (
	"fmt"

	"github.com/leengari/viewdash/internal/domain/schema"
)

type TableMeta struct {
	Name    string       `json:"name"`
	Columns []ColumnMeta `json:"columns"`
}

type ColumnMeta struct {
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	Label        string   `json:"label,omitempty"`
	Values       []string `json:"values,omitempty"`
	Min          *float64 `json:"min,omitempty"`
	Max          *float64 `json:"max,omitempty"`
	MinExclusive bool     `json:"min_exclusive,omitempty"`
}

// MetaFromSchema is the inverse of loading a .json schema
func MetaFromSchema(ts *schema.TableSchema) TableMeta {
	meta := TableMeta{
		Name:    ts.TableName,
		Columns: make([]ColumnMeta, len(ts.Columns)),
	}
	for i, col := range ts.Columns {
		meta.Columns[i] = ColumnMeta{
			Name:         col.Name,
			Type:         string(col.Type),
			Label:        col.Label,
			Values:       col.Values,
			Min:          col.Min,
			Max:          col.Max,
			MinExclusive: col.MinExclusive,
		}
	}
	return meta
}

func (m TableMeta) toSchema() (*schema.TableSchema, error) {
	ts := &schema.TableSchema{
		TableName: m.Name,
		Columns:   make([]schema.Column, 0, len(m.Columns)),
	}

	for _, c := range m.Columns {
		colType, err := schema.ParseColumnType(c.Type)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", c.Name, err)
		}
		ts.Columns = append(ts.Columns, schema.Column{
			Name:         c.Name,
			Label:        c.Label,
			Type:         colType,
			Values:       c.Values,
			Min:          c.Min,
			Max:          c.Max,
			MinExclusive: c.MinExclusive,
		})
	}

	if err := ts.Validate(); err != nil {
		return nil, err
	}
	return ts, nil
}

package export

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/leengari/viewdash/internal/domain/data"
	"github.com/leengari/viewdash/internal/domain/schema"
)

// ArrowType maps a column type to its Arrow data type
func ArrowType(t schema.ColumnType) (arrow.DataType, error) {
	switch t {
	case schema.ColumnTypeInt:
		return arrow.PrimitiveTypes.Int64, nil
	case schema.ColumnTypeFloat:
		return arrow.PrimitiveTypes.Float64, nil
	case schema.ColumnTypeText, schema.ColumnTypeEnum:
		return arrow.BinaryTypes.String, nil
	}
	return nil, fmt.Errorf("no arrow type for column type %q", t)
}

// ArrowSchema converts a table schema. Column labels and ENUM declarations are kept
// as field metadata so a chart consumer can title axes and order categories.
func ArrowSchema(ts *schema.TableSchema) (*arrow.Schema, error) {
	fields := make([]arrow.Field, len(ts.Columns))
	for i, col := range ts.Columns {
		dt, err := ArrowType(col.Type)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", col.Name, err)
		}

		keys := []string{"label"}
		values := []string{col.DisplayName()}
		if col.Type == schema.ColumnTypeEnum {
			keys = append(keys, "enum")
			values = append(values, fmt.Sprintf("%q", col.Values))
		}

		fields[i] = arrow.Field{
			Name:     col.Name,
			Type:     dt,
			Nullable: true,
			Metadata: arrow.NewMetadata(keys, values),
		}
	}
	md := arrow.NewMetadata([]string{"table"}, []string{ts.TableName})
	return arrow.NewSchema(fields, &md), nil
}

// ToArrow builds an Arrow table from rows, keeping their order. The caller owns the
// returned table and must Release it.
func ToArrow(ts *schema.TableSchema, rows []data.Row) (arrow.Table, error) {
	arrowSchema, err := ArrowSchema(ts)
	if err != nil {
		return nil, err
	}

	pool := memory.NewGoAllocator()

	columns := make([]arrow.Column, 0, len(ts.Columns))
	defer func() {
		for i := range columns {
			columns[i].Release()
		}
	}()

	for i, col := range ts.Columns {
		field := arrowSchema.Field(i)

		builder := array.NewBuilder(pool, field.Type)
		err := appendColumn(builder, col, rows)
		if err != nil {
			builder.Release()
			return nil, err
		}

		arr := builder.NewArray()
		builder.Release()

		chunked := arrow.NewChunked(field.Type, []arrow.Array{arr})
		arr.Release()

		columns = append(columns, *arrow.NewColumn(field, chunked))
		chunked.Release()
	}

	return array.NewTable(arrowSchema, columns, int64(len(rows))), nil
}

// appendColumn appends one column of rows to builder; absent cells become nulls
func appendColumn(builder array.Builder, col schema.Column, rows []data.Row) error {
	for i, row := range rows {
		v, ok := row.Get(col.Name)
		if !ok || v == nil {
			builder.AppendNull()
			continue
		}

		switch b := builder.(type) {
		case *array.Int64Builder:
			n, ok := data.ToInt64(v)
			if !ok {
				return fmt.Errorf("row %d column %s: %v is not an INT", i, col.Name, v)
			}
			b.Append(n)
		case *array.Float64Builder:
			f, ok := data.ToFloat(v)
			if !ok {
				return fmt.Errorf("row %d column %s: %v is not a FLOAT", i, col.Name, v)
			}
			b.Append(f)
		case *array.StringBuilder:
			s, ok := v.(string)
			if !ok {
				return fmt.Errorf("row %d column %s: %v is not a string", i, col.Name, v)
			}
			b.Append(s)
		default:
			return fmt.Errorf("column %s: unsupported builder %T", col.Name, builder)
		}
	}
	return nil
}

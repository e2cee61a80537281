package storage

import (
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/leengari/viewdash/internal/domain/data"
	"github.com/leengari/viewdash/internal/domain/errors"
	"github.com/leengari/viewdash/internal/domain/schema"
)

// LoadTable reads a CSV file with a header row into an immutable table.
// Header names select the schema columns; extra CSV columns are ignored.
// Any problem is returned as a DataLoadError and no partial table is returned.
func LoadTable(path string, ts *schema.TableSchema, logger *slog.Logger) (*schema.Table, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if ts == nil {
		return nil, &errors.DataLoadError{Source: path, Reason: "no schema"}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &errors.DataLoadError{Source: path, Reason: "cannot open data source", Err: err}
	}
	defer f.Close()

	table, err := ReadTable(f, path, ts)
	if err != nil {
		return nil, err
	}

	logger.Info("table loaded",
		slog.String("table", table.Name),
		slog.String("path", path),
		slog.Int("rows", table.Len()),
	)
	return table, nil
}

// ReadTable parses CSV from r. source names the input in errors.
func ReadTable(r io.Reader, source string, ts *schema.TableSchema) (*schema.Table, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &errors.DataLoadError{Source: source, Line: 1, Reason: "missing header row"}
	}
	if err != nil {
		return nil, csvError(source, err)
	}

	positions, missing := headerPositions(header, ts)
	if missing != "" {
		return nil, &errors.DataLoadError{Source: source, Line: 1, Column: missing, Reason: "missing header column"}
	}

	var (
		rows  []data.Row
		lines []int
	)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, csvError(source, err)
		}
		line, _ := reader.FieldPos(0)

		row := data.NewRow(make(map[string]interface{}, len(ts.Columns)))
		for i, col := range ts.Columns {
			v, err := parseCell(record[positions[i]], col)
			if err != nil {
				return nil, &errors.DataLoadError{Source: source, Line: line, Column: col.Name, Reason: err.Error()}
			}
			row.Data[col.Name] = v
		}
		rows = append(rows, row)
		lines = append(lines, line)
	}

	table, err := schema.NewTable(ts.TableName, source, ts, rows)
	if err != nil {
		loadErr := &errors.DataLoadError{Source: source, Reason: "invalid row", Err: err}
		var ce *errors.ConstraintError
		if stderrors.As(err, &ce) && ce.RowIndex >= 0 && ce.RowIndex < len(lines) {
			loadErr.Line = lines[ce.RowIndex]
			loadErr.Column = ce.Column
		}
		return nil, loadErr
	}
	return table, nil
}

// headerPositions maps each schema column to its CSV field index, or reports
// the first schema column the header lacks.
func headerPositions(header []string, ts *schema.TableSchema) ([]int, string) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	positions := make([]int, len(ts.Columns))
	for i, col := range ts.Columns {
		pos, ok := index[col.Name]
		if !ok {
			return nil, col.Name
		}
		positions[i] = pos
	}
	return positions, ""
}

func parseCell(raw string, col schema.Column) (interface{}, error) {
	if col.Type.IsNumeric() {
		raw = strings.TrimSpace(raw)
	}
	if raw == "" {
		return nil, fmt.Errorf("empty value")
	}

	switch col.Type {
	case schema.ColumnTypeInt:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid INT %q", raw)
		}
		return n, nil
	case schema.ColumnTypeFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("invalid FLOAT %q", raw)
		}
		return f, nil
	}
	return raw, nil
}

func csvError(source string, err error) error {
	loadErr := &errors.DataLoadError{Source: source, Reason: "malformed CSV", Err: err}
	var pe *csv.ParseError
	if stderrors.As(err, &pe) {
		loadErr.Line = pe.Line
	}
	return loadErr
}

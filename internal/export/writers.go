package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/leengari/viewdash/internal/domain/data"
	"github.com/leengari/viewdash/internal/domain/schema"
)

// Format is an export file format
type Format int

const (
	FormatArrow Format = iota
	FormatParquet
	FormatCSV
)

func (f Format) String() string {
	switch f {
	case FormatArrow:
		return "arrow"
	case FormatParquet:
		return "parquet"
	case FormatCSV:
		return "csv"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// FormatFromPath picks the format from the file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".arrow", ".ipc", ".feather":
		return FormatArrow, nil
	case ".parquet":
		return FormatParquet, nil
	case ".csv":
		return FormatCSV, nil
	}
	return 0, fmt.Errorf("unsupported export format %q (use .arrow, .parquet or .csv)", filepath.Ext(path))
}

// WriteIPC writes tbl as an Arrow IPC file
func WriteIPC(w io.Writer, tbl arrow.Table) error {
	writer, err := ipc.NewFileWriter(w, ipc.WithSchema(tbl.Schema()))
	if err != nil {
		return fmt.Errorf("failed to create arrow writer: %w", err)
	}

	tr := array.NewTableReader(tbl, tbl.NumRows())
	defer tr.Release()

	for tr.Next() {
		if err := writer.Write(tr.Record()); err != nil {
			writer.Close()
			return fmt.Errorf("failed to write arrow record: %w", err)
		}
	}
	if tr.Err() != nil {
		writer.Close()
		return fmt.Errorf("error reading table: %w", tr.Err())
	}

	return writer.Close()
}

// WriteParquet writes tbl as a Snappy-compressed Parquet file
func WriteParquet(w io.Writer, tbl arrow.Table) error {
	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())

	writer, err := pqarrow.NewFileWriter(tbl.Schema(), w, props, arrowProps)
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}

	if err := writer.WriteTable(tbl, max(tbl.NumRows(), 1)); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write table to parquet: %w", err)
	}
	return writer.Close()
}

// WriteCSV writes rows with a header of the given columns
func WriteCSV(w io.Writer, columns []string, rows []data.Row) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	record := make([]string, len(columns))
	for _, row := range rows {
		for i, col := range columns {
			record[i] = formatValue(row.Data[col])
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteFile exports rows to path in the format its extension names
func WriteFile(path string, ts *schema.TableSchema, rows []data.Row) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s file: %w", format, err)
	}

	if err := write(file, format, ts, rows); err != nil {
		file.Close()
		return err
	}
	// the parquet writer closes its sink itself
	if err := file.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		return err
	}
	return nil
}

func write(w io.Writer, format Format, ts *schema.TableSchema, rows []data.Row) error {
	if format == FormatCSV {
		return WriteCSV(w, ts.ColumnNames(), rows)
	}

	tbl, err := ToArrow(ts, rows)
	if err != nil {
		return err
	}
	defer tbl.Release()

	if format == FormatParquet {
		return WriteParquet(w, tbl)
	}
	return WriteIPC(w, tbl)
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int64:
		return strconv.FormatInt(val, 10)
	case int:
		return strconv.Itoa(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	}
	return fmt.Sprintf("%v", v)
}

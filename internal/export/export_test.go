package export

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"gotest.tools/v3/assert"

	"github.com/leengari/viewdash/internal/domain/data"
	"github.com/leengari/viewdash/internal/testutil"
)

func sampleRows() []data.Row {
	return testutil.SampleRecords()[:3]
}

func TestToArrow(t *testing.T) {
	ts := testutil.InsuranceSchema()

	tbl, err := ToArrow(ts, sampleRows())
	assert.NilError(t, err)
	defer tbl.Release()

	assert.Equal(t, tbl.NumRows(), int64(3))
	assert.Equal(t, tbl.NumCols(), int64(7))

	s := tbl.Schema()
	assert.Equal(t, s.Field(0).Type.ID(), arrow.INT64)
	assert.Equal(t, s.Field(1).Type.ID(), arrow.STRING)
	assert.Equal(t, s.Field(2).Type.ID(), arrow.FLOAT64)

	label, ok := s.Field(2).Metadata.GetValue("label")
	assert.Assert(t, ok)
	assert.Equal(t, label, "BMI")
	enum, ok := s.Field(5).Metadata.GetValue("enum")
	assert.Assert(t, ok)
	assert.Equal(t, enum, `["northeast" "southeast" "southwest" "northwest"]`)

	ages := tbl.Column(0).Data().Chunk(0).(*array.Int64)
	assert.DeepEqual(t, ages.Int64Values(), []int64{19, 18, 28})

	regions := tbl.Column(5).Data().Chunk(0).(*array.String)
	assert.Equal(t, regions.Value(0), "southwest")
	assert.Equal(t, regions.Value(2), "southeast")
}

func TestToArrow_MissingCellIsNull(t *testing.T) {
	rows := sampleRows()
	partial := rows[1].Copy()
	delete(partial.Data, "charges")
	rows[1] = partial

	tbl, err := ToArrow(testutil.InsuranceSchema(), rows)
	assert.NilError(t, err)
	defer tbl.Release()

	charges := tbl.Column(6).Data().Chunk(0)
	assert.Equal(t, charges.NullN(), 1)
	assert.Assert(t, charges.IsNull(1))
}

func TestToArrow_TypeMismatch(t *testing.T) {
	rows := []data.Row{data.NewRow(map[string]interface{}{"age": "old"})}
	_, err := ToArrow(testutil.InsuranceSchema(), rows)
	assert.ErrorContains(t, err, "is not an INT")
}

func TestWriteIPC(t *testing.T) {
	tbl, err := ToArrow(testutil.InsuranceSchema(), sampleRows())
	assert.NilError(t, err)
	defer tbl.Release()

	var buf bytes.Buffer
	assert.NilError(t, WriteIPC(&buf, tbl))

	rdr, err := ipc.NewFileReader(bytes.NewReader(buf.Bytes()))
	assert.NilError(t, err)
	defer rdr.Close()

	assert.Equal(t, rdr.NumRecords(), 1)
	rec, err := rdr.Record(0)
	assert.NilError(t, err)
	assert.Equal(t, rec.NumRows(), int64(3))
	assert.Equal(t, rec.Column(6).(*array.Float64).Value(0), 16884.924)

	md := rdr.Schema().Metadata()
	name, ok := md.GetValue("table")
	assert.Assert(t, ok)
	assert.Equal(t, name, "insurance")
}

func TestWriteParquet(t *testing.T) {
	tbl, err := ToArrow(testutil.InsuranceSchema(), sampleRows())
	assert.NilError(t, err)
	defer tbl.Release()

	var buf bytes.Buffer
	assert.NilError(t, WriteParquet(&buf, tbl))

	pf, err := file.NewParquetReader(bytes.NewReader(buf.Bytes()), file.WithReadProps(&parquet.ReaderProperties{}))
	assert.NilError(t, err)
	defer pf.Close()

	arrowReader, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, memory.NewGoAllocator())
	assert.NilError(t, err)

	got, err := arrowReader.ReadTable(context.Background())
	assert.NilError(t, err)
	defer got.Release()

	assert.Equal(t, got.NumRows(), int64(3))
	assert.Equal(t, got.Schema().Field(5).Name, "region")
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, []string{"age", "bmi", "region"}, sampleRows())
	assert.NilError(t, err)

	want := "age,bmi,region\n" +
		"19,27.9,southwest\n" +
		"18,33.77,southeast\n" +
		"28,33,southeast\n"
	assert.Equal(t, buf.String(), want)
}

func TestWriteFile(t *testing.T) {
	ts := testutil.InsuranceSchema()
	dir := t.TempDir()

	for _, name := range []string{"page.arrow", "page.parquet", "page.csv"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			assert.NilError(t, WriteFile(path, ts, sampleRows()))

			info, err := os.Stat(path)
			assert.NilError(t, err)
			assert.Assert(t, info.Size() > 0)
		})
	}

	t.Run("UnsupportedExtension", func(t *testing.T) {
		err := WriteFile(filepath.Join(dir, "page.xlsx"), ts, sampleRows())
		assert.ErrorContains(t, err, "unsupported export format")
	})
}

func TestFormatFromPath(t *testing.T) {
	cases := map[string]Format{
		"out.arrow":   FormatArrow,
		"out.IPC":     FormatArrow,
		"out.feather": FormatArrow,
		"out.parquet": FormatParquet,
		"out.csv":     FormatCSV,
	}
	for path, want := range cases {
		got, err := FormatFromPath(path)
		assert.NilError(t, err, path)
		assert.Equal(t, got, want, path)
	}
}

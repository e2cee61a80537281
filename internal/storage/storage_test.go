package storage

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leengari/viewdash/internal/domain/errors"
	"github.com/leengari/viewdash/internal/domain/schema"
	"github.com/leengari/viewdash/internal/testutil"
)

const header = "age,sex,bmi,children,smoker,region,charges\n"

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func requireLoadError(t *testing.T, err error) *errors.DataLoadError {
	t.Helper()
	require.Error(t, err)
	require.ErrorIs(t, err, errors.ErrDataLoad)

	var loadErr *errors.DataLoadError
	require.True(t, stderrors.As(err, &loadErr), "want *DataLoadError, got %T", err)
	return loadErr
}

func TestDefaultSchema(t *testing.T) {
	ts, err := DefaultSchema()
	require.NoError(t, err)

	assert.Equal(t, "insurance", ts.TableName)
	assert.Equal(t, []string{"age", "sex", "bmi", "children", "smoker", "region", "charges"}, ts.ColumnNames())

	bmi, ok := ts.GetColumn("bmi")
	require.True(t, ok)
	assert.Equal(t, schema.ColumnTypeFloat, bmi.Type)
	assert.Equal(t, "BMI", bmi.DisplayName())
	require.NotNil(t, bmi.Min)
	assert.Equal(t, 0.0, *bmi.Min)
	assert.True(t, bmi.MinExclusive)
	assert.Nil(t, bmi.Max)

	region, ok := ts.GetColumn("region")
	require.True(t, ok)
	assert.Equal(t, []string{"northeast", "southeast", "southwest", "northwest"}, region.Values)

	// the built-in file and the shared test fixture describe the same table
	assert.Equal(t, testutil.InsuranceSchema(), ts)
}

func TestLoadSchema(t *testing.T) {
	builtin, err := DefaultSchema()
	require.NoError(t, err)

	t.Run("HCL", func(t *testing.T) {
		ts, err := LoadSchema(filepath.Join("testdata", "dataset", "schema.hcl"))
		require.NoError(t, err)
		assert.Equal(t, builtin, ts)
	})

	t.Run("JSON", func(t *testing.T) {
		ts, err := LoadSchema(filepath.Join("testdata", "schema.json"))
		require.NoError(t, err)
		assert.Equal(t, builtin, ts)
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := LoadSchema(filepath.Join("testdata", "nope.hcl"))
		requireLoadError(t, err)
	})

	t.Run("UnsupportedFormat", func(t *testing.T) {
		_, err := LoadSchema(filepath.Join("testdata", "insurance.csv"))
		loadErr := requireLoadError(t, err)
		assert.Contains(t, loadErr.Error(), "unsupported schema format")
	})

	t.Run("UnknownType", func(t *testing.T) {
		path := writeFile(t, "bad.hcl", `
table "t" {
  column "a" {
    type = "DATE"
  }
}
`)
		_, err := LoadSchema(path)
		loadErr := requireLoadError(t, err)
		assert.Contains(t, loadErr.Error(), "unknown column type")
	})

	t.Run("NonNumericBound", func(t *testing.T) {
		path := writeFile(t, "bad.hcl", `
table "t" {
  column "a" {
    type = "INT"
    min  = "zero"
  }
}
`)
		_, err := LoadSchema(path)
		requireLoadError(t, err)
	})

	t.Run("EnumWithoutValues", func(t *testing.T) {
		path := writeFile(t, "bad.json", `{"name": "t", "columns": [{"name": "a", "type": "ENUM"}]}`)
		_, err := LoadSchema(path)
		requireLoadError(t, err)
	})
}

func TestLoadTable(t *testing.T) {
	ts := testutil.InsuranceSchema()

	t.Run("Valid", func(t *testing.T) {
		table, err := LoadTable(filepath.Join("testdata", "insurance.csv"), ts, nil)
		require.NoError(t, err)

		assert.Equal(t, "insurance", table.Name)
		assert.Equal(t, 5, table.Len())

		first := table.Row(0)
		assert.Equal(t, int64(19), first.Data["age"])
		assert.Equal(t, "female", first.Data["sex"])
		assert.Equal(t, 27.9, first.Data["bmi"])
		assert.Equal(t, "southwest", first.Data["region"])

		// "33" in a FLOAT column is still a float64
		assert.Equal(t, 33.0, table.Row(2).Data["bmi"])
	})

	t.Run("HeaderOnly", func(t *testing.T) {
		table, err := LoadTable(writeFile(t, "empty.csv", header), ts, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, table.Len())
	})

	t.Run("ExtraColumnsAndReorderedHeader", func(t *testing.T) {
		path := writeFile(t, "wide.csv",
			"id,charges,region,smoker,children,bmi,sex,age\n"+
				"7,1725.5523,southeast,no,1,33.77,male,18\n")
		table, err := LoadTable(path, ts, nil)
		require.NoError(t, err)
		require.Equal(t, 1, table.Len())

		row := table.Row(0)
		assert.Equal(t, int64(18), row.Data["age"])
		assert.Equal(t, 1725.5523, row.Data["charges"])
		_, hasID := row.Data["id"]
		assert.False(t, hasID)
	})

	t.Run("ByteOrderMark", func(t *testing.T) {
		path := writeFile(t, "bom.csv", "\ufeff"+header+"19,female,27.9,0,yes,southwest,16884.924\n")
		table, err := LoadTable(path, ts, nil)
		require.NoError(t, err)
		assert.Equal(t, 1, table.Len())
	})

	cases := []struct {
		name   string
		body   string
		line   int
		column string
	}{
		{"EmptyFile", "", 1, ""},
		{"MissingHeaderColumn", "age,sex,bmi,children,smoker,charges\n", 1, "region"},
		{"WrongFieldCount", header + "19,female,27.9,0,yes,southwest,16884.924\n18,male,33.77\n", 3, ""},
		{"UnparsableInt", header + "nineteen,female,27.9,0,yes,southwest,16884.924\n", 2, "age"},
		{"UnparsableFloat", header + "19,female,27.9,0,yes,southwest,NaN\n", 2, "charges"},
		{"EmptyCell", header + "19,,27.9,0,yes,southwest,16884.924\n", 2, "sex"},
		{"UndeclaredEnumValue", header + "19,female,27.9,0,yes,southwest,1\n19,female,27.9,0,yes,midwest,1\n", 3, "region"},
		{"CaseSensitiveEnum", header + "19,Female,27.9,0,yes,southwest,1\n", 2, "sex"},
		{"ExclusiveLowerBound", header + "19,female,0,0,yes,southwest,1\n", 2, "bmi"},
		{"NegativeCount", header + "19,female,27.9,-1,yes,southwest,1\n", 2, "children"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			table, err := LoadTable(writeFile(t, "data.csv", tc.body), ts, nil)
			assert.Nil(t, table)

			loadErr := requireLoadError(t, err)
			assert.Equal(t, tc.line, loadErr.Line)
			assert.Equal(t, tc.column, loadErr.Column)
		})
	}

	t.Run("MissingFile", func(t *testing.T) {
		_, err := LoadTable(filepath.Join(t.TempDir(), "missing.csv"), ts, nil)
		loadErr := requireLoadError(t, err)
		assert.True(t, stderrors.Is(err, os.ErrNotExist))
		assert.Contains(t, loadErr.Error(), "missing.csv")
	})
}

func TestReadTable(t *testing.T) {
	table, err := ReadTable(strings.NewReader(header+"19,female,27.9,0,yes,southwest,16884.924\n"), "inline", testutil.InsuranceSchema())
	require.NoError(t, err)
	assert.Equal(t, "inline", table.Path)
	assert.Equal(t, 1, table.Len())
}

func TestLoadDataset(t *testing.T) {
	t.Run("WithSchemaFile", func(t *testing.T) {
		table, err := LoadDataset(filepath.Join("testdata", "dataset"), nil)
		require.NoError(t, err)
		assert.Equal(t, 5, table.Len())
		assert.Equal(t, "insurance", table.Name)
	})

	t.Run("BuiltinSchema", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, DataFile),
			[]byte(header+"19,female,27.9,0,yes,southwest,16884.924\n"), 0o644))

		table, err := LoadDataset(dir, nil)
		require.NoError(t, err)
		assert.Equal(t, 1, table.Len())
	})

	t.Run("MissingData", func(t *testing.T) {
		_, err := LoadDataset(t.TempDir(), nil)
		requireLoadError(t, err)
	})

	t.Run("NotADirectory", func(t *testing.T) {
		_, err := LoadDataset(filepath.Join("testdata", "insurance.csv"), nil)
		requireLoadError(t, err)
	})

	t.Run("UnreadableSchemaFile", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, DataFile),
			[]byte(header+"19,female,27.9,0,yes,southwest,16884.924\n"), 0o644))
		// a self-referencing link fails to stat with ELOOP, not "not exist"
		require.NoError(t, os.Symlink(HCLSchemaFile, filepath.Join(dir, HCLSchemaFile)))

		_, err := LoadDataset(dir, nil)
		loadErr := requireLoadError(t, err)
		assert.Equal(t, filepath.Join(dir, HCLSchemaFile), loadErr.Source)
		assert.Equal(t, "cannot read schema file", loadErr.Reason)
	})
}

package testutil

import (
	"testing"

	"github.com/leengari/viewdash/internal/domain/data"
	"github.com/leengari/viewdash/internal/domain/schema"
)

func bound(v float64) *float64 { return &v }

// InsuranceSchema returns the insurance dataset schema used across tests
func InsuranceSchema() *schema.TableSchema {
	return &schema.TableSchema{
		TableName: "insurance",
		Columns: []schema.Column{
			{Name: "age", Type: schema.ColumnTypeInt, Min: bound(0)},
			{Name: "sex", Type: schema.ColumnTypeEnum, Values: []string{"female", "male"}},
			{Name: "bmi", Label: "BMI", Type: schema.ColumnTypeFloat, Min: bound(0), MinExclusive: true},
			{Name: "children", Type: schema.ColumnTypeInt, Min: bound(0)},
			{Name: "smoker", Type: schema.ColumnTypeEnum, Values: []string{"yes", "no"}},
			{Name: "region", Type: schema.ColumnTypeEnum, Values: []string{"northeast", "southeast", "southwest", "northwest"}},
			{Name: "charges", Type: schema.ColumnTypeFloat, Min: bound(0)},
		},
	}
}

// Record builds an insurance row
func Record(age int64, sex string, bmi float64, children int64, smoker, region string, charges float64) data.Row {
	return data.NewRow(map[string]interface{}{
		"age":      age,
		"sex":      sex,
		"bmi":      bmi,
		"children": children,
		"smoker":   smoker,
		"region":   region,
		"charges":  charges,
	})
}

// SampleRecords is a small, hand-checked slice of the insurance dataset.
// Several rows share charges / region values so stability can be observed.
func SampleRecords() []data.Row {
	return []data.Row{
		Record(19, "female", 27.9, 0, "yes", "southwest", 16884.924),
		Record(18, "male", 33.77, 1, "no", "southeast", 1725.5523),
		Record(28, "male", 33.0, 3, "no", "southeast", 4449.462),
		Record(33, "male", 22.705, 0, "no", "northwest", 21984.47061),
		Record(32, "male", 28.88, 0, "no", "northwest", 3866.8552),
		Record(31, "female", 25.74, 0, "no", "southeast", 3756.6216),
		Record(46, "female", 33.44, 1, "no", "southeast", 8240.5896),
		Record(37, "female", 27.74, 3, "no", "northwest", 7281.5056),
		Record(37, "male", 29.83, 2, "no", "northeast", 6406.4107),
		Record(60, "female", 25.84, 0, "no", "northwest", 28923.13692),
		Record(25, "male", 26.22, 0, "no", "northeast", 2721.3208),
		Record(62, "female", 26.29, 0, "yes", "southeast", 27808.7251),
	}
}

// CreateInsuranceTable builds a validated table from rows, failing the test on error
func CreateInsuranceTable(t testing.TB, rows []data.Row) *schema.Table {
	t.Helper()
	table, err := schema.NewTable("insurance", "", InsuranceSchema(), rows)
	if err != nil {
		t.Fatalf("failed to build insurance table: %v", err)
	}
	return table
}

// CreateSequentialTable builds n rows whose age is the row position, so ordering
// and page slicing can be checked by value.
func CreateSequentialTable(t testing.TB, n int) *schema.Table {
	t.Helper()
	regions := []string{"northeast", "southeast", "southwest", "northwest"}
	rows := make([]data.Row, n)
	for i := 0; i < n; i++ {
		rows[i] = Record(int64(i), "female", 20.0+float64(i%7), int64(i%4), "no", regions[i%len(regions)], float64(1000*(i%5)))
	}
	return CreateInsuranceTable(t, rows)
}

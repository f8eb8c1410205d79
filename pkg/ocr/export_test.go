package ocr

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labrex/models"
)

func sampleRecords() []models.TestRecord {
	return []models.TestRecord{
		{
			TestName:          "Hemoglobin",
			TestValue:         "13.5",
			BioReferenceRange: "12.0-16.0",
			TestUnit:          "g/dL",
			OutOfRange:        false,
		},
		{
			TestName:          "Glucose",
			TestValue:         "250.0",
			BioReferenceRange: "70.0-110.0",
			TestUnit:          "",
			OutOfRange:        true,
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf strings.Builder
	require.NoError(t, WriteCSV(&buf, sampleRecords()))

	want := "test_name,test_value,bio_reference_range,test_unit,lab_test_out_of_range\n" +
		"Hemoglobin,13.5,12.0-16.0,g/dL,false\n" +
		"Glucose,250.0,70.0-110.0,,true\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSVEscapesCommas(t *testing.T) {
	var buf strings.Builder
	records := []models.TestRecord{{
		TestName:          "Cholesterol, total",
		TestValue:         "190.0",
		BioReferenceRange: "0.0-200.0",
		TestUnit:          "mg/dL",
	}}
	require.NoError(t, WriteCSV(&buf, records))
	assert.Contains(t, buf.String(), `"Cholesterol, total",190.0`)
}

func TestExportCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lab_tests.csv")
	require.NoError(t, ExportCSV(path, sampleRecords()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "test_name,test_value,"))
	assert.Equal(t, 3, strings.Count(string(data), "\n"), "header plus two rows")
}

func TestExportCSVBadPath(t *testing.T) {
	err := ExportCSV(filepath.Join(t.TempDir(), "missing", "out.csv"), sampleRecords())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create")
}

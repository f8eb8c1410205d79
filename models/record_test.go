package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordJSONShape(t *testing.T) {
	r := TestRecord{
		TestName:          "Hemoglobin",
		TestValue:         "13.5",
		BioReferenceRange: "12.0-16.0",
		TestUnit:          "g/dL",
		OutOfRange:        false,
	}
	data, err := json.Marshal(r)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, "Hemoglobin", m["test_name"])
	assert.Equal(t, "13.5", m["test_value"])
	assert.Equal(t, "12.0-16.0", m["bio_reference_range"])
	assert.Equal(t, "g/dL", m["test_unit"])
	assert.Equal(t, false, m["lab_test_out_of_range"])
}

func TestRecordCSVRow(t *testing.T) {
	r := TestRecord{TestName: "Glucose", TestValue: "250.0", BioReferenceRange: "70.0-110.0", OutOfRange: true}
	assert.Equal(t, []string{"Glucose", "250.0", "70.0-110.0", "", "true"}, r.CSVRow())
	assert.Len(t, r.CSVRow(), len(CSVHeader))
}

func TestRecordComplete(t *testing.T) {
	assert.True(t, TestRecord{TestName: "WBC", TestValue: "11.2"}.Complete())
	assert.False(t, TestRecord{TestName: "X"}.Complete())
	assert.False(t, TestRecord{TestValue: "1.0"}.Complete())
}

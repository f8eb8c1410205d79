package models

import "strconv"

// TestRecord represents one extracted lab test measurement. Field names match
// the export schema consumed by downstream applications.
type TestRecord struct {
	TestName          string `json:"test_name"`
	TestValue         string `json:"test_value"`
	BioReferenceRange string `json:"bio_reference_range"`
	TestUnit          string `json:"test_unit"`
	OutOfRange        bool   `json:"lab_test_out_of_range"`
}

// CSVHeader is the fixed column order for tabular export.
var CSVHeader = []string{"test_name", "test_value", "bio_reference_range", "test_unit", "lab_test_out_of_range"}

// CSVRow renders the record as a row in CSVHeader order.
func (r TestRecord) CSVRow() []string {
	return []string{r.TestName, r.TestValue, r.BioReferenceRange, r.TestUnit, strconv.FormatBool(r.OutOfRange)}
}

// Complete reports whether the record carries the required name and value
// fields. Incomplete records are dropped during validation.
func (r TestRecord) Complete() bool {
	return r.TestName != "" && r.TestValue != ""
}

package ocr

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"labrex/models"
)

// WriteCSV writes records to w in the fixed five-column schema, header first.
func WriteCSV(w io.Writer, records []models.TestRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(models.CSVHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range records {
		if err := cw.Write(r.CSVRow()); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportCSV writes records to a new file at path. The file is not claimed
// written until both the CSV writer and the file close succeed.
func ExportCSV(path string, records []models.TestRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteCSV(f, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

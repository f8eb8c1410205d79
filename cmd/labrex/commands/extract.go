package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"labrex/internal/ui"
	"labrex/models"
	"labrex/pkg/ocr"
)

var (
	extractCSVPath    string
	extractOutOfRange bool
	extractNoValidate bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>...",
	Short: "Extract test records from report images or PDFs",
	Long: `Extract runs one or more lab report files through the OCR pipeline
and prints the parsed test records as JSON, or writes them to a CSV file.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVar(&extractCSVPath, "csv", "", "write records to this CSV file instead of JSON on stdout")
	extractCmd.Flags().BoolVar(&extractOutOfRange, "out-of-range", false, "keep only out-of-range records")
	extractCmd.Flags().BoolVar(&extractNoValidate, "no-validate", false, "keep records with missing required fields")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	proc, _, err := newProcessor()
	if err != nil {
		return fmt.Errorf("ocr engine unavailable: %w", err)
	}

	records := []models.TestRecord{}
	for _, path := range args {
		fileRecords, err := extractFile(proc, path)
		if err != nil {
			return fmt.Errorf("extract %s: %w", path, err)
		}
		records = append(records, fileRecords...)
	}

	if !extractNoValidate {
		records = ocr.Validate(records, logger)
	}
	if extractOutOfRange {
		records = ocr.FilterOutOfRange(records)
	}

	if extractCSVPath != "" {
		if err := ocr.ExportCSV(extractCSVPath, records); err != nil {
			return err
		}
		ui.Success("%d records written to %s", len(records), extractCSVPath)
		return nil
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

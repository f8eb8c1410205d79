package commands

import (
	"github.com/spf13/cobra"

	"labrex/internal/ui"
	"labrex/pkg/ocr"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the OCR engine is installed and responding",
	RunE:  runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	engine, err := ocr.NewTesseract(cfg.OCR.Language)
	if err != nil {
		ui.Error("tesseract not found on PATH")
		return err
	}
	version, err := engine.Version()
	if err != nil {
		ui.Error("tesseract found but not responding")
		return err
	}
	ui.Success("engine:   %s", version)
	ui.Message("language: %s", cfg.OCR.Language)
	ui.Message("workers:  %d", cfg.Batch.Workers)
	return nil
}

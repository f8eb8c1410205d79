package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"labrex/internal/ui"
	"labrex/pkg/batch"
	"labrex/pkg/ocr"
)

var (
	batchWorkers       int
	batchMoveProcessed bool
	batchProcessedDir  string
	batchSummaryCSV    string
)

var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Process every report file in a directory",
	Long: `Batch lists the supported report files in a directory, runs each one
through the OCR pipeline, and prints a summary. With one worker the files
are processed in name order and the run aborts on the first failure; with
more workers failures are isolated per file and reported at the end.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 0, "concurrent workers (0 = config value)")
	batchCmd.Flags().BoolVar(&batchMoveProcessed, "move-processed", false, "move finished files to the processed directory")
	batchCmd.Flags().StringVar(&batchProcessedDir, "processed-dir", "", "destination for processed files (default from config)")
	batchCmd.Flags().StringVar(&batchSummaryCSV, "summary-csv", "", "write all extracted records to this CSV file")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	dir := args[0]

	proc, _, err := newProcessor()
	if err != nil {
		return fmt.Errorf("ocr engine unavailable: %w", err)
	}

	files, err := batch.ListReportFiles(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		ui.Warning("no report files in %s", dir)
		return nil
	}

	opts := batch.Options{
		Workers:       cfg.Batch.Workers,
		MoveProcessed: batchMoveProcessed || cfg.Batch.MoveProcessed,
		ProcessedDir:  cfg.Batch.ProcessedDir,
	}
	if batchWorkers > 0 {
		opts.Workers = batchWorkers
	}
	if batchProcessedDir != "" {
		opts.ProcessedDir = batchProcessedDir
	}

	bar := ui.NewProgressBar(int64(len(files)), "processing")
	opts.OnResult = func(res batch.FileResult) { bar.Add(1) }

	runner := batch.NewRunner(proc, logger, opts)
	sum, runErr := runner.Run(dir)
	bar.Finish()

	if sum != nil {
		sum.Render(os.Stdout)
		if batchSummaryCSV != "" {
			if err := ocr.ExportCSV(batchSummaryCSV, sum.AllRecords()); err != nil {
				return err
			}
			ui.Success("%d records written to %s", sum.Records, batchSummaryCSV)
		}
	}
	return runErr
}

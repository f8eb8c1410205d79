package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"labrex/internal/ui"
	"labrex/pkg/batch"
)

var watchDebounceMS int

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Watch a directory and process report files as they arrive",
	Long: `Watch monitors a directory for new report files and runs each one
through the OCR pipeline once it has stopped changing. Stop with Ctrl-C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().IntVar(&watchDebounceMS, "debounce-ms", 0, "stability window in milliseconds (0 = config value)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir := args[0]

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	proc, _, err := newProcessor()
	if err != nil {
		return fmt.Errorf("ocr engine unavailable: %w", err)
	}

	debounce := cfg.Watch.DebounceMS
	if watchDebounceMS > 0 {
		debounce = watchDebounceMS
	}

	spin := ui.NewSpinner(fmt.Sprintf("watching %s for new reports", dir))
	opts := batch.Options{
		Workers:       cfg.Batch.Workers,
		MoveProcessed: cfg.Batch.MoveProcessed,
		ProcessedDir:  cfg.Batch.ProcessedDir,
		OnStart: func(name string) {
			spin.UpdateMessage("processing " + name)
		},
		OnResult: func(res batch.FileResult) {
			spin.Stop()
			if res.Err != nil {
				ui.Error("%s: %v", res.File, res.Err)
			} else {
				ui.Success("%s: %d records in %s", res.File, len(res.Records), res.Elapsed.Round(time.Millisecond))
			}
			spin.UpdateMessage(fmt.Sprintf("watching %s for new reports", dir))
			spin.Start()
		},
	}

	runner := batch.NewRunner(proc, logger, opts)
	spin.Start()
	defer spin.Stop()
	return runner.Watch(ctx, dir, time.Duration(debounce)*time.Millisecond)
}

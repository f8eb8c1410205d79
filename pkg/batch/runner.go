package batch

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"labrex/models"
	"labrex/pkg/pdf"
)

// Processor is the slice of the extraction pipeline the runner needs.
// *ocr.Processor satisfies it; tests substitute stubs.
type Processor interface {
	ProcessReport(data []byte) ([]models.TestRecord, error)
	ProcessImage(img image.Image) ([]models.TestRecord, error)
}

// Options tunes a Runner.
type Options struct {
	// Workers is the pool size. 1 processes files strictly in listing order
	// and aborts the run on the first failure; higher values isolate
	// per-file failures and collect them in the summary instead.
	Workers int
	// MoveProcessed relocates successfully processed inputs to ProcessedDir.
	MoveProcessed bool
	ProcessedDir  string
	// OnStart and OnResult are optional per-file hooks, used by the CLI for
	// progress reporting. OnResult may be called from multiple goroutines.
	OnStart  func(name string)
	OnResult func(res FileResult)
}

// Runner drives the pipeline over directories of report files.
type Runner struct {
	proc Processor
	log  zerolog.Logger
	opts Options
}

// NewRunner builds a Runner around proc.
func NewRunner(proc Processor, log zerolog.Logger, opts Options) *Runner {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.ProcessedDir == "" {
		opts.ProcessedDir = "processed"
	}
	return &Runner{proc: proc, log: log, opts: opts}
}

// Run processes every supported file in dir. With one worker the files run
// strictly in order and the first failure aborts the run, returning the
// partial summary alongside the error. With more workers all files are
// attempted; a non-nil error reports the failure count.
func (r *Runner) Run(dir string) (*Summary, error) {
	files, err := ListReportFiles(dir)
	if err != nil {
		return nil, err
	}
	sum := NewSummary(dir)
	start := time.Now()
	defer func() { sum.Elapsed = time.Since(start) }()

	r.log.Info().Str("dir", dir).Int("files", len(files)).Int("workers", r.opts.Workers).
		Str("job_id", sum.JobID).Msg("starting batch run")

	if r.opts.Workers == 1 {
		for _, name := range files {
			res := r.processFile(dir, name)
			sum.Add(res)
			if res.Err != nil {
				return sum, fmt.Errorf("process %s: %w", name, res.Err)
			}
		}
		return sum, nil
	}

	fileCh := make(chan string, len(files))
	resCh := make(chan FileResult, len(files))
	var wg sync.WaitGroup
	for i := 0; i < r.opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range fileCh {
				resCh <- r.processFile(dir, name)
			}
		}()
	}
	for _, name := range files {
		fileCh <- name
	}
	close(fileCh)
	go func() {
		wg.Wait()
		close(resCh)
	}()
	for res := range resCh {
		sum.Add(res)
	}

	if sum.Failed > 0 {
		return sum, fmt.Errorf("%d of %d files failed", sum.Failed, sum.Files)
	}
	return sum, nil
}

// processFile runs one input through the pipeline. PDF inputs are rasterized
// page by page; page records append in page order.
func (r *Runner) processFile(dir, name string) FileResult {
	if r.opts.OnStart != nil {
		r.opts.OnStart(name)
	}
	start := time.Now()
	res := FileResult{File: name}
	path := filepath.Join(dir, name)

	if strings.EqualFold(filepath.Ext(name), ".pdf") {
		pages, err := pdf.RenderPages(path)
		if err != nil {
			res.Err = err
		} else {
			for i, page := range pages {
				records, err := r.proc.ProcessImage(page)
				if err != nil {
					res.Err = fmt.Errorf("page %d: %w", i+1, err)
					break
				}
				res.Records = append(res.Records, records...)
			}
		}
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			res.Err = err
		} else {
			res.Records, res.Err = r.proc.ProcessReport(data)
		}
	}
	res.Elapsed = time.Since(start)

	if res.Err != nil {
		r.log.Error().Str("file", name).Err(res.Err).Msg("processing failed")
	} else {
		r.log.Info().Str("file", name).Int("records", len(res.Records)).
			Dur("elapsed", res.Elapsed).Msg("processed file")
		if r.opts.MoveProcessed {
			if err := MoveToProcessed(path, r.opts.ProcessedDir); err != nil {
				r.log.Warn().Str("file", name).Err(err).Msg("failed to move processed file")
			}
		}
	}

	if r.opts.OnResult != nil {
		r.opts.OnResult(res)
	}
	return res
}

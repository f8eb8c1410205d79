package batch

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"labrex/models"
)

// FileResult is the outcome of processing one input file.
type FileResult struct {
	File    string
	Records []models.TestRecord
	Err     error
	Elapsed time.Duration
}

// Summary aggregates the outcome of one batch run.
type Summary struct {
	JobID      string
	Dir        string
	Files      int
	Succeeded  int
	Failed     int
	Records    int
	OutOfRange int
	Results    []FileResult
	Elapsed    time.Duration
}

// NewSummary starts an empty summary for a run over dir.
func NewSummary(dir string) *Summary {
	return &Summary{JobID: uuid.NewString(), Dir: dir}
}

// Add folds one file result into the summary.
func (s *Summary) Add(res FileResult) {
	s.Files++
	s.Results = append(s.Results, res)
	if res.Err != nil {
		s.Failed++
		return
	}
	s.Succeeded++
	s.Records += len(res.Records)
	for _, r := range res.Records {
		if r.OutOfRange {
			s.OutOfRange++
		}
	}
}

// AllRecords returns every extracted record in result order.
func (s *Summary) AllRecords() []models.TestRecord {
	out := []models.TestRecord{}
	for _, res := range s.Results {
		out = append(out, res.Records...)
	}
	return out
}

// Render writes a human-readable run summary to w, listing failures last.
func (s *Summary) Render(w io.Writer) {
	fmt.Fprintf(w, "Batch %s (%s)\n", s.JobID, s.Dir)
	fmt.Fprintf(w, "  files:        %d (%d ok, %d failed)\n", s.Files, s.Succeeded, s.Failed)
	fmt.Fprintf(w, "  records:      %d\n", s.Records)
	fmt.Fprintf(w, "  out of range: %d\n", s.OutOfRange)
	fmt.Fprintf(w, "  elapsed:      %s\n", s.Elapsed.Round(time.Millisecond))
	for _, res := range s.Results {
		if res.Err != nil {
			fmt.Fprintf(w, "  FAIL %s: %v\n", res.File, res.Err)
		}
	}
}

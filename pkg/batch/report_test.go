package batch

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labrex/models"
)

func TestSummaryAdd(t *testing.T) {
	s := NewSummary("reports")
	assert.NotEmpty(t, s.JobID)

	s.Add(FileResult{File: "a.png", Records: []models.TestRecord{
		{TestName: "Glucose", OutOfRange: true},
		{TestName: "Hemoglobin"},
	}})
	s.Add(FileResult{File: "b.png", Err: errors.New("boom")})
	s.Add(FileResult{File: "c.png", Records: []models.TestRecord{
		{TestName: "WBC", OutOfRange: true},
	}})

	assert.Equal(t, 3, s.Files)
	assert.Equal(t, 2, s.Succeeded)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 3, s.Records)
	assert.Equal(t, 2, s.OutOfRange)
}

func TestSummaryAllRecordsOrder(t *testing.T) {
	s := NewSummary("reports")
	s.Add(FileResult{File: "a.png", Records: []models.TestRecord{{TestName: "First"}}})
	s.Add(FileResult{File: "b.png", Records: []models.TestRecord{{TestName: "Second"}, {TestName: "Third"}}})

	records := s.AllRecords()
	require.Len(t, records, 3)
	assert.Equal(t, "First", records[0].TestName)
	assert.Equal(t, "Second", records[1].TestName)
	assert.Equal(t, "Third", records[2].TestName)
}

func TestSummaryRender(t *testing.T) {
	s := NewSummary("reports")
	s.Elapsed = 1500 * time.Millisecond
	s.Add(FileResult{File: "a.png", Records: []models.TestRecord{{TestName: "Glucose", OutOfRange: true}}})
	s.Add(FileResult{File: "b.png", Err: errors.New("unreadable")})

	var buf strings.Builder
	s.Render(&buf)
	out := buf.String()

	assert.Contains(t, out, s.JobID)
	assert.Contains(t, out, "files:        2 (1 ok, 1 failed)")
	assert.Contains(t, out, "records:      1")
	assert.Contains(t, out, "out of range: 1")
	assert.Contains(t, out, "FAIL b.png: unreadable")
}

func TestNewSummaryUniqueJobIDs(t *testing.T) {
	assert.NotEqual(t, NewSummary("x").JobID, NewSummary("x").JobID)
}

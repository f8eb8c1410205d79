package ocr

import (
	"github.com/rs/zerolog"

	"labrex/models"
)

// Validate keeps only records that carry both a test name and a test value.
// Dropped records are reported at warn level, never raised.
func Validate(records []models.TestRecord, log zerolog.Logger) []models.TestRecord {
	out := make([]models.TestRecord, 0, len(records))
	for _, r := range records {
		if !r.Complete() {
			log.Warn().Str("test_name", r.TestName).Str("test_value", r.TestValue).
				Msg("dropping record with missing required fields")
			continue
		}
		out = append(out, r)
	}
	return out
}

// FilterOutOfRange keeps only records flagged out of range, preserving order.
func FilterOutOfRange(records []models.TestRecord) []models.TestRecord {
	out := make([]models.TestRecord, 0, len(records))
	for _, r := range records {
		if r.OutOfRange {
			out = append(out, r)
		}
	}
	return out
}

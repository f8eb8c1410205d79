package ocr

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"labrex/models"
)

// trailingUnitRE matches a unit token at the very end of a line.
var trailingUnitRE = regexp.MustCompile(`([A-Za-z/%]+)$`)

// Assembler folds recognized text into an ordered record sequence. It carries
// at most one open record at a time so that a following line holding only a
// unit token can complete it.
type Assembler struct {
	parser *LineParser
	log    zerolog.Logger
}

// NewAssembler returns an assembler logging through log.
func NewAssembler(log zerolog.Logger) *Assembler {
	return &Assembler{parser: NewLineParser(log), log: log}
}

// Assemble walks text line by line and returns the finalized records in the
// order their defining lines occurred. Lines that neither match a pattern nor
// complete the open record are skipped silently.
func (a *Assembler) Assemble(text string) []models.TestRecord {
	records := []models.TestRecord{}
	var current *models.TestRecord

	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		a.log.Debug().Str("line", line).Msg("processing line")

		if rec, ok := a.parser.Parse(line); ok {
			a.log.Info().Str("test_name", rec.TestName).Str("test_value", rec.TestValue).
				Bool("out_of_range", rec.OutOfRange).Msg("matched test line")
			if current != nil {
				records = append(records, *current)
			}
			current = &rec
			continue
		}

		// Continuation: a bare trailing unit token completes the open record
		// only while its unit is still empty.
		if current != nil && current.TestUnit == "" {
			if m := trailingUnitRE.FindStringSubmatch(line); m != nil {
				current.TestUnit = strings.TrimSpace(m[1])
				a.log.Debug().Str("test_name", current.TestName).Str("unit", current.TestUnit).
					Msg("unit filled from continuation line")
			}
		}
	}

	if current != nil {
		records = append(records, *current)
	}
	return records
}

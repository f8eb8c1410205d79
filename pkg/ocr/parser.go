package ocr

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"labrex/models"
)

// linePattern describes one extraction pattern and where its capture groups
// land. Group 1 is always the test name; unit is 0 for patterns without a
// unit group.
type linePattern struct {
	name  string
	re    *regexp.Regexp
	value int
	min   int
	max   int
	unit  int
}

// The patterns are tried in this order; the first one that matches the line
// structurally and whose numeric captures all parse wins. A parse failure
// falls through to the next pattern, not to an error.
var linePatterns = []linePattern{
	// name value rangeMin-rangeMax [unit]
	{
		name:  "value-range-unit",
		re:    regexp.MustCompile(`([A-Za-z\s()]+)\s*([\d.]+)\s*([\d.\-]+)\s*-\s*([\d.\-]+)\s*([A-Za-z/%]+)?`),
		value: 2, min: 3, max: 4, unit: 5,
	},
	// name value unit rangeMin-rangeMax
	{
		name:  "value-unit-range",
		re:    regexp.MustCompile(`([A-Za-z\s()]+)\s*([\d.]+)\s*([A-Za-z/%]+)\s*([\d.\-]+)\s*-\s*([\d.\-]+)`),
		value: 2, unit: 3, min: 4, max: 5,
	},
	// name value rangeMin-rangeMax
	{
		name:  "value-range",
		re:    regexp.MustCompile(`([A-Za-z\s()]+)\s*([\d.]+)\s*([\d.\-]+)\s*-\s*([\d.\-]+)`),
		value: 2, min: 3, max: 4,
	},
}

// parseGroups pulls the numeric captures for this pattern out of a submatch
// slice. The first failing capture aborts.
func (p linePattern) parseGroups(m []string) (value, refMin, refMax float64, err error) {
	if value, err = strconv.ParseFloat(m[p.value], 64); err != nil {
		return
	}
	if refMin, err = strconv.ParseFloat(m[p.min], 64); err != nil {
		return
	}
	refMax, err = strconv.ParseFloat(m[p.max], 64)
	return
}

// LineParser extracts a candidate test record from a single line of
// recognized text.
type LineParser struct {
	log zerolog.Logger
}

// NewLineParser returns a parser that logs parse fallthroughs to log.
func NewLineParser(log zerolog.Logger) *LineParser {
	return &LineParser{log: log}
}

// Parse tries the extraction patterns in priority order against line. The
// match may cover any substring of the line; surrounding text is discarded.
// The boolean is false when no pattern yields a record, which is a routine
// outcome on headers and noise lines, not an error.
func (p *LineParser) Parse(line string) (models.TestRecord, bool) {
	for _, pat := range linePatterns {
		m := pat.re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		value, refMin, refMax, err := pat.parseGroups(m)
		if err != nil {
			p.log.Warn().Str("line", line).Str("pattern", pat.name).Err(err).
				Msg("matched line failed numeric parse, trying next pattern")
			continue
		}
		unit := ""
		if pat.unit != 0 {
			unit = strings.TrimSpace(m[pat.unit])
		}
		return models.TestRecord{
			TestName:          strings.TrimSpace(m[1]),
			TestValue:         formatDecimal(value),
			BioReferenceRange: formatDecimal(refMin) + "-" + formatDecimal(refMax),
			TestUnit:          unit,
			OutOfRange:        value < refMin || value > refMax,
		}, true
	}
	return models.TestRecord{}, false
}

package ocr

import (
	"strconv"
	"strings"
)

// snippet returns a shortened version of text (ASCII only) for logging.
func snippet(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}

// formatDecimal renders f in the canonical record form: shortest decimal
// notation, with a trailing .0 when the value is integral ("250" -> "250.0").
func formatDecimal(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

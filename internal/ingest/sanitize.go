package ingest

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultStrip lists the markers stripped before parsing a cell: grouping
// commas, the rupee sign, the crore unit suffix and percent signs.
var DefaultStrip = []string{",", "₹", "Cr.", "%"}

// Sanitizer converts single noisy text fragments into decimal values.
// Absence is a value: empty text, a placeholder dash and parse failures
// all come back as nil, never as an error.
type Sanitizer struct {
	// Strip is the set of markers removed before parsing.
	Strip []string
	// Places is the rounding precision applied after parsing; negative
	// disables rounding (percent readings keep their source precision).
	Places int32
}

// NewSanitizer returns a sanitizer for money/ratio cells: default markers,
// rounded to 2 decimal places so downstream comparisons are deterministic.
func NewSanitizer() *Sanitizer {
	return &Sanitizer{Strip: DefaultStrip, Places: 2}
}

// NewPercentSanitizer returns a sanitizer for percentage cells, which keep
// whatever precision the source printed.
func NewPercentSanitizer() *Sanitizer {
	return &Sanitizer{Strip: DefaultStrip, Places: -1}
}

// Clean strips the configured markers from text and parses the remainder
// as a decimal. Returns nil for empty text, a bare "-" or anything that
// still fails to parse.
func (s *Sanitizer) Clean(text string) *decimal.Decimal {
	if text == "" {
		return nil
	}
	cleaned := text
	for _, marker := range s.Strip {
		cleaned = strings.ReplaceAll(cleaned, marker, "")
	}
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" || cleaned == "-" {
		return nil
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return nil
	}
	if s.Places >= 0 {
		d = d.Round(s.Places)
	}
	return &d
}

var firstNumberPattern = regexp.MustCompile(`[-+]?\d*\.?\d+`)

// FirstNumber extracts the first numeric token from text, commas removed,
// rounded to 2 decimal places. Used as the lenient fallback when a summary
// block mixes labels and values in one fragment.
func FirstNumber(text string) *decimal.Decimal {
	if text == "" {
		return nil
	}
	match := firstNumberPattern.FindString(strings.ReplaceAll(text, ",", ""))
	if match == "" {
		return nil
	}
	d, err := decimal.NewFromString(match)
	if err != nil {
		return nil
	}
	d = d.Round(2)
	return &d
}

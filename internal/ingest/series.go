package ingest

import (
	"regexp"
	"strings"
)

var numericLooking = regexp.MustCompile(`-?\d+\.?\d*`)

// Normalize converts a resolved row's value cells (oldest to newest, as
// they appear) into a Series of exactly length n.
//
// Cells are scanned from the end backwards, because disclosure tables
// sometimes append trailing non-numeric columns (trend arrows, footnote
// markers) and younger listings have fewer historical periods than the
// window. Up to n numeric-looking cells are collected, restored to
// chronological order and left-padded with nil. Fixed-offset indexing
// would silently misalign periods whenever the column count varies; the
// backward scan can't.
func Normalize(cells []string, n int, san *Sanitizer) Series {
	series := EmptySeries(n)
	if n == 0 {
		return series
	}

	collected := make([]string, 0, n)
	for i := len(cells) - 1; i >= 0 && len(collected) < n; i-- {
		cell := cells[i]
		if cell == "" {
			continue
		}
		if numericLooking.MatchString(strings.ReplaceAll(cell, ",", "")) {
			collected = append(collected, cell)
		}
	}

	// collected is newest-first; fill the series from its right edge so
	// missing history lands at the oldest positions.
	for j, raw := range collected {
		series[n-1-j] = san.Clean(raw)
	}
	return series
}

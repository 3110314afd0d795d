package ingest

import (
	"errors"
	"strings"
)

// ErrRowNotFound reports that no row in any table carried the requested
// label. Non-fatal: callers turn it into an all-nil series.
var ErrRowNotFound = errors.New("row not found")

// FindRow returns the first row across tables whose first cell, lower-cased
// and trimmed, contains label. Search order is document order and the first
// match wins: disclosures occasionally carry duplicate rows with the same
// label prefix (consolidated next to standalone), and the leading one is
// the current table.
func FindRow(tables []RawTable, label string) ([]string, error) {
	needle := strings.ToLower(strings.TrimSpace(label))
	for _, table := range tables {
		for _, row := range table {
			if len(row) == 0 {
				continue
			}
			first := strings.ToLower(strings.TrimSpace(row[0]))
			if strings.Contains(first, needle) {
				return row, nil
			}
		}
	}
	return nil, ErrRowNotFound
}

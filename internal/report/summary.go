// Package report renders the run status and a terminal preview of the rows.
package report

import (
	"fmt"
	"strings"

	"po-extractor/internal/aggregate"
)

// Summary counts what a run produced
type Summary struct {
	Messages  int
	Records   int
	Rows      int
	Skipped   int
	Failed    int
	Truncated bool
}

// NewSummary combines the run result with the number of flattened rows
func NewSummary(res *aggregate.Result, rows int) Summary {
	if res == nil {
		return Summary{Rows: rows}
	}
	return Summary{
		Messages:  res.Messages,
		Records:   len(res.Records),
		Rows:      rows,
		Skipped:   res.Skipped,
		Failed:    res.Failed,
		Truncated: res.Truncated,
	}
}

// Empty reports whether no document was extracted
func (s Summary) Empty() bool {
	return s.Records == 0
}

// Message is the one-line status shown to the user
func (s Summary) Message() string {
	if s.Empty() {
		return "No matching emails with PDF attachments found in that range."
	}
	return fmt.Sprintf("Found %d items across %d emails.", s.Rows, s.Records)
}

// Details lists scan counters, e.g. "12 messages scanned, 1 skipped"
func (s Summary) Details() string {
	parts := []string{fmt.Sprintf("%d messages scanned", s.Messages)}
	if s.Skipped > 0 {
		parts = append(parts, fmt.Sprintf("%d skipped", s.Skipped))
	}
	if s.Failed > 0 {
		parts = append(parts, fmt.Sprintf("%d unreadable attachments", s.Failed))
	}
	if s.Truncated {
		parts = append(parts, "stopped early by the run timeout")
	}
	return strings.Join(parts, ", ")
}

// Package output provides formatting of parsed logcat lines and summaries.
package output

import (
	"time"

	"github.com/ccollicutt/catlog/pkg/logcat"
	"github.com/ccollicutt/catlog/pkg/parser"
)

// Report is the complete output of a parse or merge run.
type Report struct {
	// Lines holds the records in output order.
	Lines []*parser.Line `json:"lines,omitempty"`

	// Summary provides aggregate statistics.
	Summary Summary `json:"summary"`

	// Metadata provides context about the run.
	Metadata Metadata `json:"metadata"`
}

// Summary provides aggregate statistics.
type Summary struct {
	// LinesProcessed is the total number of lines read.
	LinesProcessed int `json:"lines_processed"`

	// Unparsed counts lines that did not match the logcat grammar.
	Unparsed int `json:"unparsed"`

	// BySeverity counts parsed lines per level, keyed by level name.
	BySeverity map[string]int `json:"by_severity"`

	// AtOrAbove counts lines at or above MinSeverity. Zero when no
	// threshold was set.
	AtOrAbove   int    `json:"at_or_above,omitempty"`
	MinSeverity string `json:"min_severity,omitempty"`

	// FirstTimestamp and LastTimestamp are the smallest and largest
	// timestamps seen, as written in the log.
	FirstTimestamp string `json:"first_timestamp,omitempty"`
	LastTimestamp  string `json:"last_timestamp,omitempty"`
}

// Metadata provides context about the run.
type Metadata struct {
	// Sources lists the inputs that were read.
	Sources []string `json:"sources"`

	// Merged is true when inputs were merged chronologically.
	Merged bool `json:"merged"`

	// GeneratedAt is when the report was produced.
	GeneratedAt time.Time `json:"generated_at"`
}

// NewReport builds a Report and its Summary from lines. minSeverity may be
// logcat.Unknown to skip the threshold count.
func NewReport(lines []*parser.Line, sources []string, merged bool, minSeverity logcat.Severity) *Report {
	report := &Report{
		Lines: lines,
		Metadata: Metadata{
			Sources:     sources,
			Merged:      merged,
			GeneratedAt: time.Now(),
		},
	}

	var counter SummaryCounter
	counter.MinSeverity = minSeverity
	for _, l := range lines {
		counter.Add(l.Record)
	}
	report.Summary = counter.Summary()

	return report
}

// SummaryCounter accumulates a Summary one record at a time.
type SummaryCounter struct {
	MinSeverity logcat.Severity

	summary Summary
}

// Add counts r.
func (c *SummaryCounter) Add(r *logcat.Record) {
	s := &c.summary
	if s.BySeverity == nil {
		s.BySeverity = make(map[string]int)
	}

	s.LinesProcessed++
	if !r.Parsed() {
		s.Unparsed++
	} else {
		s.BySeverity[r.Severity.String()]++
		if c.MinSeverity.Valid() && r.Severity >= c.MinSeverity {
			s.AtOrAbove++
		}
	}

	if r.HasTimestamp() {
		if s.FirstTimestamp == "" || r.Timestamp < s.FirstTimestamp {
			s.FirstTimestamp = r.Timestamp
		}
		if r.Timestamp > s.LastTimestamp {
			s.LastTimestamp = r.Timestamp
		}
	}
}

// Summary returns the counts so far.
func (c *SummaryCounter) Summary() Summary {
	s := c.summary
	if s.BySeverity == nil {
		s.BySeverity = make(map[string]int)
	}
	if c.MinSeverity.Valid() {
		s.MinSeverity = c.MinSeverity.String()
	}
	return s
}

// HasUnparsed reports whether any line failed to match the grammar.
func (r *Report) HasUnparsed() bool {
	return r.Summary.Unparsed > 0
}

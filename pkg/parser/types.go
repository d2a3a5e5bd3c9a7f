// Package parser reads logcat text from files and streams and yields parsed
// records, optionally merged across sources in timestamp order.
package parser

import "github.com/ccollicutt/catlog/pkg/logcat"

// Line is a parsed logcat record together with where it was read from.
type Line struct {
	*logcat.Record

	// Source is the file path this line came from, or StdinName.
	Source string `json:"source"`

	// LineNum is the 1-based line number in the source.
	LineNum int `json:"line"`
}

// StdinName is the source name used for standard input.
const StdinName = "-"

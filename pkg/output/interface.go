package output

import (
	"context"
	"fmt"
	"io"

	"github.com/ccollicutt/catlog/pkg/parser"
)

// Formatter renders parsed lines in a specific format.
type Formatter interface {
	// Format renders the whole report to the given writer.
	Format(ctx context.Context, report *Report, w io.Writer) error

	// WriteLine renders a single line, for streaming output.
	WriteLine(line *parser.Line, w io.Writer) error

	// Name returns the format name (text, json).
	Name() string
}

// FormatOptions controls formatter behavior.
type FormatOptions struct {
	// Verbose prefixes each line with its source and line number.
	Verbose bool

	// Quiet prints the summary only.
	Quiet bool

	// Summary appends per-severity counts after the lines.
	Summary bool
}

// New returns the formatter registered under name.
func New(name string, opts FormatOptions) (Formatter, error) {
	switch name {
	case "text", "":
		return NewTextFormatter(opts), nil
	case "json":
		return NewJSONFormatter(opts), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (use text or json)", name)
	}
}

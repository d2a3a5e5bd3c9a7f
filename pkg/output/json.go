package output

import (
	"context"
	"encoding/json"
	"io"

	"github.com/ccollicutt/catlog/pkg/parser"
)

// JSONFormatter formats reports as JSON.
type JSONFormatter struct {
	opts FormatOptions
}

// NewJSONFormatter creates a new JSON formatter with the given options.
func NewJSONFormatter(opts FormatOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Name returns the format name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// Format renders the report as a single indented JSON document.
func (f *JSONFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if f.opts.Quiet {
		return encoder.Encode(report.Summary)
	}

	return encoder.Encode(report)
}

// WriteLine renders one line as a compact JSON object followed by a newline.
func (f *JSONFormatter) WriteLine(line *parser.Line, w io.Writer) error {
	return json.NewEncoder(w).Encode(line)
}

package output

import (
	"context"
	"fmt"
	"io"

	"github.com/ccollicutt/catlog/pkg/logcat"
	"github.com/ccollicutt/catlog/pkg/parser"
)

// TextFormatter prints lines in logcat's own text layout.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}

	for _, line := range report.Lines {
		if err := f.WriteLine(line, w); err != nil {
			return err
		}
	}

	if f.opts.Summary {
		return f.formatSummary(report, w)
	}
	return nil
}

// WriteLine prints the reconstructed line.
func (f *TextFormatter) WriteLine(line *parser.Line, w io.Writer) error {
	var err error
	if f.opts.Verbose {
		_, err = fmt.Fprintf(w, "%s:%d: %s\n", line.Source, line.LineNum, logcat.Format(line.Record))
	} else {
		_, err = fmt.Fprintln(w, logcat.Format(line.Record))
	}
	return err
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	s := report.Summary
	_, err := fmt.Fprintf(w, "catlog: %d lines, %d unparsed\n", s.LinesProcessed, s.Unparsed)
	return err
}

func (f *TextFormatter) formatSummary(report *Report, w io.Writer) error {
	s := report.Summary

	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d lines, %d unparsed\n", s.LinesProcessed, s.Unparsed)

	for _, sev := range logcat.Severities() {
		if n := s.BySeverity[sev.String()]; n > 0 {
			fmt.Fprintf(w, "  %c %-7s %d\n", sev.Char(), sev, n)
		}
	}

	if s.MinSeverity != "" {
		fmt.Fprintf(w, "At or above %s: %d\n", s.MinSeverity, s.AtOrAbove)
	}
	if s.FirstTimestamp != "" {
		fmt.Fprintf(w, "Time span: %s .. %s\n", s.FirstTimestamp, s.LastTimestamp)
	}

	if f.opts.Verbose {
		fmt.Fprintf(w, "Sources: %d\n", len(report.Metadata.Sources))
	}

	return nil
}

package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/catlog/pkg/config"
	"github.com/ccollicutt/catlog/pkg/detector"
	"github.com/ccollicutt/catlog/pkg/logcat"
)

// DetectOptions holds command-line options for the detect command.
type DetectOptions struct {
	Output      string
	SampleSize  int
	ShowAll     bool
	WriteConfig string
}

// NewDetectCommand creates the detect command.
func NewDetectCommand() *cobra.Command {
	opts := &DetectOptions{}

	cmd := &cobra.Command{
		Use:   "detect <log-file>",
		Short: "Detect which logcat layout a dump was captured with",
		Long: `Sample the head of a logcat dump and report which 'adb logcat -v' layout
it uses. catlog fully parses the 'time' and 'brief' layouts; lines in other
layouts are kept verbatim as unparsed records.

Optionally generates a starter config file with --write-config.

Example:
  catlog detect device.txt
  catlog detect --sample 500 device.txt
  catlog detect -w catlog.yaml device.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().IntVarP(&opts.SampleSize, "sample", "n", 100, "Number of lines to sample")
	cmd.Flags().BoolVar(&opts.ShowAll, "all", false, "Show all detected layouts, not just the best match")
	cmd.Flags().StringVarP(&opts.WriteConfig, "write-config", "w", "", "Write starter config to file (will not overwrite)")

	return cmd
}

func runDetect(cmd *cobra.Command, args []string, opts *DetectOptions) error {
	logFile := args[0]
	ctx := commandContext(cmd)

	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		return fmt.Errorf("log file not found: %s", logFile)
	}

	d := detector.New(detector.WithSampleSize(opts.SampleSize))

	result, err := d.DetectFromFile(ctx, logFile)
	if err != nil {
		return fmt.Errorf("detection failed: %w", err)
	}

	out := cmd.OutOrStdout()

	if opts.WriteConfig != "" {
		if err := writeStarterConfig(result, logFile, opts.WriteConfig); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote starter config to: %s\n\n", opts.WriteConfig)
	}

	switch opts.Output {
	case "json":
		return outputDetectJSON(out, result, logFile, opts)
	case "text":
		return outputDetectText(out, result, logFile, opts)
	default:
		return fmt.Errorf("unknown output format %q (use text or json)", opts.Output)
	}
}

func outputDetectText(w io.Writer, result *detector.DetectionResult, logFile string, opts *DetectOptions) error {
	fmt.Fprintln(w, "=== Logcat Layout Detection ===")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "File: %s\n", logFile)
	fmt.Fprintf(w, "Lines sampled: %d (%d buffer banners)\n", result.SampledLines, result.Preambles)
	fmt.Fprintln(w)

	if !result.HasMatch() {
		fmt.Fprintln(w, "No logcat layout detected.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Tip: capture with 'adb logcat -v time' for full parsing.")
		return nil
	}

	best := result.BestMatch()
	fmt.Fprintf(w, "Detected layout: %s\n", best.Layout.Name)
	fmt.Fprintf(w, "Confidence: %.1f%% (%d lines matched)\n", best.Confidence*100, best.MatchCount)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Sample match:\n  %s\n", best.SampleLine)
	fmt.Fprintln(w)

	if best.Layout.Supported {
		fmt.Fprintln(w, "Severities:")
		for _, sev := range logcat.Severities() {
			if n := result.Severities[sev]; n > 0 {
				fmt.Fprintf(w, "  %c %-7s %d\n", sev.Char(), sev, n)
			}
		}
		fmt.Fprintln(w)
	} else {
		fmt.Fprintf(w, "WARNING: the %q layout is not parsed field by field; lines will be kept verbatim.\n", best.Layout.Name)
		fmt.Fprintln(w, "Recapture with 'adb logcat -v time' for full parsing.")
		fmt.Fprintln(w)
	}

	if opts.ShowAll && len(result.Matches) > 1 {
		fmt.Fprintln(w, "--- Other layouts detected ---")
		for i, m := range result.Matches[1:] {
			fmt.Fprintf(w, "%d. %s (%.1f%%)\n", i+2, m.Layout.Name, m.Confidence*100)
		}
		fmt.Fprintln(w)
	}

	return nil
}

// JSONMatch represents a layout match in JSON output.
type JSONMatch struct {
	Name       string  `json:"name"`
	Supported  bool    `json:"supported"`
	Confidence float64 `json:"confidence"`
	MatchCount int     `json:"match_count"`
	SampleLine string  `json:"sample_line"`
}

// JSONOutput represents the full JSON output.
type JSONOutput struct {
	File         string         `json:"file"`
	Matches      []JSONMatch    `json:"matches"`
	SampledLines int            `json:"sampled_lines"`
	Preambles    int            `json:"preambles"`
	Severities   map[string]int `json:"severities"`
}

func outputDetectJSON(w io.Writer, result *detector.DetectionResult, logFile string, opts *DetectOptions) error {
	out := JSONOutput{
		File:         logFile,
		SampledLines: result.SampledLines,
		Preambles:    result.Preambles,
		Matches:      make([]JSONMatch, 0),
		Severities:   make(map[string]int),
	}

	matches := result.Matches
	if !opts.ShowAll && len(matches) > 1 {
		matches = matches[:1]
	}

	for _, m := range matches {
		out.Matches = append(out.Matches, JSONMatch{
			Name:       m.Layout.Name,
			Supported:  m.Layout.Supported,
			Confidence: m.Confidence,
			MatchCount: m.MatchCount,
			SampleLine: m.SampleLine,
		})
	}
	for sev, n := range result.Severities {
		out.Severities[sev.String()] = n
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// writeStarterConfig writes a config whose only source is logFile.
func writeStarterConfig(result *detector.DetectionResult, logFile, configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists: %s (will not overwrite)", configPath)
	}

	if !result.HasMatch() {
		return fmt.Errorf("cannot generate config: no logcat layout detected")
	}

	absLogFile := logFile
	if abs, err := filepath.Abs(logFile); err == nil {
		absLogFile = abs
	}

	cfg := config.DefaultConfig()
	cfg.LogSources = []string{absLogFile}

	data, err := config.Marshal(cfg)
	if err != nil {
		return err
	}

	best := result.BestMatch()
	header := fmt.Sprintf("# catlog configuration\n# Generated by: catlog detect\n# Detected layout: %s (%.0f%% confidence)\n\n",
		best.Layout.Name, best.Confidence*100)

	// #nosec G306 - config file doesn't need restrictive permissions
	if err := os.WriteFile(configPath, append([]byte(header), data...), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ccollicutt/catlog/pkg/config"
	"github.com/ccollicutt/catlog/pkg/logcat"
	"github.com/ccollicutt/catlog/pkg/output"
	"github.com/ccollicutt/catlog/pkg/parser"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// ReadOptions holds the flags shared by commands that read logcat text.
type ReadOptions struct {
	Config      string
	Output      string
	Expanded    bool
	MinSeverity string
	Summary     bool
	Verbose     bool
	Quiet       bool
	Strict      bool
}

// settings is ReadOptions merged with an optional config file.
type settings struct {
	sources     []string
	output      string
	expanded    bool
	minSeverity logcat.Severity
	cfg         *config.Config
}

func addReadFlags(cmd *cobra.Command, opts *ReadOptions) {
	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "Config file supplying log sources and defaults")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().BoolVar(&opts.Expanded, "expanded", false, "Mark parsed records as expanded")
	cmd.Flags().StringVar(&opts.MinSeverity, "min-severity", "", "Count lines at or above this level in the summary (e.g. W, error)")
	cmd.Flags().BoolVar(&opts.Summary, "summary", false, "Print per-severity counts after the lines")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Prefix each line with its source and line number")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no lines")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "Exit 1 if any line does not match the logcat grammar")
}

// resolveSettings merges the config file (if any) with flags. Flags the
// user set explicitly win over the config file.
func resolveSettings(ctx context.Context, cmd *cobra.Command, opts *ReadOptions, args []string) (*settings, error) {
	s := &settings{
		sources:  args,
		output:   opts.Output,
		expanded: opts.Expanded,
	}

	if opts.Config != "" {
		cfg, err := config.Load(ctx, opts.Config)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		s.cfg = cfg
		if len(args) == 0 {
			s.sources = cfg.LogSources
		}
		if !cmd.Flags().Changed("output") {
			s.output = string(cfg.Output)
		}
		if !cmd.Flags().Changed("expanded") {
			s.expanded = cfg.Expanded
		}
		s.minSeverity = cfg.MinSeverityLevel()
	}

	if opts.MinSeverity != "" {
		sev, err := logcat.ParseSeverity(opts.MinSeverity)
		if err != nil {
			return nil, fmt.Errorf("invalid --min-severity: %w", err)
		}
		s.minSeverity = sev
	}

	return s, nil
}

func (s *settings) formatter(opts *ReadOptions) (output.Formatter, error) {
	return output.New(s.output, output.FormatOptions{
		Verbose: opts.Verbose,
		Quiet:   opts.Quiet,
		Summary: opts.Summary,
	})
}

func (s *settings) sourceOptions(logger *zap.Logger) []parser.Option {
	return []parser.Option{
		parser.WithExpanded(s.expanded),
		parser.WithLogger(logger),
	}
}

// loggerFor builds the diagnostic logger selected by the root --debug flag.
func loggerFor(cmd *cobra.Command) *zap.Logger {
	debug, err := cmd.Flags().GetBool("debug")
	if err != nil || !debug {
		return zap.NewNop()
	}

	logger, err := zap.NewDevelopmentConfig().Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// writeReport renders the report and records the strict-mode exit code.
func writeReport(cmd *cobra.Command, opts *ReadOptions, s *settings, report *output.Report) error {
	formatter, err := s.formatter(opts)
	if err != nil {
		return err
	}

	if err := formatter.Format(commandContext(cmd), report, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	if opts.Strict && report.HasUnparsed() {
		ExitCode = 1
	}
	return nil
}

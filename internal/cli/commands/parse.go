package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/catlog/pkg/output"
	"github.com/ccollicutt/catlog/pkg/parser"
)

// ParseOptions holds command-line options for the parse command.
type ParseOptions struct {
	ReadOptions
	Sort bool
}

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	opts := &ParseOptions{}

	cmd := &cobra.Command{
		Use:   "parse [log-file...]",
		Short: "Parse logcat dumps and print the records",
		Long: `Parse logcat text captured with 'adb logcat -v time' or '-v brief'.

Files are read in the order given (globs are expanded and sorted). With no
files, or with '-', standard input is read. Lines that do not match the
logcat grammar, such as "--------- beginning of main", are printed as-is.

Exit codes:
  0 - Success
  1 - Unparsed lines found (with --strict)
  2 - Configuration or runtime error`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args, opts)
		},
	}

	addReadFlags(cmd, &opts.ReadOptions)
	cmd.Flags().BoolVar(&opts.Sort, "sort", false, "Sort all lines by timestamp (stable) before printing")

	return cmd
}

func runParse(cmd *cobra.Command, args []string, opts *ParseOptions) error {
	ctx := commandContext(cmd)
	logger := loggerFor(cmd)
	defer func() { _ = logger.Sync() }()

	s, err := resolveSettings(ctx, cmd, &opts.ReadOptions, args)
	if err != nil {
		return err
	}

	patterns := s.sources
	if len(patterns) == 0 {
		patterns = []string{parser.StdinName}
	}

	files, err := parser.ExpandGlobs(patterns)
	if err != nil {
		return fmt.Errorf("expanding log sources: %w", err)
	}

	source := parser.NewFileSource(files, append(s.sourceOptions(logger), parser.WithStdin(cmd.InOrStdin()))...)
	defer source.Close()

	lines, err := parser.ReadAll(ctx, source)
	if err != nil {
		return err
	}

	if opts.Sort {
		parser.SortLines(lines)
	}

	report := output.NewReport(lines, files, false, s.minSeverity)
	return writeReport(cmd, &opts.ReadOptions, s, report)
}

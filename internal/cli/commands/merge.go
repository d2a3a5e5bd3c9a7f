package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/catlog/pkg/output"
	"github.com/ccollicutt/catlog/pkg/parser"
)

// NewMergeCommand creates the merge command.
func NewMergeCommand() *cobra.Command {
	opts := &ReadOptions{}

	cmd := &cobra.Command{
		Use:   "merge <log-file...>",
		Short: "Merge logcat dumps into one chronological stream",
		Long: `Merge several logcat dumps (for example the main, system and radio
buffers) into a single stream ordered by timestamp.

Lines without a timestamp sort before timestamped ones. Lines with equal
timestamps keep the order of the files as given on the command line.
Timestamps carry no year, so dumps spanning New Year merge incorrectly.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMerge(cmd, args, opts)
		},
	}

	addReadFlags(cmd, opts)

	return cmd
}

func runMerge(cmd *cobra.Command, args []string, opts *ReadOptions) error {
	ctx := commandContext(cmd)
	logger := loggerFor(cmd)
	defer func() { _ = logger.Sync() }()

	s, err := resolveSettings(ctx, cmd, opts, args)
	if err != nil {
		return err
	}
	if len(s.sources) == 0 {
		return errors.New("merge requires at least one log file or --config")
	}

	// Keep the command-line order so ties resolve the way the user listed
	// the files; ExpandGlobs is applied per argument.
	var files []string
	seen := make(map[string]bool)
	for _, pattern := range s.sources {
		matched, err := parser.ExpandGlobs([]string{pattern})
		if err != nil {
			return fmt.Errorf("expanding log sources: %w", err)
		}
		for _, f := range matched {
			if !seen[f] {
				seen[f] = true
				files = append(files, f)
			}
		}
	}

	sources := make([]parser.LogSource, len(files))
	for i, file := range files {
		sources[i] = parser.NewFileSource([]string{file},
			append(s.sourceOptions(logger), parser.WithStdin(cmd.InOrStdin()))...)
	}
	merged := parser.NewMergedSource(sources...)
	defer merged.Close()

	lines, err := parser.ReadAll(ctx, merged)
	if err != nil {
		return err
	}

	report := output.NewReport(lines, files, true, s.minSeverity)
	return writeReport(cmd, opts, s, report)
}

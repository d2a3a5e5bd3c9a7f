package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/catlog/pkg/config"
	"github.com/ccollicutt/catlog/pkg/parser"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate a catlog configuration file without reading any logs.

Checks:
  - YAML syntax
  - At least one log source
  - Output format and min_severity values
  - Log source file existence (warning only)`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	ctx := commandContext(cmd)
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Validating %s...\n", configPath)

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Fprintf(w, "\nConfiguration valid!\n")
	fmt.Fprintf(w, "  Log sources:   %d pattern(s)\n", len(cfg.LogSources))
	fmt.Fprintf(w, "  Output:        %s\n", cfg.Output)
	fmt.Fprintf(w, "  Expanded:      %t\n", cfg.Expanded)
	if sev := cfg.MinSeverityLevel(); sev.Valid() {
		fmt.Fprintf(w, "  Min severity:  %s\n", sev)
	}
	fmt.Fprintf(w, "  Poll interval: %s\n", cfg.Follow.PollInterval)

	files, err := parser.ExpandGlobs(cfg.LogSources)
	if err != nil {
		fmt.Fprintf(w, "\nWarning: Error expanding log source patterns: %v\n", err)
		return nil
	}

	fmt.Fprintf(w, "\nLog files matched: %d\n", len(files))
	for _, f := range files {
		fmt.Fprintf(w, "  - %s\n", f)
	}

	return nil
}

package commands

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ccollicutt/catlog/pkg/parser"
)

// FollowOptions holds command-line options for the follow command.
type FollowOptions struct {
	Config       string
	Output       string
	Expanded     bool
	Verbose      bool
	PollInterval time.Duration
}

// NewFollowCommand creates the follow command.
func NewFollowCommand() *cobra.Command {
	opts := &FollowOptions{}

	cmd := &cobra.Command{
		Use:   "follow <log-file>",
		Short: "Print records as lines are appended to a logcat dump",
		Long: `Follow a file being written by 'adb logcat -f' or a shell redirect,
printing each line as a record once it is complete. Truncating or
recreating the file restarts from its beginning. Stop with Ctrl-C.

Example:
  adb logcat -v time > device.txt &
  catlog follow device.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFollow(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "Config file supplying defaults")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().BoolVar(&opts.Expanded, "expanded", false, "Mark parsed records as expanded")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Prefix each line with its source and line number")
	cmd.Flags().DurationVar(&opts.PollInterval, "poll-interval", parser.DefaultPollInterval, "Rescan interval when no file event arrives")

	return cmd
}

func runFollow(cmd *cobra.Command, args []string, opts *FollowOptions) error {
	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt)
	defer stop()

	logger := loggerFor(cmd)
	defer func() { _ = logger.Sync() }()

	readOpts := &ReadOptions{
		Config:   opts.Config,
		Output:   opts.Output,
		Expanded: opts.Expanded,
		Verbose:  opts.Verbose,
	}
	s, err := resolveSettings(ctx, cmd, readOpts, args)
	if err != nil {
		return err
	}

	pollInterval := opts.PollInterval
	if s.cfg != nil && !cmd.Flags().Changed("poll-interval") {
		pollInterval = s.cfg.Follow.PollInterval
	}

	formatter, err := s.formatter(readOpts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	follower := parser.NewFollower(args[0], pollInterval, s.sourceOptions(logger)...)

	logger.Debug("following", zap.String("path", args[0]), zap.Duration("poll_interval", pollInterval))

	err = follower.Run(ctx, func(line *parser.Line) error {
		return formatter.WriteLine(line, out)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ccollicutt/logsoul/pkg/config"
	"github.com/ccollicutt/logsoul/pkg/parser"
	"github.com/ccollicutt/logsoul/pkg/query"
	"github.com/ccollicutt/logsoul/pkg/search"
)

// SearchOptions holds command-line options for the search command.
type SearchOptions struct {
	From  string
	Start string
	To    string
	End   string
	Class string
	Fuzzy bool
	Merge bool
	Width int
}

// NewSearchCommand creates the search command.
func NewSearchCommand(v *viper.Viper) *cobra.Command {
	opts := &SearchOptions{}

	cmd := &cobra.Command{
		Use:   "search [PATTERN...]",
		Short: "Print log lines within a time window",
		Long: `Print the log lines stamped within a time window, optionally filtered.

Every configured log file not modified since the window start is skipped.
The rest are binary searched for the start of the window and read forward
until the first line stamped after its end.

Each PATTERN is a regular expression that must match the line. With --fuzzy
patterns are matched as fzf-style fuzzy terms instead. --class restricts
matches to lines whose class (program, category) matches a regular expression.

Time specs:
  now                           the current time
  5.minutes.ago, 2.hours        N units before now (second, minute, hour, day, week)
  30s, 30m, 2h, 7d, 1w          short relative forms
  10:05, 10:05:30               that time today
  2026-03-04 10:05[:00]         an absolute time (RFC3339 also accepted)
  today, yesterday, 2026-03-04  a whole day: start of day as --from,
                                start of the next day as --to

The window defaults to the last 5 minutes (default_lookback in the config).

Exit codes:
  0 - Search completed
  1 - Invalid query (start time after end time)
  2 - Configuration or runtime error

Example:
  logsoul search --from 10.minutes.ago timeout
  logsoul search --from 10:00 --to 10:30 --class sshd 'Failed password'
  logsoul search --from today --merge --fuzzy cnrefused`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, v, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.From, "from", "", "Start of the window (takes precedence over --start)")
	cmd.Flags().StringVar(&opts.Start, "start", "", "Start of the window")
	cmd.Flags().StringVar(&opts.To, "to", "", "End of the window (takes precedence over --end)")
	cmd.Flags().StringVar(&opts.End, "end", "", "End of the window")
	cmd.Flags().StringVarP(&opts.Class, "class", "c", "", "Only lines whose class matches this regular expression")
	cmd.Flags().BoolVarP(&opts.Fuzzy, "fuzzy", "z", false, "Match patterns as fuzzy terms")
	cmd.Flags().BoolVarP(&opts.Merge, "merge", "m", false, "Interleave matches from all files chronologically")
	cmd.Flags().IntVarP(&opts.Width, "width", "w", 0, "Maximum output line width (default display_width from config)")

	return cmd
}

func runSearch(cmd *cobra.Command, v *viper.Viper, patterns []string, opts *SearchOptions) error {
	ExitCode = ExitOK
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	settings := LoadSettings(v)
	log := NewLogger(cmd.ErrOrStderr(), settings.Verbose)

	cfg, err := config.Load(ctx, settings.ConfigPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	rt, err := cfg.Resolve(parser.WithLogger(log))
	if err != nil {
		return fmt.Errorf("resolving log files: %w", err)
	}

	q, err := query.New(rt, query.Params{
		From:     opts.From,
		Start:    opts.Start,
		To:       opts.To,
		End:      opts.End,
		Class:    opts.Class,
		Patterns: patterns,
		Fuzzy:    opts.Fuzzy,
	})
	if err != nil {
		return fmt.Errorf("building query: %w", err)
	}

	log.WithFields(logrus.Fields{
		"start":   q.StartTime,
		"end":     q.EndTime,
		"files":   len(rt.Sources),
		"filters": len(q.Filters),
	}).Debug("running search")

	out := cmd.OutOrStdout()
	engine := search.New(out,
		search.WithLogger(log),
		search.WithMerge(opts.Merge),
		search.WithColor(useColor(out, settings.NoColor)),
		search.WithWidth(opts.Width),
	)

	result, err := engine.Run(ctx, q)
	if errors.Is(err, search.ErrInvalidQuery) {
		ExitCode = ExitInvalidQuery
		return nil
	}
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	log.WithFields(logrus.Fields{
		"searched": result.SourcesSearched,
		"pruned":   result.SourcesPruned,
		"failed":   result.SourcesFailed,
		"scanned":  result.LinesScanned,
		"matches":  result.Matches,
	}).Debug("search complete")

	return nil
}

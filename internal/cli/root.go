// Package cli provides the command-line interface for LogSoul.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ccollicutt/logsoul/internal/cli/commands"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	return run(NewRootCommand(), os.Args[1:])
}

func run(rootCmd *cobra.Command, args []string) int {
	commands.ExitCode = commands.ExitOK
	rootCmd.SetArgs(args)

	if err := rootCmd.Execute(); err != nil {
		// Print error to stderr (SilenceErrors prevents Cobra from doing this)
		_, _ = fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return commands.ExitError // Configuration or runtime error
	}
	return commands.ExitCode
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:   "logsoul",
		Short: "Search log files by time window",
		Long: `LogSoul prints the log lines stamped within a time window.

Log files are assumed to be in chronological order. Each file is binary
searched for the start of the window, then read forward until the first
line past its end, so even very large files are searched quickly.

Configuration is read from logsoul.yaml (or --config, or LOGSOUL_CONFIG):

  log_files: /var/log/syslog
  log_format:
    regex: '^(\w{3})\s+(\d{1,2}) (\d{2}):(\d{2}):(\d{2}) (\S+) ([^:\[\s]+)(?:\[\d+\])?: (.*)$'
    captures: [month, day, hours, minutes, seconds, machine, class, message]

Use 'logsoul detect <log-file>' to generate a log_format for your logs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	commands.BindGlobalFlags(rootCmd, v)

	// Add subcommands
	rootCmd.AddCommand(commands.NewSearchCommand(v))
	rootCmd.AddCommand(commands.NewValidateCommand(v))
	rootCmd.AddCommand(commands.NewDetectCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}

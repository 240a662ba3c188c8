package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/logsoul/pkg/detector"
)

// DetectOptions holds command-line options for the detect command.
type DetectOptions struct {
	SampleSize  int
	ShowAll     bool
	WriteConfig string
}

// NewDetectCommand creates the detect command.
func NewDetectCommand() *cobra.Command {
	opts := &DetectOptions{}

	cmd := &cobra.Command{
		Use:   "detect <log-file>",
		Short: "Detect the line format of a log file",
		Long: `Analyze a log file to automatically detect its line format.

Samples lines from the file and decomposes them with each built-in format.
Reports the format that stamps the most lines with a confidence score and
provides a ready-to-use log_format YAML snippet.

Optionally generates a starter config file with --write-config.

Supports:
  - Syslog (with and without program[pid])
  - Bracketed and numeric month/day times
  - ISO 8601 and space-separated datetimes (Python/Java logging)
  - Apache/NGINX access and error logs
  - Spark/Hadoop short dates

Example:
  logsoul detect /var/log/syslog
  logsoul detect --sample 500 /var/log/large.log
  logsoul detect --write-config logsoul.yaml /var/log/app.log`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, args, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.SampleSize, "sample", "n", detector.DefaultSampleSize, "Number of lines to sample")
	cmd.Flags().BoolVar(&opts.ShowAll, "all", false, "Show all detected formats, not just the best match")
	cmd.Flags().StringVar(&opts.WriteConfig, "write-config", "", "Write starter config to file (will not overwrite)")

	return cmd
}

func runDetect(cmd *cobra.Command, args []string, opts *DetectOptions) error {
	logFile := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	w := cmd.OutOrStdout()

	// Check file exists
	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		return fmt.Errorf("log file not found: %s", logFile)
	}

	d := detector.New(detector.WithSampleSize(opts.SampleSize))

	result, err := d.DetectFromFile(ctx, logFile)
	if err != nil {
		return fmt.Errorf("detection failed: %w", err)
	}

	// Write config file if requested
	if opts.WriteConfig != "" {
		if err := writeStarterConfig(w, result, logFile, opts.WriteConfig); err != nil {
			return err
		}
	}

	return outputDetectText(w, result, logFile, opts)
}

func outputDetectText(w io.Writer, result *detector.DetectionResult, logFile string, opts *DetectOptions) error {
	fmt.Fprintln(w, "=== Line Format Detection ===")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "File: %s\n", logFile)
	fmt.Fprintf(w, "Lines sampled: %d\n", result.SampledLines)
	fmt.Fprintf(w, "Lines with timestamps: %d\n", result.ParsedLines)
	fmt.Fprintln(w)

	if !result.HasMatch() {
		fmt.Fprintln(w, "No line format detected.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Tip: The file may use an uncommon format.")
		fmt.Fprintln(w, "Write a log_format regex by hand; captures must include month, day, hours, minutes and seconds.")
		return nil
	}

	best := result.BestMatch()
	fmt.Fprintf(w, "Detected Format: %s\n", best.Preset.Name)
	fmt.Fprintf(w, "Confidence: %.1f%% (%d/%d lines matched)\n",
		best.Confidence*100, best.MatchCount, result.SampledLines)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Sample match:\n  %s\n", best.SampleLine)
	fmt.Fprintf(w, "Parsed as: %s\n", best.ParsedTime.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintln(w)

	if result.AmbiguityNote != "" {
		fmt.Fprintf(w, "Note: %s\n", result.AmbiguityNote)
		fmt.Fprintln(w)
	}

	snippet, err := best.Preset.Snippet()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "--- Configuration snippet (copy to your config file) ---")
	fmt.Fprintln(w)
	fmt.Fprint(w, snippet)
	fmt.Fprintln(w)

	// Show alternatives if requested
	if opts.ShowAll && len(result.Matches) > 1 {
		fmt.Fprintln(w, "--- Alternative formats detected ---")
		for i, m := range result.Matches[1:] {
			fmt.Fprintf(w, "%d. %s (%.1f%% confidence)\n", i+2, m.Preset.Name, m.Confidence*100)
			fmt.Fprintf(w, "   regex: '%s'\n", m.Preset.Regex)
			fmt.Fprintf(w, "   captures: [%s]\n", strings.Join(m.Preset.Captures, ", "))
		}
		fmt.Fprintln(w)
	}

	return nil
}

// writeStarterConfig generates a starter config file with the detected format.
func writeStarterConfig(w io.Writer, result *detector.DetectionResult, logFile, configPath string) error {
	if !result.HasMatch() {
		return fmt.Errorf("cannot generate config: no line format detected")
	}

	// Get absolute path for log file if possible
	absLogFile := logFile
	if abs, err := filepath.Abs(logFile); err == nil {
		absLogFile = abs
	}

	if err := detector.WriteStarterConfig(configPath, absLogFile, result.BestMatch().Preset); err != nil {
		return fmt.Errorf("writing starter config: %w", err)
	}

	fmt.Fprintf(w, "Wrote starter config to: %s\n\n", configPath)
	return nil
}

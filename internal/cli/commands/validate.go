package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ccollicutt/logsoul/pkg/config"
	"github.com/ccollicutt/logsoul/pkg/detector"
	"github.com/ccollicutt/logsoul/pkg/parser"
)

// Diagnostic statuses.
const (
	StatusOK      = "ok"
	StatusWarning = "warning"
	StatusError   = "error"
)

// DiagnosticResult represents the result of a single diagnostic check
type DiagnosticResult struct {
	Check    string
	Status   string // "ok", "warning", "error"
	Message  string
	Details  []string
	Suggests []string
}

// ValidateOptions holds options for the validate command
type ValidateOptions struct {
	SkipOrder bool
}

// NewValidateCommand creates the validate command
func NewValidateCommand(v *viper.Viper) *cobra.Command {
	opts := &ValidateOptions{}

	cmd := &cobra.Command{
		Use:     "validate",
		Aliases: []string{"diagnose"},
		Short:   "Validate the configuration and the log files it names",
		Long: `Validate the configuration and check it against the actual log files.

Checks:
  - Config file existence and syntax
  - Line format regex and captures
  - Log file existence, line counts and modification times
  - Line format matching against each file
  - Chronological order of each file (the time search relies on it)

Example:
  logsoul validate
  logsoul validate --config /etc/logsoul.yaml -v`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, v, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.SkipOrder, "skip-order", false, "Skip the per-file order check (reads every line)")

	return cmd
}

func runValidate(cmd *cobra.Command, v *viper.Viper, opts *ValidateOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	settings := LoadSettings(v)
	w := cmd.OutOrStdout()

	// Mismatches are summarized per file, so they are only logged in verbose mode.
	formatLog := NewLogger(cmd.ErrOrStderr(), settings.Verbose)
	if !settings.Verbose {
		formatLog.SetLevel(logrus.ErrorLevel)
	}

	results := diagnose(ctx, settings.ConfigPath, opts, formatLog)
	if errs := printDiagnostics(w, results, settings.Verbose); errs > 0 {
		return fmt.Errorf("validation found %d error(s)", errs)
	}
	return nil
}

// diagnose runs every check, stopping early when later checks cannot run.
func diagnose(ctx context.Context, configPath string, opts *ValidateOptions, log logrus.FieldLogger) []DiagnosticResult {
	results := []DiagnosticResult{}

	// 1. Check config file existence
	result := checkConfigExists(configPath)
	results = append(results, result)
	if result.Status == StatusError {
		return results
	}

	// 2. Parse config file
	cfg, result := checkConfigParseable(ctx, configPath)
	results = append(results, result)
	if result.Status == StatusError {
		return results
	}

	// 3. Resolve log files
	rt, result := checkLogFiles(cfg, log)
	results = append(results, result)
	if result.Status == StatusError {
		return results
	}

	// 4. Check each source
	for _, src := range rt.Sources {
		if ctx.Err() != nil {
			break
		}
		results = append(results, checkSource(ctx, src, rt.Format, opts))
	}

	return results
}

func checkConfigExists(path string) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Config File",
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		result.Status = StatusError
		result.Message = fmt.Sprintf("Config file not found: %s", path)
		result.Suggests = []string{
			"Check the file path is correct, or pass --config",
			"Use 'logsoul detect <log-file> --write-config logsoul.yaml' to generate a starter config",
		}
		return result
	}
	if err != nil {
		result.Status = StatusError
		result.Message = fmt.Sprintf("Cannot access config file: %v", err)
		result.Suggests = []string{"Check file permissions"}
		return result
	}
	if info.IsDir() {
		result.Status = StatusError
		result.Message = "Path is a directory, not a file"
		return result
	}
	if info.Size() == 0 {
		result.Status = StatusError
		result.Message = "Config file is empty"
		result.Suggests = []string{
			"Use 'logsoul detect <log-file> --write-config logsoul.yaml' to generate a starter config",
		}
		return result
	}

	result.Status = StatusOK
	result.Message = fmt.Sprintf("Found: %s (%d bytes)", path, info.Size())
	return result
}

func checkConfigParseable(ctx context.Context, path string) (*config.Config, DiagnosticResult) {
	result := DiagnosticResult{
		Check: "Config Syntax",
	}

	cfg, err := config.Load(ctx, path)
	if err != nil {
		result.Status = StatusError
		result.Message = fmt.Sprintf("Failed to load config: %v", err)
		switch {
		case strings.Contains(err.Error(), "yaml"), strings.Contains(err.Error(), "toml"):
			result.Suggests = []string{
				"Check the file syntax - YAML indentation uses spaces, not tabs",
			}
		case strings.Contains(err.Error(), "log_format"):
			result.Suggests = []string{
				"Use 'logsoul detect <log-file>' to get a working log_format",
			}
		}
		return nil, result
	}

	name := cfg.LogFormat.Name
	if name == "" {
		name = "(unnamed)"
	}

	result.Status = StatusOK
	result.Message = "Config file loaded successfully"
	result.Details = []string{
		fmt.Sprintf("Log file patterns: %s", strings.Join(cfg.LogFiles, ", ")),
		fmt.Sprintf("Format: %s", name),
		fmt.Sprintf("Regex: %s", cfg.LogFormat.Regex),
		fmt.Sprintf("Captures: %s", strings.Join(cfg.LogFormat.Captures, ", ")),
		fmt.Sprintf("Display width: %d", cfg.DisplayWidth),
		fmt.Sprintf("Default lookback: %s", cfg.DefaultLookback),
	}
	return cfg, result
}

func checkLogFiles(cfg *config.Config, log logrus.FieldLogger) (*config.Runtime, DiagnosticResult) {
	result := DiagnosticResult{
		Check: "Log Files",
	}

	rt, err := cfg.Resolve(parser.WithLogger(log))
	if errors.Is(err, config.ErrNoSources) {
		result.Status = StatusError
		result.Message = "No log files matched"
		result.Suggests = []string{"Check the log_files patterns in your config"}
		return nil, result
	}
	if err != nil {
		result.Status = StatusError
		result.Message = fmt.Sprintf("Cannot resolve log files: %v", err)
		return nil, result
	}

	result.Status = StatusOK
	result.Message = fmt.Sprintf("%d file(s) matched", len(rt.Sources))
	result.Details = rt.Files()
	return rt, result
}

func checkSource(ctx context.Context, src parser.LogSource, format *parser.LineFormat, opts *ValidateOptions) DiagnosticResult {
	result := DiagnosticResult{
		Check: fmt.Sprintf("Log File: %s", src.Path()),
	}

	modified, err := src.ModifiedAt()
	if err != nil {
		result.Status = StatusError
		result.Message = "File cannot be accessed"
		result.Details = []string{err.Error()}
		result.Suggests = []string{"Check the path exists and is readable"}
		return result
	}

	count, err := src.LineCount()
	if err != nil {
		result.Status = StatusError
		result.Message = fmt.Sprintf("Cannot read file: %v", err)
		return result
	}

	result.Details = []string{
		fmt.Sprintf("Lines: %d", count),
		fmt.Sprintf("Modified: %s", modified.Format(time.DateTime)),
	}

	if count == 0 {
		result.Status = StatusWarning
		result.Message = "File is empty"
		return result
	}

	if opts.SkipOrder {
		result.Status = StatusOK
		result.Message = fmt.Sprintf("%d lines (order check skipped)", count)
		return result
	}

	report, err := parser.CheckOrder(src, format)
	if err != nil {
		result.Status = StatusError
		result.Message = fmt.Sprintf("Cannot read file: %v", err)
		return result
	}

	decoded := report.Lines - report.Undecodable
	if decoded > 0 {
		result.Details = append(result.Details,
			fmt.Sprintf("First timestamp: %s", report.First.Format(time.DateTime)),
			fmt.Sprintf("Last timestamp: %s", report.Last.Format(time.DateTime)),
		)
	}

	switch {
	case decoded == 0:
		result.Status = StatusError
		result.Message = "Line format matches no lines in this file"
		result.Suggests = []string{"Use 'logsoul detect " + src.Path() + "' to find a matching format"}

		d := detector.New(detector.WithSampleSize(20))
		if detResult, err := d.DetectFromFile(ctx, src.Path()); err == nil && detResult.HasMatch() {
			best := detResult.BestMatch()
			result.Suggests = append(result.Suggests,
				fmt.Sprintf("Detected format: %s", best.Preset.Name),
				fmt.Sprintf("Suggested regex: %s", best.Preset.Regex),
				fmt.Sprintf("Suggested captures: %s", strings.Join(best.Preset.Captures, ", ")),
			)
		}
	case report.Inversions > 0:
		result.Status = StatusWarning
		result.Message = fmt.Sprintf("%d line(s) out of chronological order, first at line %d",
			report.Inversions, report.FirstInversion)
		result.Suggests = []string{"Searches may miss lines that are out of order"}
	case report.Undecodable > 0:
		result.Status = StatusWarning
		result.Message = fmt.Sprintf("Line format matches %d/%d lines", decoded, report.Lines)
		result.Suggests = []string{"Lines the format cannot stamp are never printed"}
	default:
		result.Status = StatusOK
		result.Message = fmt.Sprintf("All %d lines match and are in order", report.Lines)
	}

	return result
}

// printDiagnostics writes the results and returns the number of errors.
func printDiagnostics(w io.Writer, results []DiagnosticResult, verbose bool) int {
	fmt.Fprintln(w, "=== LogSoul Configuration Check ===")
	fmt.Fprintln(w)

	okCount := 0
	warnCount := 0
	errCount := 0

	for _, r := range results {
		// Status icon
		var icon string
		switch r.Status {
		case StatusOK:
			icon = "PASS"
			okCount++
		case StatusWarning:
			icon = "WARN"
			warnCount++
		case StatusError:
			icon = "FAIL"
			errCount++
		}

		fmt.Fprintf(w, "[%s] %s\n", icon, r.Check)
		fmt.Fprintf(w, "    %s\n", r.Message)

		if verbose || r.Status != StatusOK || len(r.Details) <= 6 {
			for _, d := range r.Details {
				fmt.Fprintf(w, "      - %s\n", truncate(d, 100))
			}
		}

		for _, s := range r.Suggests {
			fmt.Fprintf(w, "      Hint: %s\n", s)
		}

		fmt.Fprintln(w)
	}

	// Summary
	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d passed, %d warnings, %d errors\n", okCount, warnCount, errCount)

	if errCount > 0 {
		fmt.Fprintln(w, "\nFix the errors above before searching.")
	} else if warnCount > 0 {
		fmt.Fprintln(w, "\nConfiguration is usable but has warnings.")
	} else {
		fmt.Fprintln(w, "\nConfiguration looks good!")
	}

	return errCount
}

func truncate(s string, maxLen int) string {
	return runewidth.Truncate(s, maxLen, "...")
}

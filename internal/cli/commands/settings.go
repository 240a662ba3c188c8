package commands

import (
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ccollicutt/logsoul/pkg/config"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// Exit codes.
const (
	ExitOK           = 0
	ExitInvalidQuery = 1
	ExitError        = 2
)

// Settings keys shared by all commands.
const (
	KeyConfig  = "config"
	KeyVerbose = "verbose"
	KeyNoColor = "no-color"
)

// Settings are the global options resolved from flags and environment.
type Settings struct {
	ConfigPath string
	Verbose    bool
	NoColor    bool
}

// BindGlobalFlags registers the persistent flags on root and binds them to v.
// Environment variables use the LOGSOUL_ prefix (LOGSOUL_CONFIG,
// LOGSOUL_VERBOSE, LOGSOUL_NO_COLOR).
func BindGlobalFlags(root *cobra.Command, v *viper.Viper) {
	flags := root.PersistentFlags()
	flags.String(KeyConfig, config.DefaultConfigFile, "Config file (YAML, or TOML with a .toml extension)")
	flags.BoolP(KeyVerbose, "v", false, "Enable debug logging on stderr")
	flags.Bool(KeyNoColor, false, "Disable colored output")

	_ = v.BindPFlag(KeyConfig, flags.Lookup(KeyConfig))
	_ = v.BindPFlag(KeyVerbose, flags.Lookup(KeyVerbose))
	_ = v.BindPFlag(KeyNoColor, flags.Lookup(KeyNoColor))

	v.SetEnvPrefix("LOGSOUL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

// LoadSettings reads the global settings from v. A non-empty NO_COLOR
// disables color regardless of flags.
func LoadSettings(v *viper.Viper) Settings {
	return Settings{
		ConfigPath: v.GetString(KeyConfig),
		Verbose:    v.GetBool(KeyVerbose),
		NoColor:    v.GetBool(KeyNoColor) || os.Getenv("NO_COLOR") != "",
	}
}

// NewLogger creates the diagnostics logger writing to w.
func NewLogger(w io.Writer, verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp:       true,
		DisableLevelTruncation: true,
	})
	log.SetLevel(logrus.InfoLevel)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

// useColor reports whether output to w should be colored.
func useColor(w io.Writer, noColor bool) bool {
	if noColor {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

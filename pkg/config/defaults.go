package config

import (
	"os"
	"strconv"
	"time"
)

// Default values for configuration.
const (
	DefaultConfigFile   = "logsoul.yaml"
	DefaultDisplayWidth = 120
	DefaultLookback     = 5 * time.Minute

	// DefaultRegex matches BSD syslog lines: "Mar  4 10:05:00 host class[pid]: message".
	DefaultRegex = `^(\w{3})\s+(\d{1,2}) (\d{2}):(\d{2}):(\d{2}) (\S+) ([^:\[\s]+)(?:\[\d+\])?: (.*)$`
)

// DefaultCaptures names the groups of DefaultRegex.
var DefaultCaptures = []string{"month", "day", "hours", "minutes", "seconds", "machine", "class", "message"}

// Environment variable names.
const (
	EnvLogFiles     = "LOGSOUL_LOG_FILES"
	EnvDisplayWidth = "LOGSOUL_DISPLAY_WIDTH"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		LogFiles:        StringList{},
		DisplayWidth:    DefaultDisplayWidth,
		DefaultLookback: DefaultLookback,
	}
}

// applyFormatDefaults fills in the syslog format when no regex was configured.
// Captures are only defaulted together with the regex, so a custom regex with
// named groups is never paired with the default capture list.
func (c *Config) applyFormatDefaults() {
	if c.LogFormat.Regex != "" {
		return
	}
	c.LogFormat.Regex = DefaultRegex
	c.LogFormat.Captures = append([]string(nil), DefaultCaptures...)
	if c.LogFormat.Name == "" {
		c.LogFormat.Name = "syslog"
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() {
	if files := os.Getenv(EnvLogFiles); files != "" {
		c.LogFiles = splitList(files)
	}
	if width := os.Getenv(EnvDisplayWidth); width != "" {
		if n, err := strconv.Atoi(width); err == nil {
			c.DisplayWidth = n
		}
	}
}

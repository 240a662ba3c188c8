// Package config provides configuration loading and validation for LogSoul.
package config

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure loaded from YAML or TOML.
type Config struct {
	// LogFiles holds one or more globs naming the files to search.
	LogFiles StringList `yaml:"log_files" toml:"log_files"`

	// LogFormat is the single active line format for the run.
	LogFormat LogFormatConfig `yaml:"log_format" toml:"log_format"`

	// DisplayWidth is the maximum width of an output line, in terminal cells.
	DisplayWidth int `yaml:"display_width,omitempty" toml:"display_width,omitempty"`

	// DefaultLookback is how far back a search starts when no start time is given.
	DefaultLookback time.Duration `yaml:"default_lookback,omitempty" toml:"-"`
}

// LogFormatConfig describes how to decompose a log line.
type LogFormatConfig struct {
	// Name is an optional label shown by validate.
	Name string `yaml:"name,omitempty" toml:"name,omitempty"`

	// Regex is matched against each line. Its capture groups hold the fields.
	Regex string `yaml:"regex" toml:"regex"`

	// Captures names the capture groups in order: the first entry names group 1.
	// When empty, the regex's named groups are used.
	Captures []string `yaml:"captures,omitempty" toml:"captures,omitempty"`

	// compiledRegex is the pre-compiled regex (populated during validation).
	compiledRegex *regexp.Regexp
}

// CompiledRegex returns the pre-compiled regex.
func (f *LogFormatConfig) CompiledRegex() *regexp.Regexp {
	return f.compiledRegex
}

// StringList is a list of strings that may be written as a single scalar.
type StringList []string

// UnmarshalYAML accepts either a scalar or a sequence.
func (l *StringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*l = splitList(value.Value)
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := value.Decode(&items); err != nil {
			return err
		}
		*l = items
		return nil
	default:
		return fmt.Errorf("line %d: expected a string or a list of strings", value.Line)
	}
}

// splitList splits a comma-separated value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

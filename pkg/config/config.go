package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/logsoul/pkg/parser"
)

// ErrNoSources is returned when the configured globs name no files at all.
var ErrNoSources = errors.New("no log files configured")

// Load reads and validates a configuration file. Files ending in .toml are
// parsed as TOML, everything else as YAML.
func Load(_ context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = decodeTOML(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyFormatDefaults()
	cfg.applyEnvironmentOverrides()

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// tomlConfig mirrors Config for TOML, where log_files may be a string or an
// array and durations are written as strings.
type tomlConfig struct {
	LogFiles        interface{}     `toml:"log_files"`
	LogFormat       LogFormatConfig `toml:"log_format"`
	DisplayWidth    *int            `toml:"display_width"`
	DefaultLookback string          `toml:"default_lookback"`
}

func decodeTOML(data []byte, cfg *Config) error {
	var raw tomlConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch v := raw.LogFiles.(type) {
	case nil:
	case string:
		cfg.LogFiles = splitList(v)
	case []interface{}:
		files := make(StringList, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("log_files: expected strings, got %T", item)
			}
			files = append(files, s)
		}
		cfg.LogFiles = files
	default:
		return fmt.Errorf("log_files: expected a string or an array, got %T", v)
	}

	cfg.LogFormat = raw.LogFormat
	if raw.DisplayWidth != nil {
		cfg.DisplayWidth = *raw.DisplayWidth
	}
	if raw.DefaultLookback != "" {
		d, err := time.ParseDuration(raw.DefaultLookback)
		if err != nil {
			return fmt.Errorf("default_lookback: %w", err)
		}
		cfg.DefaultLookback = d
	}
	return nil
}

// Validate checks a configuration for errors and compiles the line format regex.
func Validate(cfg *Config) error {
	if len(cfg.LogFiles) == 0 {
		return errors.New("log_files: at least one log file pattern is required")
	}

	if err := validateLogFormat(&cfg.LogFormat); err != nil {
		return fmt.Errorf("log_format: %w", err)
	}

	if cfg.DisplayWidth <= 0 {
		return fmt.Errorf("display_width: must be positive, got %d", cfg.DisplayWidth)
	}

	if cfg.DefaultLookback <= 0 {
		return fmt.Errorf("default_lookback: must be positive, got %s", cfg.DefaultLookback)
	}

	return nil
}

func validateLogFormat(lf *LogFormatConfig) error {
	if lf.Regex == "" {
		return errors.New("regex is required")
	}

	re, err := regexp.Compile(lf.Regex)
	if err != nil {
		return fmt.Errorf("invalid regex: %w", err)
	}

	format, err := parser.NewLineFormat(re, lf.Captures)
	if err != nil {
		return err
	}

	var missing []string
	for _, field := range parser.TimeFields {
		if !format.Captures(field) {
			missing = append(missing, string(field))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("captures must include the time fields, missing: %s", strings.Join(missing, ", "))
	}

	lf.compiledRegex = re
	return nil
}

// Runtime is the resolved, read-only configuration for one run: the log
// sources and the active line format.
type Runtime struct {
	Format          *parser.LineFormat
	Sources         []parser.LogSource
	DisplayWidth    int
	DefaultLookback time.Duration
}

// Resolve expands the log file globs and builds the active line format.
// Environment variables in globs are expanded first.
func (c *Config) Resolve(opts ...parser.FormatOption) (*Runtime, error) {
	if c.LogFormat.compiledRegex == nil {
		if err := Validate(c); err != nil {
			return nil, err
		}
	}

	patterns := make([]string, 0, len(c.LogFiles))
	for _, p := range c.LogFiles {
		patterns = append(patterns, os.ExpandEnv(p))
	}

	files, err := parser.ExpandGlobs(patterns)
	if err != nil {
		return nil, fmt.Errorf("expanding log files: %w", err)
	}
	if len(files) == 0 {
		return nil, ErrNoSources
	}

	opts = append([]parser.FormatOption{parser.WithName(c.LogFormat.Name)}, opts...)
	format, err := parser.NewLineFormat(c.LogFormat.compiledRegex, c.LogFormat.Captures, opts...)
	if err != nil {
		return nil, fmt.Errorf("building log format: %w", err)
	}

	return &Runtime{
		Format:          format,
		Sources:         parser.NewFileSources(files),
		DisplayWidth:    c.DisplayWidth,
		DefaultLookback: c.DefaultLookback,
	}, nil
}

// Files returns the paths of the runtime's sources.
func (r *Runtime) Files() []string {
	files := make([]string, 0, len(r.Sources))
	for _, s := range r.Sources {
		files = append(files, s.Path())
	}
	return files
}

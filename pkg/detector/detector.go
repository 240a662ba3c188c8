// Package detector suggests a line format for a log file by trying the
// built-in presets against a sample of its lines.
package detector

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/logsoul/pkg/config"
)

// DefaultSampleSize is the number of lines sampled when no size is given.
const DefaultSampleSize = 100

// DetectionResult holds the result of analyzing a log file.
type DetectionResult struct {
	Matches       []FormatMatch // Presets that matched, best first
	SampledLines  int           // Number of lines sampled
	ParsedLines   int           // Number of lines the best preset stamped
	AmbiguityNote string        // Warning about date ordering if applicable
}

// FormatMatch is a preset that stamped at least one sampled line.
type FormatMatch struct {
	Preset     *Preset
	Confidence float64   // 0.0 to 1.0 (fraction of lines stamped)
	MatchCount int       // Number of lines stamped
	SampleLine string    // First line the preset stamped
	ParsedTime time.Time // Timestamp of the sample line
}

// Detector analyzes log files to identify their line format.
type Detector struct {
	presets    []*Preset
	sampleSize int
}

// Option configures the Detector.
type Option func(*Detector)

// WithSampleSize sets the number of lines to sample (default 100).
func WithSampleSize(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.sampleSize = n
		}
	}
}

// WithPresets replaces the built-in presets.
func WithPresets(presets []*Preset) Option {
	return func(d *Detector) {
		if len(presets) > 0 {
			d.presets = presets
		}
	}
}

// New creates a new Detector with the default presets. Mismatches are
// expected while probing, so presets log to a discarding logger.
func New(opts ...Option) *Detector {
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)

	d := &Detector{
		presets:    DefaultPresets(quiet),
		sampleSize: DefaultSampleSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DetectFromFile samples the head of a log file and ranks the presets.
func (d *Detector) DetectFromFile(ctx context.Context, path string) (*DetectionResult, error) {
	lines, err := d.sampleFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return d.DetectFromLines(lines), nil
}

// DetectFromLines ranks the presets by the fraction of lines each can stamp.
func (d *Detector) DetectFromLines(lines []string) *DetectionResult {
	var sample []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		sample = append(sample, line)
	}

	result := &DetectionResult{
		SampledLines: len(sample),
	}
	if len(sample) == 0 {
		return result
	}

	for _, preset := range d.presets {
		var match FormatMatch
		for _, line := range sample {
			decoded, ok := preset.format.Decompose(line)
			if !ok || !decoded.HasTimestamp() {
				continue
			}
			if match.MatchCount == 0 {
				match.SampleLine = line
				match.ParsedTime = decoded.Timestamp
			}
			match.MatchCount++
		}
		if match.MatchCount == 0 {
			continue
		}
		match.Preset = preset
		match.Confidence = float64(match.MatchCount) / float64(len(sample))
		result.Matches = append(result.Matches, match)
	}

	// Sort by confidence descending, then by captured fields (more specific
	// first), then by pattern length.
	sort.SliceStable(result.Matches, func(i, j int) bool {
		a, b := result.Matches[i], result.Matches[j]
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if len(a.Preset.Captures) != len(b.Preset.Captures) {
			return len(a.Preset.Captures) > len(b.Preset.Captures)
		}
		return len(a.Preset.Regex) > len(b.Preset.Regex)
	})

	if len(result.Matches) > 0 {
		result.ParsedLines = result.Matches[0].MatchCount
	}

	if len(result.Matches) > 0 && result.Matches[0].Preset.Ambiguous {
		result.AmbiguityNote = "This format has date ordering ambiguity (MM/DD vs DD/MM). " +
			"Verify the captures match your log format. " +
			"For day-first dates, swap month and day in captures."
	}

	return result
}

// sampleFile reads up to sampleSize non-blank, non-comment lines from a file.
func (d *Detector) sampleFile(ctx context.Context, path string) ([]string, error) {
	// #nosec G304 - path is provided by user via CLI
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)

	for len(lines) < d.sampleSize && scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed != "" && !strings.HasPrefix(trimmed, "#") {
			lines = append(lines, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}

// BestMatch returns the highest confidence match, or nil if none found.
func (r *DetectionResult) BestMatch() *FormatMatch {
	if len(r.Matches) == 0 {
		return nil
	}
	return &r.Matches[0]
}

// HasMatch returns true if at least one preset matched.
func (r *DetectionResult) HasMatch() bool {
	return len(r.Matches) > 0
}

// LogFormat returns the preset as a config log_format section.
func (p *Preset) LogFormat() config.LogFormatConfig {
	return config.LogFormatConfig{
		Name:     p.Name,
		Regex:    p.Regex,
		Captures: append([]string(nil), p.Captures...),
	}
}

// Snippet renders the preset as a ready-to-paste log_format YAML block.
func (p *Preset) Snippet() (string, error) {
	doc := struct {
		LogFormat config.LogFormatConfig `yaml:"log_format"`
	}{LogFormat: p.LogFormat()}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("rendering log_format: %w", err)
	}
	return string(out), nil
}

// ErrConfigExists is returned by WriteStarterConfig when the target exists.
var ErrConfigExists = errors.New("config file already exists")

// WriteStarterConfig writes a minimal config that searches logFile with the
// preset. It never overwrites an existing file.
func WriteStarterConfig(path, logFile string, p *Preset) error {
	cfg := config.Config{
		LogFiles:  config.StringList{logFile},
		LogFormat: p.LogFormat(),
	}
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("rendering config: %w", err)
	}

	// #nosec G304 - path is provided by user via CLI
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if errors.Is(err, os.ErrExist) {
		return fmt.Errorf("%s: %w", path, ErrConfigExists)
	}
	if err != nil {
		return fmt.Errorf("creating config: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("writing config: %w", err)
	}
	return f.Close()
}

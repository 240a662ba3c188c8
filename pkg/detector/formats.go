package detector

import (
	"regexp"

	"github.com/sirupsen/logrus"

	"github.com/ccollicutt/logsoul/pkg/config"
	"github.com/ccollicutt/logsoul/pkg/parser"
)

// Preset is a known line format that detection can suggest.
type Preset struct {
	Name      string   // Human-readable name
	Regex     string   // Pattern string for config output
	Captures  []string // Field names for the capture groups, in order
	Examples  []string // Example lines
	Ambiguous bool     // True if the date has MM/DD vs DD/MM ambiguity

	format *parser.LineFormat
}

// Format returns the compiled line format.
func (p *Preset) Format() *parser.LineFormat {
	return p.format
}

var timeCaptures = []string{"month", "day", "hours", "minutes", "seconds"}

func withTime(fields ...string) []string {
	return append(append([]string{}, timeCaptures...), fields...)
}

// DefaultPresets returns the built-in line formats to detect.
// Presets are ordered roughly by specificity (more specific patterns first).
func DefaultPresets(log logrus.FieldLogger) []*Preset {
	presets := []*Preset{
		// Syslog with a program name and optional [pid]
		{
			Name:     "Syslog",
			Regex:    config.DefaultRegex,
			Captures: withTime("machine", "class", "message"),
			Examples: []string{"Jun 14 15:16:01 combo sshd[19939]: Failed password for root"},
		},
		// Syslog BSD without a recognizable program name
		{
			Name:     "Syslog (BSD)",
			Regex:    `^(\w{3})\s+(\d{1,2}) (\d{2}):(\d{2}):(\d{2}) (\S+) (.*)$`,
			Captures: withTime("machine", "message"),
			Examples: []string{"Jan  5 09:30:00 host kernel message"},
		},
		// Bracketed month and day with a class
		{
			Name:     "Bracketed syslog time",
			Regex:    `^\[(\w{3})\s+(\d{1,2}) (\d{2}):(\d{2}):(\d{2})\] ([^:]+): (.*)$`,
			Captures: withTime("class", "message"),
			Examples: []string{"[Mar  4 10:05:00] worker: job finished"},
		},
		// Numeric month and day, class, message
		{
			Name:      "Numeric month/day",
			Regex:     `^(\d{2})/(\d{2}) (\d{2}):(\d{2}):(\d{2}) (\S+) (.*)$`,
			Captures:  withTime("class", "message"),
			Examples:  []string{"03/04 10:05:00 worker job finished"},
			Ambiguous: true,
		},
		// ISO 8601 with T separator, optional fraction and zone
		{
			Name:     "ISO 8601",
			Regex:    `^\d{4}-(\d{2})-(\d{2})T(\d{2}):(\d{2}):(\d{2}(?:\.\d+)?)(?:Z|[+-]\d{2}:?\d{2})?\s+(.*)$`,
			Captures: withTime("message"),
			Examples: []string{"2024-01-15T10:30:00Z Event", "2024-01-15T10:30:00.123+00:00 Event"},
		},
		// Bracketed datetime
		{
			Name:     "Bracketed datetime",
			Regex:    `^\[\d{4}-(\d{2})-(\d{2}) (\d{2}):(\d{2}):(\d{2})\]\s*(\w+)?\s*(.*)$`,
			Captures: withTime("class", "message"),
			Examples: []string{"[2024-01-15 10:30:00] INFO Application started"},
		},
		// Python logging, Log4j and plain datetimes
		{
			Name:     "Datetime with level",
			Regex:    `^\d{4}-(\d{2})-(\d{2})\s+(\d{2}):(\d{2}):(\d{2}(?:[.,]\d+)?)\s+([A-Z]+)\s+(.*)$`,
			Captures: withTime("class", "message"),
			Examples: []string{"2024-01-15 10:30:00,123 INFO Starting", "2024-01-15 10:30:00.123 DEBUG Processing"},
		},
		{
			Name:     "Datetime (space-separated)",
			Regex:    `^\d{4}-(\d{2})-(\d{2})\s+(\d{2}):(\d{2}):(\d{2}(?:[.,]\d+)?)\s+(.*)$`,
			Captures: withTime("message"),
			Examples: []string{"2024-01-15 10:30:00 Event"},
		},
		// Apache/NGINX common log format
		{
			Name:     "Apache/NGINX CLF",
			Regex:    `^(\S+) \S+ \S+ \[(\d{2})/(\w{3})/\d{4}:(\d{2}):(\d{2}):(\d{2}) [+-]\d{4}\] (.*)$`,
			Captures: []string{"machine", "day", "month", "hours", "minutes", "seconds", "message"},
			Examples: []string{`192.168.1.1 - - [15/Jun/2024:10:30:00 +0000] "GET / HTTP/1.1" 200 1234`},
		},
		// Apache error log [Day Mon DD HH:MM:SS YYYY] [level]
		{
			Name:     "Apache error log",
			Regex:    `^\[\w{3} (\w{3}) (\d{2}) (\d{2}):(\d{2}):(\d{2}) \d{4}\] \[(\w+)\] (.*)$`,
			Captures: withTime("class", "message"),
			Examples: []string{"[Sun Dec 04 04:47:44 2005] [error] mod_jk child init"},
		},
		// Spark/Hadoop short date YY/MM/DD HH:MM:SS LEVEL component: message
		{
			Name:     "Spark/Hadoop short date",
			Regex:    `^\d{2}/(\d{2})/(\d{2}) (\d{2}):(\d{2}):(\d{2}) \w+ ([^:\s]+): (.*)$`,
			Captures: withTime("class", "message"),
			Examples: []string{"17/06/09 20:10:40 INFO executor.Backend: Registered"},
		},
		// US date format MM/DD/YYYY (ambiguous)
		{
			Name:      "US date format (MM/DD/YYYY)",
			Regex:     `^(\d{2})/(\d{2})/\d{4}\s+(\d{2}):(\d{2}):(\d{2})\s+(.*)$`,
			Captures:  withTime("message"),
			Examples:  []string{"01/15/2024 10:30:00 Event"},
			Ambiguous: true,
		},
	}

	for _, p := range presets {
		f, err := parser.NewLineFormat(regexp.MustCompile(p.Regex), p.Captures,
			parser.WithName(p.Name),
			parser.WithLogger(log),
		)
		if err != nil {
			panic("detector: invalid preset " + p.Name + ": " + err.Error())
		}
		p.format = f
	}

	return presets
}

package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// LineFormat decomposes raw log lines with a compiled pattern.
// It is immutable after construction and safe to share.
type LineFormat struct {
	name  string
	re    *regexp.Regexp
	index map[Field]int

	now func() time.Time
	loc *time.Location
	log logrus.FieldLogger
}

// FormatOption configures a LineFormat.
type FormatOption func(*LineFormat)

// WithName sets a display name for the format.
func WithName(name string) FormatOption {
	return func(f *LineFormat) {
		f.name = name
	}
}

// WithClock sets the clock the timestamp year is taken from.
func WithClock(now func() time.Time) FormatOption {
	return func(f *LineFormat) {
		if now != nil {
			f.now = now
		}
	}
}

// WithLocation sets the time zone timestamps are interpreted in (default Local).
func WithLocation(loc *time.Location) FormatOption {
	return func(f *LineFormat) {
		if loc != nil {
			f.loc = loc
		}
	}
}

// WithLogger sets the logger used to report lines that do not match.
func WithLogger(log logrus.FieldLogger) FormatOption {
	return func(f *LineFormat) {
		if log != nil {
			f.log = log
		}
	}
}

// NewLineFormat builds a LineFormat from a compiled pattern. Capture i in
// captures names group i+1. When captures is empty the pattern's named groups
// are used instead. Unknown capture names are rejected.
func NewLineFormat(re *regexp.Regexp, captures []string, opts ...FormatOption) (*LineFormat, error) {
	if re == nil {
		return nil, fmt.Errorf("pattern is required")
	}

	index, err := buildIndex(re, captures)
	if err != nil {
		return nil, err
	}

	f := &LineFormat{
		re:    re,
		index: index,
		now:   time.Now,
		loc:   time.Local,
		log:   logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

func buildIndex(re *regexp.Regexp, captures []string) (map[Field]int, error) {
	index := make(map[Field]int)

	if len(captures) == 0 {
		for i, name := range re.SubexpNames() {
			if name == "" {
				continue
			}
			if field, ok := LookupField(name); ok {
				index[field] = i
			}
		}
		return index, nil
	}

	if len(captures) > re.NumSubexp() {
		return nil, fmt.Errorf("pattern has only %d capture groups, but %d captures are named",
			re.NumSubexp(), len(captures))
	}

	for i, name := range captures {
		field, ok := LookupField(strings.ToLower(strings.TrimSpace(name)))
		if !ok {
			return nil, fmt.Errorf("unknown capture %q", name)
		}
		if _, dup := index[field]; dup {
			return nil, fmt.Errorf("capture %q is named more than once", name)
		}
		index[field] = i + 1
	}
	return index, nil
}

// Name returns the display name of the format.
func (f *LineFormat) Name() string {
	return f.name
}

// Pattern returns the compiled pattern.
func (f *LineFormat) Pattern() *regexp.Regexp {
	return f.re
}

// Captures reports whether the format has a capture group for the field.
func (f *LineFormat) Captures(field Field) bool {
	_, ok := f.index[field]
	return ok
}

// TimestampFrom extracts the timestamp of a line. It reports false when the
// line does not match or its time fields are invalid. A mismatch is logged.
func (f *LineFormat) TimestampFrom(line string) (time.Time, bool) {
	m := f.re.FindStringSubmatch(line)
	if m == nil {
		f.reportMismatch(line)
		return time.Time{}, false
	}
	return f.timestamp(m)
}

// Decompose extracts the timestamp and text fields of a line. It returns nil
// and false when the line does not match; the mismatch is logged. A matching
// line with invalid time fields yields a DecodedLine without a timestamp.
func (f *LineFormat) Decompose(line string) (*DecodedLine, bool) {
	m := f.re.FindStringSubmatch(line)
	if m == nil {
		f.reportMismatch(line)
		return nil, false
	}

	d := &DecodedLine{present: make(map[Field]bool, 3)}
	if ts, ok := f.timestamp(m); ok {
		d.Timestamp = ts
	}
	if v, ok := f.capture(m, FieldMessage); ok {
		d.Message = v
		d.present[FieldMessage] = true
	}
	if v, ok := f.capture(m, FieldMachine); ok {
		d.Machine = v
		d.present[FieldMachine] = true
	}
	if v, ok := f.capture(m, FieldClass); ok {
		d.Class = v
		d.present[FieldClass] = true
	}
	return d, true
}

// Compare orders a line against t: negative when the line is earlier, zero
// when equal, positive when later. Lines without a usable timestamp compare
// as positive, so a seek never skips past them.
func (f *LineFormat) Compare(line string, t time.Time) int {
	ts, ok := f.TimestampFrom(line)
	if !ok {
		return 1
	}
	return ts.Compare(t)
}

func (f *LineFormat) capture(m []string, field Field) (string, bool) {
	i, ok := f.index[field]
	if !ok || i >= len(m) {
		return "", false
	}
	return m[i], true
}

func (f *LineFormat) timestamp(m []string) (time.Time, bool) {
	var raw [5]string
	for i, field := range TimeFields {
		v, ok := f.capture(m, field)
		if !ok {
			return time.Time{}, false
		}
		raw[i] = strings.TrimSpace(v)
	}

	month, ok := parseMonth(raw[0])
	if !ok {
		return time.Time{}, false
	}
	day, ok := parseBounded(raw[1], 1, 31)
	if !ok {
		return time.Time{}, false
	}
	hour, ok := parseBounded(raw[2], 0, 23)
	if !ok {
		return time.Time{}, false
	}
	minute, ok := parseBounded(raw[3], 0, 59)
	if !ok {
		return time.Time{}, false
	}
	sec, nsec, ok := parseSeconds(raw[4])
	if !ok {
		return time.Time{}, false
	}

	// The line carries no year; timestamps are always this year.
	year := f.now().In(f.loc).Year()
	ts := time.Date(year, month, day, hour, minute, sec, nsec, f.loc)
	if ts.Day() != day {
		// Feb 30 and friends would otherwise roll into the next month.
		return time.Time{}, false
	}
	return ts, true
}

func (f *LineFormat) reportMismatch(line string) {
	f.log.WithField("line", line).Warn("couldn't match line against log format")
}

var monthNames = map[string]time.Month{}

func init() {
	for m := time.January; m <= time.December; m++ {
		name := strings.ToLower(m.String())
		monthNames[name] = m
		monthNames[name[:3]] = m
	}
	monthNames["sept"] = time.September
}

func parseMonth(s string) (time.Month, bool) {
	if n, ok := parseBounded(s, 1, 12); ok {
		return time.Month(n), true
	}
	m, ok := monthNames[strings.ToLower(s)]
	return m, ok
}

func parseBounded(s string, lo, hi int) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < lo || n > hi {
		return 0, false
	}
	return n, true
}

// parseSeconds accepts whole seconds with an optional fraction after '.' or ','.
func parseSeconds(s string) (int, int, bool) {
	whole, frac, hasFrac := strings.Cut(strings.Replace(s, ",", ".", 1), ".")
	sec, ok := parseBounded(whole, 0, 60)
	if !ok {
		return 0, 0, false
	}
	if !hasFrac {
		return sec, 0, true
	}
	v, err := strconv.ParseFloat("0."+frac, 64)
	if err != nil {
		return 0, 0, false
	}
	return sec, int(v * float64(time.Second)), true
}

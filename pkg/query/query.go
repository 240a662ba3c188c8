// Package query resolves search parameters into a validated time window and
// a set of line filters.
package query

import (
	"fmt"
	"regexp"
	"time"

	"github.com/ccollicutt/logsoul/pkg/config"
	"github.com/ccollicutt/logsoul/pkg/parser"
)

// DefaultLookback is the window used when no start time is given and the
// configuration does not override it.
const DefaultLookback = 5 * time.Minute

// Params are the raw query parameters, already split out of the command line.
type Params struct {
	From  string // start of the window; takes precedence over Start
	Start string
	To    string // end of the window; takes precedence over End
	End   string

	// Class is an optional pattern matched against the decoded class field.
	Class string

	// Patterns must all match a line for it to qualify.
	Patterns []string

	// Fuzzy matches Patterns with the fzf algorithm instead of as regexps.
	Fuzzy bool
}

// Query is a resolved search: a time window, required filters, and an
// optional origin constraint.
type Query struct {
	StartTime time.Time
	EndTime   time.Time
	Filters   []Matcher
	Origin    *regexp.Regexp

	runtime *config.Runtime
}

// Option configures query resolution.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithNow sets the clock relative specs are resolved against.
func WithNow(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// New resolves params against the runtime configuration. Unparsable time
// specs and invalid patterns are errors; a window that ends before it starts
// is not, and is reported by Errors instead.
func New(rt *config.Runtime, p Params, opts ...Option) (*Query, error) {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	now := o.now()

	lookback := DefaultLookback
	if rt != nil && rt.DefaultLookback > 0 {
		lookback = rt.DefaultLookback
	}

	q := &Query{runtime: rt}

	start, err := resolveTime(firstNonEmpty(p.From, p.Start), now, Lower, now.Add(-lookback))
	if err != nil {
		return nil, fmt.Errorf("start time: %w", err)
	}
	end, err := resolveTime(firstNonEmpty(p.To, p.End), now, Upper, now)
	if err != nil {
		return nil, fmt.Errorf("end time: %w", err)
	}
	q.StartTime, q.EndTime = start, end

	kind := MatcherRegexp
	if p.Fuzzy {
		kind = MatcherFuzzy
	}
	for _, term := range p.Patterns {
		m, err := NewMatcher(kind, term)
		if err != nil {
			return nil, err
		}
		q.Filters = append(q.Filters, m)
	}

	if p.Class != "" {
		re, err := regexp.Compile(p.Class)
		if err != nil {
			return nil, fmt.Errorf("invalid class pattern %q: %w", p.Class, err)
		}
		q.Origin = re
	}

	return q, nil
}

func resolveTime(spec string, now time.Time, bound Bound, fallback time.Time) (time.Time, error) {
	if spec == "" {
		return fallback, nil
	}
	return ParseTimeSpec(spec, now, bound)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Runtime returns the configuration the query runs against.
func (q *Query) Runtime() *config.Runtime {
	return q.runtime
}

// Format returns the active line format.
func (q *Query) Format() *parser.LineFormat {
	if q.runtime == nil {
		return nil
	}
	return q.runtime.Format
}

// Errors lists every reason the query cannot run, one human-readable entry each.
func (q *Query) Errors() []string {
	var errs []string
	if q.EndTime.Before(q.StartTime) {
		errs = append(errs, fmt.Sprintf("start time (%s) is after end time (%s)",
			q.StartTime.Format(time.DateTime), q.EndTime.Format(time.DateTime)))
	}
	return errs
}

// IsValid reports whether the query has no errors.
func (q *Query) IsValid() bool {
	return len(q.Errors()) == 0
}

// Matches reports whether a line qualifies: every filter matches the raw line,
// and the origin, if any, matches the decoded class.
func (q *Query) Matches(raw string, decoded *parser.DecodedLine) bool {
	for _, f := range q.Filters {
		if !f.Match(raw) {
			return false
		}
	}
	if q.Origin == nil {
		return true
	}
	if !decoded.Has(parser.FieldClass) {
		return false
	}
	return q.Origin.MatchString(decoded.Class)
}

// SameDay reports whether the window starts and ends on the same calendar day.
func (q *Query) SameDay() bool {
	sy, sm, sd := q.StartTime.Date()
	ey, em, ed := q.EndTime.Date()
	return sy == ey && sm == em && sd == ed
}

// InWindow reports whether t lies inside [StartTime, EndTime].
func (q *Query) InWindow(t time.Time) bool {
	return !t.Before(q.StartTime) && !t.After(q.EndTime)
}

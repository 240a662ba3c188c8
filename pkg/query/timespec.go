package query

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Bound says which end of the window a time spec is resolved for.
type Bound int

const (
	// Lower resolves day phrases to the start of the day.
	Lower Bound = iota
	// Upper resolves day phrases to the start of the following day.
	Upper
)

var (
	// "5.minutes.ago", "2.hours", "1.5.days ago"
	unitSpecRe = regexp.MustCompile(`^(\d+(?:\.\d+)?)\.(second|minute|hour|day|week)s?(?:\.ago|\s+ago)?$`)

	// "30s", "30m", "2h", "7d", "1w"
	shortSpecRe = regexp.MustCompile(`^(\d+)([smhdw])$`)
)

var unitDurations = map[string]time.Duration{
	"second": time.Second,
	"minute": time.Minute,
	"hour":   time.Hour,
	"day":    24 * time.Hour,
	"week":   7 * 24 * time.Hour,
	"s":      time.Second,
	"m":      time.Minute,
	"h":      time.Hour,
	"d":      24 * time.Hour,
	"w":      7 * 24 * time.Hour,
}

var absoluteLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
}

var clockLayouts = []string{
	"15:04:05",
	"15:04",
}

// ParseTimeSpec resolves a time spec relative to now. No part of the input is
// ever evaluated as code; anything outside the grammar below is an error.
//
// Examples:
//   - "now" -> now
//   - "5.minutes.ago", "2.hours", "1.5.days ago" -> that long before now
//   - "30m", "2h", "7d" -> that long before now
//   - "2026-03-04 10:05:00", RFC3339 -> that instant, in now's location
//   - "10:05", "10:05:30" -> that time today
//   - "today", "yesterday", "2026-03-04" -> start of that day for Lower,
//     start of the next day for Upper
func ParseTimeSpec(spec string, now time.Time, bound Bound) (time.Time, error) {
	s := strings.ToLower(strings.TrimSpace(spec))
	loc := now.Location()

	switch s {
	case "", "now":
		return now, nil
	case "today":
		return dayBound(now, bound), nil
	case "yesterday":
		return dayBound(now.AddDate(0, 0, -1), bound), nil
	}

	if m := unitSpecRe.FindStringSubmatch(s); m != nil {
		n, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid time spec %q: %w", spec, err)
		}
		return now.Add(-time.Duration(n * float64(unitDurations[m[2]]))), nil
	}

	if m := shortSpecRe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		return now.Add(-time.Duration(n) * unitDurations[m[2]]), nil
	}

	trimmed := strings.TrimSpace(spec)
	for _, layout := range absoluteLayouts {
		if t, err := time.ParseInLocation(layout, trimmed, loc); err == nil {
			return t, nil
		}
	}

	if t, err := time.ParseInLocation("2006-01-02", trimmed, loc); err == nil {
		return dayBound(t, bound), nil
	}

	for _, layout := range clockLayouts {
		if t, err := time.ParseInLocation(layout, trimmed, loc); err == nil {
			y, mo, d := now.Date()
			return time.Date(y, mo, d, t.Hour(), t.Minute(), t.Second(), 0, loc), nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid time spec %q - use N.unit.ago (5.minutes.ago), relative (30m, 2h, 7d), "+
		"a date (2026-03-04), a date and time (2026-03-04 10:05), a time of day (10:05), today or yesterday", spec)
}

func dayBound(t time.Time, bound Bound) time.Time {
	y, m, d := t.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	if bound == Upper {
		return start.AddDate(0, 0, 1)
	}
	return start
}

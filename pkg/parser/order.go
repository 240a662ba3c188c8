package parser

import "time"

// OrderReport summarizes how well a source satisfies the time-ordering the
// seek relies on.
type OrderReport struct {
	Lines       int
	Undecodable int
	// Inversions counts lines whose timestamp is earlier than the latest
	// timestamp seen before them.
	Inversions int
	// FirstInversion is the 1-based line number of the first inversion.
	FirstInversion int

	First time.Time
	Last  time.Time
}

// Ordered reports whether no inversions were found.
func (r *OrderReport) Ordered() bool {
	return r.Inversions == 0
}

// CheckOrder scans every line of src and reports undecodable lines and
// timestamp inversions.
func CheckOrder(src LogSource, format *LineFormat) (*OrderReport, error) {
	lines, err := src.Lines()
	if err != nil {
		return nil, err
	}

	report := &OrderReport{Lines: len(lines)}
	var latest time.Time
	for i, line := range lines {
		ts, ok := format.TimestampFrom(line)
		if !ok {
			report.Undecodable++
			continue
		}
		if report.First.IsZero() {
			report.First = ts
		}
		report.Last = ts

		if ts.Before(latest) {
			report.Inversions++
			if report.FirstInversion == 0 {
				report.FirstInversion = i + 1
			}
			continue
		}
		latest = ts
	}
	return report, nil
}

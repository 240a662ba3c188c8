package parser

import "time"

// LogSource provides time-indexed access to one chronologically ordered log.
// Implementations are used sequentially and need not be safe for concurrent use.
type LogSource interface {
	// Path identifies the source, usually a file path.
	Path() string

	// Lines returns the source's lines, 0-indexed and without line terminators.
	// They are loaded on first call and cached for the lifetime of the source.
	Lines() ([]string, error)

	// LineCount returns the number of lines without consulting the cache.
	LineCount() (int, error)

	// ModifiedAt returns the last modification time, read fresh on each call.
	ModifiedAt() (time.Time, error)

	// IndexOfFirstLineAtOrAfter returns the index of the first line whose
	// timestamp is not before t, or the line count when there is none.
	IndexOfFirstLineAtOrAfter(format *LineFormat, t time.Time) (int, error)
}

// Package search finds the log lines that fall inside a query's time window.
package search

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/ccollicutt/logsoul/pkg/output"
	"github.com/ccollicutt/logsoul/pkg/parser"
	"github.com/ccollicutt/logsoul/pkg/query"
)

var (
	// ErrInvalidQuery is returned after the query's errors have been printed.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrAllSourcesFailed is returned when no source could be read.
	ErrAllSourcesFailed = errors.New("no log source could be read")

	errWrite = errors.New("writing output")
)

// Engine runs queries against the runtime's log sources and writes matches.
type Engine struct {
	w     io.Writer
	log   logrus.FieldLogger
	merge bool
	color bool
	width int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger for skipped sources and other diagnostics.
func WithLogger(log logrus.FieldLogger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithMerge prints matches from all sources as one chronological timeline
// instead of source by source.
func WithMerge(merge bool) Option {
	return func(e *Engine) {
		e.merge = merge
	}
}

// WithColor enables colored output.
func WithColor(color bool) Option {
	return func(e *Engine) {
		e.color = color
	}
}

// WithWidth overrides the configured display width.
func WithWidth(width int) Option {
	return func(e *Engine) {
		e.width = width
	}
}

// New creates an Engine writing matches to w.
func New(w io.Writer, opts ...Option) *Engine {
	e := &Engine{
		w:   w,
		log: logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result summarizes one run.
type Result struct {
	// SourcesSearched is the number of sources that were scanned.
	SourcesSearched int

	// SourcesPruned is the number of sources skipped because they were not
	// modified after the window start.
	SourcesPruned int

	// SourcesFailed is the number of sources that could not be read.
	SourcesFailed int

	// LinesScanned is the number of lines examined after seeking.
	LinesScanned int

	// Matches is the number of lines printed.
	Matches int
}

// Run searches every source for lines inside the query window. An invalid
// query is printed and ErrInvalidQuery returned without searching. Sources
// that cannot be read are logged and skipped.
func (e *Engine) Run(ctx context.Context, q *query.Query) (*Result, error) {
	if !q.IsValid() {
		if err := output.InvalidQuery(e.w, q.Errors()); err != nil {
			return nil, fmt.Errorf("writing output: %w", err)
		}
		return nil, ErrInvalidQuery
	}

	rt := q.Runtime()
	width := e.width
	if width <= 0 {
		width = rt.DisplayWidth
	}
	presenter := output.NewPresenter(e.w, q.SameDay(),
		output.WithWidth(width),
		output.WithColor(e.color),
	)

	result := &Result{}
	var collected [][]*parser.ParsedLine

	for _, src := range rt.Sources {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		log := e.log.WithField("source", src.Path())

		modified, err := src.ModifiedAt()
		if err != nil {
			log.WithError(err).Warn("skipping unavailable log source")
			result.SourcesFailed++
			continue
		}
		if !modified.After(q.StartTime) {
			log.WithField("modified", modified).Debug("skipping log source not modified since start time")
			result.SourcesPruned++
			continue
		}

		var matches []*parser.ParsedLine
		found := 0
		emit := func(line *parser.ParsedLine) error {
			found++
			if e.merge {
				matches = append(matches, line)
				return nil
			}
			return presenter.Present(line)
		}

		scanned, err := scan(src, q, emit)
		result.LinesScanned += scanned
		if errors.Is(err, errWrite) {
			result.Matches += found
			return result, err
		}
		if err != nil {
			log.WithError(err).Warn("skipping unavailable log source")
			result.SourcesFailed++
			continue
		}

		log.WithFields(logrus.Fields{
			"scanned": scanned,
			"matches": found,
		}).Debug("searched log source")
		result.SourcesSearched++
		result.Matches += found
		collected = append(collected, matches)
	}

	if e.merge {
		for _, line := range parser.MergeChronological(collected...) {
			if err := presenter.Present(line); err != nil {
				return result, fmt.Errorf("%w: %w", errWrite, err)
			}
		}
	}

	if len(rt.Sources) > 0 && result.SourcesFailed == len(rt.Sources) {
		return result, ErrAllSourcesFailed
	}
	return result, nil
}

// scan seeks to the window start and walks forward until the first line
// stamped after the window end. It returns the number of lines examined.
func scan(src parser.LogSource, q *query.Query, emit func(*parser.ParsedLine) error) (int, error) {
	format := q.Format()

	start, err := src.IndexOfFirstLineAtOrAfter(format, q.StartTime)
	if err != nil {
		return 0, err
	}
	lines, err := src.Lines()
	if err != nil {
		return 0, err
	}

	scanned := 0
	for i := start; i < len(lines); i++ {
		raw := lines[i]
		scanned++

		decoded, ok := format.Decompose(raw)
		if !ok || !decoded.HasTimestamp() {
			continue
		}
		ts := decoded.Timestamp
		if ts.After(q.EndTime) {
			break
		}
		if ts.Before(q.StartTime) {
			continue
		}
		if !q.Matches(raw, decoded) {
			continue
		}

		line := &parser.ParsedLine{
			Raw:     raw,
			Source:  src.Path(),
			LineNum: i + 1,
			Decoded: decoded,
		}
		if err := emit(line); err != nil {
			return scanned, fmt.Errorf("%w: %w", errWrite, err)
		}
	}
	return scanned, nil
}

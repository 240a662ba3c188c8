// Package output renders matched log lines for the terminal.
package output

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/ccollicutt/logsoul/pkg/parser"
)

const (
	// DefaultWidth is the maximum number of terminal cells per output line.
	DefaultWidth = 120

	// TimeLayoutSameDay is used when the search window lies within one day.
	TimeLayoutSameDay = "15:04:05"

	// TimeLayoutMultiDay is used when the search window spans days.
	TimeLayoutMultiDay = "01/02/06 15:04:05"

	separator = " | "
)

// Presenter formats matched lines as aligned, width-limited columns. It keeps
// the widest class seen so far, so each search run needs its own Presenter.
type Presenter struct {
	w          io.Writer
	width      int
	timeLayout string
	color      bool

	classWidth int

	timeStyle  lipgloss.Style
	classStyle lipgloss.Style
	sepStyle   lipgloss.Style
}

// PresenterOption configures a Presenter.
type PresenterOption func(*Presenter)

// WithWidth sets the maximum line width in terminal cells.
func WithWidth(width int) PresenterOption {
	return func(p *Presenter) {
		if width > 0 {
			p.width = width
		}
	}
}

// WithColor enables colored columns.
func WithColor(enabled bool) PresenterOption {
	return func(p *Presenter) {
		p.color = enabled
	}
}

// NewPresenter creates a Presenter writing to w. sameDay selects the
// time-only layout.
func NewPresenter(w io.Writer, sameDay bool, opts ...PresenterOption) *Presenter {
	p := &Presenter{
		w:          w,
		width:      DefaultWidth,
		timeLayout: TimeLayoutMultiDay,
		timeStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("6")).TabWidth(lipgloss.NoTabConversion),
		classStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true).TabWidth(lipgloss.NoTabConversion),
		sepStyle:   lipgloss.NewStyle().Faint(true),
	}
	if sameDay {
		p.timeLayout = TimeLayoutSameDay
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Format renders one line without writing it. It updates the running class
// width, so lines must be formatted in output order.
func (p *Presenter) Format(line *parser.ParsedLine) string {
	ts := line.Timestamp().Format(p.timeLayout)

	var class string
	message := line.Raw
	if d := line.Decoded; d != nil {
		if d.Has(parser.FieldClass) {
			class = d.Class
		}
		if d.Has(parser.FieldMessage) {
			message = d.Message
		}
	}

	if w := runewidth.StringWidth(class); w > p.classWidth {
		p.classWidth = w
	}
	class = runewidth.FillRight(class, p.classWidth)

	plain := runewidth.Truncate(ts+separator+class+separator+message, p.width, "")
	if !p.color {
		return plain
	}
	return p.colorize(plain, len(ts), len(class))
}

// colorize styles the time and class columns of an already truncated line.
// Truncation keeps a prefix, so column offsets are still valid when in range.
func (p *Presenter) colorize(line string, timeLen, classLen int) string {
	bounds := []int{timeLen}
	bounds = append(bounds, bounds[0]+len(separator))
	bounds = append(bounds, bounds[1]+classLen)
	bounds = append(bounds, bounds[2]+len(separator))

	styles := []lipgloss.Style{p.timeStyle, p.sepStyle, p.classStyle, p.sepStyle}

	var out string
	start := 0
	for i, end := range bounds {
		if start >= len(line) {
			return out
		}
		end = min(end, len(line))
		if end > start {
			out += styles[i].Render(line[start:end])
		}
		start = end
	}
	if start < len(line) {
		out += line[start:]
	}
	return out
}

// Present writes one formatted line.
func (p *Presenter) Present(line *parser.ParsedLine) error {
	_, err := fmt.Fprintln(p.w, p.Format(line))
	return err
}

// ClassWidth returns the widest class presented so far, in cells.
func (p *Presenter) ClassWidth() int {
	return p.classWidth
}

// InvalidQuery writes the validation errors of a rejected query.
func InvalidQuery(w io.Writer, errs []string) error {
	if _, err := fmt.Fprintln(w, "Invalid query:"); err != nil {
		return err
	}
	for _, e := range errs {
		if _, err := fmt.Fprintf(w, "  * %s\n", e); err != nil {
			return err
		}
	}
	return nil
}

// Package parser decodes log lines and provides time-indexed access to log files.
package parser

import "time"

// Field names a logical part of a log line that a LineFormat can capture.
type Field string

const (
	FieldMonth   Field = "month"
	FieldDay     Field = "day"
	FieldHours   Field = "hours"
	FieldMinutes Field = "minutes"
	FieldSeconds Field = "seconds"
	FieldMessage Field = "message"
	FieldMachine Field = "machine"
	FieldClass   Field = "class"
)

// TimeFields are the fields a timestamp is built from.
var TimeFields = []Field{FieldMonth, FieldDay, FieldHours, FieldMinutes, FieldSeconds}

// fieldAliases maps accepted capture names to their canonical field.
var fieldAliases = map[string]Field{
	"month":    FieldMonth,
	"day":      FieldDay,
	"hours":    FieldHours,
	"hour":     FieldHours,
	"minutes":  FieldMinutes,
	"minute":   FieldMinutes,
	"seconds":  FieldSeconds,
	"second":   FieldSeconds,
	"message":  FieldMessage,
	"machine":  FieldMachine,
	"class":    FieldClass,
	"category": FieldClass,
}

// LookupField returns the canonical field for a capture name.
func LookupField(name string) (Field, bool) {
	f, ok := fieldAliases[name]
	return f, ok
}

// DecodedLine is the structured result of applying a LineFormat to one raw line.
// Each field is optional; Has reports whether the format captured it.
type DecodedLine struct {
	// Timestamp is zero when the time fields were missing or invalid.
	Timestamp time.Time

	Message string
	Machine string
	Class   string

	present map[Field]bool
}

// HasTimestamp reports whether a timestamp could be built for the line.
func (d *DecodedLine) HasTimestamp() bool {
	return d != nil && !d.Timestamp.IsZero()
}

// Has reports whether the given text field was captured.
func (d *DecodedLine) Has(f Field) bool {
	return d != nil && d.present[f]
}

// ParsedLine is a decoded line together with its location.
type ParsedLine struct {
	// Raw is the original line content.
	Raw string

	// Source is the file path this line came from.
	Source string

	// LineNum is the 1-based line number in the source file.
	LineNum int

	// Decoded holds the fields extracted by the line format.
	Decoded *DecodedLine
}

// Timestamp returns the decoded timestamp, or the zero time.
func (p *ParsedLine) Timestamp() time.Time {
	if p.Decoded == nil {
		return time.Time{}
	}
	return p.Decoded.Timestamp
}

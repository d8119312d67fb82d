package annotation

import "fmt"

// Row identifies the display row an annotation belongs to.
//
// The host rendering surface groups annotations into four rows; the row is
// the categoryId of the emitted record.
type Row int

const (
	// RowBits carries per-bit facts (flags, reserved bits, data bits).
	RowBits Row = iota

	// RowRegisters carries slave address and register-word facts.
	RowRegisters

	// RowInfo carries human-readable transaction summaries (reset,
	// presence check, configuration, temperature, limits).
	RowInfo

	// RowWarnings carries protocol warnings (unknown slave address).
	RowWarnings
)

// rowNames maps rows to their wire/display identifiers.
var rowNames = map[Row]string{
	RowBits:      "bits",
	RowRegisters: "registers",
	RowInfo:      "info",
	RowWarnings:  "warnings",
}

// String returns the row's display identifier.
func (r Row) String() string {
	if name, ok := rowNames[r]; ok {
		return name
	}
	return fmt.Sprintf("row(%d)", int(r))
}

// ParseRow converts a row identifier back to a Row.
//
// Returns:
//   - Row: The matching row
//   - bool: false if the identifier is unknown
func ParseRow(name string) (Row, bool) {
	for r, n := range rowNames {
		if n == name {
			return r, true
		}
	}
	return 0, false
}

// Event is one decoded, sample-spanned annotation.
//
// Variants holds alternative textual renderings sorted longest first; the
// rendering surface picks the longest variant that fits the available
// width and falls back to shorter ones.
type Event struct {
	Start    uint64   `json:"ss"`
	End      uint64   `json:"es"`
	Row      Row      `json:"-"`
	Variants []string `json:"variants"`
}

// Sink accepts decoded annotations in emission order.
//
// Implementations must not reorder or batch events in a way that is
// observable to downstream consumers; the decoder guarantees emission in
// the relative order of the triggering bus events.
type Sink interface {
	Annotate(ev Event)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ev Event)

// Annotate implements Sink.
func (f SinkFunc) Annotate(ev Event) { f(ev) }

// MultiSink fans one annotation stream out to several sinks, preserving
// order within each sink.
type MultiSink []Sink

// Annotate implements Sink.
func (m MultiSink) Annotate(ev Event) {
	for _, s := range m {
		s.Annotate(ev)
	}
}

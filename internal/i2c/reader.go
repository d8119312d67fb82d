package i2c

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// maxLineBytes bounds a single capture line. A Bits event for one byte is
// well under 1 KiB; the margin allows unusually verbose exports.
const maxLineBytes = 64 * 1024

// captureLine is the wire form of one exported analyzer event.
//
// Format (one JSON object per line):
//
//	{"type":"ADDRESS WRITE","data":72,"ss":100,"es":180}
//	{"type":"BITS","ss":200,"es":280,"bits":[{"value":1,"ss":270,"es":280},...]}
type captureLine struct {
	Type string `json:"type"`
	Data byte   `json:"data"`
	Bits []Bit  `json:"bits"`
	SS   uint64 `json:"ss"`
	ES   uint64 `json:"es"`
}

// Reader streams bus events from a JSONL capture export.
//
// Lines are consumed in file order, which the analyzer guarantees to be
// monotonic sample-time order. Blank lines and lines starting with '#'
// are skipped so hand-annotated captures remain loadable.
type Reader struct {
	scanner *bufio.Scanner
	line    int
}

// NewReader creates a Reader over an exported capture stream.
func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineBytes)
	return &Reader{scanner: scanner}
}

// Next returns the next bus event from the capture.
//
// Returns:
//   - Event: The parsed event
//   - error: io.EOF at end of capture, or a wrapped ErrMalformedEvent /
//     ErrUnknownEventType identifying the offending line
func (r *Reader) Next() (Event, error) {
	for r.scanner.Scan() {
		r.line++
		text := strings.TrimSpace(r.scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		var raw captureLine
		if err := json.Unmarshal([]byte(text), &raw); err != nil {
			return Event{}, fmt.Errorf("%w: line %d: %w", ErrMalformedEvent, r.line, err)
		}

		typ, err := ParseEventType(raw.Type)
		if err != nil {
			return Event{}, fmt.Errorf("line %d: %w", r.line, err)
		}

		return Event{
			Type:  typ,
			Data:  raw.Data,
			Bits:  raw.Bits,
			Start: raw.SS,
			End:   raw.ES,
		}, nil
	}
	if err := r.scanner.Err(); err != nil {
		return Event{}, fmt.Errorf("%w: line %d: %w", ErrMalformedEvent, r.line, err)
	}
	return Event{}, io.EOF
}

// ReadAll drains the capture and returns every event in order.
//
// Useful for tests and for bounded captures; live sources should use Next.
func (r *Reader) ReadAll() ([]Event, error) {
	var events []Event
	for {
		ev, err := r.Next()
		if errors.Is(err, io.EOF) {
			return events, nil
		}
		if err != nil {
			return events, err
		}
		events = append(events, ev)
	}
}

// ParseEvent parses a single capture payload (one JSON object) into an
// Event. This is the entry point for live sources that deliver events one
// message at a time rather than as a file.
func ParseEvent(payload []byte) (Event, error) {
	var raw captureLine
	if err := json.Unmarshal(payload, &raw); err != nil {
		return Event{}, fmt.Errorf("%w: %w", ErrMalformedEvent, err)
	}
	typ, err := ParseEventType(raw.Type)
	if err != nil {
		return Event{}, err
	}
	return Event{
		Type:  typ,
		Data:  raw.Data,
		Bits:  raw.Bits,
		Start: raw.SS,
		End:   raw.ES,
	}, nil
}

// MarshalEvent renders an Event in the capture wire format.
//
// The inverse of ParseEvent; used when republishing events over MQTT.
func MarshalEvent(ev Event) ([]byte, error) {
	raw := captureLine{
		Type: ev.Type.String(),
		Data: ev.Data,
		Bits: ev.Bits,
		SS:   ev.Start,
		ES:   ev.End,
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedEvent, err)
	}
	return data, nil
}

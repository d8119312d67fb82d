package i2c

import "fmt"

// EventType identifies an atomic occurrence on the two-wire bus.
type EventType int

// Bus event types emitted by the upstream I²C analyzer.
//
// Ack and Nack are part of the analyzer's vocabulary but carry no
// register-level meaning; the decoder accepts and ignores them.
const (
	Start EventType = iota
	StartRepeat
	Stop
	AddressWrite
	AddressRead
	DataWrite
	DataRead
	Bits
	Ack
	Nack
)

// eventNames maps event types to the analyzer's wire names.
var eventNames = map[EventType]string{
	Start:        "START",
	StartRepeat:  "START REPEAT",
	Stop:         "STOP",
	AddressWrite: "ADDRESS WRITE",
	AddressRead:  "ADDRESS READ",
	DataWrite:    "DATA WRITE",
	DataRead:     "DATA READ",
	Bits:         "BITS",
	Ack:          "ACK",
	Nack:         "NACK",
}

// String returns the analyzer's name for the event type.
func (t EventType) String() string {
	if name, ok := eventNames[t]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(t))
}

// ParseEventType converts an analyzer event name to an EventType.
//
// Returns:
//   - EventType: The matching type
//   - error: ErrUnknownEventType if the name is not recognised
func ParseEventType(name string) (EventType, error) {
	for t, n := range eventNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownEventType, name)
}

// Bit is the sample-accurate span of a single transferred bit.
//
// The analyzer groups bits per byte and orders them from the least
// significant bit (index 0) to the most significant, even though the bus
// transmits MSB first. Start/End therefore decrease with increasing index
// within one byte.
type Bit struct {
	Value byte   `json:"value"`
	Start uint64 `json:"ss"`
	End   uint64 `json:"es"`
}

// Event is one bus primitive with its sample span.
//
// Data is meaningful for address and data events. Bits is populated only
// for Bits events and carries the per-bit spans of the byte that the next
// address/data event reports.
type Event struct {
	Type  EventType `json:"-"`
	Data  byte      `json:"data,omitempty"`
	Bits  []Bit     `json:"bits,omitempty"`
	Start uint64    `json:"ss"`
	End   uint64    `json:"es"`
}

// String returns a compact human-readable rendering, for logs.
func (e Event) String() string {
	switch e.Type {
	case Bits:
		return fmt.Sprintf("%s[%d] @%d..%d", e.Type, len(e.Bits), e.Start, e.End)
	case AddressWrite, AddressRead, DataWrite, DataRead:
		return fmt.Sprintf("%s 0x%02X @%d..%d", e.Type, e.Data, e.Start, e.End)
	default:
		return fmt.Sprintf("%s @%d..%d", e.Type, e.Start, e.End)
	}
}

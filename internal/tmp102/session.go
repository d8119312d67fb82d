package tmp102

import (
	"fmt"

	"github.com/openprobe/thermodec/internal/i2c"
)

// Phase is the transaction state machine's current state.
type Phase int

const (
	// PhaseIdle waits for a start condition. Initial and terminal state;
	// the session loops through it once per transaction.
	PhaseIdle Phase = iota

	// PhaseAddress waits for the slave address byte.
	PhaseAddress

	// PhaseRegisterSelect waits for the register pointer byte following an
	// address write.
	PhaseRegisterSelect

	// PhaseRegisterData accumulates register data bytes until a stop or
	// repeated start.
	PhaseRegisterData
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAddress:
		return "address"
	case PhaseRegisterSelect:
		return "register-select"
	case PhaseRegisterData:
		return "register-data"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// wordBuffer assembles the data bytes of one register access.
//
// The sensor transmits registers most-significant byte first, so each new
// byte is inserted before the previous ones: after a full access, index 0
// holds the low byte and index 1 the high byte. Bit spans are concatenated
// the same way, leaving bits indexed by their position in the register
// word (bits[0] is word bit 0).
type wordBuffer struct {
	bytes []byte
	bits  []i2c.Bit
	start uint64 // start sample of the first byte
	end   uint64 // end sample of the latest byte
}

// collect adds one data byte with its per-bit spans and extends the
// aggregate span. No validation happens here; byte-count rules belong to
// the register decoder.
func (b *wordBuffer) collect(data byte, bits []i2c.Bit, start, end uint64) {
	if len(b.bytes) == 0 {
		b.start = start
	}
	b.bytes = append([]byte{data}, b.bytes...)
	b.bits = append(append([]i2c.Bit{}, bits...), b.bits...)
	b.end = end
}

// clear empties the buffer and resets the aggregate span.
func (b *wordBuffer) clear() {
	b.bytes = nil
	b.bits = nil
	b.start = 0
	b.end = 0
}

// word reconstructs the 16-bit register value. Callers must have checked
// that at least two bytes were collected.
func (b *wordBuffer) word() uint16 {
	return uint16(b.bytes[1])<<8 | uint16(b.bytes[0])
}

// session is the only long-lived mutable state of a decoding run.
//
// It has a single writer (the state machine and the register decoder it
// calls), so no locking discipline is required.
type session struct {
	phase Phase

	// addr is the last recognised slave address.
	addr byte

	// reg is the register pointer last written to the slave. It persists
	// across repeated-start reads that supply no new pointer write.
	reg Register

	// read records the direction of the current transaction.
	read bool

	// extended is the sticky extended-mode latch. Once set by a CONFIG
	// write or by the in-band marker in a temperature word it stays set;
	// only an explicit session reset clears it. The sensor's resolution
	// mode is a device-side latch, not a per-message attribute.
	extended bool

	// pendingReset marks an in-progress general-call reset sequence.
	pendingReset bool

	buf wordBuffer

	// lastBits holds the per-bit spans of the most recently announced
	// byte. Bits events feed it in any phase.
	lastBits []i2c.Bit

	// ss/es span the current bus event; blockStart is the start sample of
	// the current transaction.
	ss, es     uint64
	blockStart uint64
}

// reset reinitialises every field to session-start defaults.
func (s *session) reset() {
	s.phase = PhaseIdle
	s.addr = AddrGND
	s.reg = RegTemperature
	s.read = false
	s.extended = false
	s.pendingReset = false
	s.buf.clear()
	s.lastBits = nil
	s.ss = 0
	s.es = 0
	s.blockStart = 0
}

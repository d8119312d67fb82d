package tmp102

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/openprobe/thermodec/internal/annotation"
	"github.com/openprobe/thermodec/internal/i2c"
)

// wordBits is the number of bit spans a fully assembled register carries.
const wordBits = 16

// Options configure a decoder session. Both fields are immutable for the
// session's lifetime.
type Options struct {
	// Radix controls numeric formatting of register words and addresses.
	Radix annotation.Radix

	// Unit controls the scale of decoded temperatures.
	Unit Unit
}

// Decoder classifies a stream of bus primitives into register-level
// operations of the temperature sensor and emits annotations for every
// decoded fact.
//
// A Decoder is single-threaded: events must be processed one at a time in
// monotonic sample order. Annotations are emitted in the relative order of
// the triggering events.
type Decoder struct {
	opts Options
	sink annotation.Sink
	meas MeasurementSink
	s    session
}

// New creates a decoder session writing annotations to sink.
func New(opts Options, sink annotation.Sink) *Decoder {
	d := &Decoder{opts: opts, sink: sink}
	d.s.reset()
	return d
}

// SetMeasurementSink attaches an optional receiver for decoded numeric
// temperatures (the InfluxDB leg). May be nil.
func (d *Decoder) SetMeasurementSink(m MeasurementSink) {
	d.meas = m
}

// Reset reinitialises the session to its start defaults, clearing the
// sticky extended-mode latch. There is no asynchronous work to cancel.
func (d *Decoder) Reset() {
	d.s.reset()
}

// ExtendedMode reports the session's sticky extended-mode latch.
func (d *Decoder) ExtendedMode() bool {
	return d.s.extended
}

// Phase reports the state machine's current phase.
func (d *Decoder) Phase() Phase {
	return d.s.phase
}

// SelectedRegister reports the register pointer last written to the slave.
func (d *Decoder) SelectedRegister() Register {
	return d.s.reg
}

// Process consumes one bus event.
//
// Events that do not match the current phase's expected set are ignored
// without a state change. The only error path is a decode fault at
// transaction exit (unknown register pointer or truncated data); the
// session has already resynchronised to idle when the error is returned,
// so the caller can log it and continue with the next transaction.
func (d *Decoder) Process(ev i2c.Event) error {
	d.s.ss, d.s.es = ev.Start, ev.End

	// Bit timing never drives the phase table; it only feeds the
	// assembler.
	if ev.Type == i2c.Bits {
		d.s.lastBits = ev.Bits
		return nil
	}

	switch d.s.phase {
	case PhaseIdle:
		if ev.Type == i2c.Start {
			d.s.phase = PhaseAddress
			d.s.blockStart = ev.Start
		}

	case PhaseAddress:
		switch ev.Type {
		case i2c.AddressWrite:
			d.handleAddress(ev, false)
		case i2c.AddressRead:
			d.handleAddress(ev, true)
		case i2c.Stop:
			d.s.phase = PhaseIdle
		}

	case PhaseRegisterSelect:
		switch ev.Type {
		case i2c.DataWrite, i2c.DataRead:
			d.handleRegisterSelect(ev)
		case i2c.Stop:
			// Address-only transaction: the master probed the slave
			// without selecting a register.
			d.emit(annotation.Event{
				Start:    d.s.blockStart,
				End:      ev.End,
				Row:      annotation.RowInfo,
				Variants: annotation.Compose(presenceLabels, nil, nil, nil),
			})
			d.s.phase = PhaseIdle
		}

	case PhaseRegisterData:
		switch ev.Type {
		case i2c.DataWrite, i2c.DataRead:
			d.s.buf.collect(ev.Data, d.s.lastBits, ev.Start, ev.End)
		case i2c.StartRepeat:
			// A read sequence begins; the buffer stays for the fresh
			// address cycle.
			d.s.phase = PhaseAddress
		case i2c.Stop:
			return d.finishTransaction()
		}
	}

	return nil
}

// handleAddress validates the address byte and records transaction
// direction. The general-call address is only acceptable on the write
// side.
func (d *Decoder) handleAddress(ev i2c.Event, read bool) {
	valid := ValidAddress(ev.Data) || (!read && ev.Data == GeneralCallAddress)
	if !valid {
		d.emit(annotation.Event{
			Start: d.s.blockStart,
			End:   ev.End,
			Row:   annotation.RowWarnings,
			Variants: annotation.Compose(unknownAddrLabels,
				[]string{d.opts.Radix.FormatByte(ev.Data)}, nil, nil),
		})
		d.s.phase = PhaseIdle
		d.s.buf.clear()
		d.s.pendingReset = false
		return
	}

	d.s.addr = ev.Data
	d.s.read = read

	values := []string{d.opts.Radix.FormatByte(ev.Data)}
	if name := AddressName(ev.Data); name != "" {
		values = append(values, name)
	}
	d.emit(annotation.Event{
		Start:    ev.Start,
		End:      ev.End,
		Row:      annotation.RowRegisters,
		Variants: annotation.Compose(addressLabels, values, nil, nil),
	})

	if read {
		// A pure read reuses the previously selected register; no new
		// pointer write occurs.
		d.s.phase = PhaseRegisterData
	} else {
		d.s.phase = PhaseRegisterSelect
	}
}

// handleRegisterSelect consumes the byte after an address write: the
// register pointer for a slave access, or the command byte of a general
// call.
func (d *Decoder) handleRegisterSelect(ev i2c.Event) {
	if d.s.addr == GeneralCallAddress {
		// A broadcast command, not a pointer write. Only reset is
		// meaningful for this sensor; the register pointer is untouched.
		if ev.Data == GeneralCallReset {
			d.s.pendingReset = true
			d.s.phase = PhaseRegisterData
		} else {
			d.s.phase = PhaseIdle
		}
		return
	}

	d.s.reg = Register(ev.Data)
	d.s.buf.clear()

	d.emit(annotation.Event{
		Start: ev.Start,
		End:   ev.End,
		Row:   annotation.RowRegisters,
		Variants: annotation.Compose(registerSelLabels,
			[]string{d.s.reg.String(), d.opts.Radix.FormatByte(ev.Data)},
			nil, []string{actionSelect}),
	})

	d.s.phase = PhaseRegisterData
}

// finishTransaction runs at the stop condition of a data phase: the
// accumulated buffer is decoded against the selected register and the
// session returns to idle regardless of outcome.
func (d *Decoder) finishTransaction() error {
	defer func() {
		d.s.buf.clear()
		d.s.pendingReset = false
		d.s.phase = PhaseIdle
	}()

	if d.s.pendingReset {
		d.emit(annotation.Event{
			Start:    d.s.blockStart,
			End:      d.s.es,
			Row:      annotation.RowInfo,
			Variants: annotation.Compose(resetLabels, nil, nil, nil),
		})
		return nil
	}

	if len(d.s.buf.bytes) == 0 {
		// Read with no data bytes: a presence probe, not a fault.
		d.emit(annotation.Event{
			Start:    d.s.blockStart,
			End:      d.s.es,
			Row:      annotation.RowInfo,
			Variants: annotation.Compose(presenceLabels, nil, nil, nil),
		})
		return nil
	}

	switch d.s.reg {
	case RegTemperature, RegTLow, RegTHigh:
		return d.decodeTemperatureRegister(d.s.reg)
	case RegConfig:
		return d.decodeConfigRegister()
	default:
		return fmt.Errorf("%w: pointer %s with %d data byte(s)",
			ErrUnknownRegister, d.s.reg, len(d.s.buf.bytes))
	}
}

// decodeTemperatureRegister handles TEMP, TLOW, and THIGH: a left-aligned
// two's-complement temperature word whose low bits carry the in-band
// extended-mode marker and reserved padding.
func (d *Decoder) decodeTemperatureRegister(reg Register) error {
	if len(d.s.buf.bytes) < 2 {
		return fmt.Errorf("%w: %s needs 2 bytes, got %d",
			ErrShortRegister, reg, len(d.s.buf.bytes))
	}
	raw := d.s.buf.word()

	// The in-band marker latches the session mode before framing is
	// chosen, so the word that first announces extended mode is already
	// decoded with 13-bit framing.
	if ExtendedModeFlag(raw) {
		d.s.extended = true
	}

	action := d.actionWord()
	value, unitLabel := DecodeTemperature(raw, d.s.extended, d.opts.Unit)

	d.emit(annotation.Event{
		Start: d.s.buf.start,
		End:   d.s.buf.end,
		Row:   annotation.RowRegisters,
		Variants: annotation.Compose(registerLabels[reg],
			[]string{d.opts.Radix.FormatWord(raw)}, nil, []string{action}),
	})

	d.emitTemperatureBits(raw)

	d.emit(annotation.Event{
		Start: d.s.blockStart,
		End:   d.s.es,
		Row:   annotation.RowInfo,
		Variants: annotation.Compose(infoLabels[reg],
			[]string{FormatTemperature(value)}, []string{unitLabel},
			[]string{action}),
	})

	if d.meas != nil {
		celsius, _ := DecodeTemperature(raw, d.s.extended, Celsius)
		d.meas.Measure(Measurement{
			Register: reg,
			Celsius:  celsius,
			Value:    value,
			Unit:     d.opts.Unit,
			Start:    d.s.buf.start,
			End:      d.s.buf.end,
		})
	}

	return nil
}

// emitTemperatureBits labels every bit of a temperature word: the in-band
// EM marker, the reserved padding (three bits in normal mode, two in
// extended mode), and the value bits above them.
func (d *Decoder) emitTemperatureBits(raw uint16) {
	if len(d.s.buf.bits) < wordBits {
		// Capture without bit timing; word-level facts still stand.
		return
	}

	reservedTop := 3
	if d.s.extended {
		reservedTop = 2
	}

	d.emitBitSpan(0, 0, annotation.Compose(extendedLabels,
		enableValues(raw&0x0001 != 0), nil, nil))

	for i := 1; i <= reservedTop; i++ {
		d.emitBitSpan(i, i, annotation.Compose(reservedLabels, nil, nil, nil))
	}

	for i := reservedTop + 1; i < wordBits; i++ {
		bit := (raw >> uint(i)) & 1
		d.emitBitSpan(i, i, annotation.Compose(dataBitLabels,
			[]string{strconv.Itoa(int(bit))}, nil, nil))
	}
}

// decodeConfigRegister labels every field of the configuration word in
// the device's fixed order and recognises the power-up default value.
func (d *Decoder) decodeConfigRegister() error {
	if len(d.s.buf.bytes) < 2 {
		return fmt.Errorf("%w: %s needs 2 bytes, got %d",
			ErrShortRegister, RegConfig, len(d.s.buf.bytes))
	}
	raw := d.s.buf.word()
	action := d.actionWord()

	d.emit(annotation.Event{
		Start: d.s.buf.start,
		End:   d.s.buf.end,
		Row:   annotation.RowRegisters,
		Variants: annotation.Compose(registerLabels[RegConfig],
			[]string{d.opts.Radix.FormatWord(raw)}, nil, []string{action}),
	})

	bit := func(n int) bool { return raw&(1<<uint(n)) != 0 }

	// OS - one-shot conversion.
	d.emitBitSpan(BitOS, BitOS, annotation.Compose(oneShotLabels,
		enableValues(bit(BitOS)), nil, nil))

	// R1:R0 - converter resolution.
	resCode := (raw >> BitR0) & 0b11
	if res, ok := resolutions[resCode]; ok {
		d.emitBitSpan(BitR1, BitR0, annotation.Compose(resolutionLabels,
			[]string{res}, []string{" bit"}, nil))
	} else {
		d.emitBitSpan(BitR1, BitR0, annotation.Compose(resolutionLabels,
			[]string{fmt.Sprintf("0b%02b", resCode)}, nil, nil))
	}

	// F1:F0 - fault queue.
	d.emitBitSpan(BitF1, BitF0, annotation.Compose(faultLabels,
		[]string{faultCounts[(raw>>BitF0)&0b11]}, nil, nil))

	// POL - alert polarity.
	pol := bit(BitPOL)
	d.emitBitSpan(BitPOL, BitPOL, annotation.Compose(polarityLabels,
		stateValues(pol, "high", "low"), nil, nil))

	// TM - thermostat mode.
	d.emitBitSpan(BitTM, BitTM, annotation.Compose(thermostatLabels,
		stateValues(bit(BitTM), "interrupt", "comparator"), nil, nil))

	// SD - shutdown mode.
	d.emitBitSpan(BitSD, BitSD, annotation.Compose(shutdownLabels,
		enableValues(bit(BitSD)), nil, nil))

	// CR1:CR0 - conversion rate.
	d.emitBitSpan(BitCR1, BitCR0, annotation.Compose(rateLabels,
		[]string{conversionRates[(raw>>BitCR0)&0b11]}, []string{" Hz"}, nil))

	// AL - alert. The pin is active when AL matches the configured
	// polarity: POL inverts the read-back sense of the bit.
	al := bit(BitAL)
	alertWord := "inactive"
	if al == pol {
		alertWord = "active"
	}
	alNum := "0"
	if al {
		alNum = "1"
	}
	d.emitBitSpan(BitAL, BitAL, annotation.Compose(alertLabels,
		[]string{alNum, alertWord, strings.ToUpper(alertWord[:1])}, nil, nil))

	// EM - extended mode. Setting it latches the session; clearing it
	// does not unlatch (sticky).
	em := bit(BitEM)
	if em {
		d.s.extended = true
	}
	d.emitBitSpan(BitEM, BitEM, annotation.Compose(extendedLabels,
		enableValues(em), nil, nil))

	for i := BitEM - 1; i >= 0; i-- {
		d.emitBitSpan(i, i, annotation.Compose(reservedLabels, nil, nil, nil))
	}

	infoTable := customConfLabels
	if raw == PowerUpConfig {
		infoTable = powerUpConfLabels
	}
	d.emit(annotation.Event{
		Start: d.s.blockStart,
		End:   d.s.es,
		Row:   annotation.RowInfo,
		Variants: annotation.Compose(infoTable,
			[]string{d.opts.Radix.FormatWord(raw)}, nil, []string{action}),
	})

	return nil
}

// emitBitSpan spans an annotation from the start sample of the high bit to
// the end sample of the low bit. The bus transmits MSB first, so the high
// bit is the earlier one. Skipped silently when the capture carried no bit
// timing for the word.
func (d *Decoder) emitBitSpan(hi, lo int, variants []string) {
	if len(d.s.buf.bits) < wordBits {
		return
	}
	d.emit(annotation.Event{
		Start:    d.s.buf.bits[hi].Start,
		End:      d.s.buf.bits[lo].End,
		Row:      annotation.RowBits,
		Variants: variants,
	})
}

// emit forwards one annotation to the sink.
func (d *Decoder) emit(ev annotation.Event) {
	d.sink.Annotate(ev)
}

// actionWord returns the direction label for the current transaction.
func (d *Decoder) actionWord() string {
	if d.s.read {
		return actionRead
	}
	return actionWrite
}

// enableValues renders a flag bit as numeric, long, and one-letter
// variants ("1", "enabled", "E").
func enableValues(set bool) []string {
	return stateValues(set, "enabled", "disabled")
}

// stateValues renders a flag bit with custom state words.
func stateValues(set bool, onWord, offWord string) []string {
	word := offWord
	n := "0"
	if set {
		word = onWord
		n = "1"
	}
	return []string{n, word, strings.ToUpper(word[:1])}
}

package tmp102

import (
	"errors"
	"strings"
	"testing"

	"github.com/openprobe/thermodec/internal/annotation"
	"github.com/openprobe/thermodec/internal/i2c"
)

// ─── Test helpers ──────────────────────────────────────────────────

// sinkRecorder captures emitted annotations in order.
type sinkRecorder struct {
	events []annotation.Event
}

func (s *sinkRecorder) Annotate(ev annotation.Event) {
	s.events = append(s.events, ev)
}

func (s *sinkRecorder) row(row annotation.Row) []annotation.Event {
	var out []annotation.Event
	for _, ev := range s.events {
		if ev.Row == row {
			out = append(out, ev)
		}
	}
	return out
}

// hasVariant reports whether any event on the row has a variant containing
// substr.
func (s *sinkRecorder) hasVariant(row annotation.Row, substr string) bool {
	for _, ev := range s.row(row) {
		for _, v := range ev.Variants {
			if strings.Contains(v, substr) {
				return true
			}
		}
	}
	return false
}

// samplesPerBit spaces the synthetic bit timing of test captures.
const samplesPerBit = 10

// txn builds bus event sequences with a running sample cursor, the way the
// analyzer emits them: a Bits event precedes every byte event.
type txn struct {
	cursor uint64
	events []i2c.Event
}

func (b *txn) condition(t i2c.EventType) *txn {
	b.events = append(b.events, i2c.Event{Type: t, Start: b.cursor, End: b.cursor + 2})
	b.cursor += 4
	return b
}

func (b *txn) byteEvent(t i2c.EventType, data byte) *txn {
	start := b.cursor
	bits := make([]i2c.Bit, 8)
	for i := 0; i < 8; i++ {
		// MSB transmitted first: bit 7 occupies the earliest span.
		bitStart := start + uint64(7-i)*samplesPerBit
		bits[i] = i2c.Bit{
			Value: (data >> uint(i)) & 1,
			Start: bitStart,
			End:   bitStart + samplesPerBit,
		}
	}
	end := start + 8*samplesPerBit
	b.events = append(b.events,
		i2c.Event{Type: i2c.Bits, Bits: bits, Start: start, End: end},
		i2c.Event{Type: t, Data: data, Start: start, End: end},
	)
	b.cursor = end + 4
	return b
}

func (b *txn) start() *txn            { return b.condition(i2c.Start) }
func (b *txn) startRepeat() *txn      { return b.condition(i2c.StartRepeat) }
func (b *txn) stop() *txn             { return b.condition(i2c.Stop) }
func (b *txn) addrWrite(a byte) *txn  { return b.byteEvent(i2c.AddressWrite, a) }
func (b *txn) addrRead(a byte) *txn   { return b.byteEvent(i2c.AddressRead, a) }
func (b *txn) dataWrite(d byte) *txn  { return b.byteEvent(i2c.DataWrite, d) }
func (b *txn) dataRead(d byte) *txn   { return b.byteEvent(i2c.DataRead, d) }

// run feeds events through a fresh decoder and returns the recorder, the
// decoder, and any decode faults.
func run(t *testing.T, build func(b *txn)) (*sinkRecorder, *Decoder, []error) {
	t.Helper()
	sink := &sinkRecorder{}
	dec := New(Options{Radix: annotation.Hex, Unit: Celsius}, sink)
	b := &txn{}
	build(b)
	var errs []error
	for _, ev := range b.events {
		if err := dec.Process(ev); err != nil {
			errs = append(errs, err)
		}
	}
	return sink, dec, errs
}

// ─── Transactions ──────────────────────────────────────────────────

func TestPointerWriteWithoutData(t *testing.T) {
	sink, dec, errs := run(t, func(b *txn) {
		b.start().addrWrite(AddrGND).dataWrite(byte(RegConfig)).stop()
	})
	if len(errs) != 0 {
		t.Fatalf("unexpected decode faults: %v", errs)
	}

	if !sink.hasVariant(annotation.RowRegisters, "ADD0_GND") {
		t.Error("missing address fact")
	}
	if !sink.hasVariant(annotation.RowRegisters, "CONF") {
		t.Error("missing register-select fact")
	}
	if !sink.hasVariant(annotation.RowInfo, "Slave presence check") {
		t.Error("missing presence-check fact")
	}
	if sink.hasVariant(annotation.RowRegisters, "Configuration register:") {
		t.Error("register-word fact emitted for a transaction with no data")
	}
	if dec.SelectedRegister() != RegConfig {
		t.Errorf("selected register = %v, want CONF", dec.SelectedRegister())
	}
	if dec.Phase() != PhaseIdle {
		t.Errorf("phase = %v, want idle", dec.Phase())
	}
}

func TestConfigWritePowerUpDefault(t *testing.T) {
	sink, _, errs := run(t, func(b *txn) {
		b.start().addrWrite(AddrGND).dataWrite(byte(RegConfig)).
			dataWrite(0x60).dataWrite(0xA0).stop()
	})
	if len(errs) != 0 {
		t.Fatalf("unexpected decode faults: %v", errs)
	}

	wantBits := []string{
		"One-shot conversion: disabled",
		"Converter resolution: 12 bit",
		"Consecutive faults: 1",
		"Alert polarity: low",
		"Thermostat mode: comparator",
		"Shutdown mode: disabled",
		"Conversion rate bits: 4 Hz",
		"Alert bit: inactive",
		"Extended mode bit: disabled",
	}
	for _, want := range wantBits {
		if !sink.hasVariant(annotation.RowBits, want) {
			t.Errorf("missing bit fact %q", want)
		}
	}

	reserved := 0
	for _, ev := range sink.row(annotation.RowBits) {
		if ev.Variants[0] == "Reserved bit" {
			reserved++
		}
	}
	if reserved != 4 {
		t.Errorf("reserved-bit facts = %d, want 4 (bits below EM)", reserved)
	}

	if !sink.hasVariant(annotation.RowRegisters, "Configuration register: 0x60A0") {
		t.Error("missing register-word fact")
	}
	if !sink.hasVariant(annotation.RowInfo, "Power-up configuration") {
		t.Error("power-up default word not recognised")
	}
	if sink.hasVariant(annotation.RowInfo, "Custom configuration") {
		t.Error("power-up word labelled as custom")
	}
}

func TestConfigWriteCustomValue(t *testing.T) {
	sink, _, _ := run(t, func(b *txn) {
		b.start().addrWrite(AddrGND).dataWrite(byte(RegConfig)).
			dataWrite(0x61).dataWrite(0xA0).stop()
	})
	if !sink.hasVariant(annotation.RowInfo, "Custom configuration") {
		t.Error("custom word not labelled as custom")
	}
	if !sink.hasVariant(annotation.RowBits, "Shutdown mode: enabled") {
		t.Error("SD bit not decoded")
	}
}

func TestTemperatureRead(t *testing.T) {
	sink, _, errs := run(t, func(b *txn) {
		b.start().addrWrite(AddrVCC).dataWrite(byte(RegTemperature)).
			startRepeat().addrRead(AddrVCC).
			dataRead(0x19).dataRead(0x00).stop()
	})
	if len(errs) != 0 {
		t.Fatalf("unexpected decode faults: %v", errs)
	}

	if !sink.hasVariant(annotation.RowRegisters, "Temperature register: 0x1900") {
		t.Error("missing register-word fact")
	}
	if !sink.hasVariant(annotation.RowInfo, "Read Measured temperature: 25°C") {
		t.Error("missing temperature info fact")
	}
	if !sink.hasVariant(annotation.RowBits, "Extended mode bit: disabled") {
		t.Error("missing in-band EM bit fact")
	}

	// Normal framing: 3 reserved bits, 12 data bits.
	var reserved, data int
	for _, ev := range sink.row(annotation.RowBits) {
		switch {
		case ev.Variants[0] == "Reserved bit":
			reserved++
		case strings.HasPrefix(ev.Variants[0], "Data bit:"):
			data++
		}
	}
	if reserved != 3 || data != 12 {
		t.Errorf("bit framing = %d reserved / %d data, want 3/12", reserved, data)
	}
}

func TestLimitRegisterWrite(t *testing.T) {
	sink, _, _ := run(t, func(b *txn) {
		// THIGH := 48 °C (48*16 = 768 counts, word 0x3000).
		b.start().addrWrite(AddrGND).dataWrite(byte(RegTHigh)).
			dataWrite(0x30).dataWrite(0x00).stop()
	})
	if !sink.hasVariant(annotation.RowInfo, "Written High temperature limit: 48°C") {
		t.Error("missing limit info fact")
	}
}

func TestMeasurementEmission(t *testing.T) {
	sink := &sinkRecorder{}
	dec := New(Options{Radix: annotation.Hex, Unit: Fahrenheit}, sink)
	var got []Measurement
	dec.SetMeasurementSink(MeasurementFunc(func(m Measurement) {
		got = append(got, m)
	}))

	b := &txn{}
	b.start().addrWrite(AddrGND).dataWrite(byte(RegTemperature)).
		startRepeat().addrRead(AddrGND).
		dataRead(0x19).dataRead(0x00).stop()
	for _, ev := range b.events {
		if err := dec.Process(ev); err != nil {
			t.Fatalf("Process() error = %v", err)
		}
	}

	if len(got) != 1 {
		t.Fatalf("measurements = %d, want 1", len(got))
	}
	m := got[0]
	if m.Register != RegTemperature {
		t.Errorf("measurement register = %v, want TEMP", m.Register)
	}
	if m.Celsius != 25.0 {
		t.Errorf("measurement celsius = %v, want 25", m.Celsius)
	}
	if m.Value != 77.0 || m.Unit != Fahrenheit {
		t.Errorf("measurement value = %v %v, want 77 fahrenheit", m.Value, m.Unit)
	}
}

// ─── Extended mode stickiness ──────────────────────────────────────

func TestExtendedModeStickyViaConfig(t *testing.T) {
	sink, dec, errs := run(t, func(b *txn) {
		// CONFIG write with EM set (0x60B0).
		b.start().addrWrite(AddrGND).dataWrite(byte(RegConfig)).
			dataWrite(0x60).dataWrite(0xB0).stop()
		// 25 °C in 13-bit framing (0x0C80).
		b.start().addrWrite(AddrGND).dataWrite(byte(RegTemperature)).
			startRepeat().addrRead(AddrGND).
			dataRead(0x0C).dataRead(0x80).stop()
		// CONFIG write clearing EM must not unlatch.
		b.start().addrWrite(AddrGND).dataWrite(byte(RegConfig)).
			dataWrite(0x60).dataWrite(0xA0).stop()
	})
	if len(errs) != 0 {
		t.Fatalf("unexpected decode faults: %v", errs)
	}

	if !sink.hasVariant(annotation.RowInfo, "Read Measured temperature: 25°C") {
		t.Error("temperature not decoded with extended framing")
	}
	if !dec.ExtendedMode() {
		t.Error("extended mode latch cleared by a CONFIG write with EM unset")
	}
}

func TestExtendedModeStickyViaInBandBit(t *testing.T) {
	_, dec, _ := run(t, func(b *txn) {
		// Temperature word with bit 0 set: 25 °C extended (0x0C81).
		b.start().addrWrite(AddrGND).dataWrite(byte(RegTemperature)).
			startRepeat().addrRead(AddrGND).
			dataRead(0x0C).dataRead(0x81).stop()
	})
	if !dec.ExtendedMode() {
		t.Error("in-band EM marker did not latch extended mode")
	}
}

func TestExtendedFramingReservedBits(t *testing.T) {
	sink, _, _ := run(t, func(b *txn) {
		b.start().addrWrite(AddrGND).dataWrite(byte(RegTemperature)).
			startRepeat().addrRead(AddrGND).
			dataRead(0x0C).dataRead(0x81).stop()
	})

	var reserved, data int
	for _, ev := range sink.row(annotation.RowBits) {
		switch {
		case ev.Variants[0] == "Reserved bit":
			reserved++
		case strings.HasPrefix(ev.Variants[0], "Data bit:"):
			data++
		}
	}
	if reserved != 2 || data != 13 {
		t.Errorf("bit framing = %d reserved / %d data, want 2/13", reserved, data)
	}
}

func TestResetClearsLatch(t *testing.T) {
	_, dec, _ := run(t, func(b *txn) {
		b.start().addrWrite(AddrGND).dataWrite(byte(RegConfig)).
			dataWrite(0x60).dataWrite(0xB0).stop()
	})
	if !dec.ExtendedMode() {
		t.Fatal("latch not set")
	}
	dec.Reset()
	if dec.ExtendedMode() {
		t.Error("Reset() did not clear the extended-mode latch")
	}
	if dec.SelectedRegister() != RegTemperature || dec.Phase() != PhaseIdle {
		t.Error("Reset() did not restore session defaults")
	}
}

// ─── Faults and warnings ───────────────────────────────────────────

func TestUnknownAddressWarning(t *testing.T) {
	sink, dec, errs := run(t, func(b *txn) {
		b.start().addrWrite(0x25)
		// The next transaction must decode normally.
		b.start().addrWrite(AddrGND).dataWrite(byte(RegConfig)).stop()
	})
	if len(errs) != 0 {
		t.Fatalf("unexpected decode faults: %v", errs)
	}

	warnings := sink.row(annotation.RowWarnings)
	if len(warnings) != 1 {
		t.Fatalf("warnings = %d, want exactly 1", len(warnings))
	}
	if !sink.hasVariant(annotation.RowWarnings, "Unknown slave address: 0x25") {
		t.Errorf("warning variants = %v", warnings[0].Variants)
	}
	if !sink.hasVariant(annotation.RowInfo, "Slave presence check") {
		t.Error("session did not resynchronise after the warning")
	}
	if dec.Phase() != PhaseIdle {
		t.Errorf("phase = %v, want idle", dec.Phase())
	}
}

func TestGeneralCallReadFailsValidation(t *testing.T) {
	sink, _, _ := run(t, func(b *txn) {
		b.start().addrRead(GeneralCallAddress)
	})
	if len(sink.row(annotation.RowWarnings)) != 1 {
		t.Error("general-call address on the read side must warn")
	}
}

func TestGeneralCallReset(t *testing.T) {
	sink, dec, errs := run(t, func(b *txn) {
		b.start().addrWrite(GeneralCallAddress).dataWrite(GeneralCallReset).stop()
	})
	if len(errs) != 0 {
		t.Fatalf("unexpected decode faults: %v", errs)
	}

	var resets int
	for _, ev := range sink.row(annotation.RowInfo) {
		for _, v := range ev.Variants {
			if v == "General reset" {
				resets++
				break
			}
		}
	}
	if resets != 1 {
		t.Errorf("reset facts = %d, want exactly 1", resets)
	}
	if dec.SelectedRegister() != RegTemperature {
		t.Error("general-call reset mutated the register pointer")
	}
}

func TestGeneralCallNonResetIgnored(t *testing.T) {
	sink, dec, _ := run(t, func(b *txn) {
		b.start().addrWrite(GeneralCallAddress).dataWrite(0x04).stop()
	})
	if sink.hasVariant(annotation.RowInfo, "General reset") {
		t.Error("non-reset general call produced a reset fact")
	}
	if dec.Phase() != PhaseIdle {
		t.Errorf("phase = %v, want idle", dec.Phase())
	}
}

func TestUnknownRegisterFault(t *testing.T) {
	_, dec, errs := run(t, func(b *txn) {
		b.start().addrWrite(AddrGND).dataWrite(0x07).
			dataWrite(0x12).dataWrite(0x34).stop()
	})
	if len(errs) != 1 || !errors.Is(errs[0], ErrUnknownRegister) {
		t.Fatalf("errors = %v, want one ErrUnknownRegister", errs)
	}
	if dec.Phase() != PhaseIdle {
		t.Error("session did not recover to idle after the fault")
	}
}

func TestShortRegisterFault(t *testing.T) {
	_, _, errs := run(t, func(b *txn) {
		b.start().addrWrite(AddrGND).dataWrite(byte(RegTemperature)).
			dataWrite(0x19).stop()
	})
	if len(errs) != 1 || !errors.Is(errs[0], ErrShortRegister) {
		t.Fatalf("errors = %v, want one ErrShortRegister", errs)
	}
}

func TestFaultDoesNotPoisonNextTransaction(t *testing.T) {
	sink, _, errs := run(t, func(b *txn) {
		b.start().addrWrite(AddrGND).dataWrite(0x07).
			dataWrite(0x12).dataWrite(0x34).stop()
		b.start().addrWrite(AddrGND).dataWrite(byte(RegTemperature)).
			startRepeat().addrRead(AddrGND).
			dataRead(0x19).dataRead(0x00).stop()
	})
	if len(errs) != 1 {
		t.Fatalf("errors = %v, want exactly the first fault", errs)
	}
	if !sink.hasVariant(annotation.RowInfo, "Read Measured temperature: 25°C") {
		t.Error("transaction after a fault did not decode")
	}
}

// ─── Permissive event policy ───────────────────────────────────────

func TestOutOfPhaseEventsIgnored(t *testing.T) {
	sink := &sinkRecorder{}
	dec := New(Options{Radix: annotation.Hex, Unit: Celsius}, sink)

	events := []i2c.Event{
		{Type: i2c.DataWrite, Data: 0x01, Start: 0, End: 10},
		{Type: i2c.Stop, Start: 20, End: 22},
		{Type: i2c.Ack, Start: 30, End: 32},
		{Type: i2c.StartRepeat, Start: 40, End: 42},
	}
	for _, ev := range events {
		if err := dec.Process(ev); err != nil {
			t.Fatalf("Process(%v) error = %v", ev, err)
		}
		if dec.Phase() != PhaseIdle {
			t.Fatalf("Process(%v) moved phase to %v", ev, dec.Phase())
		}
	}
	if len(sink.events) != 0 {
		t.Errorf("out-of-phase events emitted %d annotations", len(sink.events))
	}
}

func TestAckIgnoredMidTransaction(t *testing.T) {
	sink := &sinkRecorder{}
	dec := New(Options{Radix: annotation.Hex, Unit: Celsius}, sink)

	b := &txn{}
	b.start().addrWrite(AddrGND)
	for _, ev := range b.events {
		if err := dec.Process(ev); err != nil {
			t.Fatal(err)
		}
	}
	if err := dec.Process(i2c.Event{Type: i2c.Ack, Start: 500, End: 502}); err != nil {
		t.Fatal(err)
	}
	if dec.Phase() != PhaseRegisterSelect {
		t.Errorf("phase = %v, want register-select", dec.Phase())
	}
}

// ─── Radix option ──────────────────────────────────────────────────

func TestRegisterWordRadix(t *testing.T) {
	sink := &sinkRecorder{}
	dec := New(Options{Radix: annotation.Bin, Unit: Celsius}, sink)

	b := &txn{}
	b.start().addrWrite(AddrGND).dataWrite(byte(RegConfig)).
		dataWrite(0x60).dataWrite(0xA0).stop()
	for _, ev := range b.events {
		if err := dec.Process(ev); err != nil {
			t.Fatal(err)
		}
	}
	if !sink.hasVariant(annotation.RowRegisters, "0b0110000010100000") {
		t.Error("register word not rendered in the configured radix")
	}
}

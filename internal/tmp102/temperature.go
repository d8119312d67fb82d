package tmp102

import (
	"fmt"
	"strconv"
	"strings"
)

// Unit selects the temperature scale for decoded values.
type Unit int

const (
	// Celsius is the sensor's native scale (the default).
	Celsius Unit = iota

	// Fahrenheit converts decoded values to degrees Fahrenheit.
	Fahrenheit

	// Kelvin converts decoded values to kelvins.
	Kelvin
)

// ParseUnit converts a configuration string to a Unit.
//
// Recognised values (case-insensitive): celsius, fahrenheit, kelvin.
//
// Returns:
//   - Unit: The matching unit
//   - error: ErrUnknownUnit for anything else
func ParseUnit(name string) (Unit, error) {
	switch strings.ToLower(name) {
	case "", "celsius":
		return Celsius, nil
	case "fahrenheit":
		return Fahrenheit, nil
	case "kelvin":
		return Kelvin, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, name)
	}
}

// String returns the configuration name of the unit.
func (u Unit) String() string {
	switch u {
	case Fahrenheit:
		return "fahrenheit"
	case Kelvin:
		return "kelvin"
	default:
		return "celsius"
	}
}

// Label returns the unit symbol attached to rendered values.
func (u Unit) Label() string {
	switch u {
	case Fahrenheit:
		return "°F"
	case Kelvin:
		return "K"
	default:
		return "°C"
	}
}

// Temperature field framing. The converted value occupies the top bits of
// the 16-bit register word; the remaining low bits are reserved except bit
// 0, which doubles as the in-band extended-mode marker.
const (
	// normalShift discards the 4 non-value bits of a 12-bit frame.
	normalShift = 3 + 1

	// extendedShift discards the 3 non-value bits of a 13-bit frame.
	extendedShift = 2 + 1

	// degreesPerCount is the scale of the sign-extended value: the LSB of
	// either frame is 1/16 °C (0.0625 °C resolution).
	degreesPerCount = 16.0
)

// ExtendedModeFlag reports whether a temperature-family register word
// carries the in-band extended-mode marker (bit 0). Observing it latches
// the session's sticky extended-mode flag at the call site.
func ExtendedModeFlag(raw uint16) bool {
	return raw&0x0001 != 0
}

// DecodeTemperature converts a raw temperature-family register word to a
// physical value in the requested unit.
//
// The word holds a left-aligned two's-complement field: 12 bits wide in
// normal mode, 13 bits in extended mode. An arithmetic shift on the signed
// container performs the mode-dependent sign extension; the shifted count
// is then scaled at 0.0625 °C per LSB and converted to the requested
// scale.
//
// The function is pure and total over uint16: every input decodes.
//
// Parameters:
//   - raw: Register word as assembled from the bus (MSB-first)
//   - extended: Session extended-mode flag (13-bit framing when true)
//   - unit: Output scale
//
// Returns:
//   - float64: Temperature in the requested unit
//   - string: The unit symbol (e.g. "°C")
func DecodeTemperature(raw uint16, extended bool, unit Unit) (float64, string) {
	shift := normalShift
	if extended {
		shift = extendedShift
	}

	// int16 arithmetic shift sign-extends the left-aligned field.
	counts := int16(raw) >> shift
	celsius := float64(counts) / degreesPerCount

	switch unit {
	case Fahrenheit:
		return celsius*9/5 + 32, unit.Label()
	case Kelvin:
		return celsius + 273.15, unit.Label()
	default:
		return celsius, unit.Label()
	}
}

// FormatTemperature renders a decoded value for annotation variants.
// Trailing zeros are dropped; the sensor's 0.0625 °C steps never need more
// than four decimals.
func FormatTemperature(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

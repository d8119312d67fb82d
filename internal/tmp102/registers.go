package tmp102

import "fmt"

// Register identifies a slave register through the pointer byte written to
// the device.
type Register byte

// Slave registers. The pointer register selects which of these a
// subsequent read or write addresses.
const (
	// RegTemperature is the read-only temperature result register.
	RegTemperature Register = 0x00

	// RegConfig is the configuration register.
	RegConfig Register = 0x01

	// RegTLow is the low alert limit register.
	RegTLow Register = 0x02

	// RegTHigh is the high alert limit register.
	RegTHigh Register = 0x03

	// RegGeneralReset is a pseudo-register representing the general-call
	// reset command; it never appears as a pointer value on the bus.
	RegGeneralReset Register = Register(GeneralCallReset)
)

// String returns the short register name.
func (r Register) String() string {
	switch r {
	case RegTemperature:
		return "TEMP"
	case RegConfig:
		return "CONF"
	case RegTLow:
		return "TLOW"
	case RegTHigh:
		return "THIGH"
	case RegGeneralReset:
		return "RESET"
	default:
		return fmt.Sprintf("REG(0x%02X)", byte(r))
	}
}

// Hardware slave addresses. The ADD0 pin selects the address by the rail
// or line it is tied to.
const (
	AddrGND byte = 0x48 // ADD0 tied to ground
	AddrVCC byte = 0x49 // ADD0 tied to supply
	AddrSDA byte = 0x4A // ADD0 tied to the data line
	AddrSCL byte = 0x4B // ADD0 tied to the clock line
)

// General call parameters on the I²C bus.
const (
	// GeneralCallAddress is the reserved broadcast address.
	GeneralCallAddress byte = 0x00

	// GeneralCallReset is the broadcast command that resets the sensor to
	// its power-up state.
	GeneralCallReset byte = 0x06
)

// addressNames maps hardware addresses to their ADD0 pin wiring names.
var addressNames = map[byte]string{
	AddrGND: "ADD0_GND",
	AddrVCC: "ADD0_VCC",
	AddrSDA: "ADD0_SDA",
	AddrSCL: "ADD0_SCL",
}

// ValidAddress reports whether addr is one of the four hardware slave
// addresses.
func ValidAddress(addr byte) bool {
	_, ok := addressNames[addr]
	return ok
}

// AddressName returns the ADD0 wiring name for a hardware address, or an
// empty string for addresses the sensor cannot occupy.
func AddressName(addr byte) string {
	return addressNames[addr]
}

// Bit positions inside the 16-bit configuration word.
//
// The analyzer assembles the word most-significant byte first, so the
// positions below index into the full word, byte 1 holding bits 15..8.
const (
	BitEM  = 4  // Extended mode
	BitAL  = 5  // Alert
	BitCR0 = 6  // Conversion rate, low bit
	BitCR1 = 7  // Conversion rate, high bit
	BitSD  = 8  // Shutdown mode
	BitTM  = 9  // Thermostat mode
	BitPOL = 10 // Alert polarity
	BitF0  = 11 // Fault queue, low bit
	BitF1  = 12 // Fault queue, high bit
	BitR0  = 13 // Converter resolution, low bit
	BitR1  = 14 // Converter resolution, high bit
	BitOS  = 15 // One-shot conversion
)

// PowerUpConfig is the configuration word the sensor wakes up with.
// Decodes recognise it and label it distinctly from custom values.
const PowerUpConfig uint16 = 0x60A0

// conversionRates converts the CR1:CR0 field to conversions per second.
var conversionRates = map[uint16]string{
	0b00: "0.25",
	0b01: "1",
	0b10: "4",
	0b11: "8",
}

// faultCounts converts the F1:F0 field to the number of consecutive faults
// required before the alert pin responds.
var faultCounts = map[uint16]string{
	0b00: "1",
	0b01: "2",
	0b10: "4",
	0b11: "6",
}

// resolutions converts the R1:R0 field to converter resolution in bits.
// The field is read-only on the sensor and only 0b11 is defined.
var resolutions = map[uint16]string{
	0b11: "12",
}

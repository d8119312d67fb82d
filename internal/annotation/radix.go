package annotation

import (
	"fmt"
	"strings"
)

// Radix selects the numeric base used to render register words.
type Radix int

const (
	// Hex renders words as 0x-prefixed hexadecimal (the default).
	Hex Radix = iota

	// Dec renders words as unsigned decimal.
	Dec

	// Oct renders words as 0-prefixed octal.
	Oct

	// Bin renders words as 0b-prefixed binary.
	Bin
)

// ParseRadix converts a configuration string to a Radix.
//
// Recognised values (case-insensitive): hex, dec, oct, bin.
//
// Returns:
//   - Radix: The matching radix
//   - error: ErrUnknownRadix for anything else
func ParseRadix(name string) (Radix, error) {
	switch strings.ToLower(name) {
	case "", "hex":
		return Hex, nil
	case "dec":
		return Dec, nil
	case "oct":
		return Oct, nil
	case "bin":
		return Bin, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownRadix, name)
	}
}

// String returns the configuration name of the radix.
func (r Radix) String() string {
	switch r {
	case Dec:
		return "dec"
	case Oct:
		return "oct"
	case Bin:
		return "bin"
	default:
		return "hex"
	}
}

// FormatWord renders a 16-bit register word in the radix, zero-padded to
// the full register width so adjacent annotations align.
func (r Radix) FormatWord(w uint16) string {
	switch r {
	case Dec:
		return fmt.Sprintf("%d", w)
	case Oct:
		return fmt.Sprintf("0%06o", w)
	case Bin:
		return fmt.Sprintf("0b%016b", w)
	default:
		return fmt.Sprintf("0x%04X", w)
	}
}

// FormatByte renders a single byte in the radix, zero-padded to byte width.
func (r Radix) FormatByte(b byte) string {
	switch r {
	case Dec:
		return fmt.Sprintf("%d", b)
	case Oct:
		return fmt.Sprintf("0%03o", b)
	case Bin:
		return fmt.Sprintf("0b%08b", b)
	default:
		return fmt.Sprintf("0x%02X", b)
	}
}

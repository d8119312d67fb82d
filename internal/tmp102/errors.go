package tmp102

import "errors"

// Domain errors for the tmp102 decoder.
var (
	// ErrUnknownRegister is the decode fault raised when a transaction
	// completes against a register pointer with no decoding rule. The
	// session recovers to idle; subsequent transactions are independent.
	ErrUnknownRegister = errors.New("tmp102: unknown register")

	// ErrShortRegister is the decode fault raised when a transaction
	// completes with fewer data bytes than the register requires.
	ErrShortRegister = errors.New("tmp102: register data truncated")

	// ErrUnknownUnit is returned when a configured unit name is not one of
	// celsius, fahrenheit, or kelvin.
	ErrUnknownUnit = errors.New("tmp102: unknown temperature unit")
)

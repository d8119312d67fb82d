package annotation

import "errors"

// Domain errors for the annotation package.
var (
	// ErrUnknownRadix is returned when a configured radix name is not one
	// of hex, dec, oct, or bin.
	ErrUnknownRadix = errors.New("annotation: unknown radix")
)

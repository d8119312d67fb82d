package i2c

import "errors"

// Domain errors for the i2c package.
var (
	// ErrUnknownEventType is returned when a capture line names an event
	// type the decoder does not know.
	ErrUnknownEventType = errors.New("i2c: unknown event type")

	// ErrMalformedEvent is returned when a capture line cannot be parsed.
	ErrMalformedEvent = errors.New("i2c: malformed capture event")
)

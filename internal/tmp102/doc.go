// Package tmp102 decodes the register-level behaviour of the TMP102
// digital temperature sensor from a timestamped stream of I²C bus events.
//
// # Architecture
//
// The decoder layers four pieces on top of the bus event stream:
//
//	bus events → state machine → register/field decoder
//	                 │                   │
//	            byte/bit assembler   temperature codec
//	                                     │
//	                             annotation composer → sink
//
// The transaction state machine (Decoder.Process) classifies primitives
// into register operations. At each transaction boundary the register
// decoder extracts bit fields, the temperature codec converts raw words
// to physical values, and every fact is rendered through the annotation
// composer into length-sorted variants.
//
// # Session state
//
// One Decoder holds one session. The only cross-transaction state besides
// the register pointer is the extended-mode latch: the sensor's 13-bit
// resolution mode is sticky on the device, so the decoder mirrors it as a
// latch that only Reset clears. See DecodeTemperature for the framing
// difference.
//
// # Error handling
//
// Unknown slave addresses produce a warning annotation and resynchronise
// the session to idle. A completed transaction against an unknown or
// underfilled register pointer returns a decode fault from Process; the
// session has already recovered, so callers log and continue.
//
// # References
//
//   - TMP102 datasheet: https://www.ti.com/product/TMP102
package tmp102

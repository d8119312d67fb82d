// Package i2c models the event stream produced by an upstream I²C bus
// analyzer: start/stop conditions, address and data phases, and per-bit
// sample timing.
//
// The package deliberately stops at the transport layer. It knows nothing
// about any particular slave device; register-level semantics live in the
// device packages (internal/tmp102).
//
// # Capture format
//
// Captures are JSON Lines, one event per line, in monotonic sample order:
//
//	{"type":"START","ss":0,"es":4}
//	{"type":"BITS","ss":5,"es":85,"bits":[{"value":0,"ss":75,"es":85}, ...]}
//	{"type":"ADDRESS WRITE","data":72,"ss":5,"es":85}
//
// Samples are counted at the acquisition sampling frequency. A Bits event
// always precedes the address/data event whose byte it details, and lists
// bits from LSB (index 0) to MSB, mirroring the analyzer's convention.
package i2c

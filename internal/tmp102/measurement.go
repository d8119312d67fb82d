package tmp102

// Measurement is the numeric form of a decoded temperature-bearing
// register, emitted alongside the textual info annotation. It feeds the
// time-series writer; annotation sinks never see it.
type Measurement struct {
	// Register is the source register (TEMP, TLOW, or THIGH).
	Register Register `json:"register"`

	// Celsius is the decoded value on the sensor's native scale.
	Celsius float64 `json:"celsius"`

	// Value is the decoded value on the session's configured scale.
	Value float64 `json:"value"`

	// Unit is the session's configured scale.
	Unit Unit `json:"unit"`

	// Start/End span the register data bytes on the bus.
	Start uint64 `json:"ss"`
	End   uint64 `json:"es"`
}

// MeasurementSink accepts decoded measurements in emission order.
type MeasurementSink interface {
	Measure(m Measurement)
}

// MeasurementFunc adapts a function to the MeasurementSink interface.
type MeasurementFunc func(m Measurement)

// Measure implements MeasurementSink.
func (f MeasurementFunc) Measure(m Measurement) { f(m) }

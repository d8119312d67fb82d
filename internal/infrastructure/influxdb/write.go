package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteTemperature writes a decoded temperature reading to InfluxDB.
//
// This is the primary method for recording sensor telemetry. The write is
// non-blocking; data is batched and sent asynchronously.
//
// Parameters:
//   - register: Source register name (e.g., "TEMP", "TLOW", "THIGH")
//   - celsius: Reading in degrees Celsius (canonical scale)
//   - value: Reading in the configured display unit
//   - unit: Display unit name (e.g., "celsius", "fahrenheit")
//
// Example:
//
//	client.WriteTemperature("TEMP", 25.0, 77.0, "fahrenheit")
func (c *Client) WriteTemperature(register string, celsius, value float64, unit string) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"temperature",
		map[string]string{
			"register": register,
			"unit":     unit,
		},
		map[string]interface{}{
			"celsius": celsius,
			"value":   value,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteDecodeFault records one decode fault occurrence.
//
// Used for tracking capture quality over time: unknown register pointers,
// truncated register reads, unknown slave addresses.
//
// Parameters:
//   - kind: Fault category (e.g., "unknown_register", "short_register")
func (c *Client) WriteDecodeFault(kind string) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"decode_faults",
		map[string]string{
			"kind": kind,
		},
		map[string]interface{}{
			"count": 1,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for custom measurements that don't fit the helper methods.
//
// Parameters:
//   - measurement: The measurement name (table)
//   - tags: Key-value pairs for indexing (low cardinality)
//   - fields: Key-value pairs for the actual data
//
// Example:
//
//	client.WritePoint("session_stats",
//	    map[string]string{"source": "capture.jsonl"},
//	    map[string]interface{}{"events": 1024, "warnings": 2})
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}

// WritePointWithTime writes a custom point with a specific timestamp.
//
// Use this when the timestamp is not "now" (e.g., replaying an archived
// capture with original timing).
//
// Parameters:
//   - measurement: The measurement name
//   - tags: Key-value pairs for indexing
//   - fields: Key-value pairs for the data
//   - timestamp: The exact time for this data point
func (c *Client) WritePointWithTime(measurement string, tags map[string]string, fields map[string]interface{}, timestamp time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, timestamp)
	c.writeAPI.WritePoint(point)
}

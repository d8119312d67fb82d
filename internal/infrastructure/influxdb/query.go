package influxdb

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// TemperaturePoint is a single recorded temperature sample.
type TemperaturePoint struct {
	Time    time.Time `json:"time"`
	Celsius float64   `json:"celsius"`
}

// TemperatureHistory returns recorded temperature samples for a register
// over the given lookback window, oldest first.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - register: Register short name to filter on (e.g. "TEMP"); empty matches all
//   - since: Lookback duration (must be positive)
//
// Returns:
//   - []TemperaturePoint: Samples ordered by time ascending
//   - error: nil on success, otherwise the query error
func (c *Client) TemperatureHistory(ctx context.Context, register string, since time.Duration) ([]TemperaturePoint, error) {
	if c == nil || !c.IsConnected() {
		return nil, ErrNotConnected
	}
	if since <= 0 {
		return nil, fmt.Errorf("influxdb: lookback must be positive")
	}

	var b strings.Builder
	fmt.Fprintf(&b, `from(bucket: %q)`, c.cfg.Bucket)
	fmt.Fprintf(&b, ` |> range(start: -%s)`, since.Truncate(time.Second))
	b.WriteString(` |> filter(fn: (r) => r._measurement == "temperature" and r._field == "celsius")`)
	if register != "" {
		fmt.Fprintf(&b, ` |> filter(fn: (r) => r.register == %q)`, register)
	}
	b.WriteString(` |> sort(columns: ["_time"])`)

	queryAPI := c.client.QueryAPI(c.cfg.Org)
	result, err := queryAPI.Query(ctx, b.String())
	if err != nil {
		return nil, fmt.Errorf("influxdb: temperature query failed: %w", err)
	}
	defer result.Close()

	var points []TemperaturePoint
	for result.Next() {
		value, ok := result.Record().Value().(float64)
		if !ok {
			continue
		}
		points = append(points, TemperaturePoint{
			Time:    result.Record().Time(),
			Celsius: value,
		})
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("influxdb: reading query result: %w", err)
	}

	return points, nil
}

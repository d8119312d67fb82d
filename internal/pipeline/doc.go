// Package pipeline drives the TMP102 decoder over a bus event source and
// fans its output out to the configured sinks.
//
// # Architecture
//
//	capture file ──┐
//	               ├──▶ Runner ──▶ Decoder ──▶ annotation sinks (archive, MQTT, WebSocket)
//	MQTT stream ───┘                       └──▶ measurement sinks (archive, MQTT, InfluxDB)
//
// The runner owns fault policy: decode faults are logged, counted, and
// optionally written to the time-series store, but the stream always
// continues. The decoder resynchronises on the next start condition.
//
// # Usage
//
//	runner, err := pipeline.New(pipeline.Options{
//	    Decoder: tmp102.Options{Radix: radix, Unit: unit},
//	    Sinks:   []annotation.Sink{recorder, publisher, hub},
//	    Logger:  log,
//	})
//	if err != nil {
//	    return err
//	}
//	err = runner.RunFile(ctx, cfg.Source.Path)
package pipeline

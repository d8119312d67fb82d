package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/openprobe/thermodec/internal/annotation"
	"github.com/openprobe/thermodec/internal/i2c"
	"github.com/openprobe/thermodec/internal/infrastructure/influxdb"
	"github.com/openprobe/thermodec/internal/infrastructure/logging"
	"github.com/openprobe/thermodec/internal/infrastructure/mqtt"
	"github.com/openprobe/thermodec/internal/tmp102"
)

// eventChanBuffer absorbs bursts from a live analyzer while the decoder
// catches up.
const eventChanBuffer = 256

// Options configures a decode pipeline run.
type Options struct {
	// Decoder holds radix and unit settings for annotation text.
	Decoder tmp102.Options

	// Sinks receive every annotation the decoder emits (archive recorder,
	// MQTT publisher, WebSocket hub).
	Sinks []annotation.Sink

	// Measurements receive decoded numeric temperatures.
	Measurements []tmp102.MeasurementSink

	// Logger is required.
	Logger *logging.Logger

	// Influx is optional; when set, decode faults are counted in the
	// time-series store.
	Influx *influxdb.Client
}

// Runner drives the decoder over a bus event source and fans output out
// to the configured sinks.
//
// Decode faults (unknown register pointers, short register data) are
// logged and counted but never stop the stream: the decoder resynchronises
// on the next start condition.
type Runner struct {
	opts Options
	dec  *tmp102.Decoder
	log  *logging.Logger

	// Stats for the current run.
	events uint64
	faults uint64
}

// New creates a pipeline runner.
func New(opts Options) (*Runner, error) {
	if opts.Logger == nil {
		return nil, fmt.Errorf("pipeline: logger is required")
	}
	if len(opts.Sinks) == 0 {
		return nil, fmt.Errorf("pipeline: at least one annotation sink is required")
	}

	dec := tmp102.New(opts.Decoder, annotation.MultiSink(opts.Sinks))
	if len(opts.Measurements) > 0 {
		dec.SetMeasurementSink(measureFan(opts.Measurements))
	}

	return &Runner{
		opts: opts,
		dec:  dec,
		log:  opts.Logger,
	}, nil
}

// RunFile decodes a JSONL capture export from start to finish.
//
// Parameters:
//   - ctx: Cancels the run between events
//   - path: Capture file location
//
// Returns:
//   - error: A read error, or ctx.Err() on cancellation. Decode faults
//     are absorbed and counted, not returned.
func (r *Runner) RunFile(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("pipeline: opening capture: %w", err)
	}
	defer f.Close()

	reader := i2c.NewReader(f)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		ev, err := reader.Next()
		if errors.Is(err, io.EOF) {
			r.log.Info("capture drained",
				"path", path,
				"events", r.events,
				"decode_faults", r.faults,
			)
			return nil
		}
		if err != nil {
			return fmt.Errorf("pipeline: reading capture: %w", err)
		}
		r.process(ev)
	}
}

// RunMQTT decodes a live analyzer stream arriving on the capture events
// topic. It blocks until the context is cancelled.
//
// Parameters:
//   - ctx: Cancels the run
//   - client: Connected MQTT client
//
// Returns:
//   - error: Subscription failure, or nil on cancellation
func (r *Runner) RunMQTT(ctx context.Context, client *mqtt.Client) error {
	topics := mqtt.Topics{}
	topic := topics.CaptureEvents()

	// Decode on a single goroutine; the handler only parses and forwards
	// so slow decode never blocks the MQTT client's router.
	events := make(chan i2c.Event, eventChanBuffer)

	err := client.Subscribe(topic, 1, func(_ string, payload []byte) error {
		ev, err := i2c.ParseEvent(payload)
		if err != nil {
			r.log.Warn("dropping malformed capture event", "error", err)
			return nil
		}
		select {
		case events <- ev:
		case <-ctx.Done():
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("pipeline: subscribing to capture events: %w", err)
	}
	defer func() {
		if unsubErr := client.Unsubscribe(topic); unsubErr != nil {
			r.log.Warn("failed to unsubscribe from capture events", "error", unsubErr)
		}
	}()

	r.log.Info("decoding live capture stream", "topic", topic)
	for {
		select {
		case <-ctx.Done():
			r.log.Info("live decode stopped",
				"events", r.events,
				"decode_faults", r.faults,
			)
			return nil
		case ev := <-events:
			r.process(ev)
		}
	}
}

// process feeds one event to the decoder and absorbs decode faults.
func (r *Runner) process(ev i2c.Event) {
	r.events++
	if err := r.dec.Process(ev); err != nil {
		r.faults++
		r.log.Warn("decode fault",
			"error", err,
			"ss", ev.Start,
			"es", ev.End,
		)
		if r.opts.Influx != nil {
			r.opts.Influx.WriteDecodeFault(faultKind(err))
		}
	}
}

// Events returns the number of bus events processed so far.
func (r *Runner) Events() uint64 { return r.events }

// Faults returns the number of decode faults absorbed so far.
func (r *Runner) Faults() uint64 { return r.faults }

// faultKind maps a decode error to a metric tag.
func faultKind(err error) string {
	switch {
	case errors.Is(err, tmp102.ErrUnknownRegister):
		return "unknown_register"
	case errors.Is(err, tmp102.ErrShortRegister):
		return "short_register"
	default:
		return "other"
	}
}

// measureFan fans measurements out to multiple sinks.
type measureFan []tmp102.MeasurementSink

// Measure implements tmp102.MeasurementSink.
func (f measureFan) Measure(m tmp102.Measurement) {
	for _, sink := range f {
		sink.Measure(m)
	}
}

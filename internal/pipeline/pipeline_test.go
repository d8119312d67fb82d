package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/openprobe/thermodec/internal/annotation"
	"github.com/openprobe/thermodec/internal/i2c"
	"github.com/openprobe/thermodec/internal/infrastructure/logging"
	"github.com/openprobe/thermodec/internal/tmp102"
)

// recordingSink collects annotation events.
type recordingSink struct {
	events []annotation.Event
}

func (s *recordingSink) Annotate(ev annotation.Event) {
	s.events = append(s.events, ev)
}

func (s *recordingSink) hasVariant(substr string) bool {
	for _, ev := range s.events {
		for _, v := range ev.Variants {
			if strings.Contains(v, substr) {
				return true
			}
		}
	}
	return false
}

// recordingMeasurements collects decoded temperatures.
type recordingMeasurements struct {
	measurements []tmp102.Measurement
}

func (s *recordingMeasurements) Measure(m tmp102.Measurement) {
	s.measurements = append(s.measurements, m)
}

// temperatureReadCapture is a pointer write to TEMP followed by a
// two-byte read of 0x1900 (25°C).
const temperatureReadCapture = `{"type":"START","ss":10,"es":12}
{"type":"ADDRESS WRITE","data":72,"ss":20,"es":100}
{"type":"DATA WRITE","data":0,"ss":110,"es":190}
{"type":"START REPEAT","ss":200,"es":202}
{"type":"ADDRESS READ","data":72,"ss":210,"es":290}
{"type":"DATA READ","data":25,"ss":300,"es":380}
{"type":"DATA READ","data":0,"ss":390,"es":470}
{"type":"STOP","ss":480,"es":482}
`

// unknownRegisterCapture selects an undocumented pointer and writes data,
// which raises a decode fault at the stop condition.
const unknownRegisterCapture = `{"type":"START","ss":500,"es":502}
{"type":"ADDRESS WRITE","data":72,"ss":510,"es":590}
{"type":"DATA WRITE","data":7,"ss":600,"es":680}
{"type":"DATA WRITE","data":0,"ss":690,"es":770}
{"type":"DATA WRITE","data":0,"ss":780,"es":860}
{"type":"STOP","ss":870,"es":872}
`

// writeCapture materialises capture content in a temp dir.
func writeCapture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "capture.jsonl")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing capture: %v", err)
	}
	return path
}

func TestNewRequiresLogger(t *testing.T) {
	_, err := New(Options{Sinks: []annotation.Sink{&recordingSink{}}})
	if err == nil {
		t.Error("expected error without logger")
	}
}

func TestNewRequiresSink(t *testing.T) {
	_, err := New(Options{Logger: logging.Default()})
	if err == nil {
		t.Error("expected error without sinks")
	}
}

func TestRunFileDecodesCapture(t *testing.T) {
	sink := &recordingSink{}
	meas := &recordingMeasurements{}

	runner, err := New(Options{
		Sinks:        []annotation.Sink{sink},
		Measurements: []tmp102.MeasurementSink{meas},
		Logger:       logging.Default(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	path := writeCapture(t, temperatureReadCapture)
	if err := runner.RunFile(context.Background(), path); err != nil {
		t.Fatalf("RunFile: %v", err)
	}

	if runner.Events() != 8 {
		t.Errorf("events = %d, want 8", runner.Events())
	}
	if runner.Faults() != 0 {
		t.Errorf("faults = %d, want 0", runner.Faults())
	}
	if !sink.hasVariant("Slave address: 0x48") {
		t.Error("missing slave address annotation")
	}
	if !sink.hasVariant("Read Measured temperature: 25°C") {
		t.Error("missing temperature annotation")
	}
	if len(meas.measurements) != 1 {
		t.Fatalf("measurements = %d, want 1", len(meas.measurements))
	}
	if meas.measurements[0].Celsius != 25 {
		t.Errorf("celsius = %v, want 25", meas.measurements[0].Celsius)
	}
}

func TestRunFileAbsorbsDecodeFaults(t *testing.T) {
	sink := &recordingSink{}

	runner, err := New(Options{
		Sinks:  []annotation.Sink{sink},
		Logger: logging.Default(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// A fault mid-stream must not stop the following transaction.
	path := writeCapture(t, unknownRegisterCapture+temperatureReadCapture)
	if err := runner.RunFile(context.Background(), path); err != nil {
		t.Fatalf("RunFile: %v", err)
	}

	if runner.Faults() != 1 {
		t.Errorf("faults = %d, want 1", runner.Faults())
	}
	if !sink.hasVariant("Read Measured temperature: 25°C") {
		t.Error("transaction after fault was not decoded")
	}
}

func TestRunFileFanOut(t *testing.T) {
	first := &recordingSink{}
	second := &recordingSink{}
	measA := &recordingMeasurements{}
	measB := &recordingMeasurements{}

	runner, err := New(Options{
		Sinks:        []annotation.Sink{first, second},
		Measurements: []tmp102.MeasurementSink{measA, measB},
		Logger:       logging.Default(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	path := writeCapture(t, temperatureReadCapture)
	if err := runner.RunFile(context.Background(), path); err != nil {
		t.Fatalf("RunFile: %v", err)
	}

	if len(first.events) == 0 || len(first.events) != len(second.events) {
		t.Errorf("sink fan-out mismatch: %d vs %d", len(first.events), len(second.events))
	}
	if len(measA.measurements) != 1 || len(measB.measurements) != 1 {
		t.Errorf("measurement fan-out mismatch: %d vs %d", len(measA.measurements), len(measB.measurements))
	}
}

func TestRunFileMissingCapture(t *testing.T) {
	runner, err := New(Options{
		Sinks:  []annotation.Sink{&recordingSink{}},
		Logger: logging.Default(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := runner.RunFile(context.Background(), filepath.Join(t.TempDir(), "missing.jsonl")); err == nil {
		t.Error("expected error for missing capture file")
	}
}

func TestRunFileMalformedCapture(t *testing.T) {
	runner, err := New(Options{
		Sinks:  []annotation.Sink{&recordingSink{}},
		Logger: logging.Default(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	path := writeCapture(t, "{not json}\n")
	err = runner.RunFile(context.Background(), path)
	if !errors.Is(err, i2c.ErrMalformedEvent) {
		t.Errorf("expected ErrMalformedEvent, got %v", err)
	}
}

func TestRunFileCancelled(t *testing.T) {
	runner, err := New(Options{
		Sinks:  []annotation.Sink{&recordingSink{}},
		Logger: logging.Default(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path := writeCapture(t, temperatureReadCapture)
	if err := runner.RunFile(ctx, path); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

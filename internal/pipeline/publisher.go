package pipeline

import (
	"encoding/json"
	"time"

	"github.com/openprobe/thermodec/internal/annotation"
	"github.com/openprobe/thermodec/internal/archive"
	"github.com/openprobe/thermodec/internal/infrastructure/influxdb"
	"github.com/openprobe/thermodec/internal/infrastructure/logging"
	"github.com/openprobe/thermodec/internal/infrastructure/mqtt"
	"github.com/openprobe/thermodec/internal/tmp102"
)

// annotationMessage is the MQTT payload for one decoded annotation.
// The row also appears in the topic; repeating it in the payload lets
// wildcard subscribers avoid parsing topics.
type annotationMessage struct {
	SessionID string   `json:"session_id,omitempty"`
	Row       string   `json:"row"`
	Start     uint64   `json:"ss"`
	End       uint64   `json:"es"`
	Variants  []string `json:"variants"`
}

// measurementMessage is the MQTT payload for one decoded temperature.
type measurementMessage struct {
	SessionID string  `json:"session_id,omitempty"`
	Register  string  `json:"register"`
	Celsius   float64 `json:"celsius"`
	Value     float64 `json:"value"`
	Unit      string  `json:"unit"`
	Start     uint64  `json:"ss"`
	End       uint64  `json:"es"`
}

// sessionStatusMessage is the MQTT payload for session lifecycle updates.
type sessionStatusMessage struct {
	SessionID string `json:"session_id"`
	Status    string `json:"status"`
	Source    string `json:"source"`
	Timestamp string `json:"timestamp"`
}

// Publisher relays decode output to MQTT.
//
// It implements annotation.Sink and tmp102.MeasurementSink. Publish
// failures are logged and dropped; the broker link has its own retry and
// a stalled publish must not stall decoding.
type Publisher struct {
	client    *mqtt.Client
	topics    mqtt.Topics
	log       *logging.Logger
	sessionID string
	qos       byte
}

// NewPublisher creates an MQTT publisher for one decode session.
// sessionID may be empty when decoding without an archive session.
func NewPublisher(client *mqtt.Client, sessionID string, qos byte, log *logging.Logger) *Publisher {
	return &Publisher{
		client:    client,
		log:       log,
		sessionID: sessionID,
		qos:       qos,
	}
}

// Annotate implements annotation.Sink by publishing on the row's annotation topic.
func (p *Publisher) Annotate(ev annotation.Event) {
	row := ev.Row.String()
	payload, err := json.Marshal(annotationMessage{
		SessionID: p.sessionID,
		Row:       row,
		Start:     ev.Start,
		End:       ev.End,
		Variants:  ev.Variants,
	})
	if err != nil {
		p.log.Error("failed to marshal annotation", "error", err)
		return
	}
	if err := p.client.Publish(p.topics.Annotation(row), payload, p.qos, false); err != nil {
		p.log.Warn("failed to publish annotation", "row", row, "error", err)
	}
}

// Measure implements tmp102.MeasurementSink by publishing on the
// temperature measurement topic.
func (p *Publisher) Measure(m tmp102.Measurement) {
	payload, err := json.Marshal(measurementMessage{
		SessionID: p.sessionID,
		Register:  m.Register.String(),
		Celsius:   m.Celsius,
		Value:     m.Value,
		Unit:      m.Unit.String(),
		Start:     m.Start,
		End:       m.End,
	})
	if err != nil {
		p.log.Error("failed to marshal measurement", "error", err)
		return
	}
	if err := p.client.Publish(p.topics.MeasurementTemperature(), payload, p.qos, false); err != nil {
		p.log.Warn("failed to publish measurement", "error", err)
	}
}

// PublishSessionStatus announces a session lifecycle change (retained, so
// late subscribers see the current state).
func (p *Publisher) PublishSessionStatus(session archive.Session, status string) {
	payload, err := json.Marshal(sessionStatusMessage{
		SessionID: session.ID,
		Status:    status,
		Source:    session.Source,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		p.log.Error("failed to marshal session status", "error", err)
		return
	}
	if err := p.client.PublishRetained(p.topics.SessionStatus(session.ID), payload); err != nil {
		p.log.Warn("failed to publish session status", "error", err)
	}
}

// InfluxSink writes decoded temperatures to the time-series store.
type InfluxSink struct {
	client *influxdb.Client
}

// NewInfluxSink wraps an InfluxDB client as a measurement sink.
func NewInfluxSink(client *influxdb.Client) *InfluxSink {
	return &InfluxSink{client: client}
}

// Measure implements tmp102.MeasurementSink.
func (s *InfluxSink) Measure(m tmp102.Measurement) {
	s.client.WriteTemperature(m.Register.String(), m.Celsius, m.Value, m.Unit.String())
}

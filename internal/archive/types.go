package archive

import (
	"time"

	"github.com/google/uuid"
)

// Session is one recorded decode run over a capture source.
type Session struct {
	// ID is a UUID assigned when the session starts.
	ID string `json:"id"`

	// Source names where the events came from: a capture file path or
	// an MQTT topic.
	Source string `json:"source"`

	// Radix and Unit record the display settings the session decoded with,
	// so archived annotation text can be interpreted later.
	Radix string `json:"radix"`
	Unit  string `json:"unit"`

	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// NewSession creates a session with a fresh UUID and the current time.
func NewSession(source, radix, unit string) Session {
	return Session{
		ID:        uuid.NewString(),
		Source:    source,
		Radix:     radix,
		Unit:      unit,
		StartedAt: time.Now().UTC(),
	}
}

// Annotation is one archived decode annotation.
//
// Text is the longest (most descriptive) variant; the full variant list
// is kept alongside so clients can still pick by available width.
type Annotation struct {
	ID        int64    `json:"id"`
	SessionID string   `json:"session_id"`
	Row       string   `json:"row"`
	Start     uint64   `json:"ss"`
	End       uint64   `json:"es"`
	Text      string   `json:"text"`
	Variants  []string `json:"variants"`
}

// Measurement is one archived numeric temperature sample.
type Measurement struct {
	ID        int64   `json:"id"`
	SessionID string  `json:"session_id"`
	Register  string  `json:"register"`
	Celsius   float64 `json:"celsius"`
	Value     float64 `json:"value"`
	Unit      string  `json:"unit"`
	Start     uint64  `json:"ss"`
	End       uint64  `json:"es"`
}

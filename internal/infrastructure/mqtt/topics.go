package mqtt

import "fmt"

// Topic prefixes for the decoder's MQTT surface.
//
// All topics use the flat scheme: thermodec/{category}/{subject}
const (
	// TopicPrefix is the base for all decoder topics.
	TopicPrefix = "thermodec"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "thermodec/system"
)

// Topics provides builders for the decoder's MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	topic := topics.Annotation("registers")
//	// Returns: "thermodec/annotation/registers"
type Topics struct{}

// =============================================================================
// Annotation Topics
// =============================================================================

// Annotation returns the topic for decoded annotations on one display row.
//
// Example: thermodec/annotation/registers
func (Topics) Annotation(row string) string {
	return fmt.Sprintf("%s/annotation/%s", TopicPrefix, row)
}

// AllAnnotations returns a pattern matching every annotation row.
//
// Pattern: thermodec/annotation/+
func (Topics) AllAnnotations() string {
	return fmt.Sprintf("%s/annotation/+", TopicPrefix)
}

// =============================================================================
// Measurement Topics
// =============================================================================

// MeasurementTemperature returns the topic for decoded temperature readings.
//
// Example: thermodec/measurement/temperature
func (Topics) MeasurementTemperature() string {
	return fmt.Sprintf("%s/measurement/temperature", TopicPrefix)
}

// =============================================================================
// Capture Topics
// =============================================================================

// CaptureEvents returns the topic a live analyzer publishes raw bus events
// on, one JSON event per message in the capture wire format.
//
// Example: thermodec/capture/events
func (Topics) CaptureEvents() string {
	return fmt.Sprintf("%s/capture/events", TopicPrefix)
}

// =============================================================================
// Session Topics
// =============================================================================

// SessionStatus returns the topic for decode session lifecycle updates.
//
// Example: thermodec/session/3f8a.../status
func (Topics) SessionStatus(sessionID string) string {
	return fmt.Sprintf("%s/session/%s/status", TopicPrefix, sessionID)
}

// AllSessionStatuses returns a pattern matching every session status topic.
//
// Pattern: thermodec/session/+/status
func (Topics) AllSessionStatuses() string {
	return fmt.Sprintf("%s/session/+/status", TopicPrefix)
}

// =============================================================================
// System Topics
// =============================================================================

// SystemStatus returns the service status topic (online/offline, LWT).
//
// Example: thermodec/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// =============================================================================
// Wildcard Patterns for Subscriptions
// =============================================================================

// AllTopics returns a pattern matching all decoder topics.
// Use with caution - this receives ALL traffic.
//
// Pattern: thermodec/#
func (Topics) AllTopics() string {
	return "thermodec/#"
}

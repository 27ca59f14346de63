package checkout

import (
	"fmt"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/google/uuid"
)

// CloudEvent is an alias for the CloudEvents Event type for convenience
type CloudEvent = cloudevents.Event

// ToCloudEvent converts an ObserverEvent to a CloudEvent. Metadata entries
// become extensions.
func ToCloudEvent(observerEvent ObserverEvent) (CloudEvent, error) {
	timestamp := observerEvent.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}
	return NewCloudEvent(observerEvent.Type, observerEvent.Source, observerEvent.Data, observerEvent.Metadata, timestamp)
}

// FromCloudEvent converts a CloudEvent back to an ObserverEvent.
func FromCloudEvent(cloudEvent CloudEvent) ObserverEvent {
	observerEvent := ObserverEvent{
		Type:      cloudEvent.Type(),
		Source:    cloudEvent.Source(),
		Timestamp: cloudEvent.Time(),
		Metadata:  make(map[string]interface{}),
	}

	if cloudEvent.Data() != nil {
		var data interface{}
		if err := cloudEvent.DataAs(&data); err == nil {
			observerEvent.Data = data
		} else {
			observerEvent.Data = cloudEvent.Data()
		}
	}

	for key, value := range cloudEvent.Extensions() {
		observerEvent.Metadata[key] = value
	}

	return observerEvent
}

// NewCloudEvent creates a CloudEvent with a UUIDv7 id and JSON data.
func NewCloudEvent(eventType, source string, data interface{}, metadata map[string]interface{}, timestamp time.Time) (CloudEvent, error) {
	event := cloudevents.NewEvent()

	event.SetID(generateEventID())
	event.SetSource(source)
	event.SetType(eventType)
	event.SetTime(timestamp)
	event.SetSpecVersion(cloudevents.VersionV1)

	if data != nil {
		if err := event.SetData(cloudevents.ApplicationJSON, data); err != nil {
			return event, fmt.Errorf("failed to encode %s event data: %w", eventType, err)
		}
	}

	// Extension names must be lowercase alphanumeric
	for key, value := range metadata {
		event.SetExtension(key, value)
	}

	return event, nil
}

// generateEventID generates a unique identifier for CloudEvents using UUIDv7.
// UUIDv7 includes timestamp information which provides time-ordered uniqueness.
func generateEventID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return id.String()
}

// ValidateCloudEvent checks the required CloudEvent attributes.
func ValidateCloudEvent(event CloudEvent) error {
	if err := event.Validate(); err != nil {
		return fmt.Errorf("invalid cloud event %q: %w", event.Type(), err)
	}
	return nil
}

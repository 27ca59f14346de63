package checkout

import (
	"testing"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToCloudEvent(t *testing.T) {
	timestamp := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	observerEvent := ObserverEvent{
		Type:      EventTypeStepExecuted,
		Source:    EventSource,
		Data:      map[string]interface{}{"phrase": PhraseCartHasItems},
		Metadata:  map[string]interface{}{"scenario": "successful"},
		Timestamp: timestamp,
	}

	event, err := ToCloudEvent(observerEvent)
	require.NoError(t, err)

	assert.Equal(t, EventTypeStepExecuted, event.Type())
	assert.Equal(t, EventSource, event.Source())
	assert.Equal(t, cloudevents.VersionV1, event.SpecVersion())
	assert.Equal(t, cloudevents.ApplicationJSON, event.DataContentType())
	assert.True(t, timestamp.Equal(event.Time()))
	assert.Equal(t, "successful", event.Extensions()["scenario"])
	assert.NoError(t, ValidateCloudEvent(event))

	id, err := uuid.Parse(event.ID())
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
}

func TestToCloudEvent_DefaultsTimestamp(t *testing.T) {
	before := time.Now()
	event, err := ToCloudEvent(ObserverEvent{Type: EventTypeScenarioStarted, Source: EventSource})
	require.NoError(t, err)

	assert.False(t, event.Time().Before(before))
	assert.Nil(t, event.Data())
}

func TestFromCloudEvent_RoundTripsData(t *testing.T) {
	event, err := NewCloudEvent(EventTypeStepFailed, EventSource, map[string]interface{}{
		"keyword": "Then",
		"flags":   map[Flag]bool{FlagHasItemsOK: false},
	}, nil, time.Now())
	require.NoError(t, err)

	observerEvent := FromCloudEvent(event)
	assert.Equal(t, EventTypeStepFailed, observerEvent.Type)
	assert.Equal(t, map[string]interface{}{
		"keyword": "Then",
		"flags":   map[string]interface{}{"has_items_ok": false},
	}, observerEvent.Data)
	assert.Empty(t, observerEvent.Metadata)
}

func TestNewCloudEvent_UniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		event, err := NewCloudEvent(EventTypeStepExecuted, EventSource, nil, nil, time.Now())
		require.NoError(t, err)
		assert.False(t, seen[event.ID()], "duplicate id %s", event.ID())
		seen[event.ID()] = true
	}
}

func TestValidateCloudEvent_MissingType(t *testing.T) {
	event := cloudevents.NewEvent()
	event.SetID("id")
	event.SetSource(EventSource)

	assert.Error(t, ValidateCloudEvent(event))
}

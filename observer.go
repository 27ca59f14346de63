package checkout

import (
	"context"
	"time"
)

// ObserverEvent is the payload the suite builds for every notification
// before it is converted to a CloudEvent.
type ObserverEvent struct {
	// Type identifies the kind of event (e.g., "checkout.step.executed")
	Type string `json:"type"`

	// Source identifies what generated the event (e.g., "checkout.suite")
	Source string `json:"source"`

	// Data contains the event payload
	Data interface{} `json:"data"`

	// Metadata is carried as CloudEvent extensions
	Metadata map[string]interface{} `json:"metadata,omitempty"`

	// Timestamp indicates when the event was created
	Timestamp time.Time `json:"timestamp"`
}

// Observer receives events from a Subject.
type Observer interface {
	// OnEvent is called synchronously for each event the observer is
	// subscribed to. Observers should return quickly; the next step waits.
	OnEvent(ctx context.Context, event CloudEvent) error

	// ObserverID returns a unique identifier for this observer.
	ObserverID() string
}

// Subject maintains a set of observers and notifies them of events.
type Subject interface {
	// RegisterObserver adds an observer. If eventTypes is empty the
	// observer receives all events.
	RegisterObserver(observer Observer, eventTypes ...string) error

	// UnregisterObserver removes an observer. It does not error if the
	// observer was never registered.
	UnregisterObserver(observer Observer) error

	// NotifyObservers sends an event to every interested observer.
	NotifyObservers(ctx context.Context, event CloudEvent) error

	// GetObservers returns information about currently registered observers.
	GetObservers() []ObserverInfo
}

// ObserverInfo describes a registered observer.
type ObserverInfo struct {
	// ID is the unique identifier of the observer
	ID string `json:"id"`

	// EventTypes are the event types this observer is subscribed to.
	// Empty slice means all events.
	EventTypes []string `json:"eventTypes"`

	// RegisteredAt indicates when the observer was registered
	RegisteredAt time.Time `json:"registeredAt"`
}

// Event types emitted while running checkout scenarios.
const (
	// Scenario lifecycle
	EventTypeScenarioStarted  = "checkout.scenario.started"
	EventTypeScenarioFinished = "checkout.scenario.finished"

	// Step execution
	EventTypeStepExecuted = "checkout.step.executed"
	EventTypeStepFailed   = "checkout.step.failed"

	// Assertions that check nothing
	EventTypeNoopAssertion = "checkout.assertion.noop"
)

// EventSource is the CloudEvent source of every suite event.
const EventSource = "checkout.suite"

// FunctionalObserver adapts a function to the Observer interface.
type FunctionalObserver struct {
	id      string
	handler func(ctx context.Context, event CloudEvent) error
}

// NewFunctionalObserver creates an observer that calls handler for each event.
func NewFunctionalObserver(id string, handler func(ctx context.Context, event CloudEvent) error) Observer {
	return &FunctionalObserver{
		id:      id,
		handler: handler,
	}
}

// OnEvent implements the Observer interface by calling the handler function.
func (f *FunctionalObserver) OnEvent(ctx context.Context, event CloudEvent) error {
	return f.handler(ctx, event)
}

// ObserverID implements the Observer interface by returning the observer ID.
func (f *FunctionalObserver) ObserverID() string {
	return f.id
}

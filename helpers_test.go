package checkout

import (
	"context"
	"sync"

	cloudevents "github.com/cloudevents/sdk-go/v2"
)

type mockLogger struct {
	entries []mockLogEntry
	mu      sync.Mutex
}

type mockLogEntry struct {
	Level   string
	Message string
	Args    []interface{}
}

func (l *mockLogger) Info(msg string, args ...interface{}) {
	l.record("INFO", msg, args)
}

func (l *mockLogger) Error(msg string, args ...interface{}) {
	l.record("ERROR", msg, args)
}

func (l *mockLogger) Debug(msg string, args ...interface{}) {
	l.record("DEBUG", msg, args)
}

func (l *mockLogger) Warn(msg string, args ...interface{}) {
	l.record("WARN", msg, args)
}

func (l *mockLogger) record(level, msg string, args []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, mockLogEntry{Level: level, Message: msg, Args: args})
}

func (l *mockLogger) messages(level string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []string
	for _, e := range l.entries {
		if e.Level == level {
			out = append(out, e.Message)
		}
	}
	return out
}

// testEventObserver captures events for testing
type testEventObserver struct {
	events []cloudevents.Event
	id     string
	mu     *sync.Mutex
}

func newTestEventObserver(id string) *testEventObserver {
	return &testEventObserver{
		id: id,
		mu: &sync.Mutex{},
	}
}

func (o *testEventObserver) OnEvent(ctx context.Context, event cloudevents.Event) error {
	o.mu.Lock()
	o.events = append(o.events, event)
	o.mu.Unlock()
	return nil
}

func (o *testEventObserver) ObserverID() string {
	return o.id
}

func (o *testEventObserver) GetEvents() []cloudevents.Event {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]cloudevents.Event, len(o.events))
	copy(out, o.events)
	return out
}

func (o *testEventObserver) eventTypes() []string {
	events := o.GetEvents()
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.Type())
	}
	return out
}

func (o *testEventObserver) countType(eventType string) int {
	n := 0
	for _, t := range o.eventTypes() {
		if t == eventType {
			n++
		}
	}
	return n
}

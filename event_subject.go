package checkout

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// observerRegistration holds information about a registered observer
type observerRegistration struct {
	observer     Observer
	eventTypes   map[string]bool // set of event types this observer is interested in
	registeredAt time.Time
	order        int
}

// EventSubject is the Subject used by the suite. Observers are notified
// synchronously in registration order, so events arrive in the order steps
// ran.
type EventSubject struct {
	logger        Logger
	observers     map[string]*observerRegistration // key is observer ID
	nextOrder     int
	observerMutex sync.RWMutex
}

// NewEventSubject creates a subject with no observers.
func NewEventSubject(logger Logger) *EventSubject {
	if logger == nil {
		logger = noopLogger{}
	}
	return &EventSubject{
		logger:    logger,
		observers: make(map[string]*observerRegistration),
	}
}

// RegisterObserver adds an observer. Registering the same ID again replaces
// the earlier registration.
func (s *EventSubject) RegisterObserver(observer Observer, eventTypes ...string) error {
	if observer == nil {
		return fmt.Errorf("%w: nil observer", ErrInvalidConfig)
	}

	s.observerMutex.Lock()
	defer s.observerMutex.Unlock()

	eventTypeMap := make(map[string]bool)
	for _, eventType := range eventTypes {
		eventTypeMap[eventType] = true
	}

	s.observers[observer.ObserverID()] = &observerRegistration{
		observer:     observer,
		eventTypes:   eventTypeMap,
		registeredAt: time.Now(),
		order:        s.nextOrder,
	}
	s.nextOrder++

	s.logger.Debug("Observer registered", "observerID", observer.ObserverID(), "eventTypes", eventTypes)
	return nil
}

// UnregisterObserver removes an observer. It is idempotent.
func (s *EventSubject) UnregisterObserver(observer Observer) error {
	s.observerMutex.Lock()
	defer s.observerMutex.Unlock()

	if _, exists := s.observers[observer.ObserverID()]; exists {
		delete(s.observers, observer.ObserverID())
		s.logger.Debug("Observer unregistered", "observerID", observer.ObserverID())
	}

	return nil
}

// NotifyObservers validates the event and delivers it to every interested
// observer. Observer errors and panics are logged and do not stop delivery.
func (s *EventSubject) NotifyObservers(ctx context.Context, event CloudEvent) error {
	if event.Time().IsZero() {
		event.SetTime(time.Now())
	}

	if err := ValidateCloudEvent(event); err != nil {
		s.logger.Error("Invalid CloudEvent", "eventType", event.Type(), "error", err)
		return err
	}

	for _, registration := range s.registrations() {
		if len(registration.eventTypes) > 0 && !registration.eventTypes[event.Type()] {
			continue
		}
		s.deliver(ctx, registration, event)
	}

	return nil
}

func (s *EventSubject) deliver(ctx context.Context, registration *observerRegistration, event CloudEvent) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Observer panicked", "observerID", registration.observer.ObserverID(), "event", event.Type(), "panic", r)
		}
	}()

	if err := registration.observer.OnEvent(ctx, event); err != nil {
		s.logger.Error("Observer error", "observerID", registration.observer.ObserverID(), "event", event.Type(), "error", err)
	}
}

// registrations returns a snapshot sorted by registration order so that
// observers may unregister themselves while being notified.
func (s *EventSubject) registrations() []*observerRegistration {
	s.observerMutex.RLock()
	defer s.observerMutex.RUnlock()

	out := make([]*observerRegistration, 0, len(s.observers))
	for _, registration := range s.observers {
		out = append(out, registration)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].order < out[j].order })
	return out
}

// Emit builds a CloudEvent from the arguments and notifies observers.
func (s *EventSubject) Emit(ctx context.Context, eventType string, data interface{}, metadata map[string]interface{}) error {
	event, err := ToCloudEvent(ObserverEvent{
		Type:      eventType,
		Source:    EventSource,
		Data:      data,
		Metadata:  metadata,
		Timestamp: time.Now(),
	})
	if err != nil {
		s.logger.Error("Failed to build event", "event", eventType, "error", err)
		return err
	}
	return s.NotifyObservers(ctx, event)
}

// GetObservers returns information about currently registered observers.
func (s *EventSubject) GetObservers() []ObserverInfo {
	registrations := s.registrations()

	info := make([]ObserverInfo, 0, len(registrations))
	for _, registration := range registrations {
		eventTypes := make([]string, 0, len(registration.eventTypes))
		for eventType := range registration.eventTypes {
			eventTypes = append(eventTypes, eventType)
		}
		sort.Strings(eventTypes)

		info = append(info, ObserverInfo{
			ID:           registration.observer.ObserverID(),
			EventTypes:   eventTypes,
			RegisteredAt: registration.registeredAt,
		})
	}

	return info
}

// Package events provides an in-process event bus for system events.
package events

import (
	"sync"
	"time"
)

// EventType identifies the kind of event published on the bus
type EventType string

const (
	// SweepStarted is published when a grid sweep begins
	SweepStarted EventType = "sweep_started"
	// SweepPointCompleted is published after each grid point is evaluated
	SweepPointCompleted EventType = "sweep_point_completed"
	// SweepCompleted is published when a grid sweep finishes
	SweepCompleted EventType = "sweep_completed"
	// SweepFailed is published when a grid sweep aborts with an error
	SweepFailed EventType = "sweep_failed"
)

// Event is a single published event with its payload
type Event struct {
	Type      EventType   `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Handler is a subscriber callback. Handlers must not block: slow consumers
// should buffer internally (the SSE stream does).
type Handler func(event *Event)

// Bus is a minimal synchronous publish/subscribe fan-out.
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe registers a handler for an event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Publish delivers an event to all handlers registered for its type
func (b *Bus) Publish(eventType EventType, data interface{}) {
	event := &Event{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now(),
	}

	b.mu.RLock()
	handlers := b.handlers[eventType]
	b.mu.RUnlock()

	for _, handler := range handlers {
		handler(event)
	}
}

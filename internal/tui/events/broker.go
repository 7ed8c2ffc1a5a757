// Package events carries application events between the service layer and
// the TUI. Services publish; the root model subscribes and forwards each
// event into the bubbletea program loop.
package events

import (
	"sync"
)

const defaultBufferSize = 16

// Broker manages event distribution
type Broker struct {
	subscribers map[EventType][]chan Event
	mu          sync.RWMutex
	bufferSize  int
}

// NewBroker creates a new event broker
func NewBroker() *Broker {
	return &Broker{
		subscribers: make(map[EventType][]chan Event),
		bufferSize:  defaultBufferSize,
	}
}

// Subscribe creates a subscription to specific event types.
// With no types it subscribes to everything.
func (b *Broker) Subscribe(eventTypes ...EventType) <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, b.bufferSize)

	if len(eventTypes) == 0 {
		eventTypes = []EventType{"*"} // wildcard
	}
	for _, eventType := range eventTypes {
		b.subscribers[eventType] = append(b.subscribers[eventType], ch)
	}

	return ch
}

// Unsubscribe removes a subscription and closes its channel
func (b *Broker) Unsubscribe(ch <-chan Event, eventTypes ...EventType) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(eventTypes) == 0 {
		for eventType := range b.subscribers {
			b.removeChannel(eventType, ch)
		}
		return
	}
	for _, eventType := range eventTypes {
		b.removeChannel(eventType, ch)
	}
}

// Publish sends an event to all matching subscribers. Slow subscribers
// whose buffer is full miss the event rather than block the publisher.
func (b *Broker) Publish(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subscribers[event.Type] {
		select {
		case ch <- event:
		default:
			// Buffer full, drop for this subscriber
		}
	}
	for _, ch := range b.subscribers["*"] {
		select {
		case ch <- event:
		default:
		}
	}
}

// removeChannel removes a channel from one event type's subscriber list
func (b *Broker) removeChannel(eventType EventType, target <-chan Event) {
	subscribers := b.subscribers[eventType]
	for i, ch := range subscribers {
		if ch == target {
			b.subscribers[eventType] = append(subscribers[:i], subscribers[i+1:]...)
			close(ch)
			break
		}
	}
	if len(b.subscribers[eventType]) == 0 {
		delete(b.subscribers, eventType)
	}
}

// Clear removes all subscriptions
func (b *Broker) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, subscribers := range b.subscribers {
		for _, ch := range subscribers {
			close(ch)
		}
	}
	b.subscribers = make(map[EventType][]chan Event)
}

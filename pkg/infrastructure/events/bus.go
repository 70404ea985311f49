package events

import (
	"sync"
)

// Handler consumes one event.
type Handler func(Event)

// Bus is a synchronous in-process publish/subscribe bus. Dispatch happens
// on the publishing goroutine: consumers are UI-style views that re-derive
// from the store on change, and mutations all originate from a
// single-threaded event loop.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string][]Handler
	all         []Handler
}

// NewBus creates an empty Bus.
func NewBus() *Bus {
	return &Bus{
		subscribers: make(map[string][]Handler),
	}
}

// Subscribe registers a handler for the given event types. An empty type
// list subscribes to every event.
func (b *Bus) Subscribe(eventTypes []string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(eventTypes) == 0 {
		b.all = append(b.all, handler)
		return
	}
	for _, eventType := range eventTypes {
		b.subscribers[eventType] = append(b.subscribers[eventType], handler)
	}
}

// Publish delivers the event to every matching subscriber, in
// subscription order, before returning.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subscribers[event.Type()])+len(b.all))
	handlers = append(handlers, b.subscribers[event.Type()]...)
	handlers = append(handlers, b.all...)
	b.mu.RUnlock()

	for _, handler := range handlers {
		handler(event)
	}
}

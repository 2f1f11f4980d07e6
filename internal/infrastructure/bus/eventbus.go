package bus

import (
	"context"
	"fmt"
	"sync"

	"salesdesk/internal/domain/event"
)

// EventBus defines the contract for event publishing/subscribing
type EventBus interface {
	Publish(ctx context.Context, event event.DomainEvent) error
	Subscribe(eventType string, handler EventHandler) error
	Start(ctx context.Context) error
	Stop() error
}

// EventHandler handles domain events
type EventHandler interface {
	Handle(ctx context.Context, event event.DomainEvent) error
}

// EventHandlerFunc allows functions to implement EventHandler
type EventHandlerFunc func(ctx context.Context, event event.DomainEvent) error

func (f EventHandlerFunc) Handle(ctx context.Context, event event.DomainEvent) error {
	return f(ctx, event)
}

// InMemoryEventBus dispatches events synchronously to in-process subscribers.
// There are no delivery guarantees beyond that: events exist for observers,
// not as a source of truth.
type InMemoryEventBus struct {
	mu          sync.RWMutex
	subscribers map[string][]EventHandler
	running     bool
}

func NewInMemoryEventBus() *InMemoryEventBus {
	return &InMemoryEventBus{
		subscribers: make(map[string][]EventHandler),
	}
}

// Publish delivers the event to every subscriber of its type, collecting
// handler failures into a single error.
func (b *InMemoryEventBus) Publish(ctx context.Context, ev event.DomainEvent) error {
	b.mu.RLock()
	handlers := b.subscribers[ev.EventType()]
	b.mu.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := handler.Handle(ctx, ev); err != nil {
			errs = append(errs, fmt.Errorf("handler error for %s: %w", ev.EventType(), err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("event handling errors: %v", errs)
	}
	return nil
}

// Subscribe registers a handler for the given event type.
func (b *InMemoryEventBus) Subscribe(eventType string, handler EventHandler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
	return nil
}

func (b *InMemoryEventBus) Start(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.running = true
	return nil
}

func (b *InMemoryEventBus) Stop() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.running = false
	return nil
}

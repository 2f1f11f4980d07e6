package bus

import (
	"context"
	"sync"

	"salesdesk/internal/domain/event"

	"go.uber.org/zap"
)

// AsyncEventBus dispatches each event to its subscribers on separate
// goroutines. Stop waits for in-flight handlers to finish.
type AsyncEventBus struct {
	mu          sync.RWMutex
	subscribers map[string][]EventHandler
	wg          sync.WaitGroup
	logger      *zap.Logger
}

func NewAsyncEventBus(logger *zap.Logger) *AsyncEventBus {
	return &AsyncEventBus{
		subscribers: make(map[string][]EventHandler),
		logger:      logger,
	}
}

// Subscribe registers a handler for the given event type.
func (b *AsyncEventBus) Subscribe(eventType string, handler EventHandler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
	return nil
}

// Publish hands the event to every subscriber asynchronously. Handler errors
// are logged; the publisher never sees them.
func (b *AsyncEventBus) Publish(ctx context.Context, ev event.DomainEvent) error {
	b.mu.RLock()
	handlers := b.subscribers[ev.EventType()]
	b.mu.RUnlock()

	b.wg.Add(len(handlers))
	for _, handler := range handlers {
		go func(h EventHandler) {
			defer b.wg.Done()
			if err := h.Handle(ctx, ev); err != nil {
				b.logger.Warn("async event handler failed",
					zap.String("event_type", ev.EventType()),
					zap.String("aggregate_id", ev.AggregateID()),
					zap.Error(err),
				)
			}
		}(handler)
	}

	return nil
}

func (b *AsyncEventBus) Start(ctx context.Context) error {
	return nil
}

// Stop blocks until all in-flight handlers complete.
func (b *AsyncEventBus) Stop() error {
	b.wg.Wait()
	return nil
}

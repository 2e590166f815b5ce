// Package events carries UI notifications between views without giving one view a
// handle on another.
package events

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Event types.
const (
	TypeTabActivated = "dashboard.tab_activated"
)

// Event is anything published on the bus.
type Event interface {
	EventType() string
}

// TabActivated is published by a dashboard when the user switches tabs.
type TabActivated struct {
	SessionID string
	Tab       string
	Previous  string
}

func (TabActivated) EventType() string { return TypeTabActivated }

// Handler reacts to an event.
type Handler func(ctx context.Context, e Event) error

// Bus is an in-memory publish/subscribe bus. Publish dispatches synchronously.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string]map[uint64]Handler
	nextID   uint64
	log      *zap.Logger
}

// NewBus creates an empty bus.
func NewBus(log *zap.Logger) *Bus {
	if log == nil {
		log = zap.NewNop()
	}
	return &Bus{
		handlers: make(map[string]map[uint64]Handler),
		log:      log,
	}
}

// Subscribe registers h for eventType and returns a function that removes it.
func (b *Bus) Subscribe(eventType string, h Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	if b.handlers[eventType] == nil {
		b.handlers[eventType] = make(map[uint64]Handler)
	}
	b.handlers[eventType][id] = h
	b.log.Debug("handler subscribed", zap.String("event_type", eventType), zap.Uint64("handler_id", id))

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.handlers[eventType], id)
			if len(b.handlers[eventType]) == 0 {
				delete(b.handlers, eventType)
			}
		})
	}
}

// Publish delivers e to every handler subscribed to its type. A failing or panicking
// handler is logged and does not stop delivery to the others.
func (b *Bus) Publish(ctx context.Context, e Event) {
	b.mu.RLock()
	subs := make([]Handler, 0, len(b.handlers[e.EventType()]))
	for _, h := range b.handlers[e.EventType()] {
		subs = append(subs, h)
	}
	b.mu.RUnlock()

	for _, h := range subs {
		if err := b.dispatch(ctx, h, e); err != nil {
			b.log.Warn("handler failed to process event",
				zap.String("event_type", e.EventType()),
				zap.Error(err),
			)
		}
	}
}

// Subscribers returns the number of handlers registered for eventType.
func (b *Bus) Subscribers(eventType string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[eventType])
}

func (b *Bus) dispatch(ctx context.Context, h Handler, e Event) error {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("handler panicked",
				zap.String("event_type", e.EventType()),
				zap.Any("panic", r),
			)
		}
	}()
	return h(ctx, e)
}

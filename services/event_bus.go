package services

import (
	"sync"
	"time"

	"healthdash/models"
)

// EventBus fans store change events out to subscribers (the realtime hub, tests).
// Publish is synchronous; subscribers must not block.
type EventBus struct {
	mu   sync.RWMutex
	subs []func(models.Event)
}

func NewEventBus() *EventBus { return &EventBus{} }

func (b *EventBus) Subscribe(fn func(models.Event)) {
	b.mu.Lock()
	b.subs = append(b.subs, fn)
	b.mu.Unlock()
}

// Publish is safe to call on a nil bus.
func (b *EventBus) Publish(evt models.Event) {
	if b == nil {
		return
	}
	if evt.CreatedAt.IsZero() {
		evt.CreatedAt = time.Now()
	}
	b.mu.RLock()
	subs := b.subs
	b.mu.RUnlock()
	for _, fn := range subs {
		fn(evt)
	}
}

package core

import (
	"context"
	"sync"
	"time"
)

// MemoryEventBus is the default in-process lifecycle bus. Publication is
// synchronous and handler failures are ignored; lifecycle notifications are
// best-effort by contract.
type MemoryEventBus struct {
	mu       sync.RWMutex
	handlers []LifecycleEventHandler
}

func NewMemoryEventBus() *MemoryEventBus {
	return &MemoryEventBus{}
}

func (b *MemoryEventBus) Subscribe(handler LifecycleEventHandler) {
	if b == nil || handler == nil {
		return
	}
	b.mu.Lock()
	b.handlers = append(b.handlers, handler)
	b.mu.Unlock()
}

func (b *MemoryEventBus) Publish(ctx context.Context, event LifecycleEvent) error {
	if b == nil {
		return nil
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	b.mu.RLock()
	handlers := make([]LifecycleEventHandler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()
	for _, handler := range handlers {
		func() {
			defer func() { _ = recover() }()
			_ = handler.Handle(ctx, event)
		}()
	}
	return nil
}

// LifecycleEventHandlerFunc adapts a function to the handler contract.
type LifecycleEventHandlerFunc func(ctx context.Context, event LifecycleEvent) error

func (f LifecycleEventHandlerFunc) Handle(ctx context.Context, event LifecycleEvent) error {
	return f(ctx, event)
}


package diag

import (
	"context"
	"reflect"
	"sync"
)

// Handler processes events of type T.
type Handler[T any] func(context.Context, T)

// Bus is an in-process event dispatcher scoped to one generation run.
// It is never shared across runs; callers construct a fresh Bus per run and
// pass it explicitly through the pipeline.
type Bus struct {
	mu       sync.RWMutex
	handlers map[reflect.Type][]func(context.Context, any)
}

// NewBus creates an empty Bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[reflect.Type][]func(context.Context, any))}
}

// Subscribe registers h for events of type T. A nil bus accepts the call and
// drops everything.
func Subscribe[T any](b *Bus, h Handler[T]) {
	if b == nil {
		return
	}
	t := reflect.TypeOf((*T)(nil)).Elem()
	wrapped := func(ctx context.Context, v any) { h(ctx, v.(T)) }
	b.mu.Lock()
	b.handlers[t] = append(b.handlers[t], wrapped)
	b.mu.Unlock()
}

// Publish dispatches e to handlers subscribed to T. Dispatch is keyed on the
// static type, so interface subscriptions (Warning) see every concrete event
// published as that interface.
func Publish[T any](ctx context.Context, b *Bus, e T) {
	if b == nil {
		return
	}
	t := reflect.TypeOf((*T)(nil)).Elem()
	b.mu.RLock()
	hs := make([]func(context.Context, any), len(b.handlers[t]))
	copy(hs, b.handlers[t])
	b.mu.RUnlock()
	for _, fn := range hs {
		fn(ctx, e)
	}
}

package service

import (
	"context"
	"sync"

	"github.com/trackshift/arena-web/internal/core/domain"
	"github.com/trackshift/arena-web/internal/core/ports"
)

// LocalBus is an in-process AuthEventBus. Handlers run synchronously on the
// publisher's goroutine, in subscription order.
type LocalBus struct {
	mu       sync.RWMutex
	next     int
	handlers map[int]ports.AuthEventHandler
	order    []int
}

func NewLocalBus() *LocalBus {
	return &LocalBus{handlers: make(map[int]ports.AuthEventHandler)}
}

func (b *LocalBus) Publish(_ context.Context, ev domain.AuthEvent) error {
	b.mu.RLock()
	hs := make([]ports.AuthEventHandler, 0, len(b.order))
	for _, id := range b.order {
		hs = append(hs, b.handlers[id])
	}
	b.mu.RUnlock()

	for _, h := range hs {
		h(ev)
	}
	return nil
}

func (b *LocalBus) Subscribe(h ports.AuthEventHandler) func() {
	b.mu.Lock()
	id := b.next
	b.next++
	b.handlers[id] = h
	b.order = append(b.order, id)
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.handlers, id)
			for i, o := range b.order {
				if o == id {
					b.order = append(b.order[:i], b.order[i+1:]...)
					break
				}
			}
		})
	}
}

package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/trackshift/arena-web/internal/core/domain"
	"github.com/trackshift/arena-web/internal/core/ports"
)

// DefaultEventChannel is the pub/sub channel auth events travel on.
const DefaultEventChannel = "arena:auth-events"

// EventBus relays auth events between instances over Redis pub/sub. Every
// instance receives every event, including its own, and hands it to the
// local subscribers in channel order.
type EventBus struct {
	client  *redis.Client
	channel string
	log     zerolog.Logger

	mu       sync.RWMutex
	handlers map[int]ports.AuthEventHandler
	order    []int
	next     int
}

func NewEventBus(client *redis.Client, channel string, log zerolog.Logger) *EventBus {
	if channel == "" {
		channel = DefaultEventChannel
	}
	return &EventBus{
		client:   client,
		channel:  channel,
		log:      log.With().Str("component", "redis_event_bus").Logger(),
		handlers: make(map[int]ports.AuthEventHandler),
	}
}

func (b *EventBus) Publish(ctx context.Context, ev domain.AuthEvent) error {
	raw, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode auth event: %w", err)
	}
	if err := b.client.Publish(ctx, b.channel, raw).Err(); err != nil {
		return fmt.Errorf("publish auth event: %w", err)
	}
	return nil
}

func (b *EventBus) Subscribe(h ports.AuthEventHandler) func() {
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
			for i, v := range b.order {
				if v == id {
					b.order = append(b.order[:i], b.order[i+1:]...)
					break
				}
			}
		})
	}
}

// Run consumes the channel until ctx is cancelled. Undecodable payloads are
// logged and skipped.
func (b *EventBus) Run(ctx context.Context) error {
	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", b.channel, err)
	}
	b.log.Info().Str("channel", b.channel).Msg("listening for auth events")

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var ev domain.AuthEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				b.log.Warn().Err(err).Msg("dropping malformed auth event")
				continue
			}
			b.deliver(ev)
		}
	}
}

func (b *EventBus) deliver(ev domain.AuthEvent) {
	b.mu.RLock()
	hs := make([]ports.AuthEventHandler, 0, len(b.order))
	for _, id := range b.order {
		hs = append(hs, b.handlers[id])
	}
	b.mu.RUnlock()
	for _, h := range hs {
		h(ev)
	}
}

package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/trackshift/arena-web/internal/core/domain"
)

func TestEventBus_RoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	bus := NewEventBus(client, "test:auth-events", zerolog.Nop())
	first := make(chan domain.AuthEvent, 4)
	unsub := bus.Subscribe(func(ev domain.AuthEvent) { first <- ev })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- bus.Run(ctx) }()

	waitForSubscriber(t, client, "test:auth-events")

	// A payload that does not decode is skipped without stopping the loop.
	if err := client.Publish(ctx, "test:auth-events", "{not json").Err(); err != nil {
		t.Fatalf("publish raw: %v", err)
	}
	if err := bus.Publish(ctx, domain.AuthEvent{Type: domain.EventSignedIn, SessionID: "s1"}); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	select {
	case ev := <-first:
		if ev.Type != domain.EventSignedIn || ev.SessionID != "s1" {
			t.Fatalf("unexpected event %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered")
	}

	unsub()
	second := make(chan domain.AuthEvent, 4)
	bus.Subscribe(func(ev domain.AuthEvent) { second <- ev })

	if err := bus.Publish(ctx, domain.AuthEvent{Type: domain.EventSignedOut, SessionID: "s2"}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	select {
	case ev := <-second:
		if ev.SessionID != "s2" {
			t.Fatalf("unexpected event %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered after resubscribe")
	}
	if len(first) != 0 {
		t.Fatalf("unsubscribed handler still received %d event(s)", len(first))
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v, want nil on cancel", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestEventBus_RunFailsWithoutServer(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	client := redis.NewClient(&redis.Options{Addr: addr, MaxRetries: -1})
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := NewEventBus(client, "", zerolog.Nop()).Run(ctx); err == nil {
		t.Fatal("expected a subscribe error")
	}
}

func waitForSubscriber(t *testing.T, client *redis.Client, channel string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		n, err := client.PubSubNumSub(context.Background(), channel).Result()
		if err == nil && n[channel] > 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("no subscriber on %s", channel)
}

package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/trackshift/arena-web/internal/core/domain"
)

type recordingProcessor struct {
	mu   sync.Mutex
	seen map[string][]domain.AuthEventType
	wg   sync.WaitGroup
}

func (p *recordingProcessor) Process(_ context.Context, ev domain.AuthEvent) error {
	defer p.wg.Done()
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seen[ev.SessionID] = append(p.seen[ev.SessionID], ev.Type)
	return nil
}

func TestDispatcher_PreservesPerSessionOrder(t *testing.T) {
	proc := &recordingProcessor{seen: make(map[string][]domain.AuthEventType)}
	d := NewDispatcher(4, proc, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	sequence := []domain.AuthEventType{domain.EventSignedIn, domain.EventTokenRefreshed, domain.EventSignedOut, domain.EventSignedIn}
	sessions := []string{"s1", "s2", "s3", "s4", "s5"}
	proc.wg.Add(len(sequence) * len(sessions))
	for _, typ := range sequence {
		for _, sid := range sessions {
			d.Enqueue(domain.AuthEvent{Type: typ, SessionID: sid})
		}
	}

	done := make(chan struct{})
	go func() {
		proc.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("events were not processed in time")
	}

	cancel()
	d.Wait()

	for _, sid := range sessions {
		got := proc.seen[sid]
		if len(got) != len(sequence) {
			t.Fatalf("%s: expected %d events, got %d", sid, len(sequence), len(got))
		}
		for i := range sequence {
			if got[i] != sequence[i] {
				t.Fatalf("%s: event %d = %s, want %s", sid, i, got[i], sequence[i])
			}
		}
	}
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(8, nil, zerolog.Nop())

	for _, sid := range []string{"", "a", "5f0c3f0e-8d2c-4c35-9a5f-6b1f4c0f2a11"} {
		first := d.shardIndex(sid)
		if first < 0 || first >= 8 {
			t.Fatalf("shard %d out of range", first)
		}
		for i := 0; i < 10; i++ {
			if got := d.shardIndex(sid); got != first {
				t.Fatalf("shard for %q moved from %d to %d", sid, first, got)
			}
		}
	}
}

func TestDispatcher_DefaultWorkers(t *testing.T) {
	d := NewDispatcher(0, nil, zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
}

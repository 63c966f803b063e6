package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/trackshift/arena-web/internal/core/domain"
	"github.com/trackshift/arena-web/internal/core/ports"
	"github.com/trackshift/arena-web/internal/pkg/metrics"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// Dispatcher fans auth events out to a fixed set of workers, hashing on the
// session ID so events for one browser session are applied in arrival order.
type Dispatcher struct {
	workers   []chan domain.AuthEvent
	processor ports.AuthEventProcessor
	log       zerolog.Logger
	wg        sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, processor ports.AuthEventProcessor, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:   make([]chan domain.AuthEvent, numWorkers),
		processor: processor,
		log:       log.With().Str("component", "auth_dispatcher").Logger(),
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuthEvent, channelBuffer)
	}
	return d
}

// Start launches the workers. They stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Enqueue hands ev to the worker owning its session. It has the
// ports.AuthEventHandler shape so it can subscribe straight to a bus.
func (d *Dispatcher) Enqueue(ev domain.AuthEvent) {
	idx := d.shardIndex(ev.SessionID)
	d.workers[idx] <- ev
	metrics.EventQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
}

// shardIndex maps a session ID deterministically to a worker index.
func (d *Dispatcher) shardIndex(sessionID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sessionID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuthEvent) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			metrics.EventQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			if err := d.processor.Process(ctx, ev); err != nil {
				d.log.Error().Err(err).
					Str("session_id", ev.SessionID).
					Str("event", string(ev.Type)).
					Int("worker_id", id).
					Msg("auth event processing failed")
			}
		}
	}
}

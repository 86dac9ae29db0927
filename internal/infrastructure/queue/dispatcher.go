package queue

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dealspot/dealspot/internal/api/metrics"
	"github.com/dealspot/dealspot/internal/core/ports"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
	drainTimeout   = 5 * time.Second
)

// Dispatcher routes activity events to a fixed set of workers using
// consistent hashing on the deal id, preserving per-deal ordering.
type Dispatcher struct {
	workers []chan ports.ActivityInput
	service ports.ActivityService
	log     zerolog.Logger
	wg      sync.WaitGroup

	drainTimeout time.Duration
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.ActivityService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.ActivityInput, numWorkers),
		service: service,
		log:     log,

		drainTimeout: drainTimeout,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.ActivityInput, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. When ctx is cancelled each worker
// processes what is still buffered, bounded by drainTimeout, then returns.
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

// Enqueue hands an event to the worker owning its deal. When that worker's
// buffer is full the event is dropped and false is returned, so request
// handlers never block on analytics.
func (d *Dispatcher) Enqueue(event ports.ActivityInput) bool {
	select {
	case d.workers[d.shardIndex(event.DealID)] <- event:
		return true
	default:
		metrics.ActivityDroppedTotal.Inc()
		d.log.Warn().Str("deal_id", event.DealID).Str("kind", event.Kind).Msg("activity queue full, event dropped")
		return false
	}
}

// shardIndex maps a deal id deterministically to a worker index.
func (d *Dispatcher) shardIndex(dealID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(dealID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.ActivityInput) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			d.drain(ctx, id, ch)
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			if ctx.Err() != nil {
				d.drain(ctx, id, ch, event)
				return
			}
			d.process(ctx, id, event)
		}
	}
}

// drain processes pending plus whatever is buffered on ch without blocking.
// It runs on a context detached from the cancelled one so the writes land.
func (d *Dispatcher) drain(ctx context.Context, id int, ch <-chan ports.ActivityInput, pending ...ports.ActivityInput) {
	drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.drainTimeout)
	defer cancel()

	processed := 0
	for _, event := range pending {
		d.process(drainCtx, id, event)
		processed++
	}
	for {
		if drainCtx.Err() != nil {
			d.log.Warn().Int("worker_id", id).Int("remaining", len(ch)).Msg("activity drain timed out")
			return
		}
		select {
		case event, ok := <-ch:
			if !ok {
				return
			}
			d.process(drainCtx, id, event)
			processed++
		default:
			if processed > 0 {
				d.log.Debug().Int("worker_id", id).Int("events", processed).Msg("activity queue drained")
			}
			return
		}
	}
}

func (d *Dispatcher) process(ctx context.Context, id int, event ports.ActivityInput) {
	if err := d.service.Process(ctx, event); err != nil {
		d.log.Error().Err(err).
			Str("deal_id", event.DealID).
			Int("worker_id", id).
			Msg("activity processing failed")
	}
}

package queue

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/taskdesk/taskdesk/internal/core/domain"
	"github.com/taskdesk/taskdesk/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher delivers notifications in the background using a fixed set of
// workers. Notifications are sharded by recipient address, so each device
// receives its messages in the order they were enqueued.
type Dispatcher struct {
	workers  []chan domain.Notification
	notifier ports.Notifier
	log      zerolog.Logger
	wg       sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, notifier ports.Notifier, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:  make([]chan domain.Notification, numWorkers),
		notifier: notifier,
		log:      log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.Notification, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled,
// so ctx should outlive every caller of Enqueue; Wait blocks until they have
// stopped.
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

// Enqueue hands n to the worker responsible for its recipient. It never
// blocks: a full shard rejects the notification with ErrQueueFull.
func (d *Dispatcher) Enqueue(n domain.Notification) error {
	select {
	case d.workers[d.shardIndex(n.To)] <- n:
		return nil
	default:
		return domain.ErrQueueFull
	}
}

// shardIndex maps a recipient deterministically to a worker index.
func (d *Dispatcher) shardIndex(to string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(to))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.Notification) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			d.discard(id, ch, 0)
			return
		case n := <-ch:
			if ctx.Err() != nil {
				d.discard(id, ch, 1)
				return
			}
			if err := d.notifier.Send(ctx, n); err != nil {
				d.log.Warn().Err(err).
					Str("type", n.Data["type"]).
					Int("worker_id", id).
					Msg("notification delivery failed")
			}
		}
	}
}

// discard empties ch after the workers were stopped and reports how many
// notifications were never sent.
func (d *Dispatcher) discard(id int, ch <-chan domain.Notification, dropped int) {
	for {
		select {
		case <-ch:
			dropped++
		default:
			if dropped > 0 {
				d.log.Warn().Int("worker_id", id).Int("dropped", dropped).Msg("dispatcher stopped with undelivered notifications")
			}
			return
		}
	}
}

// Package syncer mirrors ledger events to external sinks without ever
// blocking or failing the mutation that produced them.
package syncer

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/odenstall/pos/internal/domain/models"
	"github.com/odenstall/pos/internal/metrics"
)

// Options tunes the dispatcher.
type Options struct {
	QueueSize   int
	Timeout     time.Duration
	Location    *time.Location
	BuddhistEra bool
}

// Dispatcher queues events on a buffered channel consumed by one background
// goroutine that hands each event to every sink in turn.
type Dispatcher struct {
	sinks   []Sink
	queue   chan models.SyncEvent
	opts    Options
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time

	mu     sync.RWMutex
	closed bool
	done   chan struct{}

	statusMu    sync.Mutex
	outstanding int
	delivered   uint64
	failed      uint64
	dropped     uint64
	lastType    models.EventType
	lastAt      time.Time
	lastErr     string
}

// NewDispatcher starts the delivery goroutine immediately.
func NewDispatcher(sinks []Sink, opts Options, m *metrics.Metrics, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.QueueSize < 1 {
		opts.QueueSize = 1
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}

	d := &Dispatcher{
		sinks:   sinks,
		queue:   make(chan models.SyncEvent, opts.QueueSize),
		opts:    opts,
		metrics: m,
		logger:  logger,
		now:     time.Now,
		done:    make(chan struct{}),
	}
	go d.loop()
	return d
}

// Publish stamps and enqueues an event. It never blocks: when the queue is
// full or the dispatcher is closed the event is dropped and false returned.
func (d *Dispatcher) Publish(eventType models.EventType, data any) bool {
	event := models.SyncEvent{
		Type:      eventType,
		Data:      data,
		Timestamp: FormatTimestamp(d.now(), d.opts.Location, d.opts.BuddhistEra),
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.drop(event, "dispatcher closed")
		return false
	}

	d.statusMu.Lock()
	d.outstanding++
	d.statusMu.Unlock()

	select {
	case d.queue <- event:
		return true
	default:
		d.statusMu.Lock()
		d.outstanding--
		d.statusMu.Unlock()
		d.drop(event, "queue full")
		return false
	}
}

// Close stops accepting events and waits for queued ones to be delivered or
// for ctx to expire.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) loop() {
	defer close(d.done)
	for event := range d.queue {
		d.deliver(event)
	}
}

func (d *Dispatcher) deliver(event models.SyncEvent) {
	var failures []string
	for _, sink := range d.sinks {
		ctx, cancel := context.WithTimeout(context.Background(), d.opts.Timeout)
		err := sink.Deliver(ctx, event)
		cancel()

		d.metrics.RecordSyncDelivery(string(event.Type), sink.Name(), err)
		if err != nil {
			failures = append(failures, sink.Name()+": "+err.Error())
			d.logger.Warn("sync delivery failed",
				zap.String("type", string(event.Type)),
				zap.String("sink", sink.Name()),
				zap.Error(err))
			continue
		}
		d.logger.Debug("sync delivered", zap.String("type", string(event.Type)), zap.String("sink", sink.Name()))
	}

	d.statusMu.Lock()
	defer d.statusMu.Unlock()

	d.outstanding--
	if len(d.sinks) == 0 {
		return
	}
	d.lastType = event.Type
	d.lastAt = d.now()
	if len(failures) > 0 {
		d.failed++
		d.lastErr = strings.Join(failures, "; ")
		return
	}
	d.delivered++
	d.lastErr = ""
}

// Status reports queue depth and the outcome of the latest delivery.
func (d *Dispatcher) Status() models.SyncStatus {
	d.statusMu.Lock()
	defer d.statusMu.Unlock()

	status := models.SyncStatus{
		State:         models.SyncStateConnected,
		Pending:       d.outstanding,
		Sinks:         make([]string, 0, len(d.sinks)),
		Delivered:     d.delivered,
		Failed:        d.failed,
		Dropped:       d.dropped,
		LastEventType: d.lastType,
		LastError:     d.lastErr,
	}
	for _, sink := range d.sinks {
		status.Sinks = append(status.Sinks, sink.Name())
	}

	switch {
	case d.outstanding > 0:
		status.State = models.SyncStateSyncing
	case len(d.sinks) == 0:
		status.State = models.SyncStateDisabled
	}
	if !d.lastAt.IsZero() {
		status.LastDeliveredAt = FormatTimestamp(d.lastAt, d.opts.Location, d.opts.BuddhistEra)
	}
	return status
}

func (d *Dispatcher) drop(event models.SyncEvent, reason string) {
	d.statusMu.Lock()
	d.dropped++
	d.statusMu.Unlock()

	d.metrics.RecordSyncDropped(string(event.Type))
	d.logger.Warn("sync event dropped", zap.String("type", string(event.Type)), zap.String("reason", reason))
}

package syncer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odenstall/pos/internal/domain/models"
	"github.com/odenstall/pos/internal/metrics"
)

type recordingSink struct {
	name string
	err  error

	mu     sync.Mutex
	events []models.SyncEvent
}

func (s *recordingSink) Name() string { return s.name }

func (s *recordingSink) Deliver(_ context.Context, event models.SyncEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return s.err
}

func (s *recordingSink) Events() []models.SyncEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.SyncEvent(nil), s.events...)
}

type blockingSink struct {
	release chan struct{}
}

func (s *blockingSink) Name() string { return "blocking" }

func (s *blockingSink) Deliver(ctx context.Context, _ models.SyncEvent) error {
	select {
	case <-s.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func TestDispatcherDeliversToEverySinkAndSwallowsErrors(t *testing.T) {
	m := metrics.New("test", prometheus.NewRegistry())
	failing := &recordingSink{name: "failing", err: errors.New("unreachable")}
	ok := &recordingSink{name: "ok"}

	d := NewDispatcher([]Sink{failing, ok}, Options{QueueSize: 4, Location: time.UTC}, m, nil)
	d.now = func() time.Time { return time.Date(2026, 10, 16, 7, 3, 5, 0, time.UTC) }

	sale := models.SaleRecord{ID: 1, Date: "2026-10-16", Items: "ฟองเต้าหู้ x2", Total: 20}
	require.True(t, d.Publish(models.EventSale, sale))
	require.NoError(t, d.Close(context.Background()))

	for _, sink := range []*recordingSink{failing, ok} {
		events := sink.Events()
		require.Len(t, events, 1, sink.name)
		assert.Equal(t, models.EventSale, events[0].Type)
		assert.Equal(t, sale, events[0].Data)
		assert.Equal(t, "16/10/2026 07:03:05", events[0].Timestamp)
	}

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SyncEventsTotal.WithLabelValues("SALE", "failing", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SyncEventsTotal.WithLabelValues("SALE", "ok", "ok")))
}

func TestPublishNeverBlocksWhenQueueIsFull(t *testing.T) {
	m := metrics.New("test", prometheus.NewRegistry())
	sink := &blockingSink{release: make(chan struct{})}
	d := NewDispatcher([]Sink{sink}, Options{QueueSize: 1, Timeout: time.Minute}, m, nil)

	done := make(chan int)
	go func() {
		accepted := 0
		for i := 0; i < 10; i++ {
			if d.Publish(models.EventStockIn, models.StockInRecord{ID: int64(i)}) {
				accepted++
			}
		}
		done <- accepted
	}()

	select {
	case accepted := <-done:
		assert.LessOrEqual(t, accepted, 2, "one in flight plus one buffered")
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a stalled sink")
	}

	close(sink.release)
	require.NoError(t, d.Close(context.Background()))
	assert.GreaterOrEqual(t, testutil.ToFloat64(m.SyncDroppedTotal.WithLabelValues("STOCK_IN")), 8.0)
}

func TestPublishAfterCloseIsDropped(t *testing.T) {
	sink := &recordingSink{name: "ok"}
	d := NewDispatcher([]Sink{sink}, Options{}, nil, nil)
	require.NoError(t, d.Close(context.Background()))
	require.NoError(t, d.Close(context.Background()))

	assert.False(t, d.Publish(models.EventConversion, models.ConversionRecord{}))
	assert.Empty(t, sink.Events())
}

func TestFormatTimestamp(t *testing.T) {
	bangkok := time.FixedZone("ICT", 7*60*60)
	at := time.Date(2026, 10, 16, 20, 15, 0, 0, time.UTC)

	assert.Equal(t, "17/10/2569 03:15:00", FormatTimestamp(at, bangkok, true))
	assert.Equal(t, "16/10/2026 20:15:00", FormatTimestamp(at, time.UTC, false))
}

func TestStatusTracksInFlightAndLastResult(t *testing.T) {
	sink := &blockingSink{release: make(chan struct{})}
	d := NewDispatcher([]Sink{sink}, Options{QueueSize: 4, Timeout: time.Minute, Location: time.UTC}, nil, nil)
	d.now = func() time.Time { return time.Date(2026, 10, 16, 7, 3, 5, 0, time.UTC) }

	assert.Equal(t, models.SyncStateConnected, d.Status().State)

	require.True(t, d.Publish(models.EventSale, models.SaleRecord{ID: 1}))
	status := d.Status()
	assert.Equal(t, models.SyncStateSyncing, status.State)
	assert.Equal(t, 1, status.Pending)
	assert.Equal(t, []string{"blocking"}, status.Sinks)

	close(sink.release)
	require.NoError(t, d.Close(context.Background()))

	status = d.Status()
	assert.Equal(t, models.SyncStateConnected, status.State)
	assert.Zero(t, status.Pending)
	assert.Equal(t, uint64(1), status.Delivered)
	assert.Equal(t, models.EventSale, status.LastEventType)
	assert.Equal(t, "16/10/2026 07:03:05", status.LastDeliveredAt)
	assert.Empty(t, status.LastError)
}

func TestStatusReportsFailuresAndDrops(t *testing.T) {
	failing := &recordingSink{name: "appscript", err: errors.New("timeout")}
	d := NewDispatcher([]Sink{failing}, Options{QueueSize: 4}, nil, nil)

	require.True(t, d.Publish(models.EventStockIn, models.StockInRecord{ID: 1}))
	require.NoError(t, d.Close(context.Background()))
	assert.False(t, d.Publish(models.EventStockIn, models.StockInRecord{ID: 2}))

	status := d.Status()
	assert.Equal(t, uint64(1), status.Failed)
	assert.Equal(t, uint64(1), status.Dropped)
	assert.Equal(t, "appscript: timeout", status.LastError)
}

func TestStatusWithoutSinksIsDisabled(t *testing.T) {
	d := NewDispatcher(nil, Options{}, nil, nil)
	require.True(t, d.Publish(models.EventConversion, models.ConversionRecord{}))
	require.NoError(t, d.Close(context.Background()))

	status := d.Status()
	assert.Equal(t, models.SyncStateDisabled, status.State)
	assert.Empty(t, status.Sinks)
	assert.Zero(t, status.Delivered)
}

type fakeSheets struct {
	calls []string
}

func (f *fakeSheets) AppendSale(_ context.Context, sale models.SaleRecord, timestamp string) error {
	f.calls = append(f.calls, "sale:"+sale.Items+"@"+timestamp)
	return nil
}

func (f *fakeSheets) AppendStockIn(_ context.Context, record models.StockInRecord, timestamp string) error {
	f.calls = append(f.calls, "stock_in:"+record.Name+"@"+timestamp)
	return nil
}

func (f *fakeSheets) AppendConversion(_ context.Context, record models.ConversionRecord) error {
	f.calls = append(f.calls, "conversion:"+record.Product)
	return nil
}

func TestSheetsSinkRoutesByPayload(t *testing.T) {
	repo := &fakeSheets{}
	sink := NewSheetsSink(repo)
	ctx := context.Background()

	require.NoError(t, sink.Deliver(ctx, models.SyncEvent{Type: models.EventSale, Timestamp: "ts",
		Data: models.SaleRecord{Date: "2026-10-16", Items: "a x1", Total: 10}}))
	require.NoError(t, sink.Deliver(ctx, models.SyncEvent{Type: models.EventStockIn, Timestamp: "ts",
		Data: models.StockInRecord{Date: "2026-10-16", Name: "egg", Amount: 2, Cost: 160}}))
	require.NoError(t, sink.Deliver(ctx, models.SyncEvent{Type: models.EventConversion,
		Data: models.ConversionRecord{Type: "CONVERSION", Product: "quail", Amount: 60, Date: "2026-10-16"}}))

	assert.Equal(t, []string{"sale:a x1@ts", "stock_in:egg@ts", "conversion:quail"}, repo.calls)
	assert.Equal(t, "sheets", sink.Name())

	err := sink.Deliver(ctx, models.SyncEvent{Type: "OTHER", Data: 42})
	assert.Error(t, err)
}

type fakeScript struct {
	payloads []any
}

func (f *fakeScript) Post(_ context.Context, payload any) error {
	f.payloads = append(f.payloads, payload)
	return nil
}

func TestAppScriptSinkPostsEnvelope(t *testing.T) {
	client := &fakeScript{}
	sink := NewAppScriptSink(client)

	event := models.SyncEvent{Type: models.EventSale, Data: models.SaleRecord{ID: 1}, Timestamp: "ts"}
	require.NoError(t, sink.Deliver(context.Background(), event))

	require.Len(t, client.payloads, 1)
	assert.Equal(t, event, client.payloads[0])
	assert.Equal(t, "appscript", sink.Name())
}

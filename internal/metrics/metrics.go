package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the prometheus collectors of the service. All methods are
// safe to call on a nil receiver so components can run without metrics.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	SalesTotal       prometheus.Counter
	RevenueTotal     prometheus.Counter
	StockInsTotal    prometheus.Counter
	StockInCostTotal prometheus.Counter
	ConversionsTotal prometheus.Counter
	RejectedTotal    *prometheus.CounterVec

	SyncEventsTotal  *prometheus.CounterVec
	SyncDroppedTotal *prometheus.CounterVec

	ProductStockGauge *prometheus.GaugeVec
}

// New registers every collector with reg using prefix for metric names.
func New(prefix string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		SalesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: prefix + "_sales_total",
			Help: "Total number of completed checkouts",
		}),
		RevenueTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: prefix + "_revenue_total",
			Help: "Sum of checkout totals",
		}),
		StockInsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: prefix + "_stock_ins_total",
			Help: "Total number of ingredient stock-ins",
		}),
		StockInCostTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: prefix + "_stock_in_cost_total",
			Help: "Sum of stock-in costs",
		}),
		ConversionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: prefix + "_conversions_total",
			Help: "Total number of ingredient to product conversions",
		}),
		RejectedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_rejected_operations_total",
				Help: "Operations rejected by validation",
			},
			[]string{"operation", "reason"},
		),
		SyncEventsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_sync_deliveries_total",
				Help: "Mirror deliveries by event type, sink and result",
			},
			[]string{"type", "sink", "result"},
		),
		SyncDroppedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_sync_dropped_total",
				Help: "Mirror events dropped because the queue was full or closed",
			},
			[]string{"type"},
		),
		ProductStockGauge: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: prefix + "_product_stock",
				Help: "Current sellable stock per product",
			},
			[]string{"product_id"},
		),
	}
}

// ObserveRequest records one HTTP request.
func (m *Metrics) ObserveRequest(method, path, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordSale counts a checkout and its total.
func (m *Metrics) RecordSale(total float64) {
	if m == nil {
		return
	}
	m.SalesTotal.Inc()
	if total > 0 {
		m.RevenueTotal.Add(total)
	}
}

// RecordStockIn counts a stock-in and its cost.
func (m *Metrics) RecordStockIn(cost float64) {
	if m == nil {
		return
	}
	m.StockInsTotal.Inc()
	if cost > 0 {
		m.StockInCostTotal.Add(cost)
	}
}

// RecordConversion counts a conversion.
func (m *Metrics) RecordConversion() {
	if m == nil {
		return
	}
	m.ConversionsTotal.Inc()
}

// RecordRejected counts an operation refused by validation.
func (m *Metrics) RecordRejected(operation, reason string) {
	if m == nil {
		return
	}
	m.RejectedTotal.WithLabelValues(operation, reason).Inc()
}

// RecordSyncDelivery counts one delivery attempt to a sink.
func (m *Metrics) RecordSyncDelivery(eventType, sink string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.SyncEventsTotal.WithLabelValues(eventType, sink, result).Inc()
}

// RecordSyncDropped counts an event that never reached the queue.
func (m *Metrics) RecordSyncDropped(eventType string) {
	if m == nil {
		return
	}
	m.SyncDroppedTotal.WithLabelValues(eventType).Inc()
}

// UpdateProductStock sets the stock gauge for a product.
func (m *Metrics) UpdateProductStock(productID string, stock int) {
	if m == nil {
		return
	}
	m.ProductStockGauge.WithLabelValues(productID).Set(float64(stock))
}

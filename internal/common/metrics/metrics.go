// Package metrics holds the Prometheus collectors shared by the counter and
// the kitchen.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	ItemsPrepared    *prometheus.CounterVec
	PrepDuration     *prometheus.HistogramVec
	QueueDepth       prometheus.Gauge
	WorkersBusy      prometheus.Gauge
	OrdersCompleted  prometheus.Counter
	OrdersAbandoned  prometheus.Counter
	OrderWait        prometheus.Histogram
	SessionsActive   prometheus.Gauge
	SessionsRejected prometheus.Counter
	SessionErrors    *prometheus.CounterVec
}

// New registers every collector on reg. A nil reg gets a private registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)
	return &Metrics{
		ItemsPrepared: f.NewCounterVec(prometheus.CounterOpts{
			Name: "counter_items_prepared_total",
			Help: "Items prepared by the kitchen, by item type.",
		}, []string{"item"}),
		PrepDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "counter_item_prep_seconds",
			Help:    "Time a worker spent preparing one item.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}, []string{"item"}),
		QueueDepth: f.NewGauge(prometheus.GaugeOpts{
			Name: "counter_queue_depth",
			Help: "Tickets waiting in the shared work queue.",
		}),
		WorkersBusy: f.NewGauge(prometheus.GaugeOpts{
			Name: "counter_workers_busy",
			Help: "Workers currently preparing an item.",
		}),
		OrdersCompleted: f.NewCounter(prometheus.CounterOpts{
			Name: "counter_orders_completed_total",
			Help: "Orders whose every item was prepared and handed back.",
		}),
		OrdersAbandoned: f.NewCounter(prometheus.CounterOpts{
			Name: "counter_orders_abandoned_total",
			Help: "Orders whose session stopped waiting before completion.",
		}),
		OrderWait: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "counter_order_wait_seconds",
			Help:    "Time a session waited for its whole order.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		}),
		SessionsActive: f.NewGauge(prometheus.GaugeOpts{
			Name: "counter_sessions_active",
			Help: "Admitted sessions currently open.",
		}),
		SessionsRejected: f.NewCounter(prometheus.CounterOpts{
			Name: "counter_sessions_rejected_total",
			Help: "Connections declined by the admission gate.",
		}),
		SessionErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "counter_session_errors_total",
			Help: "Sessions that ended in an error, by stage.",
		}, []string{"stage"}),
	}
}

package dashboard

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	views       *prometheus.CounterVec
	rejected    *prometheus.CounterVec
	viewSeconds prometheus.Histogram
	cachedRows  prometheus.Gauge
	wsSessions  prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	return &metrics{
		views: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cord19",
			Subsystem: "dashboard",
			Name:      "views_total",
			Help:      "Filtered views computed, by transport.",
		}, []string{"transport"}),
		rejected: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cord19",
			Subsystem: "dashboard",
			Name:      "rejected_requests_total",
			Help:      "Requests refused before a view was computed, by reason.",
		}, []string{"reason"}),
		viewSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "cord19",
			Subsystem: "dashboard",
			Name:      "view_duration_seconds",
			Help:      "Time spent filtering and aggregating one view.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
		cachedRows: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "cord19",
			Subsystem: "dashboard",
			Name:      "cached_rows",
			Help:      "Rows of the cleaned table held in memory.",
		}),
		wsSessions: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "cord19",
			Subsystem: "dashboard",
			Name:      "websocket_sessions",
			Help:      "Open websocket sessions.",
		}),
	}
}

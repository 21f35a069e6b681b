package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "quake_loader"

// Metrics holds the Prometheus collectors for a load run and the query API.
// Each instance owns its registry so repeated construction never collides.
type Metrics struct {
	Registry *prometheus.Registry

	RowsRead        prometheus.Counter
	RowsInserted    prometheus.Counter
	RowFailures     *prometheus.CounterVec // labels: stage={parse,insert}
	LoadRunning     prometheus.Gauge
	LoadDuration    prometheus.Histogram
	LastSuccess     prometheus.Gauge
	EventsPublished prometheus.Counter
	PublishErrors   prometheus.Counter

	QueryRequests *prometheus.CounterVec // labels: code
}

// NewMetrics creates the metrics and registers them on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		RowsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_read_total",
			Help:      "Data rows read from the input file, header excluded.",
		}),
		RowsInserted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_inserted_total",
			Help:      "Rows inserted and committed.",
		}),
		RowFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "row_failures_total",
			Help:      "Rows skipped, by the stage that rejected them.",
		}, []string{"stage"}),
		LoadRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "load_running",
			Help:      "1 while a load is in progress.",
		}),
		LoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "load_duration_seconds",
			Help:      "Wall time of a complete load run.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
		}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last committed load.",
		}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Committed earthquakes published to the sink topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Failed attempts to publish committed earthquakes.",
		}),
		QueryRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "query_requests_total",
			Help:      "Earthquake query requests, by HTTP status code.",
		}, []string{"code"}),
	}

	m.Registry.MustRegister(
		m.RowsRead,
		m.RowsInserted,
		m.RowFailures,
		m.LoadRunning,
		m.LoadDuration,
		m.LastSuccess,
		m.EventsPublished,
		m.PublishErrors,
		m.QueryRequests,
	)

	return m
}

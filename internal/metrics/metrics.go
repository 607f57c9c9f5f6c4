// Package metrics records query execution metrics with Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Status labels for QueriesTotal.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Recorder owns the query metrics. A nil *Recorder records nothing.
type Recorder struct {
	// QueriesTotal counts executed queries by outcome.
	QueriesTotal *prometheus.CounterVec
	// QueryDuration is the end-to-end latency of a query execution.
	QueryDuration prometheus.Histogram
	// RowsReturned counts rows handed back to callers.
	RowsReturned prometheus.Counter
}

// NewRecorder registers the query metrics on reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		QueriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "csvql_queries_total",
				Help: "Total number of executed queries",
			},
			[]string{"status"},
		),
		QueryDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "csvql_query_duration_seconds",
				Help:    "Query execution latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		RowsReturned: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "csvql_rows_returned_total",
				Help: "Total number of result rows returned",
			},
		),
	}
}

// Observe records one query execution.
func (r *Recorder) Observe(err error, elapsed time.Duration, rows int) {
	if r == nil {
		return
	}
	status := StatusOK
	if err != nil {
		status = StatusError
	}
	r.QueriesTotal.WithLabelValues(status).Inc()
	r.QueryDuration.Observe(elapsed.Seconds())
	r.RowsReturned.Add(float64(rows))
}

// Handler returns the Prometheus HTTP handler for /metrics serving g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

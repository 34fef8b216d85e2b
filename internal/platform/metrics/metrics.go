// Package metrics exposes the process prometheus registry and the
// counters shared across services
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry = prometheus.NewRegistry()

	// JobsEnqueueFailures counts jobs written to the store whose dispatch
	// message could not be enqueued. Each increment is an orphaned pending
	// job an operator should go look at
	JobsEnqueueFailures = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Name: "jobs_enqueue_failures_total",
		Help: "Jobs committed to the store whose queue dispatch failed.",
	})

	// JobsProcessed counts worker outcomes by terminal status
	JobsProcessed = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Name: "jobs_processed_total",
		Help: "Batch jobs driven to a terminal status by the worker.",
	}, []string{"status"})

	// Predictions counts scoring calls by label, sync and batch alike
	Predictions = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Name: "sentiment_predictions_total",
		Help: "Predictions served, labeled by sentiment.",
	}, []string{"sentiment"})

	// ScoreSeconds observes synchronous scoring latency
	ScoreSeconds = promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
		Name:    "sentiment_score_seconds",
		Help:    "Wall-clock duration of one synchronous prediction.",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
	})
)

func init() {
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Handler serves the registry in the prometheus exposition format
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

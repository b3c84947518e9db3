// Package metrics provides Prometheus metrics for observability.
// Metrics are organized by domain: HTTP requests, storage operations,
// index rebuilds, and snapshot exports.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "slag"

var (
	// HTTP metrics - track request volume and latency
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, path, and status code",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being processed",
		},
	)

	// Storage metrics - track comment store operations against the filesystem
	StorageOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "operations_total",
			Help:      "Total number of storage operations by operation and result",
		},
		[]string{"op", "result"},
	)

	StorageOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "operation_duration_seconds",
			Help:      "Storage operation duration in seconds",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"op"},
	)

	// Rebuild metrics - track full index rebuilds
	RebuildRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rebuild",
			Name:      "runs_total",
			Help:      "Total number of index rebuilds by result",
		},
		[]string{"result"},
	)

	RebuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "rebuild",
			Name:      "duration_seconds",
			Help:      "Index rebuild duration in seconds",
			Buckets:   []float64{.01, .05, .1, .5, 1, 5, 10, 30, 60},
		},
	)

	RebuildOrphansTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rebuild",
			Name:      "orphans_total",
			Help:      "Total number of orphaned replies promoted to top level during rebuilds",
		},
	)

	// Snapshot metrics - track snapshot exports
	SnapshotRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "snapshot",
			Name:      "runs_total",
			Help:      "Total number of snapshot exports by result",
		},
		[]string{"result"},
	)

	SnapshotBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "snapshot",
			Name:      "bytes",
			Help:      "Size in bytes of the most recently exported snapshot",
		},
	)

	// Event metrics - track publishes to the event bus
	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "published_total",
			Help:      "Total number of events published by topic and result",
		},
		[]string{"topic", "result"},
	)
)

// resultLabel converts an error into the label value used across metrics.
func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// ObserveStorageOperation records a completed storage operation.
func ObserveStorageOperation(op string, start time.Time, err error) {
	StorageOperationsTotal.WithLabelValues(op, resultLabel(err)).Inc()
	StorageOperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// ObserveRebuild records a completed index rebuild.
func ObserveRebuild(start time.Time, orphans int, err error) {
	RebuildRunsTotal.WithLabelValues(resultLabel(err)).Inc()
	RebuildDuration.Observe(time.Since(start).Seconds())
	if orphans > 0 {
		RebuildOrphansTotal.Add(float64(orphans))
	}
}

// ObserveSnapshot records a completed snapshot export.
func ObserveSnapshot(sizeBytes int, err error) {
	SnapshotRunsTotal.WithLabelValues(resultLabel(err)).Inc()
	if err == nil {
		SnapshotBytes.Set(float64(sizeBytes))
	}
}

// ObserveEventPublished records an event publish attempt.
func ObserveEventPublished(topic string, err error) {
	EventsPublishedTotal.WithLabelValues(topic, resultLabel(err)).Inc()
}

// Timer is a helper for measuring operation duration.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer starting now.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the elapsed time since the timer was created.
func (t *Timer) ObserveDuration(observer prometheus.Observer) {
	observer.Observe(time.Since(t.start).Seconds())
}

// Package metrics registers the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request latency (seconds).
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "habits_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "route", "status"},
	)

	// Storage operation latency (seconds).
	StorageOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "habits_storage_op_duration_seconds",
			Help:    "Storage operation duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms to ~2s
		},
		[]string{"operation", "result"},
	)

	// CSV import/export count.
	DatasetTransfers = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "habits_dataset_transfers_total",
			Help: "Total number of CSV imports and exports",
		},
		[]string{"direction", "result"}, // direction: import, export
	)

	// Entries removed by duplicate cleanup.
	DuplicatesRemoved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "habits_duplicate_entries_removed_total",
			Help: "Total number of duplicate entries deleted by cleanup",
		},
	)
)

// result labels an outcome by whether err is nil.
func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ObserveHTTP records an HTTP request duration.
func ObserveHTTP(method, route string, status int, d time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

// ObserveStorage records a storage operation duration.
func ObserveStorage(op string, err error, d time.Duration) {
	StorageOpDuration.WithLabelValues(op, result(err)).Observe(d.Seconds())
}

// RecordTransfer counts a CSV import or export.
func RecordTransfer(direction string, err error) {
	DatasetTransfers.WithLabelValues(direction, result(err)).Inc()
}

// RecordDuplicatesRemoved adds n to the cleanup counter.
func RecordDuplicatesRemoved(n int64) {
	if n > 0 {
		DuplicatesRemoved.Add(float64(n))
	}
}

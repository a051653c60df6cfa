// Package metrics holds the Prometheus collectors for a provisioning run.
//
// A provisioning run is short-lived, so nothing is served over HTTP. The
// registry is dumped in text exposition format for node_exporter's textfile
// collector when the caller asks for it.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds every collector of this package.
var Registry = prometheus.NewRegistry()

var (
	// Executor metrics
	executorRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sdprov",
			Subsystem: "executor",
			Name:      "runs_total",
			Help:      "Total number of executor runs by tag and result",
		},
		[]string{"tag", "result"},
	)

	executorRunDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sdprov",
			Subsystem: "executor",
			Name:      "run_duration_seconds",
			Help:      "Duration of executor runs in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10), // 500ms to ~4min
		},
		[]string{"tag"},
	)

	// Provisioning metrics
	attemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sdprov",
			Subsystem: "provisioning",
			Name:      "attempts_total",
			Help:      "Total number of storage domain attempts by backend and result",
		},
		[]string{"backend", "result"},
	)

	domainSizeBytes = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "sdprov",
			Subsystem: "provisioning",
			Name:      "domain_available_bytes",
			Help:      "Available space reported for the created storage domain",
		},
	)
)

func init() {
	Registry.MustRegister(
		executorRunsTotal,
		executorRunDuration,
		attemptsTotal,
		domainSizeBytes,
	)
}

// Result labels.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// ResultLabel maps an error to a result label.
func ResultLabel(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultSuccess
}

// RecordExecutorRun records one executor run.
func RecordExecutorRun(tag, result string, seconds float64) {
	executorRunsTotal.WithLabelValues(tag, result).Inc()
	executorRunDuration.WithLabelValues(tag).Observe(seconds)
}

// RecordAttempt records the outcome of one storage domain attempt.
func RecordAttempt(backend, result string) {
	attemptsTotal.WithLabelValues(backend, result).Inc()
}

// RecordDomainSize records the available space of the created domain.
func RecordDomainSize(bytes float64) {
	domainSizeBytes.Set(bytes)
}

// WriteTextfile writes the registry to path in text exposition format.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, Registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}

// Package metrics collects import run statistics in Prometheus format.
//
// The importer is a one-shot command, so nothing is served over HTTP. At the
// end of a run the registry is written to a file that the node_exporter
// textfile collector picks up.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder records row outcomes, release lookups and run results.
type Recorder struct {
	registry *prometheus.Registry

	rows          *prometheus.CounterVec
	lookups       *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	lastSuccess   *prometheus.GaugeVec
	lastTimestamp *prometheus.GaugeVec
}

// New creates a Recorder backed by its own registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		rows: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "resultstodb_rows_total",
				Help: "Rows read, by format and outcome.",
			}, []string{"format", "outcome"},
		),
		lookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "resultstodb_release_lookups_total",
				Help: "Release id queries sent to the database.",
			}, []string{"format"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "resultstodb_import_duration_seconds",
				Help: "Time taken to import one file.",
				// 10ms to ~5.5min
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 16),
			}, []string{"format"},
		),
		lastSuccess: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "resultstodb_last_run_success",
				Help: "1 if the last import of the format succeeded, 0 otherwise.",
			}, []string{"format"},
		),
		lastTimestamp: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "resultstodb_last_run_timestamp_seconds",
				Help: "Unix time the last import of the format finished.",
			}, []string{"format"},
		),
	}
}

// ObserveRows adds n rows with the given outcome.
func (r *Recorder) ObserveRows(format, outcome string, n int) {
	r.rows.WithLabelValues(format, outcome).Add(float64(n))
}

// ObserveLookups adds n release lookups.
func (r *Recorder) ObserveLookups(format string, n int) {
	r.lookups.WithLabelValues(format).Add(float64(n))
}

// ObserveRun records the duration and result of one file import.
func (r *Recorder) ObserveRun(format string, d time.Duration, err error) {
	r.duration.WithLabelValues(format).Observe(d.Seconds())

	success := 1.0
	if err != nil {
		success = 0
	}
	r.lastSuccess.WithLabelValues(format).Set(success)
	r.lastTimestamp.WithLabelValues(format).SetToCurrentTime()
}

// Gatherer returns the registry holding the recorder's metrics.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes all metrics to path in text exposition format.
// The file is written to a temporary name and renamed into place.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}

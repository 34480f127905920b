// Package metrics records the outcome of a generator run for the Prometheus
// node exporter textfile collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "sinkholegen"

// Recorder collects run metrics in a private registry.
type Recorder struct {
	registry *prometheus.Registry
	sources  *prometheus.CounterVec
	failed   *prometheus.CounterVec
	domains  *prometheus.GaugeVec
	lines    *prometheus.GaugeVec
	lastRun  prometheus.Gauge
	duration prometheus.Gauge
}

// New creates a Recorder with all collectors registered.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		sources: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sources_total",
				Help:      "Lists processed in the last run, by kind.",
			},
			[]string{"kind"},
		),
		failed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sources_failed_total",
				Help:      "Lists that could not be retrieved in the last run, by kind.",
			},
			[]string{"kind"},
		),
		domains: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "source_domains",
				Help:      "Unique domains parsed from each list.",
			},
			[]string{"list"},
		),
		lines: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "output_lines",
				Help:      "Unique rules written to each output file.",
			},
			[]string{"format"},
		),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished.",
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall-clock duration of the last run.",
		}),
	}
	r.registry.MustRegister(r.sources, r.failed, r.domains, r.lines, r.lastRun, r.duration)
	return r
}

// SourceDone records one processed list.
func (r *Recorder) SourceDone(kind, list string, domains int, failed bool) {
	r.sources.WithLabelValues(kind).Inc()
	if failed {
		r.failed.WithLabelValues(kind).Inc()
		return
	}
	r.domains.WithLabelValues(list).Set(float64(domains))
}

// OutputWritten records the line count of one output file.
func (r *Recorder) OutputWritten(format string, lines int) {
	r.lines.WithLabelValues(format).Set(float64(lines))
}

// RunFinished records when the run ended and how long it took.
func (r *Recorder) RunFinished(end time.Time, took time.Duration) {
	r.lastRun.Set(float64(end.Unix()))
	r.duration.Set(took.Seconds())
}

// WriteTextfile atomically writes all metrics to path in text exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}

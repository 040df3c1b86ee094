package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "crash_etl"

// Metrics holds the Prometheus counters and histograms for a pipeline run.
type Metrics struct {
	RowsRead    prometheus.Counter
	RowsWritten prometheus.Counter
	RowsDropped *prometheus.CounterVec // labels: reason={missing_coordinates,out_of_range}

	// Geocoding metrics.
	GeocodeRequests *prometheus.CounterVec // labels: outcome={resolved,skipped,not_found,exhausted,failed}
	GeocodeAttempts prometheus.Counter
	GeocodeDuration prometheus.Histogram

	RunDuration prometheus.Histogram

	gatherer prometheus.Gatherer
}

func newMetrics() *Metrics {
	return &Metrics{
		RowsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_read_total",
			Help:      "Total rows read from the input CSV.",
		}),
		RowsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_written_total",
			Help:      "Total rows written to the cleaned output.",
		}),
		RowsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_dropped_total",
			Help:      "Rows removed during coordinate cleaning, by reason.",
		}, []string{"reason"}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_resolutions_total",
			Help:      "Location resolutions by outcome.",
		}, []string{"outcome"}),
		GeocodeAttempts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_attempts_total",
			Help:      "Geocoding service calls, including retries.",
		}),
		GeocodeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "geocode_resolution_duration_seconds",
			Help:      "Time to resolve one location, including pacing and backoff.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete extract-clean-load run.",
			Buckets:   []float64{0.1, 1, 10, 60, 300, 900, 3600},
		}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.RowsRead,
		m.RowsWritten,
		m.RowsDropped,
		m.GeocodeRequests,
		m.GeocodeAttempts,
		m.GeocodeDuration,
		m.RunDuration,
	}
}

// NewMetrics creates all pipeline metrics and registers them with reg. A run
// exports its own registry, so callers normally pass a fresh one.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := newMetrics()
	reg.MustRegister(m.collectors()...)
	m.gatherer = reg
	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return NewMetrics(prometheus.NewRegistry())
}

// WriteTextfile exports the current metric values in the Prometheus text
// format, suitable for the node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.gatherer); err != nil {
		return fmt.Errorf("write metrics textfile %s: %w", path, err)
	}
	return nil
}

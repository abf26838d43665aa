// Package observability provides Prometheus metrics for the detector and its sinks.
package observability

import (
	"net/http"

	"pumpdetector/internal/pump"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pump_detector"

// Metrics implements pump.Recorder and notify.Recorder.
type Metrics struct {
	// Detector metrics
	Ticks              *prometheus.CounterVec
	WindowResets       prometheus.Counter
	MalformedSnapshots prometheus.Counter
	DiffsPerTick       prometheus.Histogram
	AlertsEmitted      *prometheus.CounterVec

	// Delivery metrics
	AlertsDropped prometheus.Counter
	SinkResults   *prometheus.CounterVec

	// Symbol metadata
	KnownSymbols prometheus.Gauge

	gatherer prometheus.Gatherer
}

// NewMetrics registers every metric on reg. A *prometheus.Registry serves as
// both the registerer and the gatherer behind Handler.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Ticks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "detector",
			Name:      "ticks_total",
			Help:      "Ticker batches processed, by window phase after ingest",
		}, []string{"phase"}),
		WindowResets: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "detector",
			Name:      "window_resets_total",
			Help:      "Observation windows discarded after reaching the tick limit",
		}),
		MalformedSnapshots: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "detector",
			Name:      "malformed_snapshots_total",
			Help:      "Snapshots dropped for non-finite numeric fields",
		}),
		DiffsPerTick: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "detector",
			Name:      "diffs_per_tick",
			Help:      "Symbols present at both window endpoints per tick",
			Buckets:   []float64{0, 10, 50, 100, 250, 500, 1000, 2000, 4000},
		}),
		AlertsEmitted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "detector",
			Name:      "alerts_total",
			Help:      "Alerts emitted by symbol",
		}, []string{"symbol"}),

		AlertsDropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notify",
			Name:      "alerts_dropped_total",
			Help:      "Alerts dropped because the delivery queue was full",
		}),
		SinkResults: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notify",
			Name:      "sink_results_total",
			Help:      "Delivery attempts by sink and result",
		}, []string{"sink", "result"}),

		KnownSymbols: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "symbols",
			Name:      "known",
			Help:      "Trading symbols with base/quote metadata loaded",
		}),

		gatherer: reg,
	}
}

func (m *Metrics) Tick(phase pump.Phase) { m.Ticks.WithLabelValues(string(phase)).Inc() }

func (m *Metrics) WindowReset() { m.WindowResets.Inc() }

func (m *Metrics) MalformedSnapshot() { m.MalformedSnapshots.Inc() }

func (m *Metrics) DiffsComputed(n int) { m.DiffsPerTick.Observe(float64(n)) }

func (m *Metrics) AlertEmitted(symbol string) { m.AlertsEmitted.WithLabelValues(symbol).Inc() }

func (m *Metrics) AlertDropped() { m.AlertsDropped.Inc() }

func (m *Metrics) SinkDelivered(sink string) { m.SinkResults.WithLabelValues(sink, "ok").Inc() }

func (m *Metrics) SinkFailed(sink string) { m.SinkResults.WithLabelValues(sink, "error").Inc() }

func (m *Metrics) SetKnownSymbols(n int) { m.KnownSymbols.Set(float64(n)) }

// Handler returns the HTTP handler for the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

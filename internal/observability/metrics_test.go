package observability

import (
	"io"
	"net/http/httptest"
	"testing"

	"pumpdetector/internal/notify"
	"pumpdetector/internal/pump"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ pump.Recorder   = (*Metrics)(nil)
	_ notify.Recorder = (*Metrics)(nil)
)

// go test -v --run TestMetricsHandler
func TestMetricsHandler(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.Tick(pump.PhaseActive)
	m.Tick(pump.PhaseActive)
	m.WindowReset()
	m.MalformedSnapshot()
	m.DiffsComputed(42)
	m.AlertEmitted("ETHBTC")
	m.AlertDropped()
	m.SinkDelivered("telegram")
	m.SinkFailed("redis")
	m.SetKnownSymbols(1500)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	out := string(body)

	assert.Contains(t, out, `pump_detector_detector_ticks_total{phase="active"} 2`)
	assert.Contains(t, out, "pump_detector_detector_window_resets_total 1")
	assert.Contains(t, out, "pump_detector_detector_malformed_snapshots_total 1")
	assert.Contains(t, out, "pump_detector_detector_diffs_per_tick_count 1")
	assert.Contains(t, out, `pump_detector_detector_alerts_total{symbol="ETHBTC"} 1`)
	assert.Contains(t, out, "pump_detector_notify_alerts_dropped_total 1")
	assert.Contains(t, out, `pump_detector_notify_sink_results_total{result="ok",sink="telegram"} 1`)
	assert.Contains(t, out, `pump_detector_notify_sink_results_total{result="error",sink="redis"} 1`)
	assert.Contains(t, out, "pump_detector_symbols_known 1500")
}

// go test -v --run TestMetricsSeparateRegistries
func TestMetricsSeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewMetrics(prometheus.NewRegistry())
		NewMetrics(prometheus.NewRegistry())
	})
}

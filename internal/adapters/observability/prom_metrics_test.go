package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPromObsMetrics(t *testing.T) {
	origReg := prometheus.DefaultRegisterer
	origGatherer := prometheus.DefaultGatherer
	t.Cleanup(func() {
		prometheus.DefaultRegisterer = origReg
		prometheus.DefaultGatherer = origGatherer
	})

	reg := prometheus.NewRegistry()
	prometheus.DefaultRegisterer = reg
	prometheus.DefaultGatherer = reg

	obs := NewPromObs()

	obs.IncCounter(MetricReadingsIngested, 5)
	if got := testutil.ToFloat64(obs.counters[MetricReadingsIngested]); got != 5 {
		t.Fatalf("expected ingested counter 5, got %f", got)
	}

	obs.IncCounter(MetricAnomaliesDetected, 2)
	if got := testutil.ToFloat64(obs.counters[MetricAnomaliesDetected]); got != 2 {
		t.Fatalf("expected anomaly counter 2, got %f", got)
	}

	obs.SetGauge(MetricFleetSize, 3)
	if got := testutil.ToFloat64(obs.gauges[MetricFleetSize]); got != 3 {
		t.Fatalf("expected fleet gauge 3, got %f", got)
	}

	obs.ObserveLatency(MetricIngestLatency, 0.01)
	hCollector := obs.histos[MetricIngestLatency].(prometheus.Collector)
	if samples := testutil.CollectAndCount(hCollector); samples != 1 {
		t.Fatalf("expected latency histogram to record 1 sample, got %d", samples)
	}

	// Unknown names are dropped rather than panicking.
	obs.IncCounter("ocean_unknown_total", 1)
	obs.SetGauge("ocean_unknown", 1)
	obs.ObserveLatency("ocean_unknown_seconds", 1)
}

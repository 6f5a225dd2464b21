package observability

import (
	"fmt"
	"log"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/BlackRoad-OS/blackroad-ocean-data-collector/internal/ports"
)

// Metric names understood by PromObs. Components reference these through the
// Observability port so swapping the backend never touches core code.
const (
	MetricReadingsIngested  = "ocean_readings_ingested_total"
	MetricAnomaliesDetected = "ocean_anomalies_detected_total"
	MetricSensorsDeployed   = "ocean_sensors_deployed_total"
	MetricFleetSize         = "ocean_fleet_size"
	MetricIngestLatency     = "ocean_ingest_latency_seconds"
	MetricHTTPLatency       = "ocean_http_request_seconds"
)

type PromObs struct {
	counters map[string]prometheus.Counter
	gauges   map[string]prometheus.Gauge
	histos   map[string]prometheus.Observer
}

func NewPromObs() *PromObs {
	ingested := prometheus.NewCounter(prometheus.CounterOpts{
		Name: MetricReadingsIngested,
		Help: "Total readings accepted by the ingestor.",
	})
	anomalies := prometheus.NewCounter(prometheus.CounterOpts{
		Name: MetricAnomaliesDetected,
		Help: "Total anomalies persisted at ingest time.",
	})
	deployed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: MetricSensorsDeployed,
		Help: "Total sensors deployed into the fleet.",
	})
	fleet := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: MetricFleetSize,
		Help: "Current number of registered sensors.",
	})
	ingestLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    MetricIngestLatency,
		Help:    "Latency of a full ingest call including anomaly detection.",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
	})
	httpLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    MetricHTTPLatency,
		Help:    "HTTP request handling latency.",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	})

	prometheus.MustRegister(ingested, anomalies, deployed, fleet, ingestLatency, httpLatency)

	return &PromObs{
		counters: map[string]prometheus.Counter{
			MetricReadingsIngested:  ingested,
			MetricAnomaliesDetected: anomalies,
			MetricSensorsDeployed:   deployed,
		},
		gauges: map[string]prometheus.Gauge{
			MetricFleetSize: fleet,
		},
		histos: map[string]prometheus.Observer{
			MetricIngestLatency: ingestLatency,
			MetricHTTPLatency:   httpLatency,
		},
	}
}

func (p *PromObs) LogInfo(msg string, fields ...ports.Field) {
	log.Printf("INFO: %s%s", msg, formatFields(fields))
}

func (p *PromObs) LogError(msg string, err error, fields ...ports.Field) {
	if err != nil {
		log.Printf("ERROR: %s: %v%s", msg, err, formatFields(fields))
	}
}

func (p *PromObs) IncCounter(name string, v float64) {
	if c, ok := p.counters[name]; ok {
		c.Add(v)
	}
}

func (p *PromObs) ObserveLatency(name string, seconds float64) {
	if h, ok := p.histos[name]; ok {
		h.Observe(seconds)
	}
}

func (p *PromObs) SetGauge(name string, v float64) {
	if g, ok := p.gauges[name]; ok {
		g.Set(v)
	}
}

func formatFields(fields []ports.Field) string {
	if len(fields) == 0 {
		return ""
	}
	var b strings.Builder
	for _, f := range fields {
		fmt.Fprintf(&b, " %s=%v", f.Key, f.Value)
	}
	return b.String()
}

var _ ports.Observability = (*PromObs)(nil)

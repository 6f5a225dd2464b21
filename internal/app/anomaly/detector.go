package anomaly

import (
	"fmt"
	"strings"

	"github.com/BlackRoad-OS/blackroad-ocean-data-collector/internal/domain"
	"github.com/BlackRoad-OS/blackroad-ocean-data-collector/internal/ports"
)

// Detector turns readings into anomaly records. Inspect is the sole write
// path (invoked synchronously by the ingestor); FleetScan and AlertSummary
// are derived reads and never persist.
type Detector struct {
	store ports.Store
	obs   ports.Observability
}

func New(store ports.Store, obs ports.Observability) *Detector {
	if obs == nil {
		obs = ports.NopObservability{}
	}
	return &Detector{store: store, obs: obs}
}

// Evaluate is the pure rule pass: zero or more anomalies implied by the
// reading's present fields. Absent fields never trigger.
func (d *Detector) Evaluate(r *domain.Reading) []*domain.Anomaly {
	var out []*domain.Anomaly
	for _, rule := range Rules {
		value, ok := r.Value(rule.Parameter)
		if !ok || !rule.Triggered(value) {
			continue
		}
		out = append(out, rule.Apply(r.SensorID, r, value))
	}
	return out
}

// Inspect evaluates a freshly ingested reading and persists every triggered
// anomaly. Threshold crossings are expected data, not errors; only a reading
// with no sensor reference is malformed.
func (d *Detector) Inspect(r *domain.Reading) ([]*domain.Anomaly, error) {
	if r == nil || r.SensorID == "" {
		return nil, &domain.ValidationError{Field: "reading", Reason: "missing sensor reference"}
	}

	anomalies := d.Evaluate(r)
	for _, a := range anomalies {
		if err := d.store.AppendAnomaly(a); err != nil {
			return nil, err
		}
		d.obs.LogInfo("anomaly_detected",
			ports.Field{Key: "sensor", Value: a.SensorID},
			ports.Field{Key: "parameter", Value: string(a.Parameter)},
			ports.Field{Key: "severity", Value: string(a.Severity)})
	}
	if len(anomalies) > 0 {
		d.obs.IncCounter("ocean_anomalies_detected_total", float64(len(anomalies)))
	}
	return anomalies, nil
}

// FleetScan re-evaluates the latest reading of every sensor and returns the
// anomalies currently implied by each sensor's most recent state. It is a
// pure derived read: nothing is persisted, so ingest-time records are never
// double-counted.
func (d *Detector) FleetScan() ([]*domain.Anomaly, error) {
	sensors, err := d.store.ListSensors()
	if err != nil {
		return nil, err
	}

	var out []*domain.Anomaly
	for _, s := range sensors {
		if s.LastReading == nil {
			continue
		}
		out = append(out, d.Evaluate(s.LastReading)...)
	}
	return out, nil
}

// recentPerSeverity bounds how many anomalies the rendered summary lists for
// each severity tier.
const recentPerSeverity = 3

// Summary aggregates the persisted anomaly history.
type Summary struct {
	Total      int                                   `json:"total"`
	BySeverity map[domain.Severity]int               `json:"by_severity"`
	Recent     map[domain.Severity][]*domain.Anomaly `json:"recent"`
}

// AlertSummary derives counts by severity plus the most recent entries per
// tier, purely from persisted history.
func (d *Detector) AlertSummary() (*Summary, error) {
	anomalies, err := d.store.ListAnomalies()
	if err != nil {
		return nil, err
	}

	sum := &Summary{
		Total:      len(anomalies),
		BySeverity: make(map[domain.Severity]int),
		Recent:     make(map[domain.Severity][]*domain.Anomaly),
	}
	// Walk newest-first so Recent holds the latest entries.
	for i := len(anomalies) - 1; i >= 0; i-- {
		a := anomalies[i]
		sum.BySeverity[a.Severity]++
		if len(sum.Recent[a.Severity]) < recentPerSeverity {
			sum.Recent[a.Severity] = append(sum.Recent[a.Severity], a)
		}
	}
	return sum, nil
}

// String renders the summary in the CLI report format.
func (s *Summary) String() string {
	if s.Total == 0 {
		return "✓ No active anomalies"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "⚠ %d anomalies detected:\n", s.Total)
	for _, sev := range domain.Severities {
		entries := s.Recent[sev]
		if len(entries) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n  %s (%d):\n", strings.ToUpper(string(sev)), s.BySeverity[sev])
		for _, a := range entries {
			fmt.Fprintf(&b, "    • %s: %.2f (%s)\n", a.Parameter, a.Value, a.SensorID)
		}
	}
	return b.String()
}

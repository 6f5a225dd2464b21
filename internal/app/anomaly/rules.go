// Package anomaly evaluates readings against fixed oceanographic thresholds.
package anomaly

import (
	"fmt"

	"github.com/BlackRoad-OS/blackroad-ocean-data-collector/internal/domain"
)

// Direction says which side of the threshold triggers a rule.
type Direction int

const (
	Above Direction = iota
	Below
)

// Rule is one (parameter, predicate, severity, message) tuple. Thresholds are
// data, not control flow: the detector walks the table and never branches on
// parameter names.
type Rule struct {
	Parameter domain.Parameter
	Direction Direction
	Threshold float64
	Severity  domain.Severity
	// Format receives the observed value and the threshold.
	Format string
}

// Rules is the fixed threshold table. Temperature extremes and hypoxia are
// life-critical; acidification is an early-warning signal.
var Rules = []Rule{
	{
		Parameter: domain.ParamTemperature,
		Direction: Above,
		Threshold: 30.0,
		Severity:  domain.SeverityCritical,
		Format:    "Temperature critical: %.1f°C exceeds %.1f°C threshold",
	},
	{
		Parameter: domain.ParamPH,
		Direction: Below,
		Threshold: 7.8,
		Severity:  domain.SeverityWarning,
		Format:    "pH warning: %.2f below %.2f threshold (ocean acidification)",
	},
	{
		Parameter: domain.ParamDissolvedO2,
		Direction: Below,
		Threshold: 4.0,
		Severity:  domain.SeverityCritical,
		Format:    "Dissolved oxygen critical: %.1f mg/L below %.1f mg/L threshold (hypoxia)",
	},
}

// Triggered reports whether value crosses the rule's threshold.
func (r Rule) Triggered(value float64) bool {
	if r.Direction == Above {
		return value > r.Threshold
	}
	return value < r.Threshold
}

// Apply builds the anomaly record for a triggering value.
func (r Rule) Apply(sensorID string, reading *domain.Reading, value float64) *domain.Anomaly {
	return &domain.Anomaly{
		SensorID:  sensorID,
		Timestamp: reading.Timestamp,
		Parameter: r.Parameter,
		Value:     value,
		Severity:  r.Severity,
		Message:   fmt.Sprintf(r.Format, value, r.Threshold),
	}
}

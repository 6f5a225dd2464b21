package domain

import "time"

// Severity classifies how urgent an anomaly is.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Severities in display order, most urgent first.
var Severities = []Severity{SeverityCritical, SeverityWarning, SeverityInfo}

// Anomaly records one threshold violation detected on a reading. The timestamp
// is inherited from the triggering reading. Anomalies are created only by the
// detector at ingest time and are immutable and append-only.
type Anomaly struct {
	SensorID  string    `json:"sensor_id"`
	Timestamp time.Time `json:"timestamp"`
	Parameter Parameter `json:"parameter"`
	Value     float64   `json:"value"`
	Severity  Severity  `json:"severity"`
	Message   string    `json:"message"`
}

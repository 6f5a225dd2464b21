// Package ingest validates and timestamps incoming measurements.
package ingest

import (
	"math"
	"time"

	"github.com/BlackRoad-OS/blackroad-ocean-data-collector/internal/app/anomaly"
	"github.com/BlackRoad-OS/blackroad-ocean-data-collector/internal/app/registry"
	"github.com/BlackRoad-OS/blackroad-ocean-data-collector/internal/domain"
	"github.com/BlackRoad-OS/blackroad-ocean-data-collector/internal/ports"
)

// Measurements is the optional field set supplied with one ingest call.
// A nil field means "not measured", never zero.
type Measurements struct {
	TemperatureC      *float64 `json:"temperature_c,omitempty"`
	SalinityPSU       *float64 `json:"salinity_psu,omitempty"`
	PH                *float64 `json:"ph,omitempty"`
	DissolvedO2MgL    *float64 `json:"dissolved_o2_mgl,omitempty"`
	CurrentVelocityMS *float64 `json:"current_velocity_ms,omitempty"`
}

// Ingestor persists readings, refreshes the owning sensor's snapshot, and
// runs anomaly detection synchronously so anomalies are visible to the caller
// the moment Ingest returns.
type Ingestor struct {
	registry *registry.Registry
	detector *anomaly.Detector
	store    ports.Store
	obs      ports.Observability
	now      func() time.Time
}

func New(reg *registry.Registry, det *anomaly.Detector, store ports.Store, obs ports.Observability) *Ingestor {
	if obs == nil {
		obs = ports.NopObservability{}
	}
	return &Ingestor{
		registry: reg,
		detector: det,
		store:    store,
		obs:      obs,
		now:      time.Now,
	}
}

// Ingest stores one reading for the sensor and returns it with the assigned
// timestamp. Policy choices, both deliberate:
//   - a call supplying no measurements at all is rejected;
//   - a fresh reading flips an inactive or maintenance sensor back to active.
//
// Out-of-physical-range values are stored as-is; range judgement belongs to
// the anomaly detector, the ingestor only refuses NaN and infinities.
func (i *Ingestor) Ingest(sensorID string, m Measurements) (*domain.Reading, error) {
	sensor, err := i.registry.Get(sensorID)
	if err != nil {
		return nil, err
	}
	if err := validate(m); err != nil {
		return nil, err
	}

	start := i.now()
	reading := &domain.Reading{
		SensorID:          sensor.ID,
		Timestamp:         start,
		TemperatureC:      m.TemperatureC,
		SalinityPSU:       m.SalinityPSU,
		PH:                m.PH,
		DissolvedO2MgL:    m.DissolvedO2MgL,
		CurrentVelocityMS: m.CurrentVelocityMS,
	}

	if err := i.store.AppendReading(reading); err != nil {
		return nil, err
	}

	sensor.LastReading = reading.Clone()
	if sensor.Status != domain.StatusActive {
		sensor.Status = domain.StatusActive
	}
	if err := i.registry.Save(sensor); err != nil {
		return nil, err
	}

	if _, err := i.detector.Inspect(reading); err != nil {
		return nil, err
	}

	i.obs.IncCounter("ocean_readings_ingested_total", 1)
	i.obs.ObserveLatency("ocean_ingest_latency_seconds", time.Since(start).Seconds())
	return reading, nil
}

func validate(m Measurements) error {
	supplied := 0
	for _, f := range []struct {
		name  string
		value *float64
	}{
		{"temperature_c", m.TemperatureC},
		{"salinity_psu", m.SalinityPSU},
		{"ph", m.PH},
		{"dissolved_o2_mgl", m.DissolvedO2MgL},
		{"current_velocity_ms", m.CurrentVelocityMS},
	} {
		if f.value == nil {
			continue
		}
		supplied++
		if math.IsNaN(*f.value) || math.IsInf(*f.value, 0) {
			return &domain.ValidationError{Field: f.name, Reason: "must be finite"}
		}
	}
	if supplied == 0 {
		return &domain.ValidationError{Field: "measurements", Reason: "at least one measurement is required"}
	}
	return nil
}

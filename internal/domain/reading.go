package domain

import "time"

// Parameter names one measured quantity on a reading.
type Parameter string

const (
	ParamTemperature Parameter = "temperature"
	ParamSalinity    Parameter = "salinity"
	ParamPH          Parameter = "ph"
	ParamDissolvedO2 Parameter = "dissolved_o2"
	ParamCurrent     Parameter = "current_velocity"
)

// Reading is one timestamped set of measurements from a sensor. A reading may
// carry any subset of the measurement fields; absent fields stay nil rather
// than defaulting to zero, so downstream aggregates never see phantom values.
// Readings are immutable once stored and append-only per sensor.
type Reading struct {
	SensorID          string    `json:"sensor_id"`
	Timestamp         time.Time `json:"timestamp"`
	TemperatureC      *float64  `json:"temperature_c,omitempty"`
	SalinityPSU       *float64  `json:"salinity_psu,omitempty"`
	PH                *float64  `json:"ph,omitempty"`
	DissolvedO2MgL    *float64  `json:"dissolved_o2_mgl,omitempty"`
	CurrentVelocityMS *float64  `json:"current_velocity_ms,omitempty"`
}

// Value returns the measurement for p and whether it is present.
func (r *Reading) Value(p Parameter) (float64, bool) {
	var v *float64
	switch p {
	case ParamTemperature:
		v = r.TemperatureC
	case ParamSalinity:
		v = r.SalinityPSU
	case ParamPH:
		v = r.PH
	case ParamDissolvedO2:
		v = r.DissolvedO2MgL
	case ParamCurrent:
		v = r.CurrentVelocityMS
	}
	if v == nil {
		return 0, false
	}
	return *v, true
}

// Empty reports whether the reading carries no measurements at all.
func (r *Reading) Empty() bool {
	return r.TemperatureC == nil && r.SalinityPSU == nil && r.PH == nil &&
		r.DissolvedO2MgL == nil && r.CurrentVelocityMS == nil
}

// Clone returns a deep copy, used to snapshot a reading onto its sensor.
func (r *Reading) Clone() *Reading {
	cp := Reading{SensorID: r.SensorID, Timestamp: r.Timestamp}
	cp.TemperatureC = copyFloat(r.TemperatureC)
	cp.SalinityPSU = copyFloat(r.SalinityPSU)
	cp.PH = copyFloat(r.PH)
	cp.DissolvedO2MgL = copyFloat(r.DissolvedO2MgL)
	cp.CurrentVelocityMS = copyFloat(r.CurrentVelocityMS)
	return &cp
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// Float is a convenience for building optional measurement fields.
func Float(v float64) *float64 { return &v }

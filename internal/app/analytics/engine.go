// Package analytics derives fleet-level products from persisted readings:
// heat content, trends, the ASCII heatmap and the export snapshot.
package analytics

import (
	"sort"
	"time"

	"github.com/BlackRoad-OS/blackroad-ocean-data-collector/internal/app/registry"
	"github.com/BlackRoad-OS/blackroad-ocean-data-collector/internal/domain"
	"github.com/BlackRoad-OS/blackroad-ocean-data-collector/internal/ports"
)

// Fixed sea-water constants for the heat-content proxy. These are deliberate
// simplifications kept stable across versions for reproducibility.
const (
	SeawaterDensityKgM3   = 1025.0 // ρ
	SpecificHeatJPerKgK   = 4000.0 // cp
	DefaultRefTempC       = 0.0
	DefaultMaxDepthFactor = 100.0 // meters of water column credited per sensor
)

// Engine computes analytics on demand. Pull model: every method reads the
// current persisted state, computes, and returns; no background jobs.
type Engine struct {
	registry *registry.Registry
	store    ports.Store
	obs      ports.Observability

	refTempC       float64
	maxDepthFactor float64
	exportTitle    string
	now            func() time.Time
}

// Options carries the tunable analytics constants; zero values select the
// documented defaults.
type Options struct {
	ReferenceTempC  float64
	MaxDepthFactorM float64
	ExportTitle     string
}

func New(reg *registry.Registry, store ports.Store, obs ports.Observability, opts Options) *Engine {
	if obs == nil {
		obs = ports.NopObservability{}
	}
	e := &Engine{
		registry:       reg,
		store:          store,
		obs:            obs,
		refTempC:       opts.ReferenceTempC,
		maxDepthFactor: opts.MaxDepthFactorM,
		exportTitle:    opts.ExportTitle,
		now:            time.Now,
	}
	if e.maxDepthFactor == 0 {
		e.maxDepthFactor = DefaultMaxDepthFactor
	}
	if e.exportTitle == "" {
		e.exportTitle = "BlackRoad Ocean Data Collection"
	}
	return e
}

// Contribution is one sensor's share of the heat-content total.
type Contribution struct {
	SensorID        string  `json:"sensor_id"`
	HeatContentKJM2 float64 `json:"heat_content_kj_m2"`
	TemperatureC    float64 `json:"temperature_c"`
	DepthFactorM    float64 `json:"depth_factor_m"`
}

// HeatContentReport sums the per-sensor proxy contributions.
type HeatContentReport struct {
	TotalHeatContentKJM2 float64        `json:"total_heat_content_kj_m2"`
	AverageKJM2          float64        `json:"average_heat_kj_m2"`
	SensorsSampled       int            `json:"sensors_sampled"`
	PerSensor            []Contribution `json:"per_sensor"`
}

// HeatContent computes the simplified heat-content proxy over the given
// sensors: ρ · cp · ΔT · depth_factor, converted to kJ/m². Sensors without a
// temperature in their last reading are skipped; an unknown id fails fast
// with a NotFoundError. Deterministic for a given persisted state.
func (e *Engine) HeatContent(sensorIDs []string) (*HeatContentReport, error) {
	report := &HeatContentReport{}
	for _, id := range sensorIDs {
		sensor, err := e.registry.Get(id)
		if err != nil {
			return nil, err
		}
		lr := sensor.LastReading
		if lr == nil {
			continue
		}
		temp, ok := lr.Value(domain.ParamTemperature)
		if !ok {
			continue
		}

		depthFactor := sensor.DepthM
		if depthFactor > e.maxDepthFactor {
			depthFactor = e.maxDepthFactor
		}
		deltaT := temp - e.refTempC
		kj := SeawaterDensityKgM3 * SpecificHeatJPerKgK * deltaT * depthFactor / 1000.0

		report.PerSensor = append(report.PerSensor, Contribution{
			SensorID:        id,
			HeatContentKJM2: kj,
			TemperatureC:    temp,
			DepthFactorM:    depthFactor,
		})
		report.TotalHeatContentKJM2 += kj
		report.SensorsSampled++
	}
	if report.SensorsSampled > 0 {
		report.AverageKJM2 = report.TotalHeatContentKJM2 / float64(report.SensorsSampled)
	}
	return report, nil
}

// TrendPoint is one (timestamp, value) pair on a parameter trend.
type TrendPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// Trend returns the sensor's readings inside [now - window, now] that carry
// the requested parameter, in non-decreasing timestamp order.
func (e *Engine) Trend(sensorID string, param domain.Parameter, windowHours int) ([]TrendPoint, error) {
	if _, err := e.registry.Get(sensorID); err != nil {
		return nil, err
	}
	if windowHours <= 0 {
		windowHours = 24
	}

	since := e.now().Add(-time.Duration(windowHours) * time.Hour)
	readings, err := e.store.ListReadings(sensorID, since)
	if err != nil {
		return nil, err
	}

	var points []TrendPoint
	for _, r := range readings {
		v, ok := r.Value(param)
		if !ok {
			continue
		}
		points = append(points, TrendPoint{Timestamp: r.Timestamp, Value: v})
	}
	// Stored order is insertion order; wall-clock order may differ, and the
	// trend contract is timestamp order.
	sort.SliceStable(points, func(a, b int) bool {
		return points[a].Timestamp.Before(points[b].Timestamp)
	})
	return points, nil
}

package ocean

import (
	"github.com/BlackRoad-OS/blackroad-ocean-data-collector/internal/app/analytics"
	"github.com/BlackRoad-OS/blackroad-ocean-data-collector/internal/app/anomaly"
	"github.com/BlackRoad-OS/blackroad-ocean-data-collector/internal/app/config"
	"github.com/BlackRoad-OS/blackroad-ocean-data-collector/internal/app/ingest"
	"github.com/BlackRoad-OS/blackroad-ocean-data-collector/internal/domain"
	"github.com/BlackRoad-OS/blackroad-ocean-data-collector/internal/ports"
)

// Sensor is a registered observation platform in the fleet.
type Sensor = domain.Sensor

// SensorType identifies the platform class (buoy, glider, mooring, ...).
type SensorType = domain.SensorType

// SensorStatus is the sensor's lifecycle state.
type SensorStatus = domain.SensorStatus

// Reading is one timestamped set of measurements from a sensor.
type Reading = domain.Reading

// Parameter names a measured quantity (temperature, salinity, ...).
type Parameter = domain.Parameter

// Anomaly is a persisted threshold crossing.
type Anomaly = domain.Anomaly

// Severity grades an anomaly (critical, warning, info).
type Severity = domain.Severity

// Measurements is the set of optional values accepted by Ingest; nil fields
// were not measured.
type Measurements = ingest.Measurements

// Store abstracts the persistence backend.
type Store = ports.Store

// Observability emits metrics and structured logs for collector internals.
type Observability = ports.Observability

// Field is a structured log field used by Observability implementations.
type Field = ports.Field

// NopObservability discards all metrics and logs.
type NopObservability = ports.NopObservability

// Config is the collector's full configuration tree.
type Config = config.Config

// Summary aggregates the persisted anomaly history.
type Summary = anomaly.Summary

// HeatContentReport is the fleet heat-content aggregate.
type HeatContentReport = analytics.HeatContentReport

// TrendPoint is one point on a parameter trend.
type TrendPoint = analytics.TrendPoint

// ExportSnapshot is the NetCDF-style export document.
type ExportSnapshot = analytics.ExportSnapshot

// Re-exported sensor types.
const (
	TypeBuoy      = domain.TypeBuoy
	TypeArgoFloat = domain.TypeArgoFloat
	TypeGlider    = domain.TypeGlider
	TypeMooring   = domain.TypeMooring
	TypeAUV       = domain.TypeAUV
	TypeCTD       = domain.TypeCTD
)

// Re-exported parameters.
const (
	ParamTemperature     = domain.ParamTemperature
	ParamSalinity        = domain.ParamSalinity
	ParamPH              = domain.ParamPH
	ParamDissolvedO2 = domain.ParamDissolvedO2
	ParamCurrent     = domain.ParamCurrent
)

// Float wraps a measured value for the optional Measurements fields.
func Float(v float64) *float64 { return domain.Float(v) }

// LoadConfig reads and validates a YAML configuration file.
func LoadConfig(path string) (*Config, error) { return config.Load(path) }

// DefaultConfig returns the configuration used when no file is given;
// environment overrides still apply.
func DefaultConfig() *Config { return config.Default() }

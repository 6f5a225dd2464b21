package ocean

import (
	base "github.com/BlackRoad-OS/blackroad-ocean-data-collector/pkg/ocean"
)

// Type aliases so consumers can import
// github.com/BlackRoad-OS/blackroad-ocean-data-collector directly.
type (
	Collector         = base.Collector
	Option            = base.Option
	Config            = base.Config
	Sensor            = base.Sensor
	SensorType        = base.SensorType
	SensorStatus      = base.SensorStatus
	Reading           = base.Reading
	Parameter         = base.Parameter
	Anomaly           = base.Anomaly
	Severity          = base.Severity
	Measurements      = base.Measurements
	Store             = base.Store
	Observability     = base.Observability
	Field             = base.Field
	NopObservability  = base.NopObservability
	Summary           = base.Summary
	HeatContentReport = base.HeatContentReport
	TrendPoint        = base.TrendPoint
	ExportSnapshot    = base.ExportSnapshot
)

// Re-exported sensor types and parameters.
const (
	TypeBuoy      = base.TypeBuoy
	TypeArgoFloat = base.TypeArgoFloat
	TypeGlider    = base.TypeGlider
	TypeMooring   = base.TypeMooring
	TypeAUV       = base.TypeAUV
	TypeCTD       = base.TypeCTD

	ParamTemperature = base.ParamTemperature
	ParamSalinity    = base.ParamSalinity
	ParamPH          = base.ParamPH
	ParamDissolvedO2 = base.ParamDissolvedO2
	ParamCurrent     = base.ParamCurrent
)

// Config helpers.
func LoadConfig(path string) (*Config, error) {
	return base.LoadConfig(path)
}

func DefaultConfig() *Config {
	return base.DefaultConfig()
}

// Collector construction and options.
func New(cfg *Config, opts ...Option) (*Collector, error) {
	return base.New(cfg, opts...)
}

func WithStore(s Store) Option {
	return base.WithStore(s)
}

func WithObservability(obs Observability) Option {
	return base.WithObservability(obs)
}

// Float wraps a measured value for the optional Measurements fields.
func Float(v float64) *float64 {
	return base.Float(v)
}

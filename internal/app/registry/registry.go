// Package registry owns sensor metadata and fleet listing.
package registry

import (
	"encoding/hex"
	"strings"

	"github.com/google/uuid"

	"github.com/BlackRoad-OS/blackroad-ocean-data-collector/internal/domain"
	"github.com/BlackRoad-OS/blackroad-ocean-data-collector/internal/ports"
)

type Registry struct {
	store ports.Store
	obs   ports.Observability
}

func New(store ports.Store, obs ports.Observability) *Registry {
	if obs == nil {
		obs = ports.NopObservability{}
	}
	return &Registry{store: store, obs: obs}
}

// Deploy registers a new sensor with a generated id and active status.
func (r *Registry) Deploy(name string, typ domain.SensorType, lat, lon, depthM float64) (*domain.Sensor, error) {
	if !typ.Valid() {
		return nil, &domain.ValidationError{Field: "type", Reason: "must be one of " + joinTypes()}
	}
	if lat < -90 || lat > 90 {
		return nil, &domain.ValidationError{Field: "lat", Reason: "must be within [-90, 90]"}
	}
	if lon < -180 || lon > 180 {
		return nil, &domain.ValidationError{Field: "lon", Reason: "must be within [-180, 180]"}
	}
	if depthM < 0 {
		return nil, &domain.ValidationError{Field: "depth_m", Reason: "must be non-negative"}
	}

	sensor := &domain.Sensor{
		ID:     newSensorID(),
		Name:   name,
		Type:   typ,
		Lat:    lat,
		Lon:    lon,
		DepthM: depthM,
		Status: domain.StatusActive,
	}
	if err := r.store.PutSensor(sensor); err != nil {
		return nil, err
	}

	r.obs.IncCounter("ocean_sensors_deployed_total", 1)
	r.obs.LogInfo("sensor_deployed",
		ports.Field{Key: "id", Value: sensor.ID},
		ports.Field{Key: "type", Value: string(typ)})
	return sensor, nil
}

// Get resolves a sensor id or fails with a NotFoundError.
func (r *Registry) Get(id string) (*domain.Sensor, error) {
	s, err := r.store.GetSensor(id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, &domain.NotFoundError{Kind: "sensor", ID: id}
	}
	return s, nil
}

// FleetStatus returns every sensor in insertion order, each carrying its
// current last-reading snapshot. Side-effect free.
func (r *Registry) FleetStatus() ([]*domain.Sensor, error) {
	sensors, err := r.store.ListSensors()
	if err != nil {
		return nil, err
	}
	r.obs.SetGauge("ocean_fleet_size", float64(len(sensors)))
	return sensors, nil
}

// Save writes back a mutated sensor record. Only the ingest path uses it; the
// id must already exist.
func (r *Registry) Save(s *domain.Sensor) error {
	return r.store.PutSensor(s)
}

// newSensorID follows the S_XXXXXXXX scheme: eight uppercase hex characters
// drawn from a random UUID.
func newSensorID() string {
	u := uuid.New()
	return "S_" + strings.ToUpper(hex.EncodeToString(u[:4]))
}

func joinTypes() string {
	names := make([]string, len(domain.SensorTypes))
	for i, t := range domain.SensorTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

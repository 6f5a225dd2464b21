package ports

import (
	"time"

	"github.com/BlackRoad-OS/blackroad-ocean-data-collector/internal/domain"
)

// Store is the durable keyed storage contract for sensor records, ordered
// readings per sensor, and anomaly events. All operations are synchronous;
// adapters surface failures as *domain.StorageError. List operations return
// insertion order, which consumers must treat as the canonical order.
type Store interface {
	// PutSensor inserts or replaces a sensor record.
	PutSensor(s *domain.Sensor) error
	// GetSensor returns (nil, nil) when no sensor with the id exists.
	GetSensor(id string) (*domain.Sensor, error)
	ListSensors() ([]*domain.Sensor, error)

	AppendReading(r *domain.Reading) error
	// ListReadings returns the sensor's readings in insertion order. A
	// non-zero since bounds the result to readings stamped at or after it.
	ListReadings(sensorID string, since time.Time) ([]*domain.Reading, error)

	AppendAnomaly(a *domain.Anomaly) error
	ListAnomalies() ([]*domain.Anomaly, error)
}

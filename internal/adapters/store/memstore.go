package store

import (
	"sync"
	"time"

	"github.com/BlackRoad-OS/blackroad-ocean-data-collector/internal/domain"
	"github.com/BlackRoad-OS/blackroad-ocean-data-collector/internal/ports"
)

// MemStore is an in-memory Store that preserves insertion order for sensors,
// per-sensor readings, and anomalies. It is the default backend and the test
// double; the mutex makes it safe to share between the HTTP and MQTT glue.
type MemStore struct {
	mu        sync.Mutex
	sensors   map[string]*domain.Sensor
	order     []string
	readings  map[string][]*domain.Reading
	anomalies []*domain.Anomaly
}

func NewMemStore() *MemStore {
	return &MemStore{
		sensors:  make(map[string]*domain.Sensor),
		readings: make(map[string][]*domain.Reading),
	}
}

func (m *MemStore) PutSensor(s *domain.Sensor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.sensors[s.ID]; !exists {
		m.order = append(m.order, s.ID)
	}
	cp := *s
	if s.LastReading != nil {
		cp.LastReading = s.LastReading.Clone()
	}
	m.sensors[s.ID] = &cp
	return nil
}

func (m *MemStore) GetSensor(id string) (*domain.Sensor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sensors[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	if s.LastReading != nil {
		cp.LastReading = s.LastReading.Clone()
	}
	return &cp, nil
}

func (m *MemStore) ListSensors() ([]*domain.Sensor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Sensor, 0, len(m.order))
	for _, id := range m.order {
		s := m.sensors[id]
		cp := *s
		if s.LastReading != nil {
			cp.LastReading = s.LastReading.Clone()
		}
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MemStore) AppendReading(r *domain.Reading) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readings[r.SensorID] = append(m.readings[r.SensorID], r.Clone())
	return nil
}

func (m *MemStore) ListReadings(sensorID string, since time.Time) ([]*domain.Reading, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Reading
	for _, r := range m.readings[sensorID] {
		if !since.IsZero() && r.Timestamp.Before(since) {
			continue
		}
		out = append(out, r.Clone())
	}
	return out, nil
}

func (m *MemStore) AppendAnomaly(a *domain.Anomaly) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *a
	m.anomalies = append(m.anomalies, &cp)
	return nil
}

func (m *MemStore) ListAnomalies() ([]*domain.Anomaly, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Anomaly, 0, len(m.anomalies))
	for _, a := range m.anomalies {
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

var _ ports.Store = (*MemStore)(nil)

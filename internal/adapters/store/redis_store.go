package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/BlackRoad-OS/blackroad-ocean-data-collector/internal/domain"
	"github.com/BlackRoad-OS/blackroad-ocean-data-collector/internal/ports"
)

const (
	sensorHashKey   = "ocean:sensors"
	sensorOrderKey  = "ocean:sensors:order"
	readingsKeyPref = "ocean:readings:"
	anomaliesKey    = "ocean:anomalies"
)

// RedisStore keeps the fleet in a hash plus an insertion-order list, with
// per-sensor reading streams and the anomaly log as RPUSH lists. List append
// is atomic in Redis, which satisfies the store contract for concurrent glue.
type RedisStore struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisStore(addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, &domain.StorageError{Op: "connect redis", Err: err}
	}

	return &RedisStore{client: client, ctx: ctx}, nil
}

func (r *RedisStore) PutSensor(s *domain.Sensor) error {
	data, err := json.Marshal(s)
	if err != nil {
		return &domain.StorageError{Op: "put sensor", Err: err}
	}

	exists, err := r.client.HExists(r.ctx, sensorHashKey, s.ID).Result()
	if err != nil {
		return &domain.StorageError{Op: "put sensor", Err: err}
	}

	pipe := r.client.Pipeline()
	pipe.HSet(r.ctx, sensorHashKey, s.ID, data)
	if !exists {
		pipe.RPush(r.ctx, sensorOrderKey, s.ID)
	}
	if _, err := pipe.Exec(r.ctx); err != nil {
		return &domain.StorageError{Op: "put sensor", Err: err}
	}
	return nil
}

func (r *RedisStore) GetSensor(id string) (*domain.Sensor, error) {
	data, err := r.client.HGet(r.ctx, sensorHashKey, id).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, &domain.StorageError{Op: "get sensor", Err: err}
	}
	var s domain.Sensor
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, &domain.StorageError{Op: "get sensor", Err: err}
	}
	return &s, nil
}

func (r *RedisStore) ListSensors() ([]*domain.Sensor, error) {
	ids, err := r.client.LRange(r.ctx, sensorOrderKey, 0, -1).Result()
	if err != nil {
		return nil, &domain.StorageError{Op: "list sensors", Err: err}
	}
	out := make([]*domain.Sensor, 0, len(ids))
	for _, id := range ids {
		s, err := r.GetSensor(id)
		if err != nil {
			return nil, err
		}
		if s != nil {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *RedisStore) AppendReading(rd *domain.Reading) error {
	data, err := json.Marshal(rd)
	if err != nil {
		return &domain.StorageError{Op: "append reading", Err: err}
	}
	if err := r.client.RPush(r.ctx, readingsKeyPref+rd.SensorID, data).Err(); err != nil {
		return &domain.StorageError{Op: "append reading", Err: err}
	}
	return nil
}

func (r *RedisStore) ListReadings(sensorID string, since time.Time) ([]*domain.Reading, error) {
	raw, err := r.client.LRange(r.ctx, readingsKeyPref+sensorID, 0, -1).Result()
	if err != nil {
		return nil, &domain.StorageError{Op: "list readings", Err: err}
	}
	var out []*domain.Reading
	for _, item := range raw {
		var rd domain.Reading
		if err := json.Unmarshal([]byte(item), &rd); err != nil {
			return nil, &domain.StorageError{Op: "list readings", Err: err}
		}
		if !since.IsZero() && rd.Timestamp.Before(since) {
			continue
		}
		out = append(out, &rd)
	}
	return out, nil
}

func (r *RedisStore) AppendAnomaly(a *domain.Anomaly) error {
	data, err := json.Marshal(a)
	if err != nil {
		return &domain.StorageError{Op: "append anomaly", Err: err}
	}
	if err := r.client.RPush(r.ctx, anomaliesKey, data).Err(); err != nil {
		return &domain.StorageError{Op: "append anomaly", Err: err}
	}
	return nil
}

func (r *RedisStore) ListAnomalies() ([]*domain.Anomaly, error) {
	raw, err := r.client.LRange(r.ctx, anomaliesKey, 0, -1).Result()
	if err != nil {
		return nil, &domain.StorageError{Op: "list anomalies", Err: err}
	}
	var out []*domain.Anomaly
	for _, item := range raw {
		var a domain.Anomaly
		if err := json.Unmarshal([]byte(item), &a); err != nil {
			return nil, &domain.StorageError{Op: "list anomalies", Err: err}
		}
		out = append(out, &a)
	}
	return out, nil
}

// Close releases the underlying client connection pool.
func (r *RedisStore) Close() error {
	return r.client.Close()
}

var _ ports.Store = (*RedisStore)(nil)

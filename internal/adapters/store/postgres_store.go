package store

import (
	"database/sql"
	"time"

	"github.com/BlackRoad-OS/blackroad-ocean-data-collector/internal/domain"
	"github.com/BlackRoad-OS/blackroad-ocean-data-collector/internal/ports"
)

// PostgresStore persists the fleet in three append-friendly tables. Sensor
// upserts use ON CONFLICT so the ingest path can refresh status and the
// last-reading snapshot with a single statement.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the tables when they do not exist yet.
func (p *PostgresStore) EnsureSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sensors (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			type TEXT NOT NULL,
			lat DOUBLE PRECISION NOT NULL,
			lon DOUBLE PRECISION NOT NULL,
			depth_m DOUBLE PRECISION NOT NULL,
			status TEXT NOT NULL,
			last_temperature_c DOUBLE PRECISION,
			last_salinity_psu DOUBLE PRECISION,
			last_ph DOUBLE PRECISION,
			last_dissolved_o2_mgl DOUBLE PRECISION,
			last_current_ms DOUBLE PRECISION,
			last_reading_ts TIMESTAMPTZ,
			seq BIGSERIAL
		)`,
		`CREATE TABLE IF NOT EXISTS readings (
			id BIGSERIAL PRIMARY KEY,
			sensor_id TEXT NOT NULL REFERENCES sensors(id),
			ts TIMESTAMPTZ NOT NULL,
			temperature_c DOUBLE PRECISION,
			salinity_psu DOUBLE PRECISION,
			ph DOUBLE PRECISION,
			dissolved_o2_mgl DOUBLE PRECISION,
			current_ms DOUBLE PRECISION
		)`,
		`CREATE TABLE IF NOT EXISTS anomalies (
			id BIGSERIAL PRIMARY KEY,
			sensor_id TEXT NOT NULL REFERENCES sensors(id),
			ts TIMESTAMPTZ NOT NULL,
			parameter TEXT NOT NULL,
			value DOUBLE PRECISION NOT NULL,
			severity TEXT NOT NULL,
			message TEXT NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := p.db.Exec(stmt); err != nil {
			return &domain.StorageError{Op: "ensure schema", Err: err}
		}
	}
	return nil
}

const putSensorSQL = `INSERT INTO sensors ` +
	`(id, name, type, lat, lon, depth_m, status, last_temperature_c, last_salinity_psu, last_ph, last_dissolved_o2_mgl, last_current_ms, last_reading_ts) ` +
	`VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13) ` +
	`ON CONFLICT (id) DO UPDATE SET ` +
	`status = EXCLUDED.status, last_temperature_c = EXCLUDED.last_temperature_c, ` +
	`last_salinity_psu = EXCLUDED.last_salinity_psu, last_ph = EXCLUDED.last_ph, ` +
	`last_dissolved_o2_mgl = EXCLUDED.last_dissolved_o2_mgl, last_current_ms = EXCLUDED.last_current_ms, ` +
	`last_reading_ts = EXCLUDED.last_reading_ts`

func (p *PostgresStore) PutSensor(s *domain.Sensor) error {
	var (
		temp, sal, ph, o2, cur *float64
		ts                     *time.Time
	)
	if lr := s.LastReading; lr != nil {
		temp, sal, ph, o2, cur = lr.TemperatureC, lr.SalinityPSU, lr.PH, lr.DissolvedO2MgL, lr.CurrentVelocityMS
		ts = &lr.Timestamp
	}
	_, err := p.db.Exec(putSensorSQL,
		s.ID, s.Name, string(s.Type), s.Lat, s.Lon, s.DepthM, string(s.Status),
		temp, sal, ph, o2, cur, ts)
	if err != nil {
		return &domain.StorageError{Op: "put sensor", Err: err}
	}
	return nil
}

const sensorColumns = `id, name, type, lat, lon, depth_m, status, ` +
	`last_temperature_c, last_salinity_psu, last_ph, last_dissolved_o2_mgl, last_current_ms, last_reading_ts`

func (p *PostgresStore) GetSensor(id string) (*domain.Sensor, error) {
	row := p.db.QueryRow(`SELECT `+sensorColumns+` FROM sensors WHERE id = $1`, id)
	s, err := scanSensor(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &domain.StorageError{Op: "get sensor", Err: err}
	}
	return s, nil
}

func (p *PostgresStore) ListSensors() ([]*domain.Sensor, error) {
	rows, err := p.db.Query(`SELECT ` + sensorColumns + ` FROM sensors ORDER BY seq`)
	if err != nil {
		return nil, &domain.StorageError{Op: "list sensors", Err: err}
	}
	defer rows.Close()

	var out []*domain.Sensor
	for rows.Next() {
		s, err := scanSensor(rows)
		if err != nil {
			return nil, &domain.StorageError{Op: "list sensors", Err: err}
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.StorageError{Op: "list sensors", Err: err}
	}
	return out, nil
}

func (p *PostgresStore) AppendReading(r *domain.Reading) error {
	_, err := p.db.Exec(
		`INSERT INTO readings (sensor_id, ts, temperature_c, salinity_psu, ph, dissolved_o2_mgl, current_ms) VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		r.SensorID, r.Timestamp, r.TemperatureC, r.SalinityPSU, r.PH, r.DissolvedO2MgL, r.CurrentVelocityMS)
	if err != nil {
		return &domain.StorageError{Op: "append reading", Err: err}
	}
	return nil
}

func (p *PostgresStore) ListReadings(sensorID string, since time.Time) ([]*domain.Reading, error) {
	query := `SELECT sensor_id, ts, temperature_c, salinity_psu, ph, dissolved_o2_mgl, current_ms FROM readings WHERE sensor_id = $1`
	args := []any{sensorID}
	if !since.IsZero() {
		query += ` AND ts >= $2`
		args = append(args, since)
	}
	query += ` ORDER BY id`

	rows, err := p.db.Query(query, args...)
	if err != nil {
		return nil, &domain.StorageError{Op: "list readings", Err: err}
	}
	defer rows.Close()

	var out []*domain.Reading
	for rows.Next() {
		var (
			r                      domain.Reading
			temp, sal, ph, o2, cur sql.NullFloat64
		)
		if err := rows.Scan(&r.SensorID, &r.Timestamp, &temp, &sal, &ph, &o2, &cur); err != nil {
			return nil, &domain.StorageError{Op: "list readings", Err: err}
		}
		r.TemperatureC = nullableFloat(temp)
		r.SalinityPSU = nullableFloat(sal)
		r.PH = nullableFloat(ph)
		r.DissolvedO2MgL = nullableFloat(o2)
		r.CurrentVelocityMS = nullableFloat(cur)
		out = append(out, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.StorageError{Op: "list readings", Err: err}
	}
	return out, nil
}

func (p *PostgresStore) AppendAnomaly(a *domain.Anomaly) error {
	_, err := p.db.Exec(
		`INSERT INTO anomalies (sensor_id, ts, parameter, value, severity, message) VALUES ($1,$2,$3,$4,$5,$6)`,
		a.SensorID, a.Timestamp, string(a.Parameter), a.Value, string(a.Severity), a.Message)
	if err != nil {
		return &domain.StorageError{Op: "append anomaly", Err: err}
	}
	return nil
}

func (p *PostgresStore) ListAnomalies() ([]*domain.Anomaly, error) {
	rows, err := p.db.Query(`SELECT sensor_id, ts, parameter, value, severity, message FROM anomalies ORDER BY id`)
	if err != nil {
		return nil, &domain.StorageError{Op: "list anomalies", Err: err}
	}
	defer rows.Close()

	var out []*domain.Anomaly
	for rows.Next() {
		var a domain.Anomaly
		if err := rows.Scan(&a.SensorID, &a.Timestamp, &a.Parameter, &a.Value, &a.Severity, &a.Message); err != nil {
			return nil, &domain.StorageError{Op: "list anomalies", Err: err}
		}
		out = append(out, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.StorageError{Op: "list anomalies", Err: err}
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSensor(row rowScanner) (*domain.Sensor, error) {
	var (
		s                      domain.Sensor
		temp, sal, ph, o2, cur sql.NullFloat64
		ts                     sql.NullTime
	)
	if err := row.Scan(&s.ID, &s.Name, &s.Type, &s.Lat, &s.Lon, &s.DepthM, &s.Status,
		&temp, &sal, &ph, &o2, &cur, &ts); err != nil {
		return nil, err
	}
	if ts.Valid {
		s.LastReading = &domain.Reading{
			SensorID:          s.ID,
			Timestamp:         ts.Time,
			TemperatureC:      nullableFloat(temp),
			SalinityPSU:       nullableFloat(sal),
			PH:                nullableFloat(ph),
			DissolvedO2MgL:    nullableFloat(o2),
			CurrentVelocityMS: nullableFloat(cur),
		}
	}
	return &s, nil
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

var _ ports.Store = (*PostgresStore)(nil)

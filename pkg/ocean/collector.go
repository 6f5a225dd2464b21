// Package ocean is the embeddable facade over the collector: it wires the
// registry, ingestor, anomaly detector, and analytics engine onto a store
// backend and exposes simple lifecycle hooks for running the HTTP, metrics,
// and MQTT surfaces inside any Go service.
package ocean

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/BlackRoad-OS/blackroad-ocean-data-collector/internal/adapters/mqtt"
	"github.com/BlackRoad-OS/blackroad-ocean-data-collector/internal/adapters/observability"
	"github.com/BlackRoad-OS/blackroad-ocean-data-collector/internal/adapters/store"
	"github.com/BlackRoad-OS/blackroad-ocean-data-collector/internal/app/analytics"
	"github.com/BlackRoad-OS/blackroad-ocean-data-collector/internal/app/anomaly"
	"github.com/BlackRoad-OS/blackroad-ocean-data-collector/internal/app/config"
	"github.com/BlackRoad-OS/blackroad-ocean-data-collector/internal/app/ingest"
	"github.com/BlackRoad-OS/blackroad-ocean-data-collector/internal/app/registry"
	"github.com/BlackRoad-OS/blackroad-ocean-data-collector/internal/domain"
	"github.com/BlackRoad-OS/blackroad-ocean-data-collector/internal/ports"
	"github.com/BlackRoad-OS/blackroad-ocean-data-collector/internal/transport/httpapi"
)

// Option customizes the dependencies used by the Collector.
type Option func(*overrides)

type overrides struct {
	store         ports.Store
	observability ports.Observability
}

// WithStore injects a custom store implementation, bypassing the configured
// backend entirely.
func WithStore(s ports.Store) Option {
	return func(o *overrides) {
		o.store = s
	}
}

// WithObservability plugs in a custom observability backend (OpenTelemetry,
// structured logs, etc.).
func WithObservability(obs ports.Observability) Option {
	return func(o *overrides) {
		o.observability = obs
	}
}

// Collector owns every component of the running service.
type Collector struct {
	cfg   *config.Config
	obs   ports.Observability
	store ports.Store

	registry  *registry.Registry
	detector  *anomaly.Detector
	ingestor  *ingest.Ingestor
	analytics *analytics.Engine

	db         *sql.DB
	redisStore *store.RedisStore
	mqttSource *mqtt.Source
	httpSrv    *http.Server
	metricsSrv *http.Server
}

// New bootstraps the default adapters for the configured store backend and
// wires the core components on top. Option values override any dependency.
func New(cfg *config.Config, opts ...Option) (*Collector, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	var ov overrides
	for _, opt := range opts {
		if opt != nil {
			opt(&ov)
		}
	}

	obs := ov.observability
	if obs == nil {
		obs = observability.NewPromObs()
	}

	c := &Collector{cfg: cfg, obs: obs}

	st := ov.store
	if st == nil {
		var err error
		st, err = c.openStore()
		if err != nil {
			return nil, err
		}
	}
	c.store = st

	c.registry = registry.New(st, obs)
	c.detector = anomaly.New(st, obs)
	c.ingestor = ingest.New(c.registry, c.detector, st, obs)
	c.analytics = analytics.New(c.registry, st, obs, analytics.Options{
		ReferenceTempC:  cfg.Analytics.ReferenceTempC,
		MaxDepthFactorM: cfg.Analytics.MaxDepthFactorM,
		ExportTitle:     cfg.Analytics.ExportTitle,
	})

	if cfg.MQTT.Enabled {
		c.mqttSource = mqtt.NewSource(mqtt.Config{
			Broker:   cfg.MQTT.Broker,
			ClientID: cfg.MQTT.ClientID,
			Topic:    cfg.MQTT.Topic,
			Username: cfg.MQTT.Username,
			Password: cfg.MQTT.Password,
		}, c.ingestor, obs)
	}

	return c, nil
}

func (c *Collector) openStore() (ports.Store, error) {
	switch c.cfg.Store.Backend {
	case config.BackendMemory:
		return store.NewMemStore(), nil
	case config.BackendPostgres:
		db, err := sql.Open("postgres", c.cfg.Store.Postgres.ConnString)
		if err != nil {
			return nil, err
		}
		pg := store.NewPostgresStore(db)
		if err := pg.EnsureSchema(); err != nil {
			_ = db.Close()
			return nil, err
		}
		c.db = db
		return pg, nil
	case config.BackendRedis:
		rs, err := store.NewRedisStore(c.cfg.Store.Redis.Addr, c.cfg.Store.Redis.Password, c.cfg.Store.Redis.DB)
		if err != nil {
			return nil, err
		}
		c.redisStore = rs
		return rs, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", c.cfg.Store.Backend)
	}
}

// Registry exposes the sensor registry for embedding callers.
func (c *Collector) Registry() *registry.Registry { return c.registry }

// Ingestor exposes the reading ingestor for embedding callers.
func (c *Collector) Ingestor() *ingest.Ingestor { return c.ingestor }

// Detector exposes the anomaly detector for embedding callers.
func (c *Collector) Detector() *anomaly.Detector { return c.detector }

// Analytics exposes the analytics engine for embedding callers.
func (c *Collector) Analytics() *analytics.Engine { return c.analytics }

// Store exposes the backing store for embedding callers.
func (c *Collector) Store() ports.Store { return c.store }

// SeedDemoFleet deploys the three demonstration platforms when the fleet is
// empty. It is a no-op on a populated store, making it safe to call on every
// startup.
func (c *Collector) SeedDemoFleet() ([]*domain.Sensor, error) {
	existing, err := c.registry.FleetStatus()
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, nil
	}

	specs := []struct {
		name   string
		typ    domain.SensorType
		lat    float64
		lon    float64
		depthM float64
	}{
		{"Pacific Buoy", domain.TypeBuoy, 35.5, -120.3, 4000},
		{"Atlantic Mooring", domain.TypeMooring, 45.2, -30.1, 5000},
		{"Arctic Glider", domain.TypeGlider, 78.5, 15.2, 3000},
	}

	var deployed []*domain.Sensor
	for _, s := range specs {
		sensor, err := c.registry.Deploy(s.name, s.typ, s.lat, s.lon, s.depthM)
		if err != nil {
			return deployed, err
		}
		deployed = append(deployed, sensor)
	}
	c.obs.LogInfo("demo_fleet_seeded", ports.Field{Key: "sensors", Value: len(deployed)})
	return deployed, nil
}

// Start launches the HTTP API, metrics endpoint, and (when enabled) the MQTT
// source. It returns immediately; call Run to block on a context instead.
func (c *Collector) Start() error {
	if c == nil {
		return fmt.Errorf("collector is nil")
	}

	handler := httpapi.NewHandler(c.registry, c.ingestor, c.detector, c.analytics, c.obs)
	c.httpSrv = &http.Server{
		Addr:    c.cfg.HTTP.Addr,
		Handler: handler.Router(),
	}
	go func() {
		if err := c.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server exited: %v", err)
		}
	}()

	c.startMetrics()

	if c.mqttSource != nil {
		if err := c.mqttSource.Start(); err != nil {
			return err
		}
	}
	return nil
}

// Run starts the collector and blocks until the provided context is
// cancelled. Upon cancellation it attempts a graceful shutdown.
func (c *Collector) Run(ctx context.Context) error {
	if err := c.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return c.Shutdown(shutdownCtx)
}

// Shutdown stops the MQTT source, both HTTP servers, and the store backend.
func (c *Collector) Shutdown(ctx context.Context) error {
	var errs []error

	if c.mqttSource != nil {
		c.mqttSource.Stop()
	}

	if c.httpSrv != nil {
		if err := c.httpSrv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs = append(errs, err)
		}
	}

	if c.metricsSrv != nil {
		if err := c.metricsSrv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs = append(errs, err)
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if c.redisStore != nil {
		if err := c.redisStore.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (c *Collector) startMetrics() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	c.metricsSrv = &http.Server{
		Addr:    c.cfg.Metrics.Addr,
		Handler: mux,
	}

	go func() {
		if err := c.metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("metrics server exited: %v", err)
		}
	}()
}

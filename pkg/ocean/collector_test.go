package ocean

import (
	"testing"

	"github.com/BlackRoad-OS/blackroad-ocean-data-collector/internal/adapters/store"
	"github.com/BlackRoad-OS/blackroad-ocean-data-collector/internal/app/config"
	"github.com/BlackRoad-OS/blackroad-ocean-data-collector/internal/app/ingest"
	"github.com/BlackRoad-OS/blackroad-ocean-data-collector/internal/domain"
	"github.com/BlackRoad-OS/blackroad-ocean-data-collector/internal/ports"
)

// nop observability keeps repeated New calls from colliding on the default
// Prometheus registry.
func newCollector(t *testing.T, cfg *config.Config, opts ...Option) *Collector {
	t.Helper()
	opts = append(opts, WithObservability(ports.NopObservability{}))
	c, err := New(cfg, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestNewWiresMemoryBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Backend = config.BackendMemory
	c := newCollector(t, cfg)

	if c.Registry() == nil || c.Ingestor() == nil || c.Detector() == nil || c.Analytics() == nil {
		t.Fatal("core components not wired")
	}

	sensor, err := c.Registry().Deploy("Test Buoy", domain.TypeBuoy, 10, 10, 100)
	if err != nil {
		t.Fatalf("deploy through facade: %v", err)
	}
	m := ingest.Measurements{TemperatureC: domain.Float(12.3)}
	if _, err := c.Ingestor().Ingest(sensor.ID, m); err != nil {
		t.Fatalf("ingest through facade: %v", err)
	}
}

func TestNewRejectsNilConfig(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}

func TestWithStoreOverridesBackend(t *testing.T) {
	cfg := config.Default()
	// would fail to dial if the override were ignored
	cfg.Store.Backend = config.BackendPostgres
	cfg.Store.Postgres.ConnString = "postgres://nowhere/invalid"

	ms := store.NewMemStore()
	c := newCollector(t, cfg, WithStore(ms))
	if c.Store() != ms {
		t.Fatal("injected store was not used")
	}
}

func TestSeedDemoFleet(t *testing.T) {
	c := newCollector(t, config.Default())

	deployed, err := c.SeedDemoFleet()
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if len(deployed) != 3 {
		t.Fatalf("seeded %d sensors, want 3", len(deployed))
	}
	names := map[string]domain.SensorType{
		"Pacific Buoy":     domain.TypeBuoy,
		"Atlantic Mooring": domain.TypeMooring,
		"Arctic Glider":    domain.TypeGlider,
	}
	for _, s := range deployed {
		typ, ok := names[s.Name]
		if !ok {
			t.Fatalf("unexpected sensor %q", s.Name)
		}
		if s.Type != typ {
			t.Fatalf("sensor %q has type %q, want %q", s.Name, s.Type, typ)
		}
	}

	// second call is a no-op on a populated fleet
	again, err := c.SeedDemoFleet()
	if err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if again != nil {
		t.Fatalf("second seed deployed %d sensors, want none", len(again))
	}
	fleet, err := c.Registry().FleetStatus()
	if err != nil {
		t.Fatalf("fleet: %v", err)
	}
	if len(fleet) != 3 {
		t.Fatalf("fleet size = %d, want 3", len(fleet))
	}
}

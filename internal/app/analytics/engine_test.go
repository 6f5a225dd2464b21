package analytics

import (
	"strings"
	"testing"
	"time"

	"github.com/BlackRoad-OS/blackroad-ocean-data-collector/internal/adapters/store"
	"github.com/BlackRoad-OS/blackroad-ocean-data-collector/internal/app/registry"
	"github.com/BlackRoad-OS/blackroad-ocean-data-collector/internal/domain"
)

func newEngine(t *testing.T) (*Engine, *registry.Registry, *store.MemStore) {
	t.Helper()
	ms := store.NewMemStore()
	reg := registry.New(ms, nil)
	eng := New(reg, ms, nil, Options{})
	return eng, reg, ms
}

func deployWithTemp(t *testing.T, reg *registry.Registry, name string, depthM float64, tempC *float64) *domain.Sensor {
	t.Helper()
	s, err := reg.Deploy(name, domain.TypeBuoy, 10, 10, depthM)
	if err != nil {
		t.Fatalf("deploy: %v", err)
	}
	if tempC != nil {
		s.LastReading = &domain.Reading{SensorID: s.ID, Timestamp: time.Now(), TemperatureC: tempC}
		if err := reg.Save(s); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	return s
}

func TestHeatContentKnownValue(t *testing.T) {
	eng, reg, _ := newEngine(t)

	// depth 50 m stays under the 100 m bound: 1025 * 4000 * 20 * 50 / 1000.
	s := deployWithTemp(t, reg, "A", 50, domain.Float(20))

	report, err := eng.HeatContent([]string{s.ID})
	if err != nil {
		t.Fatalf("heat content: %v", err)
	}
	want := 1025.0 * 4000.0 * 20.0 * 50.0 / 1000.0
	if report.TotalHeatContentKJM2 != want {
		t.Fatalf("expected %f kJ/m², got %f", want, report.TotalHeatContentKJM2)
	}
	if report.SensorsSampled != 1 || len(report.PerSensor) != 1 {
		t.Fatalf("unexpected report shape: %+v", report)
	}
	if report.AverageKJM2 != want {
		t.Fatalf("average mismatch: %f", report.AverageKJM2)
	}
}

func TestHeatContentDepthFactorIsBounded(t *testing.T) {
	eng, reg, _ := newEngine(t)

	deep := deployWithTemp(t, reg, "Deep", 4000, domain.Float(10))

	report, err := eng.HeatContent([]string{deep.ID})
	if err != nil {
		t.Fatalf("heat content: %v", err)
	}
	if report.PerSensor[0].DepthFactorM != DefaultMaxDepthFactor {
		t.Fatalf("depth factor not bounded: %f", report.PerSensor[0].DepthFactorM)
	}
}

func TestHeatContentSkipsSensorsWithoutTemperature(t *testing.T) {
	eng, reg, _ := newEngine(t)

	a := deployWithTemp(t, reg, "NoReading", 100, nil)
	b, _ := reg.Deploy("NoTemp", domain.TypeCTD, 0, 0, 100)
	b.LastReading = &domain.Reading{SensorID: b.ID, Timestamp: time.Now(), SalinityPSU: domain.Float(35)}
	if err := reg.Save(b); err != nil {
		t.Fatalf("save: %v", err)
	}

	report, err := eng.HeatContent([]string{a.ID, b.ID})
	if err != nil {
		t.Fatalf("heat content: %v", err)
	}
	if report.TotalHeatContentKJM2 != 0 {
		t.Fatalf("expected zero total, got %f", report.TotalHeatContentKJM2)
	}
	if len(report.PerSensor) != 0 {
		t.Fatalf("expected no contribution entries, got %d", len(report.PerSensor))
	}
	if report.AverageKJM2 != 0 {
		t.Fatalf("expected zero average, got %f", report.AverageKJM2)
	}
}

func TestHeatContentUnknownSensorFailsFast(t *testing.T) {
	eng, reg, _ := newEngine(t)
	deployWithTemp(t, reg, "A", 100, domain.Float(20))

	_, err := eng.HeatContent([]string{"S_MISSING"})
	if !domain.IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestHeatContentDeterministic(t *testing.T) {
	eng, reg, _ := newEngine(t)
	s := deployWithTemp(t, reg, "A", 80, domain.Float(17.3))

	first, err := eng.HeatContent([]string{s.ID})
	if err != nil {
		t.Fatalf("heat content: %v", err)
	}
	second, err := eng.HeatContent([]string{s.ID})
	if err != nil {
		t.Fatalf("heat content: %v", err)
	}
	if first.TotalHeatContentKJM2 != second.TotalHeatContentKJM2 {
		t.Fatalf("same inputs must give same output")
	}
}

func TestTrendWindowAndOrder(t *testing.T) {
	eng, reg, ms := newEngine(t)
	s, _ := reg.Deploy("A", domain.TypeBuoy, 10, 10, 100)

	now := time.Now()
	// Insert out of timestamp order to prove sorting; one entry is stale and
	// one lacks the requested parameter.
	entries := []struct {
		age  time.Duration
		temp *float64
	}{
		{2 * time.Hour, domain.Float(16)},
		{30 * time.Hour, domain.Float(10)}, // outside the 24h window
		{10 * time.Hour, domain.Float(14)},
		{1 * time.Hour, nil}, // no temperature
		{5 * time.Hour, domain.Float(15)},
	}
	for _, e := range entries {
		r := &domain.Reading{SensorID: s.ID, Timestamp: now.Add(-e.age), TemperatureC: e.temp}
		if err := ms.AppendReading(r); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	points, err := eng.Trend(s.ID, domain.ParamTemperature, 24)
	if err != nil {
		t.Fatalf("trend: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}
	wantValues := []float64{14, 15, 16}
	for i, want := range wantValues {
		if points[i].Value != want {
			t.Fatalf("position %d: expected %f, got %f", i, want, points[i].Value)
		}
	}
	for i := 1; i < len(points); i++ {
		if points[i].Timestamp.Before(points[i-1].Timestamp) {
			t.Fatalf("points not in non-decreasing timestamp order")
		}
	}
}

func TestTrendUnknownSensor(t *testing.T) {
	eng, _, _ := newEngine(t)
	_, err := eng.Trend("S_MISSING", domain.ParamTemperature, 24)
	if !domain.IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestHeatmapEmptyFleet(t *testing.T) {
	eng, _, _ := newEngine(t)

	grid, err := eng.HeatmapASCII(domain.ParamTemperature)
	if err != nil {
		t.Fatalf("heatmap: %v", err)
	}

	rows := 0
	for _, line := range splitLines(grid) {
		rows++
		if len([]rune(line)) != heatmapCols {
			t.Fatalf("row width %d, expected %d", len([]rune(line)), heatmapCols)
		}
		for _, r := range line {
			if r != cellEmpty {
				t.Fatalf("empty fleet must render only %q, found %q", cellEmpty, r)
			}
		}
	}
	if rows != heatmapRows {
		t.Fatalf("expected %d rows, got %d", heatmapRows, rows)
	}
}

func TestHeatmapPlacesAndTiersSensors(t *testing.T) {
	eng, reg, _ := newEngine(t)

	warm, _ := reg.Deploy("Warm", domain.TypeBuoy, 35.5, -120.3, 4000)
	warm.LastReading = &domain.Reading{SensorID: warm.ID, Timestamp: time.Now(), TemperatureC: domain.Float(27)}
	_ = reg.Save(warm)

	cold, _ := reg.Deploy("Cold", domain.TypeGlider, 78.5, 15.2, 3000)
	cold.LastReading = &domain.Reading{SensorID: cold.ID, Timestamp: time.Now(), TemperatureC: domain.Float(2)}
	_ = reg.Save(cold)

	grid, err := eng.HeatmapASCII(domain.ParamTemperature)
	if err != nil {
		t.Fatalf("heatmap: %v", err)
	}
	lines := splitLines(grid)

	// lat 35.5 → row 5, lon -120.3 → col 5; warm tier renders █.
	if got := []rune(lines[5])[5]; got != cellHigh {
		t.Fatalf("warm cell: expected %q, got %q", cellHigh, got)
	}
	// lat 78.5 → row 1, lon 15.2 → col 19; cold tier renders ░.
	if got := []rune(lines[1])[19]; got != cellLow {
		t.Fatalf("cold cell: expected %q, got %q", cellLow, got)
	}
}

func TestHeatmapRejectsUnknownParameter(t *testing.T) {
	eng, _, _ := newEngine(t)
	_, err := eng.HeatmapASCII(domain.ParamPH)
	if !domain.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestSnapshotLayout(t *testing.T) {
	eng, reg, _ := newEngine(t)

	a, _ := reg.Deploy("A", domain.TypeBuoy, 35.5, -120.3, 4000)
	a.LastReading = &domain.Reading{
		SensorID:     a.ID,
		Timestamp:    time.Now(),
		TemperatureC: domain.Float(18.5),
		SalinityPSU:  domain.Float(34.2),
	}
	_ = reg.Save(a)

	// Registered but never reported: counted as a station, no data points.
	_, _ = reg.Deploy("B", domain.TypeMooring, 45.2, -30.1, 5000)

	snap, err := eng.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.Dimensions.Time != "unlimited" || snap.Dimensions.Station != 2 {
		t.Fatalf("unexpected dimensions: %+v", snap.Dimensions)
	}
	if snap.Variables["temperature"].Units != "degC" || snap.Variables["salinity"].Units != "PSU" {
		t.Fatalf("unexpected units: %+v", snap.Variables)
	}
	if len(snap.Variables["temperature"].Data) != 1 || snap.Variables["temperature"].Data[0] != 18.5 {
		t.Fatalf("unexpected temperature data: %+v", snap.Variables["temperature"].Data)
	}
	// Absent values are omitted, not padded.
	if len(snap.Variables["ph"].Data) != 0 {
		t.Fatalf("ph data should be empty: %+v", snap.Variables["ph"].Data)
	}
	if snap.Metadata.Title == "" || snap.Metadata.Created == "" {
		t.Fatalf("metadata incomplete: %+v", snap.Metadata)
	}
}

func splitLines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

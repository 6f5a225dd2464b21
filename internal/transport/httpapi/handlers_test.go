package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/BlackRoad-OS/blackroad-ocean-data-collector/internal/adapters/store"
	"github.com/BlackRoad-OS/blackroad-ocean-data-collector/internal/app/analytics"
	"github.com/BlackRoad-OS/blackroad-ocean-data-collector/internal/app/anomaly"
	"github.com/BlackRoad-OS/blackroad-ocean-data-collector/internal/app/ingest"
	"github.com/BlackRoad-OS/blackroad-ocean-data-collector/internal/app/registry"
	"github.com/BlackRoad-OS/blackroad-ocean-data-collector/internal/domain"
)

func newTestHandler(t *testing.T) (*Handler, *registry.Registry) {
	t.Helper()
	st := store.NewMemStore()
	reg := registry.New(st, nil)
	det := anomaly.New(st, nil)
	ing := ingest.New(reg, det, st, nil)
	eng := analytics.New(reg, st, nil, analytics.Options{})
	return NewHandler(reg, ing, det, eng, nil), reg
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestDeployAndGetSensor(t *testing.T) {
	h, _ := newTestHandler(t)
	router := h.Router()

	rec := doJSON(t, router, http.MethodPost, "/sensors", deployRequest{
		Name: "Pacific Buoy", Type: "buoy", Lat: 35.5, Lon: -120.3, DepthM: 4000,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("deploy status = %d, want 201 (body %s)", rec.Code, rec.Body.String())
	}

	var sensor domain.Sensor
	if err := json.Unmarshal(rec.Body.Bytes(), &sensor); err != nil {
		t.Fatalf("decode sensor: %v", err)
	}
	if !strings.HasPrefix(sensor.ID, "S_") {
		t.Fatalf("sensor id = %q, want S_ prefix", sensor.ID)
	}

	rec = doJSON(t, router, http.MethodGet, "/sensors/"+sensor.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d, want 200", rec.Code)
	}
	var got domain.Sensor
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode sensor: %v", err)
	}
	if got.Name != "Pacific Buoy" || got.Status != domain.StatusActive {
		t.Fatalf("got sensor %+v", got)
	}
}

func TestDeployValidationMapsTo400(t *testing.T) {
	h, _ := newTestHandler(t)
	router := h.Router()

	rec := doJSON(t, router, http.MethodPost, "/sensors", deployRequest{
		Name: "Bad", Type: "submarine", Lat: 0, Lon: 0, DepthM: 10,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if resp.Error == "" {
		t.Fatal("error body is empty")
	}
}

func TestMalformedBodyMapsTo400(t *testing.T) {
	h, _ := newTestHandler(t)
	router := h.Router()

	req := httptest.NewRequest(http.MethodPost, "/sensors", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestUnknownSensorMapsTo404(t *testing.T) {
	h, _ := newTestHandler(t)
	router := h.Router()

	rec := doJSON(t, router, http.MethodGet, "/sensors/S_MISSING99", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestIngestAndTrend(t *testing.T) {
	h, reg := newTestHandler(t)
	router := h.Router()

	sensor, err := reg.Deploy("Mooring", domain.TypeMooring, 45.2, -30.1, 5000)
	if err != nil {
		t.Fatalf("deploy: %v", err)
	}

	rec := doJSON(t, router, http.MethodPost, "/sensors/"+sensor.ID+"/readings", ingest.Measurements{
		TemperatureC: domain.Float(18.5),
		SalinityPSU:  domain.Float(35.1),
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("ingest status = %d, want 201 (body %s)", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodGet, "/sensors/"+sensor.ID+"/trend?parameter=temperature", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("trend status = %d, want 200", rec.Code)
	}
	var points []analytics.TrendPoint
	if err := json.Unmarshal(rec.Body.Bytes(), &points); err != nil {
		t.Fatalf("decode points: %v", err)
	}
	if len(points) != 1 || points[0].Value != 18.5 {
		t.Fatalf("points = %+v, want one point of 18.5", points)
	}
}

func TestTrendRejectsBadWindow(t *testing.T) {
	h, reg := newTestHandler(t)
	router := h.Router()

	sensor, err := reg.Deploy("Glider", domain.TypeGlider, 78.5, 15.2, 3000)
	if err != nil {
		t.Fatalf("deploy: %v", err)
	}

	rec := doJSON(t, router, http.MethodGet, "/sensors/"+sensor.ID+"/trend?window_hours=zero", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestFleetScanAndSummary(t *testing.T) {
	h, reg := newTestHandler(t)
	router := h.Router()

	sensor, err := reg.Deploy("Hot Buoy", domain.TypeBuoy, 10, 10, 100)
	if err != nil {
		t.Fatalf("deploy: %v", err)
	}
	rec := doJSON(t, router, http.MethodPost, "/sensors/"+sensor.ID+"/readings", ingest.Measurements{
		TemperatureC: domain.Float(31.4),
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("ingest status = %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/anomalies", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("scan status = %d, want 200", rec.Code)
	}
	var anomalies []*domain.Anomaly
	if err := json.Unmarshal(rec.Body.Bytes(), &anomalies); err != nil {
		t.Fatalf("decode anomalies: %v", err)
	}
	if len(anomalies) != 1 || anomalies[0].Severity != domain.SeverityCritical {
		t.Fatalf("anomalies = %+v, want one critical", anomalies)
	}

	rec = doJSON(t, router, http.MethodGet, "/anomalies/summary", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("summary status = %d, want 200", rec.Code)
	}
	var summary anomaly.Summary
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.Total != 1 {
		t.Fatalf("summary total = %d, want 1", summary.Total)
	}
}

func TestHeatContentEndpoint(t *testing.T) {
	h, reg := newTestHandler(t)
	router := h.Router()

	sensor, err := reg.Deploy("Deep", domain.TypeMooring, 0, 0, 50)
	if err != nil {
		t.Fatalf("deploy: %v", err)
	}
	rec := doJSON(t, router, http.MethodPost, "/sensors/"+sensor.ID+"/readings", ingest.Measurements{
		TemperatureC: domain.Float(20),
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("ingest status = %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/analytics/heat-content", heatContentRequest{
		SensorIDs: []string{sensor.ID},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	var report analytics.HeatContentReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	// 1025 * 4000 * 20 * 50 / 1000
	if report.TotalHeatContentKJM2 != 4100000 {
		t.Fatalf("total = %v, want 4100000", report.TotalHeatContentKJM2)
	}

	rec = doJSON(t, router, http.MethodPost, "/analytics/heat-content", heatContentRequest{
		SensorIDs: []string{"S_NOPE00"},
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown id status = %d, want 404", rec.Code)
	}
}

func TestHeatmapEndpoint(t *testing.T) {
	h, _ := newTestHandler(t)
	router := h.Router()

	rec := doJSON(t, router, http.MethodGet, "/analytics/heatmap", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("content type = %q, want text/plain", ct)
	}
	if !strings.Contains(rec.Body.String(), "·") {
		t.Fatal("empty-fleet heatmap should contain empty cells")
	}

	rec = doJSON(t, router, http.MethodGet, "/analytics/heatmap?parameter=ph", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unsupported parameter status = %d, want 400", rec.Code)
	}
}

func TestExportEndpoint(t *testing.T) {
	h, reg := newTestHandler(t)
	router := h.Router()

	if _, err := reg.Deploy("Station", domain.TypeBuoy, 1, 2, 30); err != nil {
		t.Fatalf("deploy: %v", err)
	}

	rec := doJSON(t, router, http.MethodGet, "/export", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var snap analytics.ExportSnapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snap.Dimensions.Station != 1 {
		t.Fatalf("station dimension = %d, want 1", snap.Dimensions.Station)
	}
}

func TestHealthz(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := doJSON(t, h.Router(), http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

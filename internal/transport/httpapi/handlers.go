// Package httpapi exposes the collector's operations over REST. It is glue:
// every handler delegates to a core component and maps domain errors onto
// status codes.
package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/BlackRoad-OS/blackroad-ocean-data-collector/internal/app/analytics"
	"github.com/BlackRoad-OS/blackroad-ocean-data-collector/internal/app/anomaly"
	"github.com/BlackRoad-OS/blackroad-ocean-data-collector/internal/app/ingest"
	"github.com/BlackRoad-OS/blackroad-ocean-data-collector/internal/app/registry"
	"github.com/BlackRoad-OS/blackroad-ocean-data-collector/internal/domain"
	"github.com/BlackRoad-OS/blackroad-ocean-data-collector/internal/ports"
)

type Handler struct {
	registry  *registry.Registry
	ingestor  *ingest.Ingestor
	detector  *anomaly.Detector
	analytics *analytics.Engine
	obs       ports.Observability
}

func NewHandler(reg *registry.Registry, ing *ingest.Ingestor, det *anomaly.Detector, eng *analytics.Engine, obs ports.Observability) *Handler {
	if obs == nil {
		obs = ports.NopObservability{}
	}
	return &Handler{registry: reg, ingestor: ing, detector: det, analytics: eng, obs: obs}
}

// Router wires all routes onto a mux router with the latency middleware.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(h.latencyMiddleware)

	r.HandleFunc("/sensors", h.deploySensor).Methods(http.MethodPost)
	r.HandleFunc("/sensors", h.fleetStatus).Methods(http.MethodGet)
	r.HandleFunc("/sensors/{id}", h.getSensor).Methods(http.MethodGet)
	r.HandleFunc("/sensors/{id}/readings", h.ingestReading).Methods(http.MethodPost)
	r.HandleFunc("/sensors/{id}/trend", h.trend).Methods(http.MethodGet)
	r.HandleFunc("/anomalies", h.fleetScan).Methods(http.MethodGet)
	r.HandleFunc("/anomalies/summary", h.alertSummary).Methods(http.MethodGet)
	r.HandleFunc("/analytics/heat-content", h.heatContent).Methods(http.MethodPost)
	r.HandleFunc("/analytics/heatmap", h.heatmap).Methods(http.MethodGet)
	r.HandleFunc("/export", h.export).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	return r
}

func (h *Handler) latencyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		h.obs.ObserveLatency("ocean_http_request_seconds", time.Since(start).Seconds())
	})
}

type deployRequest struct {
	Name   string  `json:"name"`
	Type   string  `json:"type"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	DepthM float64 `json:"depth_m"`
}

func (h *Handler) deploySensor(w http.ResponseWriter, r *http.Request) {
	var req deployRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, &domain.ValidationError{Field: "body", Reason: "malformed JSON"})
		return
	}

	sensor, err := h.registry.Deploy(req.Name, domain.SensorType(req.Type), req.Lat, req.Lon, req.DepthM)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, sensor)
}

func (h *Handler) fleetStatus(w http.ResponseWriter, _ *http.Request) {
	fleet, err := h.registry.FleetStatus()
	if err != nil {
		h.respondError(w, err)
		return
	}
	if fleet == nil {
		fleet = []*domain.Sensor{}
	}
	h.respondJSON(w, http.StatusOK, fleet)
}

func (h *Handler) getSensor(w http.ResponseWriter, r *http.Request) {
	sensor, err := h.registry.Get(mux.Vars(r)["id"])
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, sensor)
}

func (h *Handler) ingestReading(w http.ResponseWriter, r *http.Request) {
	var m ingest.Measurements
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		h.respondError(w, &domain.ValidationError{Field: "body", Reason: "malformed JSON"})
		return
	}

	reading, err := h.ingestor.Ingest(mux.Vars(r)["id"], m)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, reading)
}

func (h *Handler) trend(w http.ResponseWriter, r *http.Request) {
	param := domain.Parameter(r.URL.Query().Get("parameter"))
	if param == "" {
		param = domain.ParamTemperature
	}
	windowHours := 24
	if v := r.URL.Query().Get("window_hours"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			h.respondError(w, &domain.ValidationError{Field: "window_hours", Reason: "must be a positive integer"})
			return
		}
		windowHours = parsed
	}

	points, err := h.analytics.Trend(mux.Vars(r)["id"], param, windowHours)
	if err != nil {
		h.respondError(w, err)
		return
	}
	if points == nil {
		points = []analytics.TrendPoint{}
	}
	h.respondJSON(w, http.StatusOK, points)
}

func (h *Handler) fleetScan(w http.ResponseWriter, _ *http.Request) {
	anomalies, err := h.detector.FleetScan()
	if err != nil {
		h.respondError(w, err)
		return
	}
	if anomalies == nil {
		anomalies = []*domain.Anomaly{}
	}
	h.respondJSON(w, http.StatusOK, anomalies)
}

func (h *Handler) alertSummary(w http.ResponseWriter, _ *http.Request) {
	summary, err := h.detector.AlertSummary()
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, summary)
}

type heatContentRequest struct {
	SensorIDs []string `json:"sensor_ids"`
}

func (h *Handler) heatContent(w http.ResponseWriter, r *http.Request) {
	var req heatContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, &domain.ValidationError{Field: "body", Reason: "malformed JSON"})
		return
	}

	report, err := h.analytics.HeatContent(req.SensorIDs)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, report)
}

func (h *Handler) heatmap(w http.ResponseWriter, r *http.Request) {
	param := domain.Parameter(r.URL.Query().Get("parameter"))
	if param == "" {
		param = domain.ParamTemperature
	}

	grid, err := h.analytics.HeatmapASCII(param)
	if err != nil {
		h.respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(grid))
}

func (h *Handler) export(w http.ResponseWriter, _ *http.Request) {
	snap, err := h.analytics.Snapshot()
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, snap)
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.obs.LogError("http_encode_response", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case domain.IsValidation(err):
		status = http.StatusBadRequest
	case domain.IsNotFound(err):
		status = http.StatusNotFound
	case domain.IsStorage(err):
		status = http.StatusBadGateway
	}
	if status >= http.StatusInternalServerError {
		h.obs.LogError("http_request_failed", err)
	}
	h.respondJSON(w, status, errorResponse{Error: err.Error()})
}

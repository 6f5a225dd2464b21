package analytics

import (
	"encoding/json"
	"os"
	"time"

	"github.com/BlackRoad-OS/blackroad-ocean-data-collector/internal/domain"
)

// ExportVariable is one variable block in the snapshot. Sensors lacking a
// value for the variable are omitted from Data rather than padded with a
// sentinel, so array lengths may differ between variables.
type ExportVariable struct {
	Units string    `json:"units"`
	Data  []float64 `json:"data"`
}

type ExportDimensions struct {
	Time    string `json:"time"`
	Station int    `json:"station"`
}

type ExportMetadata struct {
	Title   string `json:"title"`
	Source  string `json:"source"`
	Created string `json:"created"`
}

// ExportSnapshot is the NetCDF-shaped JSON stub consumed by downstream tools.
// It mirrors the classic dimensions/variables/metadata layout but is not a
// binary NetCDF file.
type ExportSnapshot struct {
	Dimensions ExportDimensions          `json:"dimensions"`
	Variables  map[string]ExportVariable `json:"variables"`
	Metadata   ExportMetadata            `json:"metadata"`
}

// Snapshot assembles the export structure from every sensor's last reading.
func (e *Engine) Snapshot() (*ExportSnapshot, error) {
	sensors, err := e.store.ListSensors()
	if err != nil {
		return nil, err
	}

	vars := map[string]ExportVariable{
		"lat":              {Units: "degrees_north"},
		"lon":              {Units: "degrees_east"},
		"depth":            {Units: "meters"},
		"temperature":      {Units: "degC"},
		"salinity":         {Units: "PSU"},
		"ph":               {Units: "pH"},
		"dissolved_oxygen": {Units: "mg/L"},
	}
	appendVar := func(name string, v float64) {
		entry := vars[name]
		entry.Data = append(entry.Data, v)
		vars[name] = entry
	}

	for _, s := range sensors {
		lr := s.LastReading
		if lr == nil {
			continue
		}
		appendVar("lat", s.Lat)
		appendVar("lon", s.Lon)
		appendVar("depth", s.DepthM)
		if v, ok := lr.Value(domain.ParamTemperature); ok {
			appendVar("temperature", v)
		}
		if v, ok := lr.Value(domain.ParamSalinity); ok {
			appendVar("salinity", v)
		}
		if v, ok := lr.Value(domain.ParamPH); ok {
			appendVar("ph", v)
		}
		if v, ok := lr.Value(domain.ParamDissolvedO2); ok {
			appendVar("dissolved_oxygen", v)
		}
	}

	return &ExportSnapshot{
		Dimensions: ExportDimensions{Time: "unlimited", Station: len(sensors)},
		Variables:  vars,
		Metadata: ExportMetadata{
			Title:   e.exportTitle,
			Source:  "Distributed Sensor Network",
			Created: e.now().Format(time.RFC3339),
		},
	}, nil
}

// ExportNetCDFStub writes the snapshot as indented JSON to path.
func (e *Engine) ExportNetCDFStub(path string) error {
	snap, err := e.Snapshot()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

package analytics

import (
	"strings"

	"github.com/BlackRoad-OS/blackroad-ocean-data-collector/internal/domain"
)

// Heatmap grid geometry: fixed 10°×10° cells over the full lat/lon domain,
// rendered north→south, west→east. Kept fixed so renderings stay comparable
// across runs.
const (
	heatmapCellDeg = 10
	heatmapRows    = 180 / heatmapCellDeg
	heatmapCols    = 360 / heatmapCellDeg

	cellEmpty = '·'
	cellLow   = '░'
	cellMid   = '▒'
	cellHigh  = '█'
)

// intensity tiers per parameter, cell mean compared against (mid, high).
var heatmapTiers = map[domain.Parameter][2]float64{
	domain.ParamTemperature: {15, 25},
	domain.ParamSalinity:    {33, 35},
}

// HeatmapASCII buckets every sensor with a current value for the parameter
// into the grid and renders one intensity rune per cell (cell mean when
// several sensors share a cell). Only "temperature" and "salinity" are
// renderable. Zero sensors produce a grid made entirely of the empty symbol.
func (e *Engine) HeatmapASCII(param domain.Parameter) (string, error) {
	tiers, ok := heatmapTiers[param]
	if !ok {
		return "", &domain.ValidationError{Field: "parameter", Reason: "heatmap supports temperature or salinity"}
	}

	sensors, err := e.store.ListSensors()
	if err != nil {
		return "", err
	}

	var sum, count [heatmapRows][heatmapCols]float64
	for _, s := range sensors {
		if s.LastReading == nil {
			continue
		}
		v, ok := s.LastReading.Value(param)
		if !ok {
			continue
		}
		row, col := cellOf(s.Lat, s.Lon)
		sum[row][col] += v
		count[row][col]++
	}

	var b strings.Builder
	for row := 0; row < heatmapRows; row++ {
		for col := 0; col < heatmapCols; col++ {
			if count[row][col] == 0 {
				b.WriteRune(cellEmpty)
				continue
			}
			mean := sum[row][col] / count[row][col]
			switch {
			case mean > tiers[1]:
				b.WriteRune(cellHigh)
			case mean > tiers[0]:
				b.WriteRune(cellMid)
			default:
				b.WriteRune(cellLow)
			}
		}
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// cellOf maps coordinates to grid indices. Row 0 is the 80..90°N band; the
// domain edges (lat −90, lon 180) clamp into the last cell.
func cellOf(lat, lon float64) (row, col int) {
	row = int((90 - lat) / heatmapCellDeg)
	if row >= heatmapRows {
		row = heatmapRows - 1
	}
	if row < 0 {
		row = 0
	}
	col = int((lon + 180) / heatmapCellDeg)
	if col >= heatmapCols {
		col = heatmapCols - 1
	}
	if col < 0 {
		col = 0
	}
	return row, col
}

package domain

// SensorType identifies the deployment platform of an ocean sensor.
type SensorType string

const (
	TypeBuoy      SensorType = "buoy"
	TypeArgoFloat SensorType = "argo_float"
	TypeGlider    SensorType = "glider"
	TypeMooring   SensorType = "mooring"
	TypeAUV       SensorType = "auv"
	TypeCTD       SensorType = "ctd"
)

// SensorTypes lists every recognized platform, in a stable order.
var SensorTypes = []SensorType{TypeBuoy, TypeArgoFloat, TypeGlider, TypeMooring, TypeAUV, TypeCTD}

// Valid reports whether t is one of the recognized platform types.
func (t SensorType) Valid() bool {
	for _, known := range SensorTypes {
		if t == known {
			return true
		}
	}
	return false
}

// SensorStatus is the operational state of a sensor.
type SensorStatus string

const (
	StatusActive      SensorStatus = "active"
	StatusInactive    SensorStatus = "inactive"
	StatusMaintenance SensorStatus = "maintenance"
)

// Sensor is one registered platform in the fleet. ID is immutable after
// deployment; Status and LastReading are the only fields mutated afterwards,
// and only by the ingest path.
type Sensor struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Type        SensorType   `json:"type"`
	Lat         float64      `json:"lat"`
	Lon         float64      `json:"lon"`
	DepthM      float64      `json:"depth_m"`
	Status      SensorStatus `json:"status"`
	LastReading *Reading     `json:"last_reading"`
}

package model

import "time"

// TelemetryStatus is the health state reported in a telemetry snapshot.
type TelemetryStatus string

const (
	StatusOK          TelemetryStatus = "OK"
	StatusLowPower    TelemetryStatus = "LOW_POWER"
	StatusError       TelemetryStatus = "ERROR"
	StatusMaintenance TelemetryStatus = "MAINTENANCE"
)

// TelemetryStatuses lists every valid status in a stable order; uniform
// draws in the telemetry simulator index into it.
var TelemetryStatuses = [...]TelemetryStatus{StatusOK, StatusLowPower, StatusError, StatusMaintenance}

// Valid reports whether the status is one of the known values.
func (s TelemetryStatus) Valid() bool {
	switch s {
	case StatusOK, StatusLowPower, StatusError, StatusMaintenance:
		return true
	}
	return false
}

// Telemetry is a synthetic health snapshot produced once per admitted
// contact window.
type Telemetry struct {
	SatelliteID     string
	GroundStationID string
	Timestamp       time.Time
	// BatteryLevel is the charge percentage in [0,100].
	BatteryLevel float64
	// TemperatureC is the bus temperature in degrees Celsius.
	TemperatureC float64
	PositionLat  float64
	PositionLon  float64
	Status       TelemetryStatus
}

package core

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/signalsfoundry/contact-scheduler/model"
)

const (
	minBatteryLevel = 20.0
	maxBatteryLevel = 100.0
	minTemperatureC = -40.0
	maxTemperatureC = 85.0
)

// TelemetrySimulator fabricates health snapshots for admitted contact
// windows. Pure aside from the injected randomness.
type TelemetrySimulator struct {
	rng *rand.Rand
}

// NewTelemetrySimulator creates a simulator drawing from rng. A nil rng
// gets a time-seeded one; inject a fixed seed for deterministic tests.
func NewTelemetrySimulator(rng *rand.Rand) *TelemetrySimulator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &TelemetrySimulator{rng: rng}
}

// SimulateTelemetry builds the health snapshot for one admitted window.
// Position is recomputed at the window's generation instant; battery,
// temperature and status are uniform draws. Callers filter to admitted
// windows themselves.
func (t *TelemetrySimulator) SimulateTelemetry(w model.ContactWindow, orbitPeriodMin int) (model.Telemetry, error) {
	num, err := model.SatelliteNumber(w.SatelliteID)
	if err != nil {
		return model.Telemetry{}, err
	}
	pos, err := SimulatePosition(orbitPeriodMin, w.Timestamp, num)
	if err != nil {
		return model.Telemetry{}, fmt.Errorf("satellite %s: %w", w.SatelliteID, err)
	}

	battery := minBatteryLevel + t.rng.Float64()*(maxBatteryLevel-minBatteryLevel)
	temperature := minTemperatureC + t.rng.Float64()*(maxTemperatureC-minTemperatureC)
	status := model.TelemetryStatuses[t.rng.Intn(len(model.TelemetryStatuses))]

	return model.Telemetry{
		SatelliteID:     w.SatelliteID,
		GroundStationID: w.GroundStationID,
		Timestamp:       w.Timestamp,
		BatteryLevel:    roundTo(battery, 2),
		TemperatureC:    roundTo(temperature, 1),
		PositionLat:     roundTo(pos.LatDeg, 6),
		PositionLon:     roundTo(pos.LonDeg, 6),
		Status:          status,
	}, nil
}

// roundTo rounds v to the given number of decimal places.
func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

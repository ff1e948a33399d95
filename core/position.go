package core

import (
	"fmt"
	"math"
	"time"

	"github.com/signalsfoundry/contact-scheduler/model"
)

// GeoPosition is a simulated sub-satellite point in degrees.
type GeoPosition struct {
	LatDeg float64
	LonDeg float64
}

// SimulatePosition maps (orbit period, instant, phase offset) to a point
// on the satellite's simulated ground track. The instant is discretised
// to whole minutes of the UTC day-hour: seconds and finer resolution are
// intentionally discarded, so positions only change minute to minute.
//
// The model is a simple periodic sweep: the satellite advances through
// 360 degrees of phase once per orbit period, latitude oscillates
// sinusoidally within [-60,60] and longitude wraps through [-180,180).
// Identical inputs always yield identical output.
//
// A non-positive orbit period fails with model.ErrInvalidOrbitPeriod.
func SimulatePosition(orbitPeriodMin int, at time.Time, offset int) (GeoPosition, error) {
	if orbitPeriodMin <= 0 {
		return GeoPosition{}, fmt.Errorf("%w: %d min", model.ErrInvalidOrbitPeriod, orbitPeriodMin)
	}

	utc := at.UTC()
	minutes := utc.Hour()*60 + utc.Minute() + offset
	angle := wrap360(360 * float64(minutes) / float64(orbitPeriodMin))

	return GeoPosition{
		LatDeg: math.Sin(radians(angle)) * 60,
		LonDeg: wrap360(angle-180) - 180,
	}, nil
}

// PositionForSatellite derives the phase offset from the satellite's
// numeric ID suffix and simulates its position at the given instant.
// Malformed IDs propagate model.ErrInvalidSatelliteID.
func PositionForSatellite(sat model.Satellite, at time.Time) (GeoPosition, error) {
	offset, err := model.SatelliteNumber(sat.ID)
	if err != nil {
		return GeoPosition{}, err
	}
	return SimulatePosition(sat.OrbitPeriodMin, at, offset)
}

package catalog

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/signalsfoundry/contact-scheduler/model"
)

// GroundSegment summarizes what a load added to the catalog, mainly for
// logging from main().
type GroundSegment struct {
	SatelliteIDs     []string
	GroundStationIDs []string
}

// Unexported JSON shapes keep the wire format free to evolve independently
// of the model types.
type groundSegmentJSON struct {
	Satellites     []satelliteJSON     `json:"satellites"`
	GroundStations []groundStationJSON `json:"ground_stations"`
}

type satelliteJSON struct {
	ID             string `json:"id"`
	OrbitPeriodMin int    `json:"orbit_period_min"`
	Priority       *int   `json:"priority"` // optional; defaults to the lowest tier
}

type groundStationJSON struct {
	ID       string  `json:"id"`
	Location string  `json:"location"`
	Capacity *int    `json:"capacity"` // optional; defaults to 1
	LatDeg   float64 `json:"lat_deg"`
	LonDeg   float64 `json:"lon_deg"`
}

// LoadGroundSegment reads a JSON fleet and ground-segment description from r,
// populates the catalog, and returns a summary of what was loaded.
//
// Structural problems (bad JSON, invalid or duplicate entries) abort the load
// with an error; entries added before the failure stay in the catalog.
func LoadGroundSegment(cat *Catalog, r io.Reader) (*GroundSegment, error) {
	if cat == nil {
		return nil, fmt.Errorf("LoadGroundSegment: catalog is nil")
	}

	var payload groundSegmentJSON
	dec := json.NewDecoder(r)
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("LoadGroundSegment: decode failed: %w", err)
	}

	result := &GroundSegment{
		SatelliteIDs:     make([]string, 0, len(payload.Satellites)),
		GroundStationIDs: make([]string, 0, len(payload.GroundStations)),
	}

	// 1) Satellites
	for _, js := range payload.Satellites {
		priority := model.PriorityLowest
		if js.Priority != nil {
			priority = *js.Priority
		}

		sat := model.Satellite{
			ID:             js.ID,
			OrbitPeriodMin: js.OrbitPeriodMin,
			Priority:       priority,
		}
		if err := cat.AddSatellite(sat); err != nil {
			return nil, fmt.Errorf("LoadGroundSegment: %w", err)
		}
		result.SatelliteIDs = append(result.SatelliteIDs, js.ID)
	}

	// 2) Ground stations
	for _, js := range payload.GroundStations {
		capacity := 1
		if js.Capacity != nil {
			capacity = *js.Capacity
		}

		gs := model.GroundStation{
			ID:       js.ID,
			Location: js.Location,
			Capacity: capacity,
			LatDeg:   js.LatDeg,
			LonDeg:   js.LonDeg,
		}
		if err := cat.AddGroundStation(gs); err != nil {
			return nil, fmt.Errorf("LoadGroundSegment: %w", err)
		}
		result.GroundStationIDs = append(result.GroundStationIDs, js.ID)
	}

	return result, nil
}

package model

import (
	"fmt"
	"time"
)

// WindowStatus tracks a contact window through one scheduling pass.
type WindowStatus int

const (
	// WindowPending means the scheduler has not resolved the window yet.
	WindowPending WindowStatus = iota
	WindowAssigned
	WindowRejected
)

func (s WindowStatus) String() string {
	switch s {
	case WindowPending:
		return "PENDING"
	case WindowAssigned:
		return "ASSIGNED"
	case WindowRejected:
		return "REJECTED"
	default:
		return fmt.Sprintf("WindowStatus(%d)", int(s))
	}
}

// ContactWindow is a candidate communication opportunity between a
// satellite and a ground station at one simulation tick. The generator
// creates it Pending; the scheduler resolves it exactly once per pass.
type ContactWindow struct {
	SatelliteID     string
	GroundStationID string
	StartTime       time.Time
	// EndTime is strictly after StartTime. Intervals are half-open:
	// [StartTime, EndTime).
	EndTime time.Time
	// Timestamp is the simulation instant the window was generated at.
	Timestamp time.Time
	// DistanceKm is the satellite-station distance at generation time,
	// below the visibility threshold by construction.
	DistanceKm float64
	// DataVolume is a synthetic payload estimate for the contact.
	DataVolume int
	// Priority is copied from the owning satellite.
	Priority int
	Status   WindowStatus
}

// Assigned reports whether the scheduler admitted the window.
func (w ContactWindow) Assigned() bool { return w.Status == WindowAssigned }

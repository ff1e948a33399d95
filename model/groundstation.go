package model

import (
	"errors"
	"fmt"
)

var ErrInvalidStation = errors.New("invalid ground station")

// GroundStation is a fixed receiving site with a bounded number of
// concurrent contacts.
type GroundStation struct {
	ID string
	// Location is a free-form label ("Svalbard"); never interpreted.
	Location string
	// Capacity is the maximum number of mutually overlapping admitted
	// windows. Zero is valid and means the station admits nothing.
	Capacity int
	LatDeg   float64
	LonDeg   float64
}

// Validate checks the invariants the catalog relies on.
func (g GroundStation) Validate() error {
	if g.ID == "" {
		return fmt.Errorf("%w: empty ID", ErrInvalidStation)
	}
	if g.Capacity < 0 {
		return fmt.Errorf("%w: station %q capacity %d", ErrInvalidStation, g.ID, g.Capacity)
	}
	if g.LatDeg < -90 || g.LatDeg > 90 {
		return fmt.Errorf("%w: station %q latitude %v", ErrInvalidStation, g.ID, g.LatDeg)
	}
	if g.LonDeg < -180 || g.LonDeg > 180 {
		return fmt.Errorf("%w: station %q longitude %v", ErrInvalidStation, g.ID, g.LonDeg)
	}
	return nil
}

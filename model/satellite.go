package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// SatelliteIDPrefix is the mandatory prefix for satellite identifiers.
const SatelliteIDPrefix = "SAT-"

// Priority tiers. Lower values are served first by the scheduler.
const (
	PriorityHighest = 1
	PriorityLowest  = 3
)

var (
	ErrInvalidSatelliteID = errors.New("satellite ID must match SAT-<positive integer>")
	ErrInvalidOrbitPeriod = errors.New("orbit period must be positive")
)

// Satellite describes one orbiting asset in the simulated fleet.
type Satellite struct {
	// ID is the unique identifier, format SAT-<positive integer>.
	// The numeric suffix phases the satellite within the position model,
	// so two satellites on the same orbit period never coincide.
	ID string
	// OrbitPeriodMin is the length of one simulated orbital cycle in minutes.
	OrbitPeriodMin int
	// Priority is the scheduling tier, 1 (highest) through 3 (lowest).
	// Contact windows inherit it.
	Priority int
}

// SatelliteNumber extracts the numeric suffix from a satellite ID:
// "SAT-17" yields 17. IDs without the SAT- prefix or without a positive
// all-digit suffix fail with ErrInvalidSatelliteID.
func SatelliteNumber(id string) (int, error) {
	suffix, ok := strings.CutPrefix(id, SatelliteIDPrefix)
	if !ok || suffix == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSatelliteID, id)
	}
	for _, r := range suffix {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%w: %q", ErrInvalidSatelliteID, id)
		}
	}
	n, err := strconv.Atoi(suffix)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSatelliteID, id)
	}
	return n, nil
}

// Validate checks the invariants the catalog relies on.
func (s Satellite) Validate() error {
	if _, err := SatelliteNumber(s.ID); err != nil {
		return err
	}
	if s.OrbitPeriodMin <= 0 {
		return fmt.Errorf("%w: satellite %q has period %d min", ErrInvalidOrbitPeriod, s.ID, s.OrbitPeriodMin)
	}
	if s.Priority < PriorityHighest || s.Priority > PriorityLowest {
		return fmt.Errorf("satellite %q: priority %d outside %d..%d", s.ID, s.Priority, PriorityHighest, PriorityLowest)
	}
	return nil
}

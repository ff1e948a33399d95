package catalog

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/signalsfoundry/contact-scheduler/model"
)

// ErrDuplicateID is returned when an asset with the same ID was already registered.
var ErrDuplicateID = errors.New("duplicate ID in catalog")

// Catalog is an in-memory, thread-safe registry of the simulated fleet
// and the ground segment. Entries are validated on insert and immutable
// afterwards, so accessors hand out copies without further locking concerns.
type Catalog struct {
	mu sync.RWMutex

	satellites map[string]model.Satellite
	stations   map[string]model.GroundStation
}

// New constructs an empty catalog.
func New() *Catalog {
	return &Catalog{
		satellites: make(map[string]model.Satellite),
		stations:   make(map[string]model.GroundStation),
	}
}

// AddSatellite registers a satellite. It returns an error if the satellite
// fails validation or its ID already exists.
func (c *Catalog) AddSatellite(s model.Satellite) error {
	if err := s.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.satellites[s.ID]; exists {
		return fmt.Errorf("%w: satellite %q", ErrDuplicateID, s.ID)
	}
	c.satellites[s.ID] = s
	return nil
}

// AddGroundStation registers a ground station. It returns an error if the
// station fails validation or its ID already exists.
func (c *Catalog) AddGroundStation(gs model.GroundStation) error {
	if err := gs.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.stations[gs.ID]; exists {
		return fmt.Errorf("%w: ground station %q", ErrDuplicateID, gs.ID)
	}
	c.stations[gs.ID] = gs
	return nil
}

// Satellite returns the satellite with the given ID.
func (c *Catalog) Satellite(id string) (model.Satellite, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.satellites[id]
	return s, ok
}

// GroundStation returns the ground station with the given ID.
func (c *Catalog) GroundStation(id string) (model.GroundStation, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	gs, ok := c.stations[id]
	return gs, ok
}

// Satellites returns a snapshot of all satellites, sorted by ID so that
// callers iterate in a reproducible order.
func (c *Catalog) Satellites() []model.Satellite {
	c.mu.RLock()
	defer c.mu.RUnlock()

	res := make([]model.Satellite, 0, len(c.satellites))
	for _, s := range c.satellites {
		res = append(res, s)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res
}

// GroundStations returns a snapshot of all ground stations, sorted by ID.
func (c *Catalog) GroundStations() []model.GroundStation {
	c.mu.RLock()
	defer c.mu.RUnlock()

	res := make([]model.GroundStation, 0, len(c.stations))
	for _, gs := range c.stations {
		res = append(res, gs)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res
}

// Counts reports how many satellites and ground stations are registered.
func (c *Catalog) Counts() (satellites, stations int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.satellites), len(c.stations)
}

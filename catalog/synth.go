package catalog

import (
	"fmt"
	"math/rand"

	"github.com/signalsfoundry/contact-scheduler/model"
)

// Synthesis ranges. Orbit periods span LEO-ish to MEO-ish cycles so that
// fleets mix fast and slow passes; station latitudes stay inside the band
// where the position model actually produces sub-satellite points.
const (
	synthMinOrbitPeriodMin = 90
	synthMaxOrbitPeriodMin = 180
	synthMinCapacity       = 1
	synthMaxCapacity       = 10
	synthMaxAbsLatDeg      = 60
)

// siteNames is the palette for synthetic ground-station locations.
var siteNames = []string{
	"Svalbard",
	"Fairbanks",
	"Punta Arenas",
	"Hartebeesthoek",
	"Dongara",
	"Wallops",
	"Kiruna",
	"Singapore",
}

// SynthConfig sizes a synthetic catalog.
type SynthConfig struct {
	// Satellites is the fleet size; IDs run SAT-1 through SAT-N.
	Satellites int
	// GroundStations is the ground-segment size; IDs run GS-1 through GS-M.
	GroundStations int
	// Seed drives all randomized attributes, so equal configs produce
	// equal catalogs.
	Seed int64
}

// Synthesize builds a catalog of generated satellites and ground stations.
// Attributes are drawn from a seeded source; the same config always yields
// the same catalog.
func Synthesize(cfg SynthConfig) (*Catalog, error) {
	rng := rand.New(rand.NewSource(cfg.Seed))
	cat := New()

	for i := 1; i <= cfg.Satellites; i++ {
		sat := model.Satellite{
			ID:             fmt.Sprintf("%s%d", model.SatelliteIDPrefix, i),
			OrbitPeriodMin: synthMinOrbitPeriodMin + rng.Intn(synthMaxOrbitPeriodMin-synthMinOrbitPeriodMin+1),
			Priority:       model.PriorityHighest + rng.Intn(model.PriorityLowest-model.PriorityHighest+1),
		}
		if err := cat.AddSatellite(sat); err != nil {
			return nil, fmt.Errorf("Synthesize: %w", err)
		}
	}

	for i := 1; i <= cfg.GroundStations; i++ {
		gs := model.GroundStation{
			ID:       fmt.Sprintf("GS-%d", i),
			Location: siteNames[(i-1)%len(siteNames)],
			Capacity: synthMinCapacity + rng.Intn(synthMaxCapacity-synthMinCapacity+1),
			LatDeg:   float64(rng.Intn(2*synthMaxAbsLatDeg+1) - synthMaxAbsLatDeg),
			LonDeg:   float64(rng.Intn(361) - 180),
		}
		if err := cat.AddGroundStation(gs); err != nil {
			return nil, fmt.Errorf("Synthesize: %w", err)
		}
	}

	return cat, nil
}

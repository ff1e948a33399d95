package core

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/signalsfoundry/contact-scheduler/model"
)

// DefaultVisibilityThresholdKm is the slant range below which a
// satellite and a ground station can establish a contact.
const DefaultVisibilityThresholdKm = 5000.0

const (
	minContactMinutes = 5
	maxContactMinutes = 15
	minDataVolume     = 100
	maxDataVolume     = 1000
)

// WindowGenerator produces candidate contact windows for a fleet of
// satellites against a set of ground stations at one simulation tick.
//
// All randomness (contact duration, data volume, fleet shuffle) comes
// from streams derived from the base seed. Each satellite draws from its
// own stream, so a batch's window contents do not depend on iteration
// order or on how generation is parallelised.
type WindowGenerator struct {
	seed        int64
	thresholdKm float64
}

// NewWindowGenerator creates a generator with the given base seed.
// A non-positive threshold selects DefaultVisibilityThresholdKm.
func NewWindowGenerator(seed int64, thresholdKm float64) *WindowGenerator {
	if thresholdKm <= 0 {
		thresholdKm = DefaultVisibilityThresholdKm
	}
	return &WindowGenerator{seed: seed, thresholdKm: thresholdKm}
}

// streamFor derives the private random stream for one satellite number.
func (g *WindowGenerator) streamFor(num int) *rand.Rand {
	return rand.New(rand.NewSource(g.seed + int64(num)))
}

// GenerateWindows produces at most one candidate window per ground
// station for one satellite. Stations within the visibility threshold
// get a window starting at the tick instant with a randomised duration
// of 5..15 whole minutes and a payload estimate of 100..1000; stations
// at or beyond the threshold get nothing. Windows are created Pending.
func (g *WindowGenerator) GenerateWindows(sat model.Satellite, stations []model.GroundStation, at time.Time) ([]model.ContactWindow, error) {
	num, err := model.SatelliteNumber(sat.ID)
	if err != nil {
		return nil, err
	}
	pos, err := SimulatePosition(sat.OrbitPeriodMin, at, num)
	if err != nil {
		return nil, fmt.Errorf("satellite %s: %w", sat.ID, err)
	}

	rng := g.streamFor(num)
	var windows []model.ContactWindow
	for _, gs := range stations {
		distance := GreatCircleKm(pos.LatDeg, pos.LonDeg, gs.LatDeg, gs.LonDeg)
		if distance >= g.thresholdKm {
			continue
		}
		durationMin := minContactMinutes + rng.Intn(maxContactMinutes-minContactMinutes+1)
		volume := minDataVolume + rng.Intn(maxDataVolume-minDataVolume+1)
		windows = append(windows, model.ContactWindow{
			SatelliteID:     sat.ID,
			GroundStationID: gs.ID,
			StartTime:       at,
			EndTime:         at.Add(time.Duration(durationMin) * time.Minute),
			Timestamp:       at,
			DistanceKm:      distance,
			DataVolume:      volume,
			Priority:        sat.Priority,
		})
	}
	return windows, nil
}

// GenerateAll concatenates per-satellite windows for the whole fleet,
// visiting satellites in a shuffled order. The shuffle only permutes
// output order: window contents come from per-satellite streams, and the
// scheduler re-sorts its input, so the final schedule is unaffected.
func (g *WindowGenerator) GenerateAll(sats []model.Satellite, stations []model.GroundStation, at time.Time) ([]model.ContactWindow, error) {
	order := make([]model.Satellite, len(sats))
	copy(order, sats)
	shuffle := rand.New(rand.NewSource(g.seed))
	shuffle.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	var all []model.ContactWindow
	for _, sat := range order {
		windows, err := g.GenerateWindows(sat, stations, at)
		if err != nil {
			return nil, err
		}
		all = append(all, windows...)
	}
	return all, nil
}

type generateResult struct {
	windows []model.ContactWindow
	err     error
}

// GenerateAllParallel fans GenerateWindows out over a bounded pool of
// workers. For a given seed the emitted windows are identical to
// GenerateAll; only the concatenation order differs. A malformed
// catalog entry fails the whole batch rather than silently shrinking it.
func (g *WindowGenerator) GenerateAllParallel(ctx context.Context, sats []model.Satellite, stations []model.GroundStation, at time.Time, workers int) ([]model.ContactWindow, error) {
	if workers <= 1 || len(sats) <= 1 {
		return g.GenerateAll(sats, stations, at)
	}
	if workers > len(sats) {
		workers = len(sats)
	}

	jobs := make(chan model.Satellite, workers*2)
	results := make(chan generateResult, workers*2)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sat := range jobs {
				windows, err := g.GenerateWindows(sat, stations, at)
				select {
				case results <- generateResult{windows: windows, err: err}:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, sat := range sats {
			select {
			case jobs <- sat:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var all []model.ContactWindow
	var firstErr error
	for res := range results {
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
			}
			continue
		}
		all = append(all, res.windows...)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return all, nil
}

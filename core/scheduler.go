package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/signalsfoundry/contact-scheduler/internal/logging"
	"github.com/signalsfoundry/contact-scheduler/model"
)

var ErrUnknownStation = errors.New("window references unknown ground station")

// OverlapPolicy selects the interval test used when counting admitted
// windows against station capacity.
type OverlapPolicy int

const (
	// OverlapIntersection counts two half-open intervals as overlapping
	// when each starts before the other ends. Identical intervals always
	// contend under this test, so capacity binds. This is the default.
	OverlapIntersection OverlapPolicy = iota
	// OverlapContainment counts a candidate against a held window only
	// when the candidate strictly contains it: starts earlier and ends
	// later. Windows sharing a start or an end never contend, so a
	// station can admit arbitrarily many simultaneous same-start
	// contacts. Retained for parity with systems that counted overlaps
	// this way; see the boundary tests before choosing it.
	OverlapContainment
)

func (p OverlapPolicy) String() string {
	switch p {
	case OverlapIntersection:
		return "intersection"
	case OverlapContainment:
		return "containment"
	default:
		return fmt.Sprintf("OverlapPolicy(%d)", int(p))
	}
}

// overlaps applies the policy to a candidate and an already-held window.
func (p OverlapPolicy) overlaps(cand, held model.ContactWindow) bool {
	if p == OverlapContainment {
		return cand.EndTime.After(held.EndTime) && cand.StartTime.Before(held.StartTime)
	}
	return cand.StartTime.Before(held.EndTime) && held.StartTime.Before(cand.EndTime)
}

// ContactScheduler performs greedy, priority-ordered, capacity-aware
// admission of candidate contact windows. One pass over the sorted
// batch, no retries, no backtracking: a rejected window is never
// reconsidered within the pass.
type ContactScheduler struct {
	policy   OverlapPolicy
	observer Observer
	log      logging.Logger
}

// NewContactScheduler creates a scheduler. A nil observer discards
// events and a nil logger discards logs.
func NewContactScheduler(policy OverlapPolicy, observer Observer, log logging.Logger) *ContactScheduler {
	if observer == nil {
		observer = NoopObserver()
	}
	if log == nil {
		log = logging.Noop()
	}
	return &ContactScheduler{policy: policy, observer: observer, log: log}
}

// Schedule resolves every window in the batch to Assigned or Rejected.
//
// The batch is copied, sorted by (priority ascending, start time
// ascending, satellite ID, ground station ID), then admitted greedily: a
// window is admitted when the
// number of already-admitted windows at its station overlapping it under
// the configured policy is below the station's capacity. The returned
// slice is in sorted order; the caller's slice is never mutated, and the
// per-station admission ledger lives and dies with this call.
//
// A window referencing a station absent from stations aborts the pass
// with ErrUnknownStation: capacity for that window is undecidable, so no
// partial result is authoritative.
func (s *ContactScheduler) Schedule(ctx context.Context, windows []model.ContactWindow, stations []model.GroundStation) ([]model.ContactWindow, error) {
	started := time.Now()

	capacities := make(map[string]int, len(stations))
	for _, gs := range stations {
		capacities[gs.ID] = gs.Capacity
	}

	out := make([]model.ContactWindow, len(windows))
	copy(out, windows)
	// The key is total: every window in a generated batch starts at the
	// same tick, so (priority, start) alone would leave ties resolved by
	// input order and the admission outcome with them. IDs settle ties so
	// the schedule depends only on the batch contents.
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		if !a.StartTime.Equal(b.StartTime) {
			return a.StartTime.Before(b.StartTime)
		}
		if a.SatelliteID != b.SatelliteID {
			return a.SatelliteID < b.SatelliteID
		}
		return a.GroundStationID < b.GroundStationID
	})

	admitted := make(map[string][]model.ContactWindow, len(stations))

	summary := PassSummary{Total: len(out)}
	for i := range out {
		w := &out[i]
		capacity, ok := capacities[w.GroundStationID]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownStation, w.GroundStationID)
		}

		overlapCount := 0
		for _, held := range admitted[w.GroundStationID] {
			if s.policy.overlaps(*w, held) {
				overlapCount++
			}
		}

		if overlapCount < capacity {
			w.Status = model.WindowAssigned
			admitted[w.GroundStationID] = append(admitted[w.GroundStationID], *w)
			summary.Admitted++
		} else {
			w.Status = model.WindowRejected
			summary.Rejected++
		}

		s.observer.ObserveDecision(Decision{
			Window:       *w,
			Admitted:     w.Status == model.WindowAssigned,
			OverlapCount: overlapCount,
			Capacity:     capacity,
		})
		s.log.Debug(ctx, "Resolved contact window",
			logging.String("satellite_id", w.SatelliteID),
			logging.String("ground_station_id", w.GroundStationID),
			logging.String("status", w.Status.String()),
			logging.Int("overlap_count", overlapCount),
			logging.Int("capacity", capacity),
		)
	}

	summary.Elapsed = time.Since(started)
	s.observer.ObservePass(summary)
	s.log.Info(ctx, "Scheduling pass complete",
		logging.Int("total", summary.Total),
		logging.Int("admitted", summary.Admitted),
		logging.Int("rejected", summary.Rejected),
		logging.String("policy", s.policy.String()),
	)
	return out, nil
}

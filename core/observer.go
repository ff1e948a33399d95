package core

import (
	"time"

	"github.com/signalsfoundry/contact-scheduler/model"
)

// Decision describes one admission decision taken by the scheduler.
type Decision struct {
	// Window carries the resolved window, status already set.
	Window model.ContactWindow
	// Admitted mirrors the resolved status for convenience.
	Admitted bool
	// OverlapCount is how many already-admitted windows at the station
	// overlapped this one under the configured policy.
	OverlapCount int
	// Capacity is the station's configured concurrent-contact limit.
	Capacity int
}

// PassSummary aggregates a completed scheduling pass.
type PassSummary struct {
	Total    int
	Admitted int
	Rejected int
	Elapsed  time.Duration
}

// Observer receives structured scheduling events. Implementations must
// be cheap and must not block; scheduling correctness never depends on
// an observer being present.
type Observer interface {
	ObserveDecision(Decision)
	ObservePass(PassSummary)
}

// NoopObserver returns an Observer that discards every event.
func NoopObserver() Observer { return noopObserver{} }

type noopObserver struct{}

func (noopObserver) ObserveDecision(Decision) {}
func (noopObserver) ObservePass(PassSummary)  {}

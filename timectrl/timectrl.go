package timectrl

import (
	"context"
	"sync"
	"time"
)

// SimClock is an interface for accessing simulation time. Components that
// need the current pass timestamp depend on this abstraction rather than a
// concrete controller type, enabling testability.
type SimClock interface {
	// Now returns the current simulation time.
	Now() time.Time
}

// TimeController drives simulation time and notifies registered listeners.
// Simulation time advances by Tick once per wall interval Tick/Accel, so an
// acceleration of 60 runs a minute of simulation per wall second.
type TimeController struct {
	mu        sync.RWMutex
	StartTime time.Time
	Tick      time.Duration
	Accel     float64

	// currentTime tracks the current simulation time. It is updated
	// as the controller advances time.
	currentTime time.Time

	listeners []func(time.Time)
}

// NewTimeController constructs a controller. An acceleration of zero or
// below falls back to real time.
func NewTimeController(start time.Time, tick time.Duration, accel float64) *TimeController {
	if accel <= 0 {
		accel = 1
	}
	return &TimeController{
		StartTime:   start,
		Tick:        tick,
		Accel:       accel,
		currentTime: start,
	}
}

// Now returns the current simulation time. Implements SimClock.
func (tc *TimeController) Now() time.Time {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return tc.currentTime
}

// SetTime moves simulation time to the given instant without ticking.
func (tc *TimeController) SetTime(t time.Time) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.currentTime = t
}

// AddListener registers a callback invoked on every tick.
func (tc *TimeController) AddListener(fn func(time.Time)) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.listeners = append(tc.listeners, fn)
}

// Start runs the controller in a separate goroutine until the simulated
// duration has elapsed or the context is cancelled. A duration of zero runs
// until cancellation. It returns a channel that is closed when the
// controller finishes.
func (tc *TimeController) Start(ctx context.Context, duration time.Duration) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)

		tc.mu.Lock()
		simTime := tc.StartTime
		tc.currentTime = simTime
		tc.mu.Unlock()

		elapsed := time.Duration(0)

		wallTick := time.Duration(float64(tc.Tick) / tc.Accel)
		if wallTick <= 0 {
			// The ticker needs a positive interval.
			wallTick = time.Millisecond
		}
		ticker := time.NewTicker(wallTick)
		defer ticker.Stop()

		for {
			if duration > 0 && elapsed >= duration {
				return
			}

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			simTime = simTime.Add(tc.Tick)
			elapsed += tc.Tick

			tc.mu.Lock()
			tc.currentTime = simTime
			listeners := append([]func(time.Time){}, tc.listeners...)
			tc.mu.Unlock()

			// Listeners run outside the lock so they can call Now.
			for _, fn := range listeners {
				fn(simTime)
			}
		}
	}()
	return done
}

package store

import (
	"context"
	"sync"
	"time"

	"github.com/signalsfoundry/contact-scheduler/model"
)

// MemoryStore is a concurrency-safe in-memory Store. It backs tests and
// runs without a configured database.
type MemoryStore struct {
	mu        sync.RWMutex
	windows   []model.ContactWindow
	telemetry []model.Telemetry
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// SaveContactWindows appends the batch to the in-memory window log.
func (s *MemoryStore) SaveContactWindows(_ context.Context, windows []model.ContactWindow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.windows = append(s.windows, windows...)
	return nil
}

// SaveTelemetry appends the batch to the in-memory telemetry log.
func (s *MemoryStore) SaveTelemetry(_ context.Context, records []model.Telemetry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.telemetry = append(s.telemetry, records...)
	return nil
}

// PurgeExpiredWindows drops windows that ended strictly before the cutoff.
func (s *MemoryStore) PurgeExpiredWindows(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.windows[:0]
	var purged int64
	for _, w := range s.windows {
		if w.EndTime.Before(before) {
			purged++
			continue
		}
		kept = append(kept, w)
	}
	s.windows = kept
	return purged, nil
}

// ContactWindows returns a snapshot of the stored windows.
// Modifications to the returned slice do not affect the store.
func (s *MemoryStore) ContactWindows() []model.ContactWindow {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.ContactWindow, len(s.windows))
	copy(out, s.windows)
	return out
}

// Telemetry returns a snapshot of the stored telemetry records.
func (s *MemoryStore) Telemetry() []model.Telemetry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Telemetry, len(s.telemetry))
	copy(out, s.telemetry)
	return out
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}

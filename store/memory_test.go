package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/signalsfoundry/contact-scheduler/model"
)

var memBase = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func memWindow(sat string, end time.Time) model.ContactWindow {
	return model.ContactWindow{
		SatelliteID:     sat,
		GroundStationID: "GS-1",
		StartTime:       end.Add(-10 * time.Minute),
		EndTime:         end,
		Timestamp:       memBase,
		DistanceKm:      1200,
		DataVolume:      500,
		Priority:        2,
		Status:          model.WindowAssigned,
	}
}

func TestMemoryStoreSaveAndSnapshot(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	batch := []model.ContactWindow{
		memWindow("SAT-1", memBase.Add(10*time.Minute)),
		memWindow("SAT-2", memBase.Add(20*time.Minute)),
	}
	if err := s.SaveContactWindows(ctx, batch); err != nil {
		t.Fatalf("SaveContactWindows error: %v", err)
	}
	if err := s.SaveContactWindows(ctx, nil); err != nil {
		t.Fatalf("SaveContactWindows with empty batch error: %v", err)
	}

	got := s.ContactWindows()
	if len(got) != 2 {
		t.Fatalf("stored %d windows, want 2", len(got))
	}
	if got[0].SatelliteID != "SAT-1" || got[1].SatelliteID != "SAT-2" {
		t.Fatalf("snapshot order = %s, %s", got[0].SatelliteID, got[1].SatelliteID)
	}

	rec := model.Telemetry{
		SatelliteID:     "SAT-1",
		GroundStationID: "GS-1",
		Timestamp:       memBase,
		BatteryLevel:    87.5,
		TemperatureC:    12.3,
		Status:          model.StatusOK,
	}
	if err := s.SaveTelemetry(ctx, []model.Telemetry{rec}); err != nil {
		t.Fatalf("SaveTelemetry error: %v", err)
	}
	if tele := s.Telemetry(); len(tele) != 1 || tele[0].SatelliteID != "SAT-1" {
		t.Fatalf("telemetry snapshot = %#v", tele)
	}
}

func TestMemoryStoreSnapshotIsACopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	if err := s.SaveContactWindows(ctx, []model.ContactWindow{memWindow("SAT-1", memBase)}); err != nil {
		t.Fatalf("SaveContactWindows error: %v", err)
	}

	snap := s.ContactWindows()
	snap[0].SatelliteID = "SAT-99"

	if got := s.ContactWindows(); got[0].SatelliteID != "SAT-1" {
		t.Fatalf("mutating a snapshot changed the store: %q", got[0].SatelliteID)
	}
}

func TestMemoryStorePurgeExpiredWindows(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	cutoff := memBase.Add(30 * time.Minute)
	batch := []model.ContactWindow{
		memWindow("SAT-1", cutoff.Add(-time.Minute)),  // expired
		memWindow("SAT-2", cutoff),                    // ends exactly at the cutoff, kept
		memWindow("SAT-3", cutoff.Add(5*time.Minute)), // still live
	}
	if err := s.SaveContactWindows(ctx, batch); err != nil {
		t.Fatalf("SaveContactWindows error: %v", err)
	}

	purged, err := s.PurgeExpiredWindows(ctx, cutoff)
	if err != nil {
		t.Fatalf("PurgeExpiredWindows error: %v", err)
	}
	if purged != 1 {
		t.Fatalf("purged %d windows, want 1", purged)
	}

	got := s.ContactWindows()
	if len(got) != 2 {
		t.Fatalf("kept %d windows, want 2", len(got))
	}
	for _, w := range got {
		if w.SatelliteID == "SAT-1" {
			t.Fatalf("expired window for SAT-1 survived the purge")
		}
	}

	// A second purge with the same cutoff removes nothing.
	purged, err = s.PurgeExpiredWindows(ctx, cutoff)
	if err != nil {
		t.Fatalf("PurgeExpiredWindows error: %v", err)
	}
	if purged != 0 {
		t.Fatalf("second purge removed %d windows, want 0", purged)
	}
}

func TestMemoryStoreImplementsStore(t *testing.T) {
	var s Store = NewMemoryStore()
	if err := s.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			w := memWindow(fmt.Sprintf("SAT-%d", n+1), memBase.Add(time.Duration(n)*time.Minute))
			if err := s.SaveContactWindows(ctx, []model.ContactWindow{w}); err != nil {
				t.Errorf("SaveContactWindows error: %v", err)
			}
		}(i)
		go func() {
			defer wg.Done()
			_ = s.ContactWindows()
			_, _ = s.PurgeExpiredWindows(ctx, memBase.Add(-time.Hour))
		}()
	}
	wg.Wait()

	if got := len(s.ContactWindows()); got != 10 {
		t.Fatalf("stored %d windows, want 10", got)
	}
}

package catalog

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/signalsfoundry/contact-scheduler/model"
)

func TestAddAndGetSatellite(t *testing.T) {
	cat := New()
	sat := model.Satellite{ID: "SAT-1", OrbitPeriodMin: 90, Priority: 1}
	if err := cat.AddSatellite(sat); err != nil {
		t.Fatalf("AddSatellite error: %v", err)
	}
	got, ok := cat.Satellite("SAT-1")
	if !ok || got.OrbitPeriodMin != 90 {
		t.Fatalf("Satellite returned %#v, want period 90", got)
	}
	if _, ok := cat.Satellite("SAT-2"); ok {
		t.Fatalf("expected SAT-2 lookup to miss")
	}
}

func TestAddSatelliteDuplicate(t *testing.T) {
	cat := New()
	sat := model.Satellite{ID: "SAT-1", OrbitPeriodMin: 90, Priority: 1}
	if err := cat.AddSatellite(sat); err != nil {
		t.Fatalf("first AddSatellite error: %v", err)
	}
	err := cat.AddSatellite(model.Satellite{ID: "SAT-1", OrbitPeriodMin: 120, Priority: 2})
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("duplicate AddSatellite error = %v, want ErrDuplicateID", err)
	}
}

func TestAddSatelliteValidation(t *testing.T) {
	cat := New()
	err := cat.AddSatellite(model.Satellite{ID: "BIRD-1", OrbitPeriodMin: 90, Priority: 1})
	if !errors.Is(err, model.ErrInvalidSatelliteID) {
		t.Fatalf("AddSatellite error = %v, want ErrInvalidSatelliteID", err)
	}
	if n, _ := cat.Counts(); n != 0 {
		t.Fatalf("rejected satellite was stored, count = %d", n)
	}
}

func TestAddAndGetGroundStation(t *testing.T) {
	cat := New()
	gs := model.GroundStation{ID: "GS-1", Location: "Svalbard", Capacity: 2, LatDeg: 78.2, LonDeg: 15.4}
	if err := cat.AddGroundStation(gs); err != nil {
		t.Fatalf("AddGroundStation error: %v", err)
	}
	got, ok := cat.GroundStation("GS-1")
	if !ok || got.Capacity != 2 {
		t.Fatalf("GroundStation returned %#v, want capacity 2", got)
	}

	err := cat.AddGroundStation(model.GroundStation{ID: "GS-1", Capacity: 1})
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("duplicate AddGroundStation error = %v, want ErrDuplicateID", err)
	}
}

func TestSnapshotsSortedByID(t *testing.T) {
	cat := New()
	for _, n := range []int{3, 1, 2} {
		sat := model.Satellite{ID: fmt.Sprintf("SAT-%d", n), OrbitPeriodMin: 90 + n, Priority: 1}
		if err := cat.AddSatellite(sat); err != nil {
			t.Fatalf("AddSatellite error: %v", err)
		}
		gs := model.GroundStation{ID: fmt.Sprintf("GS-%d", n), Capacity: n}
		if err := cat.AddGroundStation(gs); err != nil {
			t.Fatalf("AddGroundStation error: %v", err)
		}
	}

	sats := cat.Satellites()
	if len(sats) != 3 {
		t.Fatalf("Satellites len=%d, want 3", len(sats))
	}
	for i, want := range []string{"SAT-1", "SAT-2", "SAT-3"} {
		if sats[i].ID != want {
			t.Errorf("Satellites()[%d].ID = %q, want %q", i, sats[i].ID, want)
		}
	}

	stations := cat.GroundStations()
	for i, want := range []string{"GS-1", "GS-2", "GS-3"} {
		if stations[i].ID != want {
			t.Errorf("GroundStations()[%d].ID = %q, want %q", i, stations[i].ID, want)
		}
	}

	nSat, nGS := cat.Counts()
	if nSat != 3 || nGS != 3 {
		t.Fatalf("Counts = (%d, %d), want (3, 3)", nSat, nGS)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	cat := New()
	if err := cat.AddSatellite(model.Satellite{ID: "SAT-1", OrbitPeriodMin: 90, Priority: 1}); err != nil {
		t.Fatalf("AddSatellite error: %v", err)
	}

	snap := cat.Satellites()
	snap[0].OrbitPeriodMin = 7

	got, _ := cat.Satellite("SAT-1")
	if got.OrbitPeriodMin != 90 {
		t.Fatalf("mutating a snapshot changed the catalog: period = %d", got.OrbitPeriodMin)
	}
}

func TestConcurrentAccess(t *testing.T) {
	cat := New()

	var wg sync.WaitGroup
	for i := 1; i <= 10; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			sat := model.Satellite{ID: fmt.Sprintf("SAT-%d", n), OrbitPeriodMin: 90, Priority: 1}
			if err := cat.AddSatellite(sat); err != nil {
				t.Errorf("AddSatellite error: %v", err)
			}
		}(i)
		go func() {
			defer wg.Done()
			_ = cat.Satellites()
			_, _ = cat.Counts()
		}()
	}
	wg.Wait()

	if n, _ := cat.Counts(); n != 10 {
		t.Fatalf("satellite count = %d, want 10", n)
	}
}

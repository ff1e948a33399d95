package model

import (
	"testing"
	"time"
)

func TestWindowStatusString(t *testing.T) {
	if got := WindowPending.String(); got != "PENDING" {
		t.Fatalf("WindowPending.String() = %q, want PENDING", got)
	}
	if got := WindowAssigned.String(); got != "ASSIGNED" {
		t.Fatalf("WindowAssigned.String() = %q, want ASSIGNED", got)
	}
	if got := WindowRejected.String(); got != "REJECTED" {
		t.Fatalf("WindowRejected.String() = %q, want REJECTED", got)
	}
	if got := WindowStatus(42).String(); got != "WindowStatus(42)" {
		t.Fatalf("WindowStatus(42).String() = %q", got)
	}
}

func TestContactWindowAssigned(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	w := ContactWindow{
		SatelliteID:     "SAT-1",
		GroundStationID: "GS-1",
		StartTime:       base,
		EndTime:         base.Add(10 * time.Minute),
		Timestamp:       base,
	}

	if w.Assigned() {
		t.Fatalf("pending window reports Assigned")
	}
	w.Status = WindowAssigned
	if !w.Assigned() {
		t.Fatalf("assigned window reports not Assigned")
	}
	w.Status = WindowRejected
	if w.Assigned() {
		t.Fatalf("rejected window reports Assigned")
	}
}

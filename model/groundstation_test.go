package model

import (
	"errors"
	"testing"
)

func TestGroundStationValidate(t *testing.T) {
	valid := GroundStation{ID: "GS-1", Location: "Svalbard", Capacity: 4, LatDeg: 78.2, LonDeg: 15.4}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate(valid) err = %v, want nil", err)
	}

	// Capacity zero is a legal configuration: the station simply admits
	// nothing.
	zero := GroundStation{ID: "GS-2", Capacity: 0}
	if err := zero.Validate(); err != nil {
		t.Fatalf("Validate(capacity 0) err = %v, want nil", err)
	}

	tests := []struct {
		name string
		gs   GroundStation
	}{
		{name: "empty id", gs: GroundStation{Capacity: 1}},
		{name: "negative capacity", gs: GroundStation{ID: "GS-3", Capacity: -1}},
		{name: "latitude too high", gs: GroundStation{ID: "GS-4", Capacity: 1, LatDeg: 91}},
		{name: "latitude too low", gs: GroundStation{ID: "GS-5", Capacity: 1, LatDeg: -91}},
		{name: "longitude too high", gs: GroundStation{ID: "GS-6", Capacity: 1, LonDeg: 181}},
		{name: "longitude too low", gs: GroundStation{ID: "GS-7", Capacity: 1, LonDeg: -181}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.gs.Validate(); !errors.Is(err, ErrInvalidStation) {
				t.Fatalf("Validate() err = %v, want ErrInvalidStation", err)
			}
		})
	}
}

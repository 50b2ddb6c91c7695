package track_test

import (
	"testing"
	"time"

	"github.com/PatrulhaBH/patrol-backend/internal/catalog"
	"github.com/PatrulhaBH/patrol-backend/internal/track"
)

var school = catalog.Facility{
	Code:   "1002",
	Name:   "ESCOLA MUNICIPAL ANA ALVES TEIXEIRA",
	Region: "BARREIRO",
	Lat:    -19.9990917,
	Lng:    -44.00669,
}

// TestTryRegister_Debounce pins the idempotence property: two hits within
// the window yield exactly one visit, two hits a full window apart yield
// two.
func TestTryRegister_Debounce(t *testing.T) {
	d := track.NewDebouncer(6 * time.Second)
	t0 := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)

	first := d.TryRegister(school, t0, "VTR 123", "Silva", "BARREIRO")
	if first == nil {
		t.Fatal("expected first hit to register")
	}

	suppressed := d.TryRegister(school, t0.Add(3*time.Second), "VTR 123", "Silva", "BARREIRO")
	if suppressed != nil {
		t.Fatalf("expected hit inside window to be suppressed, got %+v", suppressed)
	}

	second := d.TryRegister(school, t0.Add(7*time.Second), "VTR 123", "Silva", "BARREIRO")
	if second == nil {
		t.Fatal("expected hit past window to register")
	}
	if second.ID == first.ID {
		t.Errorf("expected distinct visit ids, both were %s", first.ID)
	}
	if !second.OccurredAt.After(first.OccurredAt) {
		t.Error("expected second visit to carry the later timestamp")
	}
}

func TestTryRegister_PerFacilityState(t *testing.T) {
	other := catalog.Facility{Code: "1150", Name: "UPA BARREIRO", Region: "BARREIRO"}
	d := track.NewDebouncer(time.Minute)
	t0 := time.Now()

	if d.TryRegister(school, t0, "VTR 123", "Silva", "") == nil {
		t.Fatal("expected first facility to register")
	}
	// a different facility is not suppressed by the first one's window
	if d.TryRegister(other, t0.Add(time.Second), "VTR 123", "Silva", "") == nil {
		t.Fatal("expected second facility to register independently")
	}
}

func TestTryRegister_PopulatesVisit(t *testing.T) {
	d := track.NewDebouncer(time.Second)
	at := time.Date(2024, 5, 10, 9, 30, 0, 0, time.UTC)

	v := d.TryRegister(school, at, "VTR 123", "Silva", "BARREIRO")
	if v == nil {
		t.Fatal("expected a visit")
	}

	if v.ID != "1002-"+"1715333400000" {
		t.Errorf("unexpected deterministic id: %s", v.ID)
	}
	if v.FacilityCode != school.Code || v.FacilityName != school.Name {
		t.Errorf("facility fields not copied: %+v", v)
	}
	if v.Lat != school.Lat || v.Lng != school.Lng {
		t.Errorf("visit should carry the facility location, got %+v", v)
	}
	if v.VehicleID != "VTR 123" || v.Agent != "Silva" || v.Region != "BARREIRO" {
		t.Errorf("session context not copied: %+v", v)
	}
}

// TestTryRegister_RegionFallback: sessions patrolling the whole catalog
// pass no region; the visit then carries the facility's own region.
func TestTryRegister_RegionFallback(t *testing.T) {
	d := track.NewDebouncer(time.Second)

	v := d.TryRegister(school, time.Now(), "VTR 123", "Silva", "")
	if v == nil {
		t.Fatal("expected a visit")
	}
	if v.Region != "BARREIRO" {
		t.Errorf("expected facility region fallback, got %q", v.Region)
	}
}

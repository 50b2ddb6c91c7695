package route_test

import (
	"testing"

	"github.com/PatrulhaBH/patrol-backend/internal/catalog"
	"github.com/PatrulhaBH/patrol-backend/internal/route"
)

func vendaNovaFacilities() []catalog.Facility {
	return []catalog.Facility{
		{Code: "9070", Region: "VENDA NOVA", Lat: -19.819702, Lng: -43.953867},
		{Code: "9102", Region: "VENDA NOVA", Lat: -19.8195272, Lng: -43.9984626},
		{Code: "9107", Region: "VENDA NOVA", Lat: -19.7995605, Lng: -43.9805728},
		{Code: "9150", Region: "VENDA NOVA", Lat: -19.8201728, Lng: -43.9533197},
		{Code: "9114", Region: "VENDA NOVA", Lat: -19.7954055, Lng: -43.9536417},
		{Code: "9103", Region: "VENDA NOVA", Lat: -19.8342257, Lng: -43.9860984},
		{Code: "1350", Region: "BARREIRO", Lat: -19.9761133, Lng: -44.023685},
	}
}

// TestSynthesize_ClosedLoop checks the loop invariant: first == last and
// at least two waypoints, whatever the input.
func TestSynthesize_ClosedLoop(t *testing.T) {
	loop := route.Synthesize("VENDA NOVA", vendaNovaFacilities())

	if len(loop) < 2 {
		t.Fatalf("expected at least 2 waypoints, got %d", len(loop))
	}
	if loop[0] != loop[len(loop)-1] {
		t.Errorf("expected closed loop, got first %+v last %+v", loop[0], loop[len(loop)-1])
	}
	// 6 facilities in the region, capped at 5 stops + closing point
	if len(loop) != 6 {
		t.Errorf("expected 6 waypoints (5 stops + close), got %d", len(loop))
	}
}

// TestSynthesize_NearestNeighbor verifies the greedy ordering: from the
// seed 9070 the closest facility is the UPA at 9150, not one across the
// region.
func TestSynthesize_NearestNeighbor(t *testing.T) {
	loop := route.Synthesize("VENDA NOVA", vendaNovaFacilities())

	if loop[0].Lat != -19.819702 {
		t.Fatalf("expected seed to be first facility, got %+v", loop[0])
	}
	if loop[1].Lat != -19.8201728 || loop[1].Lng != -43.9533197 {
		t.Errorf("expected nearest neighbor 9150 second, got %+v", loop[1])
	}
}

func TestSynthesize_RegionFilter(t *testing.T) {
	loop := route.Synthesize("venda-nova", vendaNovaFacilities())
	for _, wp := range loop {
		if wp.Lat < -19.90 {
			t.Errorf("waypoint from another region leaked into loop: %+v", wp)
		}
	}
}

// TestSynthesize_Fallback covers regions with fewer than two facilities:
// the loop degrades to the region center rather than failing.
func TestSynthesize_Fallback(t *testing.T) {
	loop := route.Synthesize("PAMPULHA", vendaNovaFacilities())

	if len(loop) < 2 {
		t.Fatalf("expected fallback loop, got %d waypoints", len(loop))
	}
	if loop[0] != loop[len(loop)-1] {
		t.Error("expected fallback loop to be closed")
	}
	center := catalog.CenterFor("PAMPULHA")
	if loop[0].Lat != center.Lat || loop[0].Lng != center.Lng {
		t.Errorf("expected fallback anchored at region center, got %+v", loop[0])
	}
}

// TestSynthesize_UnknownRegion falls back to the default region's center.
func TestSynthesize_UnknownRegion(t *testing.T) {
	loop := route.Synthesize("ATLANTIS", nil)

	def := catalog.CenterFor(catalog.DefaultRegion)
	if loop[0].Lat != def.Lat || loop[0].Lng != def.Lng {
		t.Errorf("expected default center, got %+v", loop[0])
	}
	if loop[0] != loop[len(loop)-1] {
		t.Error("expected closed loop")
	}
}

package geo_test

import (
	"math"
	"testing"
	"time"

	"github.com/PatrulhaBH/patrol-backend/internal/geo"
)

// TestDistanceMeters_Zero verifies that identical points are zero meters apart.
func TestDistanceMeters_Zero(t *testing.T) {
	d := geo.DistanceMeters(-19.9167, -43.9345, -19.9167, -43.9345)
	if d != 0 {
		t.Errorf("expected 0, got %f", d)
	}
}

// TestDistanceMeters_Symmetric verifies that distance does not depend on
// argument order.
func TestDistanceMeters_Symmetric(t *testing.T) {
	ab := geo.DistanceMeters(-19.9167, -43.9345, -19.977, -44.014)
	ba := geo.DistanceMeters(-19.977, -44.014, -19.9167, -43.9345)
	if math.Abs(ab-ba) > 1e-9 {
		t.Errorf("expected symmetric distances, got %f and %f", ab, ba)
	}
}

// TestDistanceMeters_KnownDistance checks a short city-scale hop against a
// hand-computed reference. 0.001 degrees of latitude is ~111.2 m.
func TestDistanceMeters_KnownDistance(t *testing.T) {
	d := geo.DistanceMeters(-19.9167, -43.9345, -19.9177, -43.9345)
	if d < 110 || d > 112.5 {
		t.Errorf("expected ~111 m, got %f", d)
	}
}

func TestStartOfDay(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	now := time.Date(2024, 5, 10, 18, 42, 13, 500, loc)

	start := geo.StartOfDay(now)

	want := time.Date(2024, 5, 10, 0, 0, 0, 0, loc)
	if !start.Equal(want) {
		t.Errorf("expected %v, got %v", want, start)
	}
}

func TestDaysSince(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		t    time.Time
		want float64
	}{
		{"half day", now.Add(-12 * time.Hour), 0.5},
		{"two days", now.Add(-48 * time.Hour), 2},
		{"future", now.Add(6 * time.Hour), -0.25},
	}

	for _, tc := range cases {
		got := geo.DaysSince(tc.t, now)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("%s: expected %f, got %f", tc.name, tc.want, got)
		}
	}
}

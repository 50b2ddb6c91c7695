// Package route builds the closed-loop waypoint circuits that drive
// simulated patrol sessions when no live position feed is available.
package route

import (
	"math"

	"github.com/PatrulhaBH/patrol-backend/internal/catalog"
)

// Waypoint is one stop of a synthesized circuit.
type Waypoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Cap on how many facilities a synthetic circuit visits. A short loop keeps
// the simulation readable; circuit optimality is not a goal.
const maxStops = 5

// Offset for the minimal fallback loop around a region center, in degrees
// (~1 km at this latitude).
const fallbackOffset = 0.01

// Synthesize produces a closed patrol loop over the region's facilities:
// up to maxStops stops ordered by greedy nearest neighbor, with the seed
// appended again to close the loop. Regions with fewer than two facilities
// degrade to a small loop around the region's nominal center, so a session
// can always start.
//
// The returned slice always has length >= 2 and equal first and last
// elements.
func Synthesize(region string, facilities []catalog.Facility) []Waypoint {
	subset := catalog.ByRegion(facilities, region)
	if len(subset) < 2 {
		center := catalog.CenterFor(region)
		return []Waypoint{
			{Lat: center.Lat, Lng: center.Lng},
			{Lat: center.Lat + fallbackOffset, Lng: center.Lng + fallbackOffset},
			{Lat: center.Lat, Lng: center.Lng},
		}
	}

	ordered := nearestNeighborOrder(subset, maxStops)

	loop := make([]Waypoint, 0, len(ordered)+1)
	for _, f := range ordered {
		loop = append(loop, Waypoint{Lat: f.Lat, Lng: f.Lng})
	}
	loop = append(loop, loop[0])
	return loop
}

// nearestNeighborOrder seeds the circuit on the first facility and
// repeatedly appends the closest unvisited one. Euclidean distance on raw
// lat/lng is an acceptable approximation at city scale.
func nearestNeighborOrder(facilities []catalog.Facility, limit int) []catalog.Facility {
	if limit > len(facilities) {
		limit = len(facilities)
	}

	remaining := make([]catalog.Facility, len(facilities))
	copy(remaining, facilities)

	ordered := make([]catalog.Facility, 0, limit)
	current := remaining[0]
	ordered = append(ordered, current)
	remaining = append(remaining[:0], remaining[1:]...)

	for len(ordered) < limit {
		best := 0
		bestDist := math.Inf(1)
		for i, f := range remaining {
			d := squaredDegrees(current, f)
			if d < bestDist {
				best = i
				bestDist = d
			}
		}
		current = remaining[best]
		ordered = append(ordered, current)
		remaining = append(remaining[:best], remaining[best+1:]...)
	}

	return ordered
}

func squaredDegrees(a, b catalog.Facility) float64 {
	dLat := a.Lat - b.Lat
	dLng := a.Lng - b.Lng
	return dLat*dLat + dLng*dLng
}

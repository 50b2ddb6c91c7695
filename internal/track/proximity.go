package track

import (
	"github.com/PatrulhaBH/patrol-backend/internal/catalog"
	"github.com/PatrulhaBH/patrol-backend/internal/geo"
)

// DefaultRadiusMeters is the geofence radius around a facility.
const DefaultRadiusMeters = 100.0

// FacilitiesWithin filters facilities to those within radiusMeters of the
// position, boundary inclusive. Every facility is checked on every tick:
// facilities can be co-located, so multiple simultaneous hits are possible
// and must all be returned.
func FacilitiesWithin(lat, lng float64, facilities []catalog.Facility, radiusMeters float64) []catalog.Facility {
	var hits []catalog.Facility
	for _, f := range facilities {
		if geo.DistanceMeters(lat, lng, f.Lat, f.Lng) <= radiusMeters {
			hits = append(hits, f)
		}
	}
	return hits
}

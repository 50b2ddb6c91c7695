package geo

import (
	"math"
	"time"
)

// Mean Earth radius in meters, as used by the Haversine formula.
const earthRadiusMeters = 6371000.0

// DistanceMeters returns the great-circle distance between two coordinates
// using the Haversine formula on a spherical Earth. Accurate to within the
// standard Haversine error (~0.5%) for distances under a few hundred km,
// which is more than enough at city scale.
func DistanceMeters(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := deg2rad(lat2 - lat1)
	dLng := deg2rad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(deg2rad(lat1))*math.Cos(deg2rad(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

func deg2rad(deg float64) float64 {
	return deg * (math.Pi / 180)
}

// StartOfDay returns local midnight of the day containing now.
func StartOfDay(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}

// DaysSince returns the elapsed time between t and now in fractional days.
// Negative if t is in the future.
func DaysSince(t, now time.Time) float64 {
	return now.Sub(t).Hours() / 24
}

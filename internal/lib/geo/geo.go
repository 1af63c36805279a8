// Package geo holds the great-circle helpers shared by the list filters and
// their output.
package geo

import (
	"github.com/golang/geo/s2"
)

// EarthRadiusKm is the mean radius used by both distance formulas.
const EarthRadiusKm = 6371.0

// DistanceKm returns the haversine distance between two points given in degrees.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	a := s2.LatLngFromDegrees(lat1, lon1)
	b := s2.LatLngFromDegrees(lat2, lon2)

	return a.Distance(b).Radians() * EarthRadiusKm
}

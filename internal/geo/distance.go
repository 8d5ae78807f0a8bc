// Package geo computes great-circle distances for geofence checks.
package geo

import (
	"math"

	"github.com/mpurwadi/tdi-main-app-employee-sub000/internal/domain"
)

// EarthRadiusMeters is the mean Earth radius used by the haversine formula.
const EarthRadiusMeters = 6371000.0

// DistanceMeters returns the haversine distance between a and b in meters.
// Inputs are not range-checked; NaN propagates to the result.
func DistanceMeters(a, b domain.Coordinate) float64 {
	phi1 := deg2rad(a.Latitude)
	phi2 := deg2rad(b.Latitude)
	dPhi := deg2rad(b.Latitude - a.Latitude)
	dLambda := deg2rad(b.Longitude - a.Longitude)

	h := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*
			math.Sin(dLambda/2)*math.Sin(dLambda/2)

	return 2 * EarthRadiusMeters * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Within reports whether point lies inside the circle. The boundary counts
// as inside.
func Within(center, point domain.Coordinate, radiusMeters float64) (bool, float64) {
	d := DistanceMeters(point, center)
	return d <= radiusMeters, d
}

func deg2rad(deg float64) float64 {
	return deg * math.Pi / 180.0
}

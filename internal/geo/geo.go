// Package geo provides the spherical-earth math used by the unit map:
// great-circle distance and destination-point projection. Offsets here are
// tens of meters, so no ellipsoidal correction is applied.
package geo

import (
	"math"

	"github.com/leitstand/unitmap/internal/models"
)

const (
	earthRadiusKm = 6371.0
	earthRadiusM  = 6371000.0
)

func toRad(deg float64) float64 { return deg * math.Pi / 180 }
func toDeg(rad float64) float64 { return rad * 180 / math.Pi }

// DistanceKm returns the haversine great-circle distance between a and b in
// kilometers. Symmetric; DistanceKm(a, a) == 0.
func DistanceKm(a, b models.LatLng) float64 {
	dLat := toRad(b.Lat - a.Lat)
	dLng := toRad(b.Lng - a.Lng)

	s := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(s), math.Sqrt(1-s))
	return earthRadiusKm * c
}

// DestinationPoint returns the point `meters` away from origin along the
// initial bearing `bearingDeg` (0° = north, clockwise).
func DestinationPoint(origin models.LatLng, meters, bearingDeg float64) models.LatLng {
	br := toRad(bearingDeg)
	lat1 := toRad(origin.Lat)
	lng1 := toRad(origin.Lng)
	dr := meters / earthRadiusM

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(dr) +
		math.Cos(lat1)*math.Sin(dr)*math.Cos(br))
	lng2 := lng1 + math.Atan2(
		math.Sin(br)*math.Sin(dr)*math.Cos(lat1),
		math.Cos(dr)-math.Sin(lat1)*math.Sin(lat2),
	)

	return models.LatLng{Lat: toDeg(lat2), Lng: toDeg(lng2)}
}

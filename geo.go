package monipoll

import (
	orb "github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// DistanceMeters returns the great-circle distance between two points in meters.
func DistanceMeters(a, b orb.Point) float64 {
	return geo.DistanceHaversine(a, b)
}

// DistanceKm returns the great-circle distance between two points in kilometers.
func DistanceKm(a, b orb.Point) float64 {
	return DistanceMeters(a, b) / 1000
}

// Bearing returns the initial bearing from a to b in degrees, -180 to 180.
func Bearing(a, b orb.Point) float64 {
	return geo.Bearing(a, b)
}

// Destination returns the point reached by travelling km kilometers from p
// along the given bearing.
func Destination(p orb.Point, km, bearing float64) orb.Point {
	return geo.PointAtBearingAndDistance(p, bearing, km*1000)
}

// LatLng builds an orb point from latitude and longitude, in that order.
// orb stores points as [lng, lat].
func LatLng(lat, lng float64) orb.Point {
	return orb.Point{lng, lat}
}

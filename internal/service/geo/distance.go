// internal/service/geo/distance.go

package geo

import (
	"math"
)

// EarthRadiusKm is the mean Earth radius used for great-circle distances
const EarthRadiusKm = 6371.0

// Point is a geographic coordinate in degrees
type Point struct {
	Latitude  float64
	Longitude float64
}

// DistanceKm calculates the great-circle distance between two coordinates in kilometers
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	// Convert latitude and longitude from degrees to radians
	phi1 := lat1 * math.Pi / 180.0
	lambda1 := lon1 * math.Pi / 180.0
	phi2 := lat2 * math.Pi / 180.0
	lambda2 := lon2 * math.Pi / 180.0

	// Haversine formula
	dLat := phi2 - phi1
	dLon := lambda2 - lambda1

	hSin := math.Sin(dLat / 2)
	hSin *= hSin

	vSin := math.Sin(dLon / 2)
	vSin *= vSin

	h := hSin + math.Cos(phi1)*math.Cos(phi2)*vSin

	// Guard against rounding pushing h past 1 for antipodal points
	if h > 1 {
		h = 1
	}

	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(h))
}

// Distance calculates the distance between two points in kilometers
func Distance(a, b Point) float64 {
	return DistanceKm(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
}

// IsWithinBounds checks if a point is within radiusKm of a center point
func IsWithinBounds(p, center Point, radiusKm float64) bool {
	return Distance(p, center) <= radiusKm
}

// Centroid returns the arithmetic mean of the given points
func Centroid(points []Point) Point {
	if len(points) == 0 {
		return Point{}
	}

	var sumLat, sumLng float64
	for _, p := range points {
		sumLat += p.Latitude
		sumLng += p.Longitude
	}

	n := float64(len(points))
	return Point{Latitude: sumLat / n, Longitude: sumLng / n}
}

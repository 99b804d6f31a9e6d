package domain

import (
	"errors"
	"fmt"
	"math"
)

// EarthRadiusMeters is the mean earth radius used for all great-circle distances.
const EarthRadiusMeters = 6_371_000.0

var ErrInvalidCoordinate = errors.New("invalid coordinate")

// GeoPoint is a WGS 84 coordinate in degrees.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"  yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

// NewGeoPoint returns a GeoPoint, if latitude is in [-90,90] and longitude in [-180,180].
func NewGeoPoint(latitude, longitude float64) (GeoPoint, error) {
	p := GeoPoint{Latitude: latitude, Longitude: longitude}

	if err := p.Validate(); err != nil {
		return GeoPoint{}, err
	}

	return p, nil
}

func (p GeoPoint) Validate() error {
	if !isFinite(p.Latitude) || p.Latitude < -90 || p.Latitude > 90 {
		return fmt.Errorf("%w: latitude out of range: %v", ErrInvalidCoordinate, p.Latitude)
	}

	if !isFinite(p.Longitude) || p.Longitude < -180 || p.Longitude > 180 {
		return fmt.Errorf("%w: longitude out of range: %v", ErrInvalidCoordinate, p.Longitude)
	}

	return nil
}

func (p GeoPoint) String() string {
	return fmt.Sprintf("%.6f,%.6f", p.Latitude, p.Longitude)
}

// DistanceMeters returns the haversine great-circle distance between a and b.
// Inputs are expected to be valid, see GeoPoint.Validate.
func DistanceMeters(a, b GeoPoint) float64 {
	lat1 := toRadians(a.Latitude)
	lat2 := toRadians(b.Latitude)
	dLat := toRadians(b.Latitude - a.Latitude)
	dLon := toRadians(b.Longitude - a.Longitude)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)

	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMeters * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

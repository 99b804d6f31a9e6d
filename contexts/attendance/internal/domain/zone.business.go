package domain

import (
	"fmt"
	"math"
	"strings"
)

// AllowedZone is a circular area an employee is allowed to clock in from, e.g. an office.
type AllowedZone struct {
	Name         string   `json:"name"         yaml:"name"`
	Center       GeoPoint `json:"center"       yaml:"center"`
	RadiusMeters float64  `json:"radiusMeters" yaml:"radius_meters"`
}

// Validate fails with ErrInvalidCoordinate for a zone that cannot be matched or reported.
// A matched zone is reported by its name, so a blank name is invalid.
func (z AllowedZone) Validate() error {
	if strings.TrimSpace(z.Name) == "" {
		return fmt.Errorf("%w: zone without name", ErrInvalidCoordinate)
	}

	if err := z.Center.Validate(); err != nil {
		return fmt.Errorf("zone %q: %w", z.Name, err)
	}

	if math.IsNaN(z.RadiusMeters) || z.RadiusMeters <= 0 {
		return fmt.Errorf("%w: zone %q: radius must be positive: %v", ErrInvalidCoordinate, z.Name, z.RadiusMeters)
	}

	return nil
}

// Contains reports whether point is inside the zone. The boundary counts as inside.
func (z AllowedZone) Contains(point GeoPoint) bool {
	return DistanceMeters(point, z.Center) <= z.RadiusMeters
}

// FindMatchingZone returns the first zone, in the order given, that contains point.
// Callers control priority by ordering zones; there is no sorting by distance.
func FindMatchingZone(point GeoPoint, zones []AllowedZone) (AllowedZone, bool) {
	for _, z := range zones {
		if z.Contains(point) {
			return z, true
		}
	}

	return AllowedZone{}, false
}

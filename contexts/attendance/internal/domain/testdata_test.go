package domain_test

import (
	"context"
	"math"
	"time"

	"github.com/go-arrower/hrsuite/contexts/attendance/internal/domain"
)

var (
	ctx = context.Background()

	bangkok   = domain.GeoPoint{Latitude: 13.7563, Longitude: 100.5018}
	vientiane = domain.GeoPoint{Latitude: 17.9757, Longitude: 102.6331}

	capturedAt = time.Date(2026, 3, 2, 8, 55, 0, 0, time.UTC)
	fixedNow   = func() time.Time { return time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC) }

	headOffice = domain.AllowedZone{
		Name:         "head office",
		Center:       bangkok,
		RadiusMeters: 200,
	}
	branchOffice = domain.AllowedZone{
		Name:         "branch office",
		Center:       vientiane,
		RadiusMeters: 500,
	}

	officeWiFi = domain.NetworkIdentity{SSID: "hr-office", BSSID: "AA:BB:CC:DD:EE:FF"}
)

// north returns the point meters north of p.
func north(p domain.GeoPoint, meters float64) domain.GeoPoint {
	return domain.GeoPoint{
		Latitude:  p.Latitude + meters/domain.EarthRadiusMeters*180/math.Pi,
		Longitude: p.Longitude,
	}
}

func pointer[T any](v T) *T {
	return &v
}

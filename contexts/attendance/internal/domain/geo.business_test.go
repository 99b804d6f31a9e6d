package domain_test

import (
	"math"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"

	"github.com/go-arrower/hrsuite/contexts/attendance/internal/domain"
)

func TestNewGeoPoint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		testName string
		lat      float64
		lon      float64
		err      error
	}{
		{"origin", 0, 0, nil},
		{"bangkok", bangkok.Latitude, bangkok.Longitude, nil},
		{"north pole", 90, 0, nil},
		{"date line", 0, -180, nil},
		{"latitude too big", 90.0001, 0, domain.ErrInvalidCoordinate},
		{"latitude too small", -91, 0, domain.ErrInvalidCoordinate},
		{"longitude too big", 0, 180.5, domain.ErrInvalidCoordinate},
		{"longitude too small", 0, -181, domain.ErrInvalidCoordinate},
		{"nan", math.NaN(), 0, domain.ErrInvalidCoordinate},
		{"inf", 0, math.Inf(1), domain.ErrInvalidCoordinate},
	}

	for _, tt := range tests {
		t.Run(tt.testName, func(t *testing.T) {
			t.Parallel()

			p, err := domain.NewGeoPoint(tt.lat, tt.lon)
			assert.ErrorIs(t, err, tt.err)

			if tt.err == nil {
				assert.Equal(t, tt.lat, p.Latitude)
				assert.Equal(t, tt.lon, p.Longitude)
			}
		})
	}
}

func TestDistanceMeters(t *testing.T) {
	t.Parallel()

	t.Run("same point", func(t *testing.T) {
		t.Parallel()

		for range 100 {
			p := randomPoint()
			assert.Zero(t, domain.DistanceMeters(p, p))
		}
	})

	t.Run("non negative and symmetric", func(t *testing.T) {
		t.Parallel()

		for range 100 {
			a, b := randomPoint(), randomPoint()

			ab := domain.DistanceMeters(a, b)
			ba := domain.DistanceMeters(b, a)

			assert.GreaterOrEqual(t, ab, 0.0)
			assert.InEpsilon(t, ab, ba, 1e-6, "%v <-> %v", a, b)
		}
	})

	t.Run("bangkok to vientiane", func(t *testing.T) {
		t.Parallel()

		// haversine great-circle distance with the mean earth radius
		const expected = 521_596.0

		assert.InEpsilon(t, expected, domain.DistanceMeters(bangkok, vientiane), 0.01)
	})

	t.Run("offset along a meridian", func(t *testing.T) {
		t.Parallel()

		origin := domain.GeoPoint{}

		assert.InDelta(t, 50.0, domain.DistanceMeters(origin, north(origin, 50)), 1e-6)
		assert.InDelta(t, 150.0, domain.DistanceMeters(origin, north(origin, 150)), 1e-6)
	})

	t.Run("antipodes", func(t *testing.T) {
		t.Parallel()

		d := domain.DistanceMeters(domain.GeoPoint{Latitude: 0, Longitude: 0}, domain.GeoPoint{Latitude: 0, Longitude: 180})
		assert.InEpsilon(t, math.Pi*domain.EarthRadiusMeters, d, 1e-9)
	})
}

func randomPoint() domain.GeoPoint {
	return domain.GeoPoint{
		Latitude:  gofakeit.Float64Range(-90, 90),
		Longitude: gofakeit.Float64Range(-180, 180),
	}
}

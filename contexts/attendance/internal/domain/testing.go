package domain

import (
	"context"
	"sync/atomic"
	"time"
)

//
// This file contains static providers to make the ComplianceChecker
// easy to use in tests and for offline checks.
//

// StaticPosition always returns the same reading.
func StaticPosition(reading PositionReading) *StaticPositionProvider {
	return &StaticPositionProvider{reading: reading}
}

type StaticPositionProvider struct {
	reading PositionReading
	calls   atomic.Int32
}

func (p *StaticPositionProvider) CurrentPosition(_ context.Context, _ PositionRequest) (PositionReading, error) {
	p.calls.Add(1)

	return p.reading, nil
}

// Calls returns how often the provider was asked for a position.
func (p *StaticPositionProvider) Calls() int { return int(p.calls.Load()) }

// FailingPosition always fails with err.
func FailingPosition(err error) GeolocationProvider {
	return positionFunc(func(_ context.Context, _ PositionRequest) (PositionReading, error) {
		return PositionReading{}, err
	})
}

// BlockingPosition never answers and waits for ctx to be done.
func BlockingPosition() GeolocationProvider {
	return positionFunc(func(ctx context.Context, _ PositionRequest) (PositionReading, error) {
		<-ctx.Done()

		return PositionReading{}, ctx.Err()
	})
}

type positionFunc func(ctx context.Context, req PositionRequest) (PositionReading, error)

func (f positionFunc) CurrentPosition(ctx context.Context, req PositionRequest) (PositionReading, error) {
	return f(ctx, req)
}

// StaticNetwork returns network, or err if it is not nil.
func StaticNetwork(network NetworkIdentity, err error) NetworkIdentityProvider {
	return networkFunc(func(_ context.Context) (NetworkIdentity, error) {
		if err != nil {
			return NetworkIdentity{}, err
		}

		return network, nil
	})
}

type networkFunc func(ctx context.Context) (NetworkIdentity, error)

func (f networkFunc) CurrentNetwork(ctx context.Context) (NetworkIdentity, error) { return f(ctx) }

// StaticGeocoder returns address for every point, or err if it is not nil.
func StaticGeocoder(address string, err error) ReverseGeocoder {
	return geocoderFunc(func(_ context.Context, _ GeoPoint) (string, error) {
		if err != nil {
			return "", err
		}

		return address, nil
	})
}

type geocoderFunc func(ctx context.Context, point GeoPoint) (string, error)

func (f geocoderFunc) ResolveAddress(ctx context.Context, point GeoPoint) (string, error) {
	return f(ctx, point)
}

// GPSReading is a convenience helper returning a fresh gps reading for lat, lon.
func GPSReading(lat, lon, accuracy float64, capturedAt time.Time) PositionReading {
	return PositionReading{
		Point:          &GeoPoint{Latitude: lat, Longitude: lon},
		AccuracyMeters: accuracy,
		CapturedAt:     capturedAt,
		Source:         SourceGPS,
	}
}

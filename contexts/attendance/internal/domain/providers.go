package domain

import (
	"context"
	"errors"
	"net"
	"time"
)

var (
	ErrPositionUnavailable    = errors.New("position unavailable")
	ErrPermissionDenied       = errors.New("permission denied")
	ErrTimeout                = errors.New("position request timed out")
	ErrNetworkInfoUnavailable = errors.New("network info unavailable")
	ErrGeocodingUnavailable   = errors.New("geocoding unavailable")
	ErrIPLocationUnavailable  = errors.New("ip location unavailable")
)

// PositionRequest mirrors the options a device geolocation API accepts.
type PositionRequest struct {
	Timeout      time.Duration
	HighAccuracy bool
	// MaxAge is the maximum age of a cached fix. Zero means a fresh fix is required.
	MaxAge time.Duration
}

// GeolocationProvider returns the current position of the device performing the check.
type GeolocationProvider interface {
	CurrentPosition(ctx context.Context, req PositionRequest) (PositionReading, error)
}

// NetworkIdentityProvider returns the WiFi network the device is connected to.
type NetworkIdentityProvider interface {
	CurrentNetwork(ctx context.Context) (NetworkIdentity, error)
}

// ReverseGeocoder resolves a point to a human-readable address.
type ReverseGeocoder interface {
	ResolveAddress(ctx context.Context, point GeoPoint) (string, error)
}

// IPLocator resolves an ip address to an approximate location.
// The precision is city level at best, so it never proves compliance.
type IPLocator interface {
	LocateIP(ctx context.Context, ip string) (IPLocation, error)
}

type IPLocation struct {
	IP          net.IP
	Country     string
	CountryCode string
	Region      string
	City        string
	Point       *GeoPoint
}

// Browser geolocation error codes, see GeolocationPositionError.
const (
	PositionErrorNone             = 0
	PositionErrorPermissionDenied = 1
	PositionErrorUnavailable      = 2
	PositionErrorTimeout          = 3
)

// LocationReport is what a client submits for a check: the answer of the
// device geolocation API and, from the mobile app, the WiFi network it is connected to.
type LocationReport struct {
	Latitude  *float64
	Longitude *float64
	Accuracy  float64
	// Timestamp is when the device captured the position.
	Timestamp time.Time
	// PositionError is one of the PositionErrorX codes.
	PositionError int

	SSID  string
	BSSID string
}

// HasPosition reports whether the client sent coordinates.
func (r LocationReport) HasPosition() bool {
	return r.PositionError == PositionErrorNone && r.Latitude != nil && r.Longitude != nil
}

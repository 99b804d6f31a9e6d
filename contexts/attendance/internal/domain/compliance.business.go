package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-arrower/hrsuite/alog"
)

const (
	// DefaultGPSTimeout bounds the wait for a position fix.
	DefaultGPSTimeout = 10 * time.Second

	AddressUnavailable = "address unavailable"
	AddressWiFiMatched = "verified via WiFi network"
)

type PositionSource string

const (
	SourceGPS  PositionSource = "gps"
	SourceWiFi PositionSource = "wifi"
	SourceIP   PositionSource = "ip"
)

// PositionReading is a position reported by a provider at check time.
// Point is nil, if the source could not determine coordinates.
type PositionReading struct {
	Point          *GeoPoint      `json:"point"`
	AccuracyMeters float64        `json:"accuracyMeters"`
	CapturedAt     time.Time      `json:"capturedAt"`
	Source         PositionSource `json:"source"`
}

// ErrorKind explains why a ComplianceResult is not compliant.
type ErrorKind string

const (
	NoError             ErrorKind = ""
	NoZonesConfigured   ErrorKind = "NoZonesConfigured"
	OutsideAllowedZone  ErrorKind = "OutsideAllowedZone"
	GPSUnavailable      ErrorKind = "GPSUnavailable"
	LocationCheckFailed ErrorKind = "LocationCheckFailed"
	InvalidCoordinate   ErrorKind = "InvalidCoordinate"
)

// ComplianceResult is the outcome of one compliance check.
// A compliant result always carries either MatchedZoneName or NetworkMatched.
type ComplianceResult struct { //nolint:govet // fieldalignment less important than grouping of fields.
	IsCompliant bool `json:"isCompliant"`

	MatchedZoneName string          `json:"matchedZoneName,omitempty"`
	NetworkMatched  bool            `json:"networkMatched"`
	MatchedNetwork  NetworkIdentity `json:"matchedNetwork,omitempty"`

	Reading         *PositionReading `json:"reading,omitempty"`
	ResolvedAddress string           `json:"resolvedAddress,omitempty"`
	IPLocation      *IPLocation      `json:"ipLocation,omitempty"`

	ErrorKind ErrorKind `json:"errorKind,omitempty"`
}

// Method returns the strategy that decided the result.
func (r ComplianceResult) Method() PositionSource {
	if r.Reading == nil {
		return ""
	}

	return r.Reading.Source
}

// CheckOptions configure the fallback strategies of a single check.
type CheckOptions struct {
	UseWiFi         bool
	UseIP           bool
	AllowedNetworks []NetworkIdentity

	// ClientIP is used by the IP strategy, if an IPLocator is configured.
	ClientIP string

	// GPSTimeout defaults to DefaultGPSTimeout.
	GPSTimeout time.Duration
}

// CheckerOption allows to initialise a ComplianceChecker with custom options.
type CheckerOption func(*ComplianceChecker)

func WithIPLocator(locator IPLocator) CheckerOption {
	return func(c *ComplianceChecker) {
		c.ip = locator
	}
}

func WithLogger(logger alog.Logger) CheckerOption {
	return func(c *ComplianceChecker) {
		c.logger = logger
	}
}

// WithClock sets the time source used to timestamp readings without a capture time of their own.
func WithClock(now func() time.Time) CheckerOption {
	return func(c *ComplianceChecker) {
		c.now = now
	}
}

// NewComplianceChecker returns a ComplianceChecker using the given providers.
// The network provider and geocoder may be nil: the WiFi strategy is then inconclusive and
// addresses degrade to AddressUnavailable.
func NewComplianceChecker(
	geo GeolocationProvider,
	network NetworkIdentityProvider,
	geocoder ReverseGeocoder,
	opts ...CheckerOption,
) *ComplianceChecker {
	c := &ComplianceChecker{
		geo:      geo,
		network:  network,
		geocoder: geocoder,
		ip:       nil,
		logger:   alog.NewNoop(),
		now:      func() time.Time { return time.Now().UTC() },
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// ComplianceChecker decides, if a device is at an allowed place.
// It tries GPS, then WiFi, then IP, each at most once, and stops at the first conclusive strategy.
// It holds no state between checks and is safe for concurrent use.
type ComplianceChecker struct {
	geo      GeolocationProvider
	network  NetworkIdentityProvider
	geocoder ReverseGeocoder
	ip       IPLocator

	logger alog.Logger
	now    func() time.Time
}

// strategy returns conclusive=false to hand over to the next strategy in the chain.
type strategy struct {
	name string
	try  func(ctx context.Context, zones []AllowedZone, opts CheckOptions) (ComplianceResult, bool)
}

// Check runs the fallback chain for zones.
// Provider failures never surface as errors, they are part of the returned ComplianceResult.
// An error is only returned for invalid zone configuration.
func (c *ComplianceChecker) Check(ctx context.Context, zones []AllowedZone, opts CheckOptions) (ComplianceResult, error) {
	if len(zones) == 0 {
		c.logger.LogAttrs(ctx, slog.LevelDebug, "no zones configured")

		return ComplianceResult{IsCompliant: false, ErrorKind: NoZonesConfigured}, nil
	}

	for _, z := range zones {
		if err := z.Validate(); err != nil {
			return ComplianceResult{IsCompliant: false, ErrorKind: InvalidCoordinate}, err
		}
	}

	if opts.GPSTimeout <= 0 {
		opts.GPSTimeout = DefaultGPSTimeout
	}

	for _, s := range c.strategies(opts) {
		c.logger.LogAttrs(ctx, slog.LevelDebug, "trying location strategy", slog.String("strategy", s.name))

		if res, conclusive := s.try(ctx, zones, opts); conclusive {
			return res, nil
		}
	}

	c.logger.LogAttrs(ctx, slog.LevelInfo, "location check failed: no strategy was conclusive")

	return ComplianceResult{IsCompliant: false, ErrorKind: LocationCheckFailed}, nil
}

func (c *ComplianceChecker) strategies(opts CheckOptions) []strategy {
	chain := []strategy{{name: string(SourceGPS), try: c.tryGPS}}

	if opts.UseWiFi {
		chain = append(chain, strategy{name: string(SourceWiFi), try: c.tryWiFi})
	}

	if opts.UseIP {
		chain = append(chain, strategy{name: string(SourceIP), try: c.tryIP})
	}

	return chain
}

func (c *ComplianceChecker) tryGPS(ctx context.Context, zones []AllowedZone, opts CheckOptions) (ComplianceResult, bool) {
	reading, err := c.currentPosition(ctx, PositionRequest{
		Timeout:      opts.GPSTimeout,
		HighAccuracy: true,
		MaxAge:       0,
	})
	if err != nil {
		c.logger.LogAttrs(ctx, slog.LevelInfo, "gps unavailable", slog.String("err", err.Error()))

		return ComplianceResult{}, false
	}

	if reading.Point == nil {
		c.logger.LogAttrs(ctx, slog.LevelInfo, "gps unavailable", slog.String("err", "reading without coordinates"))

		return ComplianceResult{}, false
	}

	if err := reading.Point.Validate(); err != nil {
		c.logger.LogAttrs(ctx, slog.LevelInfo, "gps unavailable", slog.String("err", err.Error()))

		return ComplianceResult{}, false
	}

	point := *reading.Point

	reading.Point = &point
	reading.Source = SourceGPS
	if reading.CapturedAt.IsZero() {
		reading.CapturedAt = c.now()
	}

	zone, matched := FindMatchingZone(point, zones)
	address := c.resolveAddress(ctx, point)

	if !matched {
		c.logger.LogAttrs(ctx, slog.LevelDebug, "position outside of all zones", slog.String("point", point.String()))

		return ComplianceResult{
			IsCompliant:     false,
			Reading:         &reading,
			ResolvedAddress: address,
			ErrorKind:       OutsideAllowedZone,
		}, true
	}

	c.logger.LogAttrs(ctx, slog.LevelDebug, "position inside zone",
		slog.String("point", point.String()),
		slog.String("zone", zone.Name),
	)

	return ComplianceResult{
		IsCompliant:     true,
		MatchedZoneName: zone.Name,
		Reading:         &reading,
		ResolvedAddress: address,
	}, true
}

func (c *ComplianceChecker) tryWiFi(ctx context.Context, _ []AllowedZone, opts CheckOptions) (ComplianceResult, bool) {
	if c.network == nil {
		c.logger.LogAttrs(ctx, slog.LevelInfo, "wifi unavailable", slog.String("err", "no network provider"))

		return ComplianceResult{}, false
	}

	current, err := c.network.CurrentNetwork(ctx)
	if err != nil {
		c.logger.LogAttrs(ctx, slog.LevelInfo, "wifi unavailable", slog.String("err", err.Error()))

		return ComplianceResult{}, false
	}

	if _, ok := MatchNetwork(current, opts.AllowedNetworks); !ok {
		c.logger.LogAttrs(ctx, slog.LevelDebug, "network not allowed",
			slog.String("ssid", current.SSID),
			slog.String("bssid", current.BSSID),
		)

		return ComplianceResult{}, false
	}

	return ComplianceResult{
		IsCompliant:     true,
		NetworkMatched:  true,
		MatchedNetwork:  current,
		Reading:         &PositionReading{Point: nil, AccuracyMeters: 0, CapturedAt: c.now(), Source: SourceWiFi},
		ResolvedAddress: AddressWiFiMatched,
	}, true
}

// tryIP is always conclusive and never compliant: ip based locations are too coarse to prove presence.
// If a locator is configured, its result is attached for the caller to display.
func (c *ComplianceChecker) tryIP(ctx context.Context, _ []AllowedZone, opts CheckOptions) (ComplianceResult, bool) {
	res := ComplianceResult{
		IsCompliant: false,
		Reading:     &PositionReading{Point: nil, AccuracyMeters: 0, CapturedAt: c.now(), Source: SourceIP},
		ErrorKind:   GPSUnavailable,
	}

	if c.ip == nil || opts.ClientIP == "" {
		return res, true
	}

	loc, err := c.ip.LocateIP(ctx, opts.ClientIP)
	if err != nil {
		c.logger.LogAttrs(ctx, slog.LevelInfo, "could not locate ip",
			slog.String("ip", opts.ClientIP),
			slog.String("err", err.Error()),
		)

		return res, true
	}

	res.IPLocation = &loc

	return res, true
}

// resolveAddress never fails, errors degrade to AddressUnavailable.
func (c *ComplianceChecker) resolveAddress(ctx context.Context, point GeoPoint) string {
	if c.geocoder == nil {
		return AddressUnavailable
	}

	address, err := c.geocoder.ResolveAddress(ctx, point)
	if err != nil || address == "" {
		if err == nil {
			err = ErrGeocodingUnavailable
		}

		c.logger.LogAttrs(ctx, slog.LevelInfo, "could not resolve address",
			slog.String("point", point.String()),
			slog.String("err", err.Error()),
		)

		return AddressUnavailable
	}

	return address
}

// currentPosition bounds the provider call with req.Timeout,
// even if the provider itself does not honour ctx.
func (c *ComplianceChecker) currentPosition(ctx context.Context, req PositionRequest) (PositionReading, error) {
	if c.geo == nil {
		return PositionReading{}, fmt.Errorf("%w: no geolocation provider", ErrPositionUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, req.Timeout)
	defer cancel()

	type answer struct {
		reading PositionReading
		err     error
	}

	ch := make(chan answer, 1)

	go func() {
		reading, err := c.geo.CurrentPosition(ctx, req)
		ch <- answer{reading: reading, err: err}
	}()

	select {
	case a := <-ch:
		if errors.Is(a.err, context.DeadlineExceeded) {
			return PositionReading{}, fmt.Errorf("%w: %v", ErrTimeout, a.err) //nolint:errorlint // prevent err in api
		}

		return a.reading, a.err
	case <-ctx.Done():
		return PositionReading{}, fmt.Errorf("%w: %v", ErrTimeout, ctx.Err()) //nolint:errorlint // prevent err in api
	}
}

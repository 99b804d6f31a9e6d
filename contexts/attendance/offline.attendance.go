// Package attendance exposes what other parts of hrsuite can use from the attendance Context.
package attendance

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/go-arrower/hrsuite/alog"
	"github.com/go-arrower/hrsuite/contexts/attendance/internal/domain"
	"github.com/go-arrower/hrsuite/contexts/attendance/internal/infrastructure"
)

var ErrInvalidZoneFile = errors.New("invalid zone file")

// ZoneFile lists the places an offline check accepts, e.g.:
//
//	zones:
//	  - name: Head Office
//	    center: {latitude: 13.7563, longitude: 100.5018}
//	    radius_meters: 200
//	networks:
//	  - ssid: hr-office
type ZoneFile struct {
	Zones    []domain.AllowedZone     `yaml:"zones"`
	Networks []domain.NetworkIdentity `yaml:"networks"`
}

func LoadZoneFile(path string) (ZoneFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ZoneFile{}, fmt.Errorf("could not read zone file: %w", err)
	}

	var zf ZoneFile
	if err = yaml.Unmarshal(data, &zf); err != nil {
		return ZoneFile{}, fmt.Errorf("%w: %w", ErrInvalidZoneFile, err)
	}

	return zf, nil
}

// Position is what a device reports for an offline check.
type Position struct {
	Latitude  *float64
	Longitude *float64
	Accuracy  float64

	SSID  string
	BSSID string
}

// CheckResult is the outcome of an offline check.
type CheckResult struct {
	Compliant bool
	Method    string
	Zone      string
	Network   string
	ErrorKind string

	// Nearest is the zone closest to the position, empty if there was no position.
	Nearest         string
	NearestDistance float64
}

// CheckOffline runs the compliance check against zf without any server or database.
// Addresses are not resolved and the IP strategy is skipped.
func CheckOffline(ctx context.Context, logger alog.Logger, zf ZoneFile, pos Position, useWiFi bool) (CheckResult, error) {
	if logger == nil {
		logger = alog.NewNoop()
	}

	now := time.Now().UTC()
	report := domain.LocationReport{
		Latitude:      pos.Latitude,
		Longitude:     pos.Longitude,
		Accuracy:      pos.Accuracy,
		Timestamp:     now,
		PositionError: domain.PositionErrorNone,
		SSID:          pos.SSID,
		BSSID:         pos.BSSID,
	}

	if !report.HasPosition() {
		report.PositionError = domain.PositionErrorUnavailable
	}

	checker := domain.NewComplianceChecker(
		infrastructure.NewReportedPosition(report, now, 0),
		infrastructure.NewReportedNetwork(report),
		nil,
		domain.WithLogger(logger),
	)

	res, err := checker.Check(ctx, zf.Zones, domain.CheckOptions{
		UseWiFi:         useWiFi,
		UseIP:           false,
		AllowedNetworks: zf.Networks,
	})
	if err != nil {
		return CheckResult{}, fmt.Errorf("%w: %w", ErrInvalidZoneFile, err)
	}

	result := CheckResult{
		Compliant: res.IsCompliant,
		Method:    string(res.Method()),
		Zone:      res.MatchedZoneName,
		ErrorKind: string(res.ErrorKind),
	}

	if res.NetworkMatched {
		result.Network = res.MatchedNetwork.SSID
		if result.Network == "" {
			result.Network = res.MatchedNetwork.BSSID
		}
	}

	if report.HasPosition() {
		// an out of range position has no meaningful nearest zone
		if point, err := domain.NewGeoPoint(*pos.Latitude, *pos.Longitude); err == nil {
			result.Nearest, result.NearestDistance = nearest(point, zf.Zones)
		}
	}

	return result, nil
}

func nearest(point domain.GeoPoint, zones []domain.AllowedZone) (string, float64) {
	name, distance := "", math.Inf(1)

	for _, z := range zones {
		if d := domain.DistanceMeters(point, z.Center); d < distance {
			name, distance = z.Name, d
		}
	}

	return name, distance
}

package infrastructure

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-arrower/hrsuite/contexts/attendance/internal/domain"
)

var (
	_ domain.GeolocationProvider     = (*ReportedPosition)(nil)
	_ domain.NetworkIdentityProvider = (*ReportedNetwork)(nil)
)

// NewReportedPosition returns a GeolocationProvider answering with the position a browser reported
// for a request received at receivedAt.
// maxSkew is how much older than receivedAt a reading may be and still count as a fresh fix.
func NewReportedPosition(report domain.LocationReport, receivedAt time.Time, maxSkew time.Duration) *ReportedPosition {
	return &ReportedPosition{
		report:     report,
		receivedAt: receivedAt,
		maxSkew:    maxSkew,
	}
}

// ReportedPosition replays the answer of the device geolocation API.
// The device already waited for its fix, so CurrentPosition never blocks.
type ReportedPosition struct {
	report     domain.LocationReport
	receivedAt time.Time
	maxSkew    time.Duration
}

func (p *ReportedPosition) CurrentPosition(ctx context.Context, req domain.PositionRequest) (domain.PositionReading, error) {
	if err := ctx.Err(); err != nil {
		return domain.PositionReading{}, err //nolint:wrapcheck // the checker maps a deadline to a timeout
	}

	switch p.report.PositionError {
	case domain.PositionErrorNone:
	case domain.PositionErrorPermissionDenied:
		return domain.PositionReading{}, domain.ErrPermissionDenied
	case domain.PositionErrorTimeout:
		return domain.PositionReading{}, domain.ErrTimeout
	default:
		return domain.PositionReading{}, fmt.Errorf("%w: device error code %d", domain.ErrPositionUnavailable, p.report.PositionError)
	}

	if !p.report.HasPosition() {
		return domain.PositionReading{}, fmt.Errorf("%w: no coordinates reported", domain.ErrPositionUnavailable)
	}

	capturedAt := p.report.Timestamp
	if capturedAt.IsZero() || capturedAt.After(p.receivedAt) {
		capturedAt = p.receivedAt
	}

	if age := p.receivedAt.Sub(capturedAt); age > req.MaxAge+p.maxSkew {
		return domain.PositionReading{}, fmt.Errorf("%w: reported position is %s old", domain.ErrPositionUnavailable, age)
	}

	return domain.PositionReading{
		Point:          &domain.GeoPoint{Latitude: *p.report.Latitude, Longitude: *p.report.Longitude},
		AccuracyMeters: p.report.Accuracy,
		CapturedAt:     capturedAt.UTC(),
		Source:         domain.SourceGPS,
	}, nil
}

// NewReportedNetwork returns a NetworkIdentityProvider answering with the WiFi network a client reported.
// Browsers can not read WiFi information, so it is only available from the mobile app.
func NewReportedNetwork(report domain.LocationReport) *ReportedNetwork {
	return &ReportedNetwork{
		identity: domain.NetworkIdentity{
			SSID:  report.SSID,
			BSSID: strings.TrimSpace(report.BSSID),
		},
	}
}

type ReportedNetwork struct {
	identity domain.NetworkIdentity
}

func (n *ReportedNetwork) CurrentNetwork(ctx context.Context) (domain.NetworkIdentity, error) {
	if err := ctx.Err(); err != nil {
		return domain.NetworkIdentity{}, fmt.Errorf("%w: %w", domain.ErrNetworkInfoUnavailable, err)
	}

	if n.identity.IsEmpty() {
		return domain.NetworkIdentity{}, fmt.Errorf("%w: not reported", domain.ErrNetworkInfoUnavailable)
	}

	return n.identity, nil
}

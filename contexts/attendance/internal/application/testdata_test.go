package application_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/go-arrower/hrsuite/contexts/attendance/internal/application"
	"github.com/go-arrower/hrsuite/contexts/attendance/internal/domain"
	"github.com/go-arrower/hrsuite/contexts/attendance/internal/infrastructure"
	"github.com/go-arrower/hrsuite/contexts/attendance/internal/interfaces/repository"
)

var ctx = context.Background()

const (
	orgID      domain.OrganizationID = "acme"
	employeeID domain.EmployeeID     = "alice"

	address = "Rama I Rd, Pathum Wan, Bangkok"
	iPhone  = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"
)

var (
	// headOffice is at the centre of Bangkok, chiangMai about 580km north of it.
	headOffice = domain.GeoPoint{Latitude: 13.7466, Longitude: 100.5393}
	chiangMai  = domain.GeoPoint{Latitude: 18.7883, Longitude: 98.9853}
)

func pointer[T any](v T) *T { return &v }

func reportAt(p domain.GeoPoint) domain.LocationReport {
	return domain.LocationReport{
		Latitude:  pointer(p.Latitude),
		Longitude: pointer(p.Longitude),
		Accuracy:  10,
		Timestamp: time.Now(),
	}
}

func deniedWithWiFi(ssid string) domain.LocationReport {
	return domain.LocationReport{PositionError: domain.PositionErrorPermissionDenied, SSID: ssid}
}

type fixture struct {
	offices  *repository.OfficeMemoryRepository
	networks *repository.NetworkMemoryRepository
	records  *repository.RecordMemoryRepository
	checker  *application.LocationChecker
}

// newFixture returns memory repositories with one office and one network of orgID
// and a checker with all strategies enabled.
func newFixture(t *testing.T) fixture {
	t.Helper()

	f := fixture{
		offices:  repository.NewOfficeMemoryRepository(),
		networks: repository.NewNetworkMemoryRepository(),
		records:  repository.NewRecordMemoryRepository(),
	}

	office, err := domain.NewOffice(orgID, "Head Office", 0, headOffice.Latitude, headOffice.Longitude, 200, address)
	require.NoError(t, err)
	require.NoError(t, f.offices.Save(ctx, office))

	network, err := domain.NewAllowedNetwork(orgID, "office", "hr-office", "")
	require.NoError(t, err)
	require.NoError(t, f.networks.Save(ctx, network))

	f.checker = application.NewLocationChecker(f.offices, f.networks, providers(), application.Settings{
		GPSTimeout: time.Second,
		UseWiFi:    true,
		UseIP:      true,
	}, nil, nil)

	return f
}

func providers() application.Providers {
	return application.Providers{
		Position: func(report domain.LocationReport, receivedAt time.Time) domain.GeolocationProvider {
			return infrastructure.NewReportedPosition(report, receivedAt, time.Minute)
		},
		Network: func(report domain.LocationReport) domain.NetworkIdentityProvider {
			return infrastructure.NewReportedNetwork(report)
		},
		Geocoder: domain.StaticGeocoder(address, nil),
		IP:       nil,
	}
}

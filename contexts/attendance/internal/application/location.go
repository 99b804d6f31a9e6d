package application

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/go-arrower/hrsuite/alog"
	"github.com/go-arrower/hrsuite/contexts/attendance/internal/domain"
)

const instrumentationName = "hrsuite.attendance"

// Settings configure the compliance checks of all use cases.
type Settings struct {
	GPSTimeout time.Duration
	UseWiFi    bool
	UseIP      bool
}

// Providers turn what a client reported into the providers of a single check.
// All fields are optional, a missing provider makes its strategy inconclusive.
type Providers struct {
	Position func(report domain.LocationReport, receivedAt time.Time) domain.GeolocationProvider
	Network  func(report domain.LocationReport) domain.NetworkIdentityProvider
	Geocoder domain.ReverseGeocoder
	IP       domain.IPLocator
}

func NewLocationChecker(
	offices domain.OfficeRepository,
	networks domain.NetworkRepository,
	providers Providers,
	settings Settings,
	logger alog.Logger,
	meterProvider metric.MeterProvider,
) *LocationChecker {
	if logger == nil {
		logger = alog.NewNoop()
	}

	if meterProvider == nil {
		meterProvider = noop.NewMeterProvider()
	}

	checks, _ := meterProvider.Meter(instrumentationName).Int64Counter("compliance_checks",
		metric.WithDescription("number of location compliance checks by the strategy that decided them"),
	)

	return &LocationChecker{
		offices:   offices,
		networks:  networks,
		providers: providers,
		settings:  settings,
		logger:    logger,
		checks:    checks,
		now:       time.Now,
	}
}

// LocationChecker runs the compliance check of an organisation for what a client reported.
// It is shared by all use cases that need to know where an employee is.
type LocationChecker struct {
	offices   domain.OfficeRepository
	networks  domain.NetworkRepository
	providers Providers
	settings  Settings

	logger alog.Logger
	checks metric.Int64Counter
	now    func() time.Time
}

func (lc *LocationChecker) Check(
	ctx context.Context,
	orgID domain.OrganizationID,
	report domain.LocationReport,
	clientIP string,
) (domain.ComplianceResult, error) {
	offices, err := lc.offices.ByOrganization(ctx, orgID)
	if err != nil {
		return domain.ComplianceResult{}, fmt.Errorf("could not get offices: %w", err)
	}

	networks, err := lc.networks.ByOrganization(ctx, orgID)
	if err != nil {
		return domain.ComplianceResult{}, fmt.Errorf("could not get networks: %w", err)
	}

	res, err := lc.checker(report).Check(ctx, domain.Zones(offices), domain.CheckOptions{
		UseWiFi:         lc.settings.UseWiFi,
		UseIP:           lc.settings.UseIP,
		AllowedNetworks: domain.Identities(networks),
		ClientIP:        clientIP,
		GPSTimeout:      lc.settings.GPSTimeout,
	})
	if err != nil {
		return res, fmt.Errorf("invalid office configuration: %w", err)
	}

	method := string(res.Method())
	if method == "" {
		method = string(domain.MethodNone)
	}

	lc.checks.Add(ctx, 1, metric.WithAttributes(
		attribute.String("method", method),
		attribute.Bool("compliant", res.IsCompliant),
		attribute.String("error_kind", string(res.ErrorKind)),
	))

	return res, nil
}

func (lc *LocationChecker) checker(report domain.LocationReport) *domain.ComplianceChecker {
	var (
		geo     domain.GeolocationProvider
		network domain.NetworkIdentityProvider
	)

	if lc.providers.Position != nil {
		geo = lc.providers.Position(report, lc.now())
	}

	if lc.providers.Network != nil {
		network = lc.providers.Network(report)
	}

	opts := []domain.CheckerOption{domain.WithLogger(lc.logger)}
	if lc.providers.IP != nil {
		opts = append(opts, domain.WithIPLocator(lc.providers.IP))
	}

	return domain.NewComplianceChecker(geo, network, lc.providers.Geocoder, opts...)
}

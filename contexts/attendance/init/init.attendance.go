package init

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-arrower/hrsuite"
	"github.com/go-arrower/hrsuite/alog"
	"github.com/go-arrower/hrsuite/app"
	"github.com/go-arrower/hrsuite/contexts/attendance/internal/application"
	"github.com/go-arrower/hrsuite/contexts/attendance/internal/domain"
	"github.com/go-arrower/hrsuite/contexts/attendance/internal/infrastructure"
	"github.com/go-arrower/hrsuite/contexts/attendance/internal/interfaces/web"
)

const contextName = "attendance"

func NewAttendanceContext(di *hrsuite.Container) (*AttendanceContext, error) {
	if di == nil {
		return nil, fmt.Errorf("could not initialise attendance context: %w", hrsuite.ErrMissingDependency)
	}

	if err := di.EnsureAllDependenciesPresent(); err != nil {
		return nil, fmt.Errorf("could not initialise attendance context: %w", err)
	}

	conf := di.Config.Attendance
	logger := di.Logger.WithGroup(contextName)

	repos, err := newRepositories(di)
	if err != nil {
		return nil, fmt.Errorf("could not initialise attendance context: %w", err)
	}

	ac := &AttendanceContext{logger: logger}

	providers := application.Providers{
		Position: func(report domain.LocationReport, receivedAt time.Time) domain.GeolocationProvider {
			return infrastructure.NewReportedPosition(report, receivedAt, conf.MaxPositionAge)
		},
		Network: func(report domain.LocationReport) domain.NetworkIdentityProvider {
			return infrastructure.NewReportedNetwork(report)
		},
		Geocoder: nil,
		IP:       nil,
	}

	if conf.GeocoderURL != "" {
		providers.Geocoder = infrastructure.NewNominatim(conf.GeocoderURL, conf.GeocoderUserAgent, conf.GeocoderTimeout)
	}

	if conf.IP2LocationDB != "" {
		ipDB, err := infrastructure.NewIP2Location(conf.IP2LocationDB)
		if err != nil {
			// ip lookups are informational only, so the context works without them
			logger.LogAttrs(context.Background(), slog.LevelWarn, "could not open ip2location database",
				slog.String("path", conf.IP2LocationDB),
				slog.String("err", err.Error()),
			)
		} else {
			providers.IP = ipDB
			ac.ipDB = ipDB
		}
	}

	checker := application.NewLocationChecker(repos.offices, repos.networks, providers, application.Settings{
		GPSTimeout: conf.GPSTimeout,
		UseWiFi:    conf.UseWiFi,
		UseIP:      conf.UseIP,
	}, logger, di.MeterProvider)

	var closeOpenRecords app.Job[application.CloseOpenRecordsJob] = application.NewCloseOpenRecordsJobHandler(logger, repos.records)
	if di.PGx != nil {
		closeOpenRecords = app.NewTxJob(di.PGx, closeOpenRecords)
	}

	tp, mp, v := di.TraceProvider, di.MeterProvider, di.Validator

	ac.app = application.AttendanceApplication{
		CheckLocation: app.NewInstrumentedRequest(tp, mp, logger, v, application.NewCheckLocationRequestHandler(checker)),
		ClockIn:       app.NewInstrumentedRequest(tp, mp, logger, v, application.NewClockInRequestHandler(repos.records, checker)),
		ClockOut:      app.NewInstrumentedRequest(tp, mp, logger, v, application.NewClockOutRequestHandler(repos.records, checker)),

		AddOffice:     app.NewInstrumentedRequest(tp, mp, logger, v, txRequest(di, application.NewAddOfficeRequestHandler(logger, repos.offices, providers.Geocoder))),
		RemoveOffice:  app.NewInstrumentedCommand(tp, mp, logger, v, txCommand(di, application.NewRemoveOfficeCommandHandler(repos.offices))),
		ListOffices:   app.NewInstrumentedQuery(tp, mp, logger, v, application.NewListOfficesQueryHandler(repos.offices)),
		AddNetwork:    app.NewInstrumentedRequest(tp, mp, logger, v, txRequest(di, application.NewAddNetworkRequestHandler(repos.networks))),
		RemoveNetwork: app.NewInstrumentedCommand(tp, mp, logger, v, txCommand(di, application.NewRemoveNetworkCommandHandler(repos.networks))),
		ListNetworks:  app.NewInstrumentedQuery(tp, mp, logger, v, application.NewListNetworksQueryHandler(repos.networks)),

		ExportAttendance: app.NewInstrumentedQuery(tp, mp, logger, v,
			application.NewExportAttendanceQueryHandler(repos.records, infrastructure.NewExcelExporter()),
		),
		CloseOpenRecords: app.NewInstrumentedJob(tp, mp, logger, v, closeOpenRecords),
	}

	web.RegisterRoutes(di.APIRouter, ac.app)

	if err = ac.scheduleJobs(di, conf.AutoClockOutSchedule); err != nil {
		return nil, fmt.Errorf("could not initialise attendance context: %w", err)
	}

	return ac, nil
}

// txRequest runs req in a transaction, if postgres is used.
func txRequest[Req any, Res any](di *hrsuite.Container, req app.Request[Req, Res]) app.Request[Req, Res] {
	if di.PGx == nil {
		return req
	}

	return app.NewTxRequest(di.PGx, req)
}

func txCommand[C any](di *hrsuite.Container, cmd app.Command[C]) app.Command[C] {
	if di.PGx == nil {
		return cmd
	}

	return app.NewTxCommand(di.PGx, cmd)
}

// AttendanceContext checks where employees clock in and out from.
type AttendanceContext struct {
	logger alog.Logger
	app    application.AttendanceApplication

	// ipDB is nil, if no ip2location database is configured.
	ipDB *infrastructure.IP2Location
}

// Shutdown releases the resources the context opened itself.
func (ac *AttendanceContext) Shutdown(_ context.Context) error {
	if ac.ipDB != nil {
		ac.ipDB.Close()
	}

	return nil
}

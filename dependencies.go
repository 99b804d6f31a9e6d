package hrsuite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	prometheusSDK "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"golang.org/x/sync/errgroup"

	"github.com/go-arrower/hrsuite/alog"
	"github.com/go-arrower/hrsuite/postgres"
)

var ErrMissingDependency = errors.New("missing dependency")

// Container holds global dependencies that can be used within each Context, to make initialisation easier.
// If the Context can operate with the shared resources.
// Otherwise, the Context is advised to initialise its own dependencies from its own configuration.
type Container struct {
	Logger        alog.Logger
	MeterProvider *metric.MeterProvider
	TraceProvider *trace.TracerProvider
	Registry      *prometheusSDK.Registry

	Config *Config

	// PGx is nil, if no postgres is configured. Contexts fall back to in memory repositories.
	PGx *pgxpool.Pool

	WebRouter   *echo.Echo
	APIRouter   *echo.Group
	AdminRouter *echo.Group
	Validator   *validator.Validate

	// Cron runs scheduled jobs of all Contexts.
	Cron *cron.Cron

	statusEndpoint *http.Server
	servers        *errgroup.Group
}

func (c *Container) EnsureAllDependenciesPresent() error {
	if c.Config == nil {
		return fmt.Errorf("%w: global config not found", ErrMissingDependency)
	}

	if c.Logger == nil || c.TraceProvider == nil || c.MeterProvider == nil {
		return fmt.Errorf("%w: observability not initialised", ErrMissingDependency)
	}

	if c.WebRouter == nil || c.Cron == nil {
		return fmt.Errorf("%w: web router or scheduler not initialised", ErrMissingDependency)
	}

	return nil
}

// InitialiseDefaultDependencies sets up all shared dependencies from conf.
// Postgres is only connected, if conf.Postgres.Host is set.
func InitialiseDefaultDependencies(ctx context.Context, conf *Config) (*Container, error) {
	dc := &Container{
		Config:    conf,
		Validator: validator.New(validator.WithRequiredStructEnabled()),
		Registry:  prometheusSDK.NewRegistry(),
	}

	dc.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}), //nolint:exhaustruct // use defaults
	)

	{ // observability
		res := resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(fmt.Sprintf("%s.%s", conf.OrganisationName, conf.ApplicationName)),
			semconv.ServiceInstanceIDKey.String(conf.InstanceName),
			attribute.String("environment", string(conf.Environment)),
		)

		{ // traces
			traceProvider := trace.NewTracerProvider(trace.WithResource(res))

			// while unit testing no otel endpoint is running, so spans are not exported at all.
			if conf.Environment != TestEnv {
				traceExporter, err := otlptracegrpc.New(ctx,
					otlptracegrpc.WithEndpoint(fmt.Sprintf("%s:%d", conf.OTEL.Host, conf.OTEL.Port)),
					otlptracegrpc.WithInsecure(),
				)
				if err != nil {
					return nil, fmt.Errorf("could not connect to trace exporter: %w", err)
				}

				sampler := trace.ParentBased(trace.TraceIDRatioBased(0.6)) //nolint:mnd // sample 60% in production
				if conf.Environment == LocalEnv {
					sampler = trace.AlwaysSample()
				}

				traceProvider = trace.NewTracerProvider(
					trace.WithBatcher(traceExporter),
					trace.WithResource(res),
					trace.WithSampler(sampler),
				)
			}

			dc.TraceProvider = traceProvider
			otel.SetTracerProvider(traceProvider)
		}

		{ // metrics
			exporter, err := prometheus.New(prometheus.WithRegisterer(dc.Registry))
			if err != nil {
				return nil, fmt.Errorf("could not create prometheus exporter: %w", err)
			}

			meterProvider := metric.NewMeterProvider(
				metric.WithResource(res),
				metric.WithReader(exporter),
			)

			dc.MeterProvider = meterProvider
			otel.SetMeterProvider(meterProvider)
		}
	}

	{ // logger
		logger := alog.New()
		if conf.Environment == LocalEnv {
			logger = alog.NewDevelopment()
		}

		if conf.Environment == TestEnv {
			logger = alog.NewNoop()
		}

		logger = logger.With(
			slog.String("organisation_name", conf.OrganisationName),
			slog.String("application_name", conf.ApplicationName),
			slog.String("instance_name", conf.InstanceName),
			slog.String("git_hash", gitHash()),
			slog.String("environment", string(conf.Environment)),
		)

		dc.Logger = logger
		slog.SetDefault(logger)
	}

	{ // postgres
		if conf.Postgres.Host != "" {
			pg, err := postgres.ConnectAndMigrate(ctx, postgres.Config{
				User:           conf.Postgres.User,
				Password:       conf.Postgres.Password.Secret(),
				Database:       conf.Postgres.Database,
				Host:           conf.Postgres.Host,
				Port:           conf.Postgres.Port,
				SSLMode:        conf.Postgres.SSLMode,
				MaxConns:       conf.Postgres.MaxConns,
				ConnectTimeout: conf.Postgres.ConnectTimeout,
				Migrations:     postgres.DefaultMigrations,
			}, dc.TraceProvider)
			if err != nil {
				return nil, fmt.Errorf("could not connect to postgres: %w", err)
			}

			dc.PGx = pg.PGx
		}
	}

	{ // web routers
		router := echo.New()
		router.HideBanner = true
		router.HidePort = true
		router.Logger.SetOutput(io.Discard)
		router.Validator = &CustomValidator{validator: dc.Validator}
		router.IPExtractor = echo.ExtractIPFromXFFHeader() // see: https://echo.labstack.com/docs/ip-address
		router.HTTPErrorHandler = httpErrorHandler(router)

		router.Use(middleware.Recover())
		router.Use(otelecho.Middleware(conf.OTEL.Hostname, otelecho.WithTracerProvider(dc.TraceProvider)))
		router.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{ //nolint:exhaustruct // use defaults
			Subsystem:  conf.ApplicationName,
			Registerer: dc.Registry,
		}))
		router.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{ //nolint:exhaustruct // use defaults
			TargetHeader: echo.HeaderXRequestID,
			RequestIDHandler: func(c echo.Context, rid string) {
				c.SetRequest(c.Request().WithContext(alog.AddAttr(
					c.Request().Context(),
					slog.String("request_id", rid)),
				))
			},
		}))

		if conf.Environment == LocalEnv {
			router.Debug = true
		}

		dc.WebRouter = router
		dc.AdminRouter = router.Group("/admin")
		dc.APIRouter = router.Group("/api")
	}

	{ // scheduler
		dc.Cron = cron.New(
			cron.WithLocation(time.UTC),
			cron.WithLogger(cronLogger{logger: dc.Logger}),
			cron.WithChain(cron.Recover(cronLogger{logger: dc.Logger}), cron.SkipIfStillRunning(cronLogger{logger: dc.Logger})),
		)
	}

	return dc, nil
}

// Start starts all servers and the scheduler in the background.
// Use Wait to block until they stopped.
func (c *Container) Start(ctx context.Context) error {
	if err := c.EnsureAllDependenciesPresent(); err != nil {
		return err
	}

	c.Logger.LogAttrs(ctx, slog.LevelInfo, "starting all servers",
		slog.Int("port", c.Config.HTTP.Port),
		slog.Bool("postgres", c.PGx != nil),
	)

	c.servers = &errgroup.Group{}

	c.Cron.Start()

	c.servers.Go(func() error {
		err := c.WebRouter.Start(":" + strconv.Itoa(c.Config.HTTP.Port))
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("web server stopped: %w", err)
		}

		return nil
	})

	if c.Config.HTTP.StatusEndpointEnabled {
		c.statusEndpoint = newStatusServer(c)

		c.servers.Go(func() error {
			err := c.statusEndpoint.ListenAndServe()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("status server stopped: %w", err)
			}

			return nil
		})
	}

	return nil
}

// Wait blocks until all servers are stopped and returns the first error of a server, that could not be served.
func (c *Container) Wait() error {
	if c.servers == nil {
		return nil
	}

	return c.servers.Wait() //nolint:wrapcheck // already wrapped
}

// Shutdown gracefully stops all servers and jobs and closes all connections.
func (c *Container) Shutdown(ctx context.Context) error {
	c.Logger.LogAttrs(ctx, slog.LevelInfo, "shutting down all servers")

	g := errgroup.Group{}

	g.Go(func() error {
		return c.WebRouter.Shutdown(ctx) //nolint:wrapcheck // joined below
	})

	if c.statusEndpoint != nil {
		g.Go(func() error {
			return c.statusEndpoint.Shutdown(ctx) //nolint:wrapcheck // joined below
		})
	}

	g.Go(func() error {
		select {
		case <-c.Cron.Stop().Done():
			return nil
		case <-ctx.Done():
			return fmt.Errorf("scheduled jobs still running: %w", ctx.Err())
		}
	})

	err := g.Wait()

	if c.PGx != nil {
		c.PGx.Close()
	}

	return errors.Join(err, c.TraceProvider.Shutdown(ctx), c.MeterProvider.Shutdown(ctx))
}

const (
	metricPath = "/metrics"
	statusPath = "/status"
)

func newStatusServer(c *Container) *http.Server {
	serverStartedAt := time.Now()

	mux := http.NewServeMux()
	mux.Handle(metricPath, promhttp.HandlerFor(c.Registry, promhttp.HandlerOpts{ //nolint:exhaustruct // use defaults
		EnableOpenMetrics: true, // to enable Examplars in the export format
	}))
	mux.HandleFunc(statusPath, func(w http.ResponseWriter, r *http.Request) {
		status := getSystemStatus(r.Context(), c, serverStartedAt)

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")

		if status.Status != statusOnline {
			w.WriteHeader(http.StatusServiceUnavailable)
		}

		_ = json.NewEncoder(w).Encode(status)
	})

	c.Logger.LogAttrs(context.Background(), slog.LevelInfo, "serving status endpoint",
		slog.Int("port", c.Config.HTTP.StatusEndpointPort),
		slog.String("metric_path", metricPath),
		slog.String("status_path", statusPath),
	)

	return &http.Server{ //nolint:exhaustruct // use defaults
		Addr:              ":" + strconv.Itoa(c.Config.HTTP.StatusEndpointPort),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second, //nolint:mnd
	}
}

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return err //nolint:wrapcheck // return the original validate error to not break the API for the caller.
	}

	return nil
}

// httpErrorHandler turns validation errors into bad requests and leaves everything else to echo.
func httpErrorHandler(e *echo.Echo) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			err = echo.NewHTTPError(http.StatusBadRequest, validationErrors.Error()).SetInternal(err)
		}

		e.DefaultHTTPErrorHandler(err, c)
	}
}

// cronLogger lets the scheduler log through alog.
type cronLogger struct {
	logger alog.Logger
}

var _ cron.Logger = (*cronLogger)(nil)

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Log(context.Background(), alog.LevelDebug, "cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Log(context.Background(), slog.LevelError, "cron: "+msg, append(keysAndValues, slog.String("err", err.Error()))...)
}

func gitHash() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				return setting.Value
			}
		}
	}

	return "unknown"
}

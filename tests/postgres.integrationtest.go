//go:build integration

package tests

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ory/dockertest/v3"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/go-arrower/hrsuite/postgres"
)

//nolint:gochecknoglobals // the variables are used on purpose for a singleton pattern.
var (
	muPostgres        = &sync.Mutex{}
	singletonPostgres *PostgresDocker
)

//nolint:gochecknoglobals,mnd // only set required configuration
var (
	defaultPGConf = postgres.Config{
		User:       "hrsuite",
		Password:   "secret",
		Database:   "hrsuite_test",
		Host:       "localhost",
		MaxConns:   10,
		Migrations: postgres.DefaultMigrations,
	}

	defaultPGRunOptions = &dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16",
		Env: []string{
			"POSTGRES_USER=" + defaultPGConf.User,
			"POSTGRES_PASSWORD=" + defaultPGConf.Password,
			"POSTGRES_DB=" + defaultPGConf.Database,
			"listen_addresses = '*'",
		},
		Cmd: []string{"-c", "max_connections=1000"},
	}
)

// GetPostgresDockerForIntegrationTestingInstance returns a fully connected and migrated database.
// Subsequent calls return the same instance to prevent multiple docker containers to spin up,
// if you have a lot of integration tests running in parallel.
// If called in a CI environment, the pipeline needs access to a docker socket.
// In case of an issue, it panics.
func GetPostgresDockerForIntegrationTestingInstance() *PostgresDocker {
	muPostgres.Lock()
	defer muPostgres.Unlock()

	if singletonPostgres != nil {
		return singletonPostgres
	}

	var pgHandler *postgres.Handler

	retryFunc := func(resource *dockertest.Resource) func() error {
		conf := defaultPGConf
		conf.Port, _ = strconv.Atoi(resource.GetPort("5432/tcp"))

		return func() error {
			handler, err := postgres.ConnectAndMigrate(context.Background(), conf, noop.NewTracerProvider())
			if err != nil {
				return err //nolint:wrapcheck // retried by dockertest
			}

			pgHandler = handler

			return nil
		}
	}

	options := *defaultPGRunOptions
	options.Name = fmt.Sprintf("hrsuite-testing-postgres-%d", rand.IntN(10_000)) //nolint:gosec,mnd // prevent collisions only

	cleanup, err := StartDockerContainer(&options, retryFunc)
	if err != nil {
		panic(err)
	}

	singletonPostgres = &PostgresDocker{
		pg:            pgHandler,
		cleanupDocker: cleanup,
	}

	return singletonPostgres
}

type PostgresDocker struct {
	pg            *postgres.Handler
	cleanupDocker func() error
}

// NewTestDatabase creates a new, migrated database and connects to it.
// Use it in parallel integration tests, so that each test works on its own data.
// In case of an issue, it panics.
func (pd *PostgresDocker) NewTestDatabase() *pgxpool.Pool {
	name := randomDatabaseName()

	if _, err := pd.pg.PGx.Exec(context.Background(), "CREATE DATABASE "+name); err != nil {
		panic(err)
	}

	conf := pd.pg.Config
	conf.Database = name

	handler, err := postgres.ConnectAndMigrate(context.Background(), conf, noop.NewTracerProvider())
	if err != nil {
		panic(err)
	}

	return handler.PGx
}

// PGx returns the pgx connection if you need to access the database directly.
func (pd *PostgresDocker) PGx() *pgxpool.Pool {
	return pd.pg.PGx
}

// Cleanup does shutdown the database connection, stops, and removes the docker container.
// It cannot be deferred in TestMain, if it exits with os.Exit(code), as that does not execute the defer stack.
// In case of an issue, it panics.
func (pd *PostgresDocker) Cleanup() {
	if err := pd.pg.Shutdown(context.Background()); err != nil {
		panic(err)
	}

	if err := pd.cleanupDocker(); err != nil {
		panic(err)
	}
}

func randomDatabaseName() string {
	const letters = "abcdefghijklmnopqrstuvwxyz"

	b := make([]byte, 16) //nolint:mnd
	for i := range b {
		b[i] = letters[rand.IntN(len(letters))] //nolint:gosec // used for name, not security
	}

	return string(b) + "_test"
}

// Package hrsuite holds the global configuration and the shared dependencies of the application.
package hrsuite

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/go-arrower/hrsuite/secret"
)

// Config is a structure used for service configuration.
// It is intended to be mapped by viper.
type Config struct {
	OrganisationName string `mapstructure:"organisation_name"`
	ApplicationName  string `mapstructure:"application_name"`
	InstanceName     string `mapstructure:"instance_name"`

	Environment Environment `mapstructure:"environment"`

	HTTP       HTTP       `mapstructure:"http"`
	Postgres   Postgres   `mapstructure:"postgres"`
	OTEL       OTEL       `mapstructure:"otel"`
	Attendance Attendance `mapstructure:"attendance"`
}

const (
	LocalEnv       Environment = "local"
	TestEnv        Environment = "test"
	DevelopmentEnv Environment = "dev"
	ProductionEnv  Environment = "prod"
)

// Environments is the list of all supported environments.
func Environments() []Environment {
	return []Environment{LocalEnv, TestEnv, DevelopmentEnv, ProductionEnv}
}

type Environment string

type (
	HTTP struct {
		Port                  int  `mapstructure:"port"                    json:"port"`
		StatusEndpointEnabled bool `mapstructure:"status_endpoint_enabled" json:"-"`
		StatusEndpointPort    int  `mapstructure:"status_endpoint_port"    json:"-"`
	}

	Postgres struct {
		User           string        `mapstructure:"user"            json:"user"`
		Password       secret.Secret `mapstructure:"password,squash" json:"-"`
		Database       string        `mapstructure:"database"        json:"database"`
		Host           string        `mapstructure:"host"            json:"host"`
		Port           int           `mapstructure:"port"            json:"port"`
		SSLMode        string        `mapstructure:"ssl_mode"        json:"sslMode"`
		MaxConns       int           `mapstructure:"max_conns"       json:"maxConns"`
		ConnectTimeout time.Duration `mapstructure:"connect_timeout" json:"connectTimeout"`
	}

	OTEL struct {
		Host     string `mapstructure:"host"     json:"host"`
		Port     int    `mapstructure:"port"     json:"port"`
		Hostname string `mapstructure:"hostname" json:"hostname"`
	}

	// Attendance configures the location compliance of clocking in and out.
	Attendance struct {
		GPSTimeout time.Duration `mapstructure:"gps_timeout" json:"gpsTimeout"`
		UseWiFi    bool          `mapstructure:"use_wifi"    json:"useWiFi"`
		UseIP      bool          `mapstructure:"use_ip"      json:"useIP"`

		// MaxPositionAge is the oldest position report accepted from a browser.
		MaxPositionAge time.Duration `mapstructure:"max_position_age" json:"maxPositionAge"`

		// IP2LocationDB is the path to an ip2location BIN file. Empty disables ip lookups.
		IP2LocationDB string `mapstructure:"ip2location_db" json:"ip2locationDB"`

		GeocoderURL       string        `mapstructure:"geocoder_url"        json:"geocoderURL"`
		GeocoderUserAgent string        `mapstructure:"geocoder_user_agent" json:"geocoderUserAgent"`
		GeocoderTimeout   time.Duration `mapstructure:"geocoder_timeout"    json:"geocoderTimeout"`

		// AutoClockOutSchedule is a cron spec, empty disables the job.
		AutoClockOutSchedule string `mapstructure:"auto_clock_out_schedule" json:"autoClockOutSchedule"`

		// DataDir keeps the data as JSON files, if no postgres is configured. Empty keeps it in memory only.
		DataDir string `mapstructure:"data_dir" json:"dataDir"`
	}
)

// EnvPrefix is the prefix of all environment variables read by DefaultViper,
// e.g. HRSUITE_POSTGRES_PASSWORD overwrites postgres.password.
const EnvPrefix = "HRSUITE"

// DefaultViper returns a new viper instance with all default values
// from Config set.
func DefaultViper() *Viper {
	vip := viper.New()

	vip.SetEnvPrefix(EnvPrefix)
	vip.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vip.AutomaticEnv()

	vip.SetDefault("organisation_name", "")
	vip.SetDefault("application_name", "hrsuite")
	vip.SetDefault("instance_name", "")

	vip.SetDefault("environment", "local")

	vip.SetDefault("http.port", 8080)
	vip.SetDefault("http.status_endpoint_enabled", true)
	vip.SetDefault("http.status_endpoint_port", 2223)

	vip.SetDefault("postgres.user", "hrsuite")
	vip.SetDefault("postgres.password", "secret")
	vip.SetDefault("postgres.database", "hrsuite")
	vip.SetDefault("postgres.host", "localhost")
	vip.SetDefault("postgres.port", 5432)
	vip.SetDefault("postgres.ssl_mode", "disable")
	vip.SetDefault("postgres.max_conns", 10)
	vip.SetDefault("postgres.connect_timeout", "30s")

	vip.SetDefault("otel.host", "localhost")
	vip.SetDefault("otel.port", 4317)
	vip.SetDefault("otel.hostname", "")

	vip.SetDefault("attendance.gps_timeout", "10s")
	vip.SetDefault("attendance.use_wifi", true)
	vip.SetDefault("attendance.use_ip", true)
	vip.SetDefault("attendance.max_position_age", "1m")
	vip.SetDefault("attendance.ip2location_db", "")
	vip.SetDefault("attendance.geocoder_url", "https://nominatim.openstreetmap.org")
	vip.SetDefault("attendance.geocoder_user_agent", "hrsuite")
	vip.SetDefault("attendance.geocoder_timeout", "5s")
	vip.SetDefault("attendance.auto_clock_out_schedule", "0 23 * * *")
	vip.SetDefault("attendance.data_dir", "")

	return &Viper{Viper: vip}
}

var errConfigLoadFailed = errors.New("loading configuration failed")

// Viper is a wrapper around viper.Viper for configuration loading.
// The only purpose is to overwrite the Unmarshal method,
// so that secret.Secret data type is automatically marshalled and the
// developer does not have to think about it when using DefaultViper.
type Viper struct {
	*viper.Viper
}

func (vip *Viper) Unmarshal(config *Config) error {
	err := vip.Viper.Unmarshal(config, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		allowedEnvironmentHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
	)))
	if err != nil {
		return fmt.Errorf("%w: could not decode configuration into struct: %v", errConfigLoadFailed, err) //nolint:errorlint,lll // prevent err in api
	}

	// secret.Secret masks information e.g. in logs.
	// The data type has to be manually unmarshalled.
	err = vip.Viper.UnmarshalKey(
		"postgres.password",
		&config.Postgres.Password,
		viper.DecodeHook(mapstructure.TextUnmarshallerHookFunc()),
	)
	if err != nil {
		return fmt.Errorf("%w: could not decode secret: %v", errConfigLoadFailed, err) //nolint:errorlint // prevent err in api
	}

	return nil
}

func allowedEnvironmentHookFunc() mapstructure.DecodeHookFuncType {
	return func(_ reflect.Type, t reflect.Type, data any) (any, error) {
		if t != reflect.TypeOf(Environment("")) {
			return data, nil
		}

		env := Environments()

		if s, ok := data.(string); ok && slices.Contains(env, Environment(s)) {
			return data, nil
		}

		e := make([]string, 0, len(env))
		for _, env := range env {
			e = append(e, string(env))
		}

		return data, fmt.Errorf("value is not allowed, use one of: %s", strings.Join(e, ", ")) //nolint:err113 // accept dynamic error
	}
}

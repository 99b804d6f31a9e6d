package hrsuite_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/go-arrower/hrsuite"
)

func TestDefaultViper(t *testing.T) {
	t.Parallel()

	vip := hrsuite.DefaultViper()
	assert.NotEmpty(t, vip)

	// This test enforces the default values, so whenever they change,
	// make sure to also update the example config file!

	assert.Empty(t, vip.Get("organisation_name"))
	assert.Equal(t, "hrsuite", vip.GetString("application_name"))
	assert.Equal(t, hrsuite.LocalEnv, hrsuite.Environment(vip.GetString("environment")))

	assert.Equal(t, 8080, vip.GetInt("http.port"))
	assert.True(t, vip.GetBool("http.status_endpoint_enabled"))
	assert.Equal(t, 2223, vip.GetInt("http.status_endpoint_port"))

	assert.Equal(t, "hrsuite", vip.GetString("postgres.user"))
	assert.Equal(t, "secret", vip.GetString("postgres.password"))
	assert.Equal(t, "localhost", vip.GetString("postgres.host"))
	assert.Equal(t, 5432, vip.GetInt("postgres.port"))
	assert.Equal(t, 30*time.Second, vip.GetDuration("postgres.connect_timeout"))

	assert.Equal(t, 4317, vip.GetInt("otel.port"))

	assert.Equal(t, 10*time.Second, vip.GetDuration("attendance.gps_timeout"))
	assert.True(t, vip.GetBool("attendance.use_wifi"))
	assert.True(t, vip.GetBool("attendance.use_ip"))
	assert.Equal(t, "https://nominatim.openstreetmap.org", vip.GetString("attendance.geocoder_url"))
	assert.Equal(t, "0 23 * * *", vip.GetString("attendance.auto_clock_out_schedule"))
}

func TestViper_Unmarshal(t *testing.T) {
	t.Parallel()

	t.Run("invalid environment", func(t *testing.T) {
		t.Parallel()

		vip := hrsuite.DefaultViper()
		vip.SetConfigFile("./testdata/config/invalid-config.yaml")
		assert.NoError(t, vip.ReadInConfig())

		conf := hrsuite.Config{}

		err := vip.Unmarshal(&conf)
		assert.Error(t, err, "should fail when using unsupported enum values")
		assert.Contains(t, err.Error(), "use one of: ", "error message should list out all accepted environments")
	})

	t.Run("config file", func(t *testing.T) {
		t.Parallel()

		vip := hrsuite.DefaultViper()
		vip.SetConfigFile("./testdata/config/test-config.yaml")
		assert.NoError(t, vip.ReadInConfig())

		conf := hrsuite.Config{}

		err := vip.Unmarshal(&conf)
		assert.NoError(t, err)
		assert.Equal(t, hrsuite.TestEnv, conf.Environment)
		assert.Equal(t, "acme", conf.OrganisationName)
		assert.Equal(t, "my-db-secret", conf.Postgres.Password.Secret())
		assert.Equal(t, "******", conf.Postgres.Password.String())
		assert.Equal(t, 5*time.Second, conf.Postgres.ConnectTimeout)
		assert.Equal(t, 3*time.Second, conf.Attendance.GPSTimeout)
		assert.False(t, conf.Attendance.UseIP)
		assert.True(t, conf.Attendance.UseWiFi, "default is kept")
		assert.Equal(t, "30 22 * * 1-5", conf.Attendance.AutoClockOutSchedule)
	})
}

func TestDefaultViper_Env(t *testing.T) { //nolint:paralleltest // t.Setenv does not allow parallel tests
	t.Setenv("HRSUITE_HTTP_PORT", "9090")
	t.Setenv("HRSUITE_ATTENDANCE_USE_WIFI", "false")

	vip := hrsuite.DefaultViper()
	conf := hrsuite.Config{}

	assert.NoError(t, vip.Unmarshal(&conf))
	assert.Equal(t, 9090, conf.HTTP.Port)
	assert.False(t, conf.Attendance.UseWiFi)
}

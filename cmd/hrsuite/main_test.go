package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const zones = `
zones:
  - name: Head Office
    center: {latitude: 13.7563, longitude: 100.5018}
    radius_meters: 200
networks:
  - bssid: AA:BB:CC:DD:EE:FF
`

func zonesFile(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "zones.yaml")
	require.NoError(t, os.WriteFile(path, []byte(zones), 0o600))

	return path
}

func TestRootCmd(t *testing.T) {
	t.Parallel()

	t.Run("no command: show help", func(t *testing.T) {
		t.Parallel()

		output, err := executeCmd(t, newHRSuiteCLI(nil), []string{}...)
		assert.NoError(t, err)
		assert.Contains(t, output, "Available Commands:")
		assert.Contains(t, output, "serve")
		assert.Contains(t, output, "check")
	})

	t.Run("unknown command", func(t *testing.T) {
		t.Parallel()

		output, err := executeCmd(t, newHRSuiteCLI(nil), "non-ex-command")
		assert.Error(t, err)
		assert.Contains(t, output, "unknown command")
	})
}

func TestVersionCmd(t *testing.T) {
	t.Parallel()

	t.Run("show version", func(t *testing.T) {
		t.Parallel()

		// go test has no vcs info in the build settings
		output, err := executeCmd(t, newHRSuiteCLI(nil), "version")
		assert.NoError(t, err)
		assert.Contains(t, output, "hrsuite version: @latest from ")
	})

	t.Run("no sub commands", func(t *testing.T) {
		t.Parallel()

		_, err := executeCmd(t, newHRSuiteCLI(nil), "version", "sub-command")
		assert.Error(t, err)
	})
}

func TestCheckCmd(t *testing.T) {
	t.Parallel()

	t.Run("inside", func(t *testing.T) {
		t.Parallel()

		output, err := executeCmd(t, newHRSuiteCLI(nil), "check", "--zones", zonesFile(t), "--lat", "13.7565", "--lon", "100.5020")
		assert.NoError(t, err)
		assert.Contains(t, output, "compliant: inside Head Office")
		assert.Contains(t, output, "nearest zone: Head Office")
	})

	t.Run("outside", func(t *testing.T) {
		t.Parallel()

		output, err := executeCmd(t, newHRSuiteCLI(nil), "check", "-z", zonesFile(t), "--lat", "13.7367", "--lon", "100.5231")
		assert.ErrorIs(t, err, errNotCompliant)
		assert.Contains(t, output, "not compliant: OutsideAllowedZone")
	})

	t.Run("wifi", func(t *testing.T) {
		t.Parallel()

		output, err := executeCmd(t, newHRSuiteCLI(nil), "check", "-z", zonesFile(t), "--bssid", "aa:bb:cc:dd:ee:ff")
		assert.NoError(t, err)
		assert.Contains(t, output, "compliant: connected to aa:bb:cc:dd:ee:ff")
	})

	t.Run("position out of range", func(t *testing.T) {
		t.Parallel()

		output, err := executeCmd(t, newHRSuiteCLI(nil), "check", "-z", zonesFile(t), "--lat", "100", "--lon", "100.5020")
		assert.ErrorIs(t, err, errNotCompliant)
		assert.NotContains(t, output, "nearest zone")
	})

	t.Run("missing zone file", func(t *testing.T) {
		t.Parallel()

		_, err := executeCmd(t, newHRSuiteCLI(nil), "check", "-z", filepath.Join(t.TempDir(), "missing.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestServeCmd(t *testing.T) {
	t.Parallel()

	t.Run("invalid config file", func(t *testing.T) {
		t.Parallel()

		_, err := executeCmd(t, newHRSuiteCLI(nil), "serve", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("shutdown on signal", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "hrsuite.yaml")
		require.NoError(t, os.WriteFile(path, []byte("environment: test\nhttp:\n  port: 0\n  status_endpoint_enabled: false\n"), 0o600))

		osSignal := make(chan os.Signal, 1)
		go func() {
			time.Sleep(200 * time.Millisecond)
			osSignal <- os.Interrupt
		}()

		output, err := executeCmd(t, newHRSuiteCLI(osSignal), "serve", "--in-memory", "--config", path)
		assert.NoError(t, err)
		assert.Contains(t, output, "shutting down")
	})
}

package attendance_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-arrower/hrsuite/contexts/attendance"
)

const zoneFile = `
zones:
  - name: Head Office
    center: {latitude: 13.7563, longitude: 100.5018}
    radius_meters: 200
  - name: Warehouse
    center: {latitude: 13.6900, longitude: 100.7501}
    radius_meters: 500
networks:
  - ssid: hr-office
`

func writeZoneFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "zones.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func ptr(f float64) *float64 { return &f }

func TestLoadZoneFile(t *testing.T) {
	t.Parallel()

	t.Run("load", func(t *testing.T) {
		t.Parallel()

		zf, err := attendance.LoadZoneFile(writeZoneFile(t, zoneFile))
		require.NoError(t, err)

		assert.Len(t, zf.Zones, 2)
		assert.Equal(t, "Head Office", zf.Zones[0].Name)
		assert.InDelta(t, 200.0, zf.Zones[0].RadiusMeters, 0)
		assert.InDelta(t, 100.5018, zf.Zones[0].Center.Longitude, 0)
		assert.Equal(t, "hr-office", zf.Networks[0].SSID)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := attendance.LoadZoneFile(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		t.Parallel()

		_, err := attendance.LoadZoneFile(writeZoneFile(t, "zones: [name: {"))
		assert.ErrorIs(t, err, attendance.ErrInvalidZoneFile)
	})
}

func TestCheckOffline(t *testing.T) {
	t.Parallel()

	zf, err := attendance.LoadZoneFile(writeZoneFile(t, zoneFile))
	require.NoError(t, err)

	ctx := context.Background()

	t.Run("inside zone", func(t *testing.T) {
		t.Parallel()

		res, err := attendance.CheckOffline(ctx, nil, zf, attendance.Position{Latitude: ptr(13.7565), Longitude: ptr(100.5020)}, false)
		assert.NoError(t, err)
		assert.True(t, res.Compliant)
		assert.Equal(t, "gps", res.Method)
		assert.Equal(t, "Head Office", res.Zone)
		assert.Equal(t, "Head Office", res.Nearest)
		assert.Less(t, res.NearestDistance, 50.0)
	})

	t.Run("outside all zones", func(t *testing.T) {
		t.Parallel()

		res, err := attendance.CheckOffline(ctx, nil, zf, attendance.Position{Latitude: ptr(13.7367), Longitude: ptr(100.5231)}, true)
		assert.NoError(t, err)
		assert.False(t, res.Compliant)
		assert.Equal(t, "OutsideAllowedZone", res.ErrorKind)
		assert.Equal(t, "Head Office", res.Nearest)
		assert.Greater(t, res.NearestDistance, 200.0)
	})

	t.Run("wifi without position", func(t *testing.T) {
		t.Parallel()

		res, err := attendance.CheckOffline(ctx, nil, zf, attendance.Position{SSID: "hr-office"}, true)
		assert.NoError(t, err)
		assert.True(t, res.Compliant)
		assert.Equal(t, "wifi", res.Method)
		assert.Equal(t, "hr-office", res.Network)
		assert.Empty(t, res.Nearest)
	})

	t.Run("no fallback", func(t *testing.T) {
		t.Parallel()

		res, err := attendance.CheckOffline(ctx, nil, zf, attendance.Position{SSID: "hr-office"}, false)
		assert.NoError(t, err)
		assert.False(t, res.Compliant)
		assert.Equal(t, "LocationCheckFailed", res.ErrorKind)
	})

	t.Run("position out of range", func(t *testing.T) {
		t.Parallel()

		res, err := attendance.CheckOffline(ctx, nil, zf, attendance.Position{Latitude: ptr(100), Longitude: ptr(100.5)}, false)
		assert.NoError(t, err)
		assert.False(t, res.Compliant)
		assert.Empty(t, res.Nearest)
		assert.Zero(t, res.NearestDistance)
	})

	t.Run("zone without name", func(t *testing.T) {
		t.Parallel()

		nameless, err := attendance.LoadZoneFile(writeZoneFile(t, "zones:\n  - center: {latitude: 13.7563, longitude: 100.5018}\n    radius_meters: 200\n"))
		require.NoError(t, err)

		_, err = attendance.CheckOffline(ctx, nil, nameless, attendance.Position{Latitude: ptr(13.7563), Longitude: ptr(100.5018)}, false)
		assert.ErrorIs(t, err, attendance.ErrInvalidZoneFile)
	})

	t.Run("invalid zone", func(t *testing.T) {
		t.Parallel()

		invalid, err := attendance.LoadZoneFile(writeZoneFile(t, "zones:\n  - name: x\n    center: {latitude: 91, longitude: 0}\n    radius_meters: 10\n"))
		require.NoError(t, err)

		_, err = attendance.CheckOffline(ctx, nil, invalid, attendance.Position{Latitude: ptr(0), Longitude: ptr(0)}, false)
		assert.ErrorIs(t, err, attendance.ErrInvalidZoneFile)
	})
}

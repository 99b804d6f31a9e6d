package infrastructure_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/go-arrower/hrsuite/contexts/attendance/internal/domain"
	"github.com/go-arrower/hrsuite/contexts/attendance/internal/infrastructure"
)

func TestExcelExporter_Export(t *testing.T) {
	t.Parallel()

	t.Run("records", func(t *testing.T) {
		t.Parallel()

		reading := domain.GPSReading(bangkok.Latitude, bangkok.Longitude, 12, receivedAt)
		in := domain.NewRecord("acme", "alice", domain.ClockIn, receivedAt, domain.ComplianceResult{
			IsCompliant:     true,
			MatchedZoneName: "Head Office",
			Reading:         &reading,
			ResolvedAddress: "Rama I Rd",
		}, "10.0.0.1", domain.Device{Browser: "Safari 17.0", OS: "iOS 17.0", Mobile: true})
		out := domain.NewAutomaticClockOut(in, receivedAt.Add(14*time.Hour))

		b, err := infrastructure.NewExcelExporter().Export(ctx, []domain.Record{in, out})
		require.NoError(t, err)

		f, err := excelize.OpenReader(bytes.NewReader(b))
		require.NoError(t, err)
		defer f.Close()

		rows, err := f.GetRows("Attendance")
		require.NoError(t, err)
		require.Len(t, rows, 3)

		assert.Equal(t, "Employee", rows[0][0])
		assert.Equal(t, []string{"alice", "clock_in", "2026-03-02 09:00:00", "TRUE", "FALSE", "gps", "Head Office"}, rows[1][:7])
		assert.Equal(t, "Rama I Rd", rows[1][11])
		assert.Equal(t, "Safari 17.0 iOS 17.0", rows[1][14])
		assert.Equal(t, []string{"alice", "clock_out", "2026-03-02 23:00:00", "FALSE", "TRUE", "none"}, rows[2][:6])
	})

	t.Run("no records", func(t *testing.T) {
		t.Parallel()

		b, err := infrastructure.NewExcelExporter().Export(ctx, nil)
		require.NoError(t, err)

		f, err := excelize.OpenReader(bytes.NewReader(b))
		require.NoError(t, err)
		defer f.Close()

		rows, _ := f.GetRows("Attendance")
		assert.Len(t, rows, 1, "header only")
	})

	t.Run("cancelled", func(t *testing.T) {
		t.Parallel()

		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := infrastructure.NewExcelExporter().Export(cctx, []domain.Record{{ID: "1"}})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

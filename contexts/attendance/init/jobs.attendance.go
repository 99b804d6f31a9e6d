package init

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-arrower/hrsuite"
	"github.com/go-arrower/hrsuite/contexts/attendance/internal/application"
)

// scheduleJobs registers the jobs of this Context with the scheduler.
// An empty autoClockOut disables the automatic clock out.
func (ac *AttendanceContext) scheduleJobs(di *hrsuite.Container, autoClockOut string) error {
	if autoClockOut == "" {
		return nil
	}

	_, err := di.Cron.AddFunc(autoClockOut, func() {
		ctx := context.Background()

		err := ac.app.CloseOpenRecords.H(ctx, application.CloseOpenRecordsJob{At: time.Now()})
		if err != nil {
			ac.logger.LogAttrs(ctx, slog.LevelError, "could not close open records", slog.String("err", err.Error()))
		}
	})
	if err != nil {
		return fmt.Errorf("could not schedule auto clock out %q: %w", autoClockOut, err)
	}

	return nil
}

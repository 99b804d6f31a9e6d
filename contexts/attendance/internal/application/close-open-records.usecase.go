package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-arrower/hrsuite/alog"
	"github.com/go-arrower/hrsuite/app"
	"github.com/go-arrower/hrsuite/contexts/attendance/internal/domain"
)

func NewCloseOpenRecordsJobHandler(logger alog.Logger, records domain.RecordRepository) app.Job[CloseOpenRecordsJob] {
	if logger == nil {
		logger = alog.NewNoop()
	}

	return &closeOpenRecordsJobHandler{logger: logger, records: records}
}

type closeOpenRecordsJobHandler struct {
	logger  alog.Logger
	records domain.RecordRepository
}

// CloseOpenRecordsJob clocks out every employee, who clocked in before At and did not clock out yet.
type CloseOpenRecordsJob struct {
	At time.Time `validate:"required"`
}

func (h *closeOpenRecordsJobHandler) H(ctx context.Context, job CloseOpenRecordsJob) error {
	open, err := h.records.OpenClockIns(ctx, job.At)
	if err != nil {
		return fmt.Errorf("could not get open clock ins: %w", err)
	}

	for _, in := range open {
		out := domain.NewAutomaticClockOut(in, job.At)

		if err = h.records.Save(ctx, out); err != nil {
			return fmt.Errorf("could not clock out employee %s: %w", in.EmployeeID, err)
		}

		h.logger.DebugContext(ctx, "clocked out automatically",
			slog.String("organization", string(in.OrganizationID)),
			slog.String("employee", string(in.EmployeeID)),
			slog.Time("clocked_in_at", in.OccurredAt),
		)
	}

	h.logger.InfoContext(ctx, "closed open records", slog.Int("count", len(open)))

	return nil
}

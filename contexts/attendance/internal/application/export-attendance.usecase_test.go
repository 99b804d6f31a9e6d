package application_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/go-arrower/hrsuite/app"
	"github.com/go-arrower/hrsuite/contexts/attendance/internal/application"
	"github.com/go-arrower/hrsuite/contexts/attendance/internal/domain"
	"github.com/go-arrower/hrsuite/contexts/attendance/internal/interfaces/repository"
)

type exporterFunc func(ctx context.Context, records []domain.Record) ([]byte, error)

func (f exporterFunc) Export(ctx context.Context, records []domain.Record) ([]byte, error) {
	return f(ctx, records)
}

func TestExportAttendanceQueryHandler_H(t *testing.T) {
	t.Parallel()

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	t.Run("export period", func(t *testing.T) {
		t.Parallel()

		records := repository.NewRecordMemoryRepository()
		_ = records.Save(ctx, domain.Record{ID: domain.NewRecordID(from), OrganizationID: orgID, OccurredAt: from})
		_ = records.Save(ctx, domain.Record{ID: domain.NewRecordID(to), OrganizationID: orgID, OccurredAt: to})

		var exported []domain.Record

		handler := application.NewExportAttendanceQueryHandler(records, exporterFunc(func(_ context.Context, r []domain.Record) ([]byte, error) {
			exported = r

			return []byte("xlsx"), nil
		}))

		res, err := handler.H(ctx, application.ExportAttendanceQuery{OrganizationID: orgID, From: from, To: to})
		assert.NoError(t, err)
		assert.Equal(t, "attendance_acme_2026-03-01_2026-04-01.xlsx", res.Filename)
		assert.Equal(t, 1, res.Records, "end of period is exclusive")
		assert.Equal(t, []byte("xlsx"), res.Content)
		assert.Len(t, exported, 1)
	})

	t.Run("exporter fails", func(t *testing.T) {
		t.Parallel()

		handler := application.NewExportAttendanceQueryHandler(repository.NewRecordMemoryRepository(),
			exporterFunc(func(context.Context, []domain.Record) ([]byte, error) { return nil, app.ErrUseCaseFailed }),
		)

		_, err := handler.H(ctx, application.ExportAttendanceQuery{OrganizationID: orgID, From: from, To: to})
		assert.ErrorIs(t, err, app.ErrUseCaseFailed)
	})

	t.Run("period must not be empty", func(t *testing.T) {
		t.Parallel()

		handler := app.NewValidatedQuery(nil, application.NewExportAttendanceQueryHandler(
			repository.NewRecordMemoryRepository(), nil,
		))

		_, err := handler.H(ctx, application.ExportAttendanceQuery{OrganizationID: orgID, From: to, To: from})
		assert.Error(t, err)
	})
}

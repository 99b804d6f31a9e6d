package application

import (
	"context"
	"fmt"
	"time"

	"github.com/go-arrower/hrsuite/app"
	"github.com/go-arrower/hrsuite/contexts/attendance/internal/domain"
)

// Exporter writes records into a file for download.
type Exporter interface {
	Export(ctx context.Context, records []domain.Record) ([]byte, error)
}

func NewExportAttendanceQueryHandler(
	records domain.RecordRepository,
	exporter Exporter,
) app.Query[ExportAttendanceQuery, ExportAttendanceResponse] {
	return &exportAttendanceQueryHandler{records: records, exporter: exporter}
}

type exportAttendanceQueryHandler struct {
	records  domain.RecordRepository
	exporter Exporter
}

type (
	// ExportAttendanceQuery selects the records in [From, To).
	ExportAttendanceQuery struct {
		OrganizationID domain.OrganizationID `validate:"required"`
		From           time.Time             `validate:"required"`
		To             time.Time             `validate:"required,gtfield=From"`
	}
	ExportAttendanceResponse struct {
		Filename string
		Records  int
		Content  []byte
	}
)

func (h *exportAttendanceQueryHandler) H(
	ctx context.Context,
	query ExportAttendanceQuery,
) (ExportAttendanceResponse, error) {
	records, err := h.records.Between(ctx, query.OrganizationID, query.From, query.To)
	if err != nil {
		return ExportAttendanceResponse{}, fmt.Errorf("could not get records: %w", err)
	}

	content, err := h.exporter.Export(ctx, records)
	if err != nil {
		return ExportAttendanceResponse{}, fmt.Errorf("could not export records: %w", err)
	}

	const day = "2006-01-02"

	return ExportAttendanceResponse{
		Filename: fmt.Sprintf("attendance_%s_%s_%s.xlsx", query.OrganizationID, query.From.Format(day), query.To.Format(day)),
		Records:  len(records),
		Content:  content,
	}, nil
}

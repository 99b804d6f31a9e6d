package infrastructure

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/go-arrower/hrsuite/contexts/attendance/internal/domain"
)

const (
	attendanceSheet = "Attendance"
	timeLayout      = "2006-01-02 15:04:05"
)

//nolint:gochecknoglobals // header is static
var exportHeader = []any{
	"Employee", "Kind", "Occurred At (UTC)", "Compliant", "Automatic", "Method", "Zone", "Network",
	"Latitude", "Longitude", "Accuracy (m)", "Address", "Error", "IP", "Device", "Mobile",
}

func NewExcelExporter() *ExcelExporter {
	return &ExcelExporter{}
}

// ExcelExporter writes attendance records into an XLSX workbook with one row per record.
type ExcelExporter struct{}

func (e *ExcelExporter) Export(ctx context.Context, records []domain.Record) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", attendanceSheet); err != nil {
		return nil, fmt.Errorf("could not name sheet: %w", err)
	}

	if err := f.SetSheetRow(attendanceSheet, "A1", &exportHeader); err != nil {
		return nil, fmt.Errorf("could not write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("could not create style: %w", err)
	}

	lastCol, _ := excelize.ColumnNumberToName(len(exportHeader))
	if err = f.SetCellStyle(attendanceSheet, "A1", lastCol+"1", bold); err != nil {
		return nil, fmt.Errorf("could not style header: %w", err)
	}

	for i, r := range records {
		if err = ctx.Err(); err != nil {
			return nil, fmt.Errorf("export cancelled: %w", err)
		}

		cell, _ := excelize.CoordinatesToCellName(1, i+2) //nolint:mnd // first row is the header
		row := exportRow(r)

		if err = f.SetSheetRow(attendanceSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("could not write record %s: %w", r.ID, err)
		}
	}

	_ = f.SetColWidth(attendanceSheet, "A", lastCol, 18) //nolint:mnd // readable default
	_ = f.SetPanes(attendanceSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("could not write workbook: %w", err)
	}

	return buf.Bytes(), nil
}

func exportRow(r domain.Record) []any {
	var lat, lon any = "", ""
	if r.Latitude != nil && r.Longitude != nil {
		lat, lon = *r.Latitude, *r.Longitude
	}

	return []any{
		string(r.EmployeeID),
		string(r.Kind),
		r.OccurredAt.UTC().Format(timeLayout),
		r.Compliant,
		r.Automatic,
		string(r.Method),
		r.ZoneName,
		r.Network,
		lat,
		lon,
		r.Accuracy,
		r.Address,
		string(r.ErrorKind),
		r.IP,
		r.Device.String(),
		r.Device.Mobile,
	}
}

package web

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/go-arrower/hrsuite/contexts/attendance/internal/application"
	"github.com/go-arrower/hrsuite/contexts/attendance/internal/domain"
)

const (
	dateLayout   = "2006-01-02"
	xlsxMIMEType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

func NewAttendanceController(app application.AttendanceApplication) *AttendanceController {
	return &AttendanceController{app: app}
}

// AttendanceController serves the employees: they check their location and clock in or out.
type AttendanceController struct {
	app application.AttendanceApplication
}

type checkRequest struct {
	Report locationReport `json:"report"`
}

func (ac *AttendanceController) Check() func(echo.Context) error {
	return func(c echo.Context) error {
		var in checkRequest
		if err := c.Bind(&in); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid location report").SetInternal(err)
		}

		res, err := ac.app.CheckLocation.H(c.Request().Context(), application.CheckLocationRequest{
			OrganizationID: organizationID(c),
			Report:         in.Report.toDomain(),
			IP:             c.RealIP(),
		})
		if err != nil {
			return httpError(err)
		}

		return c.JSON(http.StatusOK, res.Result)
	}
}

func (ac *AttendanceController) ClockIn() func(echo.Context) error {
	return func(c echo.Context) error {
		clocking, err := bindClocking(c)
		if err != nil {
			return err
		}

		res, err := ac.app.ClockIn.H(c.Request().Context(), application.ClockInRequest{Clocking: clocking})

		return clocked(c, res, err)
	}
}

func (ac *AttendanceController) ClockOut() func(echo.Context) error {
	return func(c echo.Context) error {
		clocking, err := bindClocking(c)
		if err != nil {
			return err
		}

		res, err := ac.app.ClockOut.H(c.Request().Context(), application.ClockOutRequest{Clocking: clocking})

		return clocked(c, res, err)
	}
}

// Export downloads the records of the organisation as an Excel file.
// The period is given by the dates from and to, both inclusive.
func (ac *AttendanceController) Export() func(echo.Context) error {
	return func(c echo.Context) error {
		from, err := time.Parse(dateLayout, c.QueryParam("from"))
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid date: from").SetInternal(err)
		}

		to, err := time.Parse(dateLayout, c.QueryParam("to"))
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid date: to").SetInternal(err)
		}

		res, err := ac.app.ExportAttendance.H(c.Request().Context(), application.ExportAttendanceQuery{
			OrganizationID: organizationID(c),
			From:           from,
			To:             to.AddDate(0, 0, 1),
		})
		if err != nil {
			return httpError(err)
		}

		c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", res.Filename))

		return c.Blob(http.StatusOK, xlsxMIMEType, res.Content)
	}
}

func bindClocking(c echo.Context) (application.Clocking, error) {
	var in checkRequest
	if err := c.Bind(&in); err != nil {
		return application.Clocking{}, echo.NewHTTPError(http.StatusBadRequest, "invalid location report").SetInternal(err)
	}

	return application.Clocking{
		OrganizationID: organizationID(c),
		EmployeeID:     employeeID(c),
		Report:         in.Report.toDomain(),
		IP:             c.RealIP(),
		UserAgent:      c.Request().UserAgent(),
	}, nil
}

// clocked writes the outcome of a clock in or out.
// A non-compliant clocking is recorded nevertheless, so the record is part of the response.
func clocked(c echo.Context, res application.ClockResponse, err error) error {
	if err != nil && !errors.Is(err, domain.ErrNotCompliant) {
		return httpError(err)
	}

	status := http.StatusCreated
	if err != nil {
		status = http.StatusUnprocessableEntity
	}

	return c.JSON(status, clockResponse{Record: recordFromDomain(res.Record), Result: res.Result})
}

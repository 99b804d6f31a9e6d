package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/go-arrower/hrsuite/contexts/attendance/internal/domain"
)

// The identity of the caller is set by the authenticating proxy in front of hrsuite.
const (
	HeaderOrganizationID = "X-Organization-ID"
	HeaderEmployeeID     = "X-Employee-ID"

	ctxOrganizationID = "attendance.organization_id"
	ctxEmployeeID     = "attendance.employee_id"
)

// RequireOrganization rejects requests without an organisation.
func RequireOrganization() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			org := strings.TrimSpace(c.Request().Header.Get(HeaderOrganizationID))
			if org == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing header "+HeaderOrganizationID)
			}

			c.Set(ctxOrganizationID, domain.OrganizationID(org))

			return next(c)
		}
	}
}

// RequireEmployee rejects requests without an organisation and employee.
func RequireEmployee() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return RequireOrganization()(func(c echo.Context) error {
			emp := strings.TrimSpace(c.Request().Header.Get(HeaderEmployeeID))
			if emp == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing header "+HeaderEmployeeID)
			}

			c.Set(ctxEmployeeID, domain.EmployeeID(emp))

			return next(c)
		})
	}
}

func organizationID(c echo.Context) domain.OrganizationID {
	org, _ := c.Get(ctxOrganizationID).(domain.OrganizationID)

	return org
}

func employeeID(c echo.Context) domain.EmployeeID {
	emp, _ := c.Get(ctxEmployeeID).(domain.EmployeeID)

	return emp
}

// httpError maps the errors of the use cases to a status code.
// Unknown errors are returned unchanged and end up as an internal server error.
func httpError(err error) error {
	var validationErrors validator.ValidationErrors

	switch {
	case errors.As(err, &validationErrors):
		return echo.NewHTTPError(http.StatusBadRequest, validationErrors.Error()).SetInternal(err)
	case errors.Is(err, domain.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "not found").SetInternal(err)
	case errors.Is(err, domain.ErrAlreadyClockedIn), errors.Is(err, domain.ErrNotClockedIn):
		return echo.NewHTTPError(http.StatusConflict, err.Error()).SetInternal(err)
	case errors.Is(err, domain.ErrInvalidOffice), errors.Is(err, domain.ErrInvalidNetwork):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
	default:
		return err
	}
}

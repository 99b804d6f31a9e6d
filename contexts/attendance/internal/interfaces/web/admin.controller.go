package web

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/go-arrower/hrsuite/contexts/attendance/internal/application"
	"github.com/go-arrower/hrsuite/contexts/attendance/internal/domain"
)

func NewAdminController(app application.AttendanceApplication) *AdminController {
	return &AdminController{app: app}
}

// AdminController manages the offices and networks an organisation accepts for clocking.
type AdminController struct {
	app application.AttendanceApplication
}

func (ac *AdminController) ListOffices() func(echo.Context) error {
	return func(c echo.Context) error {
		res, err := ac.app.ListOffices.H(c.Request().Context(), application.ListOfficesQuery{OrganizationID: organizationID(c)})
		if err != nil {
			return httpError(err)
		}

		return c.JSON(http.StatusOK, officesFromDomain(res.Offices))
	}
}

func (ac *AdminController) CreateOffice() func(echo.Context) error {
	return func(c echo.Context) error {
		var in office
		if err := c.Bind(&in); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid office").SetInternal(err)
		}

		res, err := ac.app.AddOffice.H(c.Request().Context(), application.AddOfficeRequest{
			OrganizationID: organizationID(c),
			Name:           in.Name,
			Priority:       in.Priority,
			Latitude:       in.Latitude,
			Longitude:      in.Longitude,
			RadiusMeters:   in.RadiusMeters,
			Address:        in.Address,
		})
		if err != nil {
			return httpError(err)
		}

		return c.JSON(http.StatusCreated, officesFromDomain([]domain.Office{res.Office})[0])
	}
}

func (ac *AdminController) DeleteOffice() func(echo.Context) error {
	return func(c echo.Context) error {
		err := ac.app.RemoveOffice.H(c.Request().Context(), application.RemoveOfficeCommand{
			OrganizationID: organizationID(c),
			OfficeID:       domain.OfficeID(c.Param("id")),
		})
		if err != nil {
			return httpError(err)
		}

		return c.NoContent(http.StatusNoContent)
	}
}

func (ac *AdminController) ListNetworks() func(echo.Context) error {
	return func(c echo.Context) error {
		res, err := ac.app.ListNetworks.H(c.Request().Context(), application.ListNetworksQuery{OrganizationID: organizationID(c)})
		if err != nil {
			return httpError(err)
		}

		return c.JSON(http.StatusOK, networksFromDomain(res.Networks))
	}
}

func (ac *AdminController) CreateNetwork() func(echo.Context) error {
	return func(c echo.Context) error {
		var in network
		if err := c.Bind(&in); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid network").SetInternal(err)
		}

		res, err := ac.app.AddNetwork.H(c.Request().Context(), application.AddNetworkRequest{
			OrganizationID: organizationID(c),
			Label:          in.Label,
			SSID:           in.SSID,
			BSSID:          in.BSSID,
		})
		if err != nil {
			return httpError(err)
		}

		return c.JSON(http.StatusCreated, networksFromDomain([]domain.AllowedNetwork{res.Network})[0])
	}
}

func (ac *AdminController) DeleteNetwork() func(echo.Context) error {
	return func(c echo.Context) error {
		err := ac.app.RemoveNetwork.H(c.Request().Context(), application.RemoveNetworkCommand{
			OrganizationID: organizationID(c),
			NetworkID:      domain.NetworkID(c.Param("id")),
		})
		if err != nil {
			return httpError(err)
		}

		return c.NoContent(http.StatusNoContent)
	}
}

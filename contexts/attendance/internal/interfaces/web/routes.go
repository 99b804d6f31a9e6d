package web

import (
	"github.com/labstack/echo/v4"

	"github.com/go-arrower/hrsuite/contexts/attendance/internal/application"
)

// RegisterRoutes mounts the attendance api below router.
func RegisterRoutes(router *echo.Group, app application.AttendanceApplication) {
	attendance := NewAttendanceController(app)
	admin := NewAdminController(app)

	employees := router.Group("/attendance")
	employees.POST("/check", attendance.Check(), RequireOrganization())
	employees.POST("/clock-in", attendance.ClockIn(), RequireEmployee())
	employees.POST("/clock-out", attendance.ClockOut(), RequireEmployee())
	employees.GET("/records/export", attendance.Export(), RequireOrganization())

	admins := router.Group("/admin/attendance", RequireOrganization())
	admins.GET("/offices", admin.ListOffices())
	admins.POST("/offices", admin.CreateOffice())
	admins.DELETE("/offices/:id", admin.DeleteOffice())
	admins.GET("/networks", admin.ListNetworks())
	admins.POST("/networks", admin.CreateNetwork())
	admins.DELETE("/networks/:id", admin.DeleteNetwork())
}

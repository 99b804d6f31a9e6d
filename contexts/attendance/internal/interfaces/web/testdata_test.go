package web_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/go-arrower/hrsuite/app"
	"github.com/go-arrower/hrsuite/contexts/attendance/internal/application"
	"github.com/go-arrower/hrsuite/contexts/attendance/internal/domain"
	"github.com/go-arrower/hrsuite/contexts/attendance/internal/interfaces/web"
)

const (
	orgID      domain.OrganizationID = "acme"
	employeeID domain.EmployeeID     = "0815"
)

// newTestRouter is a helper for unit tests, by returning a web router serving attendance.
func newTestRouter(attendance application.AttendanceApplication) *echo.Echo {
	e := echo.New()
	web.RegisterRoutes(e.Group(""), attendance)

	return e
}

// newRequest returns a json request as the authenticating proxy passes it on.
func newRequest(method string, target string, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(web.HeaderOrganizationID, string(orgID))
	req.Header.Set(web.HeaderEmployeeID, string(employeeID))

	return req
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	return rec
}

func clockInHandler(
	fn func(ctx context.Context, req application.ClockInRequest) (application.ClockResponse, error),
) app.Request[application.ClockInRequest, application.ClockResponse] {
	return app.TestRequestHandler(fn)
}

var compliantResult = domain.ComplianceResult{ //nolint:gochecknoglobals // used as test fixture
	IsCompliant:     true,
	MatchedZoneName: "Head Office",
}

package application

import "github.com/go-arrower/hrsuite/app"

type AttendanceApplication struct {
	CheckLocation app.Request[CheckLocationRequest, CheckLocationResponse]
	ClockIn       app.Request[ClockInRequest, ClockResponse]
	ClockOut      app.Request[ClockOutRequest, ClockResponse]

	AddOffice     app.Request[AddOfficeRequest, AddOfficeResponse]
	RemoveOffice  app.Command[RemoveOfficeCommand]
	ListOffices   app.Query[ListOfficesQuery, ListOfficesResponse]
	AddNetwork    app.Request[AddNetworkRequest, AddNetworkResponse]
	RemoveNetwork app.Command[RemoveNetworkCommand]
	ListNetworks  app.Query[ListNetworksQuery, ListNetworksResponse]

	ExportAttendance app.Query[ExportAttendanceQuery, ExportAttendanceResponse]
	CloseOpenRecords app.Job[CloseOpenRecordsJob]
}

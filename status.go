package hrsuite

import (
	"context"
	"time"
)

const (
	statusOnline   = "online"
	statusDegraded = "degraded"
)

type systemStatus struct {
	Status           string      `json:"status"`
	Time             time.Time   `json:"time"`
	Uptime           string      `json:"uptime"`
	GitHash          string      `json:"gitHash"`
	OrganisationName string      `json:"organisationName"`
	ApplicationName  string      `json:"applicationName"`
	InstanceName     string      `json:"instanceName"`
	Environment      Environment `json:"environment"`

	Web        HTTP       `json:"web"`
	Database   dbStatus   `json:"database"`
	Attendance Attendance `json:"attendance"`
	Jobs       int        `json:"scheduledJobs"`
}

type dbStatus struct {
	Postgres
	Status string `json:"status"`
}

func getSystemStatus(ctx context.Context, di *Container, serverStartedAt time.Time) systemStatus {
	status := systemStatus{
		Status:           statusOnline,
		Time:             time.Now().UTC(),
		Uptime:           time.Since(serverStartedAt).Round(time.Second).String(),
		GitHash:          gitHash(),
		OrganisationName: di.Config.OrganisationName,
		ApplicationName:  di.Config.ApplicationName,
		InstanceName:     di.Config.InstanceName,
		Environment:      di.Config.Environment,
		Web:              di.Config.HTTP,
		Database:         dbStatus{Postgres: di.Config.Postgres, Status: "in memory"},
		Attendance:       di.Config.Attendance,
		Jobs:             len(di.Cron.Entries()),
	}

	if di.PGx != nil {
		status.Database.Status = statusOnline

		ctx, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()

		if err := di.PGx.Ping(ctx); err != nil {
			status.Status = statusDegraded
			status.Database.Status = "err: " + err.Error()
		}
	}

	return status
}

package repository

import (
	"time"

	"github.com/go-arrower/hrsuite/contexts/attendance/internal/domain"
)

//nolint:gochecknoglobals // column lists are shared by all queries of a table
var (
	officeColumns = []string{
		"id::TEXT AS id", "organization_id", "name", "priority", "latitude", "longitude", "radius_meters", "address",
	}
	networkColumns = []string{"id::TEXT AS id", "organization_id", "label", "ssid", "bssid"}
	recordColumns  = []string{
		"id", "organization_id", "employee_id", "kind", "occurred_at", "compliant", "automatic", "method",
		"error_kind", "zone_name", "network", "latitude", "longitude", "accuracy", "address", "ip",
		"device_name", "device_os", "device_browser", "device_mobile",
	}
)

type officeRow struct {
	ID             string  `db:"id"`
	OrganizationID string  `db:"organization_id"`
	Name           string  `db:"name"`
	Priority       int     `db:"priority"`
	Latitude       float64 `db:"latitude"`
	Longitude      float64 `db:"longitude"`
	RadiusMeters   float64 `db:"radius_meters"`
	Address        string  `db:"address"`
}

func (r officeRow) toDomain() domain.Office {
	return domain.Office{
		ID:             domain.OfficeID(r.ID),
		OrganizationID: domain.OrganizationID(r.OrganizationID),
		Name:           r.Name,
		Priority:       r.Priority,
		Latitude:       r.Latitude,
		Longitude:      r.Longitude,
		RadiusMeters:   r.RadiusMeters,
		Address:        r.Address,
	}
}

type networkRow struct {
	ID             string `db:"id"`
	OrganizationID string `db:"organization_id"`
	Label          string `db:"label"`
	SSID           string `db:"ssid"`
	BSSID          string `db:"bssid"`
}

func (r networkRow) toDomain() domain.AllowedNetwork {
	return domain.AllowedNetwork{
		ID:             domain.NetworkID(r.ID),
		OrganizationID: domain.OrganizationID(r.OrganizationID),
		Label:          r.Label,
		SSID:           r.SSID,
		BSSID:          r.BSSID,
	}
}

type recordRow struct { //nolint:govet // fieldalignment less important than matching the table
	ID             string    `db:"id"`
	OrganizationID string    `db:"organization_id"`
	EmployeeID     string    `db:"employee_id"`
	Kind           string    `db:"kind"`
	OccurredAt     time.Time `db:"occurred_at"`
	Compliant      bool      `db:"compliant"`
	Automatic      bool      `db:"automatic"`
	Method         string    `db:"method"`
	ErrorKind      string    `db:"error_kind"`
	ZoneName       string    `db:"zone_name"`
	Network        string    `db:"network"`
	Latitude       *float64  `db:"latitude"`
	Longitude      *float64  `db:"longitude"`
	Accuracy       float64   `db:"accuracy"`
	Address        string    `db:"address"`
	IP             string    `db:"ip"`
	DeviceName     string    `db:"device_name"`
	DeviceOS       string    `db:"device_os"`
	DeviceBrowser  string    `db:"device_browser"`
	DeviceMobile   bool      `db:"device_mobile"`
}

func (r recordRow) toDomain() domain.Record {
	return domain.Record{
		ID:             domain.RecordID(r.ID),
		OrganizationID: domain.OrganizationID(r.OrganizationID),
		EmployeeID:     domain.EmployeeID(r.EmployeeID),
		Kind:           domain.Kind(r.Kind),
		OccurredAt:     r.OccurredAt.UTC(),
		Compliant:      r.Compliant,
		Automatic:      r.Automatic,
		Method:         domain.Method(r.Method),
		ErrorKind:      domain.ErrorKind(r.ErrorKind),
		ZoneName:       r.ZoneName,
		Network:        r.Network,
		Latitude:       r.Latitude,
		Longitude:      r.Longitude,
		Accuracy:       r.Accuracy,
		Address:        r.Address,
		IP:             r.IP,
		Device: domain.Device{
			Name:    r.DeviceName,
			OS:      r.DeviceOS,
			Browser: r.DeviceBrowser,
			Mobile:  r.DeviceMobile,
		},
	}
}

package web

import (
	"time"

	"github.com/go-arrower/hrsuite/contexts/attendance/internal/domain"
)

// locationReport is the answer of the browser geolocation API or the mobile app,
// as the client posts it.
type locationReport struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Accuracy  float64  `json:"accuracy"`
	// Timestamp is in milliseconds since epoch, as returned by the geolocation API.
	Timestamp int64 `json:"timestamp"`
	// Error is the code of a GeolocationPositionError, 0 if there was none.
	Error int `json:"error"`

	SSID  string `json:"ssid"`
	BSSID string `json:"bssid"`
}

func (r locationReport) toDomain() domain.LocationReport {
	var ts time.Time
	if r.Timestamp > 0 {
		ts = time.UnixMilli(r.Timestamp).UTC()
	}

	return domain.LocationReport{
		Latitude:      r.Latitude,
		Longitude:     r.Longitude,
		Accuracy:      r.Accuracy,
		Timestamp:     ts,
		PositionError: r.Error,
		SSID:          r.SSID,
		BSSID:         r.BSSID,
	}
}

type record struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employeeId"`
	Kind       string    `json:"kind"`
	OccurredAt time.Time `json:"occurredAt"`
	Compliant  bool      `json:"compliant"`
	Automatic  bool      `json:"automatic"`
	Method     string    `json:"method"`
	ErrorKind  string    `json:"errorKind,omitempty"`
	Zone       string    `json:"zone,omitempty"`
	Network    string    `json:"network,omitempty"`
	Latitude   *float64  `json:"latitude,omitempty"`
	Longitude  *float64  `json:"longitude,omitempty"`
	Accuracy   float64   `json:"accuracy,omitempty"`
	Address    string    `json:"address,omitempty"`
	Device     string    `json:"device,omitempty"`
}

func recordFromDomain(r domain.Record) record {
	return record{
		ID:         string(r.ID),
		EmployeeID: string(r.EmployeeID),
		Kind:       string(r.Kind),
		OccurredAt: r.OccurredAt,
		Compliant:  r.Compliant,
		Automatic:  r.Automatic,
		Method:     string(r.Method),
		ErrorKind:  string(r.ErrorKind),
		Zone:       r.ZoneName,
		Network:    r.Network,
		Latitude:   r.Latitude,
		Longitude:  r.Longitude,
		Accuracy:   r.Accuracy,
		Address:    r.Address,
		Device:     r.Device.String(),
	}
}

type clockResponse struct {
	Record record                  `json:"record"`
	Result domain.ComplianceResult `json:"result"`
}

type office struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Priority     int     `json:"priority"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	RadiusMeters float64 `json:"radiusMeters"`
	Address      string  `json:"address,omitempty"`
}

func officesFromDomain(offices []domain.Office) []office {
	dto := make([]office, 0, len(offices))

	for _, o := range offices {
		dto = append(dto, office{
			ID:           string(o.ID),
			Name:         o.Name,
			Priority:     o.Priority,
			Latitude:     o.Latitude,
			Longitude:    o.Longitude,
			RadiusMeters: o.RadiusMeters,
			Address:      o.Address,
		})
	}

	return dto
}

type network struct {
	ID    string `json:"id"`
	Label string `json:"label,omitempty"`
	SSID  string `json:"ssid,omitempty"`
	BSSID string `json:"bssid,omitempty"`
}

func networksFromDomain(networks []domain.AllowedNetwork) []network {
	dto := make([]network, 0, len(networks))

	for _, n := range networks {
		dto = append(dto, network{ID: string(n.ID), Label: n.Label, SSID: n.SSID, BSSID: n.BSSID})
	}

	return dto
}

package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mileusna/useragent"
	"github.com/oklog/ulid/v2"
)

var (
	ErrAlreadyClockedIn = errors.New("already clocked in")
	ErrNotClockedIn     = errors.New("not clocked in")
	ErrNotCompliant     = errors.New("location not compliant")
	ErrInvalidOffice    = errors.New("invalid office")
	ErrInvalidNetwork   = errors.New("invalid network")
)

type (
	OrganizationID string
	EmployeeID     string
	OfficeID       string
	NetworkID      string
	RecordID       string
)

func NewOfficeID() OfficeID { return OfficeID(uuid.New().String()) }

func NewNetworkID() NetworkID { return NetworkID(uuid.New().String()) }

// Office is a place of an organisation employees can clock in from.
// Offices with a lower Priority are matched first.
type Office struct { //nolint:govet // fieldalignment less important than grouping of fields.
	ID             OfficeID
	OrganizationID OrganizationID
	Name           string
	Priority       int

	Latitude     float64
	Longitude    float64
	RadiusMeters float64
	Address      string
}

func NewOffice(orgID OrganizationID, name string, priority int, lat, lon, radius float64, address string) (Office, error) {
	if strings.TrimSpace(string(orgID)) == "" {
		return Office{}, fmt.Errorf("%w: missing organization", ErrInvalidOffice)
	}

	if strings.TrimSpace(name) == "" {
		return Office{}, fmt.Errorf("%w: missing name", ErrInvalidOffice)
	}

	office := Office{
		ID:             NewOfficeID(),
		OrganizationID: orgID,
		Name:           strings.TrimSpace(name),
		Priority:       priority,
		Latitude:       lat,
		Longitude:      lon,
		RadiusMeters:   radius,
		Address:        address,
	}

	if err := office.Zone().Validate(); err != nil {
		return Office{}, fmt.Errorf("%w: %w", ErrInvalidOffice, err)
	}

	return office, nil
}

func (o Office) Zone() AllowedZone {
	return AllowedZone{
		Name:         o.Name,
		Center:       GeoPoint{Latitude: o.Latitude, Longitude: o.Longitude},
		RadiusMeters: o.RadiusMeters,
	}
}

// Zones returns the zones of offices in the order they are given.
func Zones(offices []Office) []AllowedZone {
	zones := make([]AllowedZone, 0, len(offices))

	for _, o := range offices {
		zones = append(zones, o.Zone())
	}

	return zones
}

// AllowedNetwork is a WiFi network of an organisation that proves presence.
type AllowedNetwork struct {
	ID             NetworkID
	OrganizationID OrganizationID
	Label          string
	SSID           string
	BSSID          string
}

func NewAllowedNetwork(orgID OrganizationID, label, ssid, bssid string) (AllowedNetwork, error) {
	if strings.TrimSpace(string(orgID)) == "" {
		return AllowedNetwork{}, fmt.Errorf("%w: missing organization", ErrInvalidNetwork)
	}

	n := AllowedNetwork{
		ID:             NewNetworkID(),
		OrganizationID: orgID,
		Label:          strings.TrimSpace(label),
		SSID:           ssid,
		BSSID:          strings.TrimSpace(bssid),
	}

	if n.Identity().IsEmpty() {
		return AllowedNetwork{}, fmt.Errorf("%w: ssid or bssid required", ErrInvalidNetwork)
	}

	return n, nil
}

func (n AllowedNetwork) Identity() NetworkIdentity {
	return NetworkIdentity{SSID: n.SSID, BSSID: n.BSSID}
}

func Identities(networks []AllowedNetwork) []NetworkIdentity {
	ids := make([]NetworkIdentity, 0, len(networks))

	for _, n := range networks {
		ids = append(ids, n.Identity())
	}

	return ids
}

type Kind string

const (
	ClockIn  Kind = "clock_in"
	ClockOut Kind = "clock_out"
)

type Method string

const (
	MethodGPS  Method = "gps"
	MethodWiFi Method = "wifi"
	MethodNone Method = "none"
)

// Device is the client an employee clocked in or out with.
type Device struct {
	Name    string
	OS      string
	Browser string
	Mobile  bool
}

func NewDevice(userAgent string) Device {
	ua := useragent.Parse(userAgent)

	browser := strings.TrimSpace(ua.Name + " " + ua.Version)
	os := strings.TrimSpace(ua.OS + " " + ua.OSVersion)

	return Device{
		Name:    ua.Device,
		OS:      os,
		Browser: browser,
		Mobile:  ua.Mobile || ua.Tablet,
	}
}

func (d Device) String() string {
	return strings.TrimSpace(d.Browser + " " + d.OS)
}

// Record is one clock in or clock out of an employee, compliant or not.
// Non-compliant records are kept as an audit trail.
type Record struct { //nolint:govet // fieldalignment less important than grouping of fields.
	ID             RecordID
	OrganizationID OrganizationID
	EmployeeID     EmployeeID
	Kind           Kind
	OccurredAt     time.Time

	Compliant bool
	// Automatic is set for records the system wrote on behalf of an employee, e.g. a forgotten clock out.
	Automatic bool
	Method    Method
	ErrorKind ErrorKind
	ZoneName  string
	Network   string
	Latitude  *float64
	Longitude *float64
	Accuracy  float64
	Address   string

	IP     string
	Device Device
}

// NewRecord derives a Record from the outcome of a compliance check.
func NewRecord(
	orgID OrganizationID,
	employeeID EmployeeID,
	kind Kind,
	occurredAt time.Time,
	res ComplianceResult,
	ip string,
	device Device,
) Record {
	rec := Record{
		ID:             NewRecordID(occurredAt),
		OrganizationID: orgID,
		EmployeeID:     employeeID,
		Kind:           kind,
		OccurredAt:     occurredAt.UTC(),
		Compliant:      res.IsCompliant,
		Automatic:      false,
		Method:         MethodNone,
		ErrorKind:      res.ErrorKind,
		ZoneName:       res.MatchedZoneName,
		Address:        res.ResolvedAddress,
		IP:             ip,
		Device:         device,
	}

	switch {
	case res.NetworkMatched:
		rec.Method = MethodWiFi
		rec.Network = res.MatchedNetwork.SSID
		if rec.Network == "" {
			rec.Network = res.MatchedNetwork.BSSID
		}
	case res.Reading != nil && res.Reading.Source == SourceGPS:
		rec.Method = MethodGPS
	}

	if res.Reading != nil && res.Reading.Point != nil {
		lat, lon := res.Reading.Point.Latitude, res.Reading.Point.Longitude
		rec.Latitude = &lat
		rec.Longitude = &lon
		rec.Accuracy = res.Reading.AccuracyMeters
	}

	return rec
}

// NewAutomaticClockOut closes an open clock in without a location check.
func NewAutomaticClockOut(open Record, occurredAt time.Time) Record {
	return Record{
		ID:             NewRecordID(occurredAt),
		OrganizationID: open.OrganizationID,
		EmployeeID:     open.EmployeeID,
		Kind:           ClockOut,
		OccurredAt:     occurredAt.UTC(),
		Compliant:      false,
		Automatic:      true,
		Method:         MethodNone,
		ErrorKind:      LocationCheckFailed,
	}
}

// NewRecordID returns a lexicographically sortable id for a record at t.
func NewRecordID(t time.Time) RecordID {
	return RecordID(ulid.MustNew(ulid.Timestamp(t), ulid.DefaultEntropy()).String())
}

// Effective reports whether the record changes the clocking state of an employee.
func (r Record) Effective() bool {
	return r.Compliant || r.Automatic
}

// EnsureTransition checks that an employee whose latest effective record is last
// (found=false if there is none) may clock kind next.
func EnsureTransition(last Record, found bool, kind Kind) error {
	isClockedIn := found && last.Kind == ClockIn

	switch {
	case kind == ClockIn && isClockedIn:
		return fmt.Errorf("%w: since %s", ErrAlreadyClockedIn, last.OccurredAt.Format(time.RFC3339))
	case kind == ClockOut && !isClockedIn:
		return ErrNotClockedIn
	default:
		return nil
	}
}

package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"

	"github.com/ip2location/ip2location-go/v9"

	"github.com/go-arrower/hrsuite/contexts/attendance/internal/domain"
)

var (
	ErrInvalidIP     = errors.New("invalid ip address")
	ErrResolveFailed = errors.New("resolving ip failed")
)

var _ domain.IPLocator = (*IP2Location)(nil)

// NewIP2Location returns an IPLocator that resolves ip addresses to a country, region, city, and,
// if the database contains them, coordinates.
//
// This site or product includes IP2Location LITE data available from
// <a href="https://lite.ip2location.com">https://lite.ip2location.com</a>.
func NewIP2Location(dbPath string) (*IP2Location, error) {
	db, err := ip2location.OpenDB(dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: could not open %s: %v", ErrResolveFailed, dbPath, err) //nolint:errorlint // prevent err in api
	}

	return &IP2Location{db: db}, nil
}

type IP2Location struct {
	// the reader of the library is not safe for concurrent use
	mu sync.Mutex
	db *ip2location.DB
}

func (s *IP2Location) LocateIP(_ context.Context, ip string) (domain.IPLocation, error) {
	ipAddr := net.ParseIP(strings.TrimSpace(ip))
	if ipAddr == nil {
		return domain.IPLocation{}, fmt.Errorf("%w: %w", domain.ErrIPLocationUnavailable, ErrInvalidIP)
	}

	s.mu.Lock()
	results, err := s.db.Get_all(ipAddr.String())
	s.mu.Unlock()

	if err != nil {
		return domain.IPLocation{}, fmt.Errorf("%w: %w: %v", domain.ErrIPLocationUnavailable, ErrResolveFailed, err) //nolint:errorlint,lll // prevent err in api
	}

	loc := domain.IPLocation{
		IP:          ipAddr,
		Country:     field(results.Country_long),
		CountryCode: field(results.Country_short),
		Region:      field(results.Region),
		City:        field(results.City),
		Point:       nil,
	}

	point := domain.GeoPoint{Latitude: float64(results.Latitude), Longitude: float64(results.Longitude)}
	if (point.Latitude != 0 || point.Longitude != 0) && point.Validate() == nil {
		loc.Point = &point
	}

	return loc, nil
}

func (s *IP2Location) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.db.Close()
}

// field drops the placeholders the library returns for values missing in the database.
func field(value string) string {
	if value == "-" || strings.HasPrefix(value, "This parameter is unavailable") ||
		strings.HasPrefix(value, "Invalid") {
		return ""
	}

	return value
}

package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-arrower/hrsuite/app"
	"github.com/go-arrower/hrsuite/contexts/attendance/internal/domain"
)

// Clocking is what an employee submits to clock in or out.
type Clocking struct {
	OrganizationID domain.OrganizationID `validate:"required"`
	EmployeeID     domain.EmployeeID     `validate:"required"`
	Report         domain.LocationReport
	IP             string `validate:"omitempty,ip"`
	UserAgent      string
}

type (
	ClockInRequest  struct{ Clocking }
	ClockOutRequest struct{ Clocking }

	// ClockResponse carries the record written, also if the location was not compliant.
	ClockResponse struct {
		Record domain.Record
		Result domain.ComplianceResult
	}
)

func NewClockInRequestHandler(
	records domain.RecordRepository,
	checker *LocationChecker,
) app.Request[ClockInRequest, ClockResponse] {
	clock := &clock{records: records, checker: checker, now: time.Now}

	return app.RequestFunc[ClockInRequest, ClockResponse](func(ctx context.Context, req ClockInRequest) (ClockResponse, error) {
		return clock.record(ctx, domain.ClockIn, req.Clocking)
	})
}

func NewClockOutRequestHandler(
	records domain.RecordRepository,
	checker *LocationChecker,
) app.Request[ClockOutRequest, ClockResponse] {
	clock := &clock{records: records, checker: checker, now: time.Now}

	return app.RequestFunc[ClockOutRequest, ClockResponse](func(ctx context.Context, req ClockOutRequest) (ClockResponse, error) {
		return clock.record(ctx, domain.ClockOut, req.Clocking)
	})
}

type clock struct {
	records domain.RecordRepository
	checker *LocationChecker
	now     func() time.Time
}

// record checks the location and keeps the record, compliant or not, as an audit trail.
// A record that is not compliant is returned together with domain.ErrNotCompliant.
func (c *clock) record(ctx context.Context, kind domain.Kind, req Clocking) (ClockResponse, error) {
	last, err := c.records.LatestEffective(ctx, req.OrganizationID, req.EmployeeID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return ClockResponse{}, fmt.Errorf("could not get latest record: %w", err)
	}

	if err = domain.EnsureTransition(last, err == nil, kind); err != nil {
		return ClockResponse{}, fmt.Errorf("could not %s: %w", kind, err)
	}

	res, err := c.checker.Check(ctx, req.OrganizationID, req.Report, req.IP)
	if err != nil {
		return ClockResponse{}, fmt.Errorf("could not check location: %w", err)
	}

	rec := domain.NewRecord(req.OrganizationID, req.EmployeeID, kind, c.now(), res, req.IP, domain.NewDevice(req.UserAgent))

	// the location check takes a while, so the transition is checked again when saving
	if err = c.records.Append(ctx, rec); err != nil {
		return ClockResponse{}, fmt.Errorf("could not %s: %w", kind, err)
	}

	resp := ClockResponse{Record: rec, Result: res}

	if !res.IsCompliant {
		return resp, fmt.Errorf("%w: %s", domain.ErrNotCompliant, res.ErrorKind)
	}

	return resp, nil
}

package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrPersistenceFailed = errors.New("persistence operation failed")
)

// OfficeRepository returns offices ordered by Priority, then Name.
type OfficeRepository interface {
	ByOrganization(ctx context.Context, orgID OrganizationID) ([]Office, error)
	FindByID(ctx context.Context, id OfficeID) (Office, error)
	Save(ctx context.Context, office Office) error
	Delete(ctx context.Context, id OfficeID) error
}

type NetworkRepository interface {
	ByOrganization(ctx context.Context, orgID OrganizationID) ([]AllowedNetwork, error)
	Save(ctx context.Context, network AllowedNetwork) error
	Delete(ctx context.Context, id NetworkID) error
}

type RecordRepository interface {
	Save(ctx context.Context, record Record) error
	FindByID(ctx context.Context, id RecordID) (Record, error)

	// Append saves record, if EnsureTransition allows the employee to clock record.Kind.
	// Check and save are atomic per employee, so concurrent clock ins cannot both pass.
	Append(ctx context.Context, record Record) error

	// LatestEffective returns the newest record of the employee for which Record.Effective is true.
	LatestEffective(ctx context.Context, orgID OrganizationID, employeeID EmployeeID) (Record, error)

	// Between returns all records of the organisation in [from, to), oldest first.
	Between(ctx context.Context, orgID OrganizationID, from, to time.Time) ([]Record, error)

	// OpenClockIns returns the latest effective record of every employee, that is a clock in older than before.
	OpenClockIns(ctx context.Context, before time.Time) ([]Record, error)
}

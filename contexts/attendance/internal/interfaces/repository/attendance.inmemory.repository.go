package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-arrower/hrsuite/contexts/attendance/internal/domain"
	"github.com/go-arrower/hrsuite/repository"
)

var (
	_ domain.OfficeRepository  = (*OfficeMemoryRepository)(nil)
	_ domain.NetworkRepository = (*NetworkMemoryRepository)(nil)
	_ domain.RecordRepository  = (*RecordMemoryRepository)(nil)
)

func NewOfficeMemoryRepository(opts ...repository.Option) *OfficeMemoryRepository {
	return &OfficeMemoryRepository{
		MemoryRepository: repository.NewMemoryRepository(func(o domain.Office) domain.OfficeID { return o.ID }, opts...),
	}
}

type OfficeMemoryRepository struct {
	*repository.MemoryRepository[domain.Office, domain.OfficeID]
}

func (repo *OfficeMemoryRepository) ByOrganization(ctx context.Context, orgID domain.OrganizationID) ([]domain.Office, error) {
	offices, err := repo.FindBy(ctx, func(o domain.Office) bool { return o.OrganizationID == orgID })
	if err != nil {
		return nil, mapError(err)
	}

	sort.Slice(offices, func(i, j int) bool {
		if offices[i].Priority != offices[j].Priority {
			return offices[i].Priority < offices[j].Priority
		}

		return offices[i].Name < offices[j].Name
	})

	return offices, nil
}

func (repo *OfficeMemoryRepository) FindByID(ctx context.Context, id domain.OfficeID) (domain.Office, error) {
	office, err := repo.MemoryRepository.FindByID(ctx, id)

	return office, mapError(err)
}

func (repo *OfficeMemoryRepository) Save(ctx context.Context, office domain.Office) error {
	return mapError(repo.MemoryRepository.Save(ctx, office))
}

func (repo *OfficeMemoryRepository) Delete(ctx context.Context, id domain.OfficeID) error {
	return mapError(repo.DeleteByID(ctx, id))
}

func NewNetworkMemoryRepository(opts ...repository.Option) *NetworkMemoryRepository {
	return &NetworkMemoryRepository{
		MemoryRepository: repository.NewMemoryRepository(func(n domain.AllowedNetwork) domain.NetworkID { return n.ID }, opts...),
	}
}

type NetworkMemoryRepository struct {
	*repository.MemoryRepository[domain.AllowedNetwork, domain.NetworkID]
}

func (repo *NetworkMemoryRepository) ByOrganization(
	ctx context.Context,
	orgID domain.OrganizationID,
) ([]domain.AllowedNetwork, error) {
	networks, err := repo.FindBy(ctx, func(n domain.AllowedNetwork) bool { return n.OrganizationID == orgID })
	if err != nil {
		return nil, mapError(err)
	}

	sort.Slice(networks, func(i, j int) bool {
		return networks[i].Label < networks[j].Label
	})

	return networks, nil
}

func (repo *NetworkMemoryRepository) Save(ctx context.Context, network domain.AllowedNetwork) error {
	return mapError(repo.MemoryRepository.Save(ctx, network))
}

func (repo *NetworkMemoryRepository) Delete(ctx context.Context, id domain.NetworkID) error {
	return mapError(repo.DeleteByID(ctx, id))
}

func NewRecordMemoryRepository(opts ...repository.Option) *RecordMemoryRepository {
	return &RecordMemoryRepository{
		MemoryRepository: repository.NewMemoryRepository(func(r domain.Record) domain.RecordID { return r.ID }, opts...),
	}
}

type RecordMemoryRepository struct {
	*repository.MemoryRepository[domain.Record, domain.RecordID]

	employees sync.Map // employeeKey → *sync.Mutex
}

type employeeKey struct {
	org domain.OrganizationID
	emp domain.EmployeeID
}

func (repo *RecordMemoryRepository) Append(ctx context.Context, record domain.Record) error {
	mu, _ := repo.employees.LoadOrStore(employeeKey{org: record.OrganizationID, emp: record.EmployeeID}, &sync.Mutex{})
	mu.(*sync.Mutex).Lock()
	defer mu.(*sync.Mutex).Unlock()

	last, err := repo.LatestEffective(ctx, record.OrganizationID, record.EmployeeID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	if err = domain.EnsureTransition(last, err == nil, record.Kind); err != nil {
		return err //nolint:wrapcheck // domain error
	}

	return repo.Save(ctx, record)
}

func (repo *RecordMemoryRepository) Save(ctx context.Context, record domain.Record) error {
	return mapError(repo.MemoryRepository.Save(ctx, record))
}

func (repo *RecordMemoryRepository) FindByID(ctx context.Context, id domain.RecordID) (domain.Record, error) {
	record, err := repo.MemoryRepository.FindByID(ctx, id)

	return record, mapError(err)
}

func (repo *RecordMemoryRepository) LatestEffective(
	ctx context.Context,
	orgID domain.OrganizationID,
	employeeID domain.EmployeeID,
) (domain.Record, error) {
	records, err := repo.FindBy(ctx, func(r domain.Record) bool {
		return r.OrganizationID == orgID && r.EmployeeID == employeeID && r.Effective()
	})
	if err != nil {
		return domain.Record{}, mapError(err)
	}

	if len(records) == 0 {
		return domain.Record{}, domain.ErrNotFound
	}

	sortChronologically(records)

	return records[len(records)-1], nil
}

func (repo *RecordMemoryRepository) Between(
	ctx context.Context,
	orgID domain.OrganizationID,
	from, to time.Time,
) ([]domain.Record, error) {
	records, err := repo.FindBy(ctx, func(r domain.Record) bool {
		return r.OrganizationID == orgID && !r.OccurredAt.Before(from) && r.OccurredAt.Before(to)
	})
	if err != nil {
		return nil, mapError(err)
	}

	sortChronologically(records)

	return records, nil
}

func (repo *RecordMemoryRepository) OpenClockIns(ctx context.Context, before time.Time) ([]domain.Record, error) {
	records, err := repo.FindBy(ctx, func(r domain.Record) bool { return r.Effective() })
	if err != nil {
		return nil, mapError(err)
	}

	sortChronologically(records)

	latest := map[employeeKey]domain.Record{}
	for _, r := range records {
		latest[employeeKey{org: r.OrganizationID, emp: r.EmployeeID}] = r
	}

	open := []domain.Record{}

	for _, r := range latest {
		if r.Kind == domain.ClockIn && r.OccurredAt.Before(before) {
			open = append(open, r)
		}
	}

	sortChronologically(open)

	return open, nil
}

// sortChronologically sorts by OccurredAt and uses the time ordered ID to break ties.
func sortChronologically(records []domain.Record) {
	sort.Slice(records, func(i, j int) bool {
		if !records[i].OccurredAt.Equal(records[j].OccurredAt) {
			return records[i].OccurredAt.Before(records[j].OccurredAt)
		}

		return records[i].ID < records[j].ID
	})
}

func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return domain.ErrNotFound
	default:
		return fmt.Errorf("%w: %w", domain.ErrPersistenceFailed, err)
	}
}

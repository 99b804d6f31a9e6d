package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/go-arrower/hrsuite/contexts/attendance/internal/domain"
	"github.com/go-arrower/hrsuite/postgres"
)

var ErrMissingConnection = errors.New("missing db connection")

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar) //nolint:gochecknoglobals // squirrel recommends this

const (
	officeTable  = "attendance_office"
	networkTable = "attendance_network"
	recordTable  = "attendance_record"
)

var (
	_ domain.OfficeRepository  = (*OfficePostgresRepository)(nil)
	_ domain.NetworkRepository = (*NetworkPostgresRepository)(nil)
	_ domain.RecordRepository  = (*RecordPostgresRepository)(nil)
)

func NewOfficePostgresRepository(pg *pgxpool.Pool) (*OfficePostgresRepository, error) {
	if pg == nil {
		return nil, ErrMissingConnection
	}

	return &OfficePostgresRepository{pg: pg}, nil
}

type OfficePostgresRepository struct {
	pg *pgxpool.Pool
}

func (repo *OfficePostgresRepository) ByOrganization(
	ctx context.Context,
	orgID domain.OrganizationID,
) ([]domain.Office, error) {
	sql, args, err := psql.Select(officeColumns...).From(officeTable).
		Where(squirrel.Eq{"organization_id": string(orgID)}).
		OrderBy("priority", "name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: could not build query: %w", domain.ErrPersistenceFailed, err)
	}

	rows := []officeRow{}

	if err = pgxscan.Select(ctx, postgres.ConnOrTX(ctx, repo.pg), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("%w: could not get offices: %w", domain.ErrPersistenceFailed, err)
	}

	offices := make([]domain.Office, len(rows))
	for i, r := range rows {
		offices[i] = r.toDomain()
	}

	return offices, nil
}

func (repo *OfficePostgresRepository) FindByID(ctx context.Context, id domain.OfficeID) (domain.Office, error) {
	dbID, err := uuid.Parse(string(id))
	if err != nil {
		return domain.Office{}, fmt.Errorf("%w: could not parse as uuid: %s: %w", domain.ErrNotFound, id, err)
	}

	sql, args, err := psql.Select(officeColumns...).From(officeTable).Where(squirrel.Eq{"id": dbID}).ToSql()
	if err != nil {
		return domain.Office{}, fmt.Errorf("%w: could not build query: %w", domain.ErrPersistenceFailed, err)
	}

	var row officeRow

	if err = pgxscan.Get(ctx, postgres.ConnOrTX(ctx, repo.pg), &row, sql, args...); err != nil {
		return domain.Office{}, mapQueryError(err, "could not find office by id: "+string(id))
	}

	return row.toDomain(), nil
}

func (repo *OfficePostgresRepository) Save(ctx context.Context, office domain.Office) error {
	dbID, err := uuid.Parse(string(office.ID))
	if err != nil {
		return fmt.Errorf("%w: could not parse as uuid: %s: %w", domain.ErrPersistenceFailed, office.ID, err)
	}

	return upsert(ctx, postgres.ConnOrTX(ctx, repo.pg), officeTable, map[string]any{
		"id":              dbID,
		"organization_id": string(office.OrganizationID),
		"name":            office.Name,
		"priority":        office.Priority,
		"latitude":        office.Latitude,
		"longitude":       office.Longitude,
		"radius_meters":   office.RadiusMeters,
		"address":         office.Address,
	})
}

func (repo *OfficePostgresRepository) Delete(ctx context.Context, id domain.OfficeID) error {
	dbID, err := uuid.Parse(string(id))
	if err != nil {
		return fmt.Errorf("%w: could not parse as uuid: %s: %w", domain.ErrNotFound, id, err)
	}

	return deleteByID(ctx, postgres.ConnOrTX(ctx, repo.pg), officeTable, dbID)
}

func NewNetworkPostgresRepository(pg *pgxpool.Pool) (*NetworkPostgresRepository, error) {
	if pg == nil {
		return nil, ErrMissingConnection
	}

	return &NetworkPostgresRepository{pg: pg}, nil
}

type NetworkPostgresRepository struct {
	pg *pgxpool.Pool
}

func (repo *NetworkPostgresRepository) ByOrganization(
	ctx context.Context,
	orgID domain.OrganizationID,
) ([]domain.AllowedNetwork, error) {
	sql, args, err := psql.Select(networkColumns...).From(networkTable).
		Where(squirrel.Eq{"organization_id": string(orgID)}).
		OrderBy("label").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: could not build query: %w", domain.ErrPersistenceFailed, err)
	}

	rows := []networkRow{}

	if err = pgxscan.Select(ctx, postgres.ConnOrTX(ctx, repo.pg), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("%w: could not get networks: %w", domain.ErrPersistenceFailed, err)
	}

	networks := make([]domain.AllowedNetwork, len(rows))
	for i, r := range rows {
		networks[i] = r.toDomain()
	}

	return networks, nil
}

func (repo *NetworkPostgresRepository) Save(ctx context.Context, network domain.AllowedNetwork) error {
	dbID, err := uuid.Parse(string(network.ID))
	if err != nil {
		return fmt.Errorf("%w: could not parse as uuid: %s: %w", domain.ErrPersistenceFailed, network.ID, err)
	}

	return upsert(ctx, postgres.ConnOrTX(ctx, repo.pg), networkTable, map[string]any{
		"id":              dbID,
		"organization_id": string(network.OrganizationID),
		"label":           network.Label,
		"ssid":            network.SSID,
		"bssid":           network.BSSID,
	})
}

func (repo *NetworkPostgresRepository) Delete(ctx context.Context, id domain.NetworkID) error {
	dbID, err := uuid.Parse(string(id))
	if err != nil {
		return fmt.Errorf("%w: could not parse as uuid: %s: %w", domain.ErrNotFound, id, err)
	}

	return deleteByID(ctx, postgres.ConnOrTX(ctx, repo.pg), networkTable, dbID)
}

func NewRecordPostgresRepository(pg *pgxpool.Pool) (*RecordPostgresRepository, error) {
	if pg == nil {
		return nil, ErrMissingConnection
	}

	return &RecordPostgresRepository{pg: pg}, nil
}

type RecordPostgresRepository struct {
	pg *pgxpool.Pool
}

func (repo *RecordPostgresRepository) Save(ctx context.Context, record domain.Record) error {
	return upsert(ctx, postgres.ConnOrTX(ctx, repo.pg), recordTable, map[string]any{
		"id":              string(record.ID),
		"organization_id": string(record.OrganizationID),
		"employee_id":     string(record.EmployeeID),
		"kind":            string(record.Kind),
		"occurred_at":     record.OccurredAt,
		"compliant":       record.Compliant,
		"automatic":       record.Automatic,
		"method":          string(record.Method),
		"error_kind":      string(record.ErrorKind),
		"zone_name":       record.ZoneName,
		"network":         record.Network,
		"latitude":        record.Latitude,
		"longitude":       record.Longitude,
		"accuracy":        record.Accuracy,
		"address":         record.Address,
		"ip":              record.IP,
		"device_name":     record.Device.Name,
		"device_os":       record.Device.OS,
		"device_browser":  record.Device.Browser,
		"device_mobile":   record.Device.Mobile,
	})
}

// Append serialises all clockings of an employee with a transaction level advisory lock.
// The lock is released on commit or rollback.
func (repo *RecordPostgresRepository) Append(ctx context.Context, record domain.Record) error {
	tx, err := postgres.ConnOrTX(ctx, repo.pg).Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: could not start transaction: %w", domain.ErrPersistenceFailed, err)
	}

	defer func() { _ = tx.Rollback(ctx) }() // no-op after commit

	if _, err = tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1), hashtext($2))`,
		string(record.OrganizationID), string(record.EmployeeID),
	); err != nil {
		return fmt.Errorf("%w: could not lock employee: %w", domain.ErrPersistenceFailed, err)
	}

	txCtx := context.WithValue(ctx, postgres.CtxTX, tx)

	last, err := repo.LatestEffective(txCtx, record.OrganizationID, record.EmployeeID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	if err = domain.EnsureTransition(last, err == nil, record.Kind); err != nil {
		return err //nolint:wrapcheck // domain error
	}

	if err = repo.Save(txCtx, record); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: could not commit: %w", domain.ErrPersistenceFailed, err)
	}

	return nil
}

func (repo *RecordPostgresRepository) FindByID(ctx context.Context, id domain.RecordID) (domain.Record, error) {
	return repo.get(ctx, psql.Select(recordColumns...).From(recordTable).Where(squirrel.Eq{"id": string(id)}))
}

func (repo *RecordPostgresRepository) LatestEffective(
	ctx context.Context,
	orgID domain.OrganizationID,
	employeeID domain.EmployeeID,
) (domain.Record, error) {
	return repo.get(ctx, psql.Select(recordColumns...).From(recordTable).
		Where(squirrel.Eq{"organization_id": string(orgID), "employee_id": string(employeeID)}).
		Where(effective).
		OrderBy("occurred_at DESC", "id DESC").
		Limit(1),
	)
}

func (repo *RecordPostgresRepository) Between(
	ctx context.Context,
	orgID domain.OrganizationID,
	from, to time.Time,
) ([]domain.Record, error) {
	return repo.selectRecords(ctx, psql.Select(recordColumns...).From(recordTable).
		Where(squirrel.Eq{"organization_id": string(orgID)}).
		Where(squirrel.GtOrEq{"occurred_at": from}).
		Where(squirrel.Lt{"occurred_at": to}).
		OrderBy("occurred_at", "id"),
	)
}

func (repo *RecordPostgresRepository) OpenClockIns(ctx context.Context, before time.Time) ([]domain.Record, error) {
	// the inner query has no arguments, so its placeholder format does not matter
	latest := squirrel.Select("*").
		Options("DISTINCT ON (organization_id, employee_id)").
		From(recordTable).
		Where(effective).
		OrderBy("organization_id", "employee_id", "occurred_at DESC", "id DESC")

	return repo.selectRecords(ctx, psql.Select(recordColumns...).FromSelect(latest, "latest").
		Where(squirrel.Eq{"kind": string(domain.ClockIn)}).
		Where(squirrel.Lt{"occurred_at": before}).
		OrderBy("occurred_at", "id"),
	)
}

const effective = "(compliant OR automatic)"

func (repo *RecordPostgresRepository) get(ctx context.Context, query squirrel.SelectBuilder) (domain.Record, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return domain.Record{}, fmt.Errorf("%w: could not build query: %w", domain.ErrPersistenceFailed, err)
	}

	var row recordRow

	if err = pgxscan.Get(ctx, postgres.ConnOrTX(ctx, repo.pg), &row, sql, args...); err != nil {
		return domain.Record{}, mapQueryError(err, "could not get record")
	}

	return row.toDomain(), nil
}

func (repo *RecordPostgresRepository) selectRecords(
	ctx context.Context,
	query squirrel.SelectBuilder,
) ([]domain.Record, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: could not build query: %w", domain.ErrPersistenceFailed, err)
	}

	rows := []recordRow{}

	if err = pgxscan.Select(ctx, postgres.ConnOrTX(ctx, repo.pg), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("%w: could not get records: %w", domain.ErrPersistenceFailed, err)
	}

	records := make([]domain.Record, len(rows))
	for i, r := range rows {
		records[i] = r.toDomain()
	}

	return records, nil
}

// upsert inserts the row or overwrites all columns of an existing row with the same id.
func upsert(ctx context.Context, db postgres.DB, table string, values map[string]any) error {
	set := []string{}

	for col := range values {
		if col != "id" {
			set = append(set, col+" = EXCLUDED."+col)
		}
	}

	sql, args, err := psql.Insert(table).
		SetMap(values).
		Suffix("ON CONFLICT (id) DO UPDATE SET " + strings.Join(set, ", ")).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: could not build query: %w", domain.ErrPersistenceFailed, err)
	}

	if _, err = db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("%w: could not save to %s: %w", domain.ErrPersistenceFailed, table, err)
	}

	return nil
}

func deleteByID(ctx context.Context, db postgres.DB, table string, id any) error {
	sql, args, err := psql.Delete(table).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("%w: could not build query: %w", domain.ErrPersistenceFailed, err)
	}

	tag, err := db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("%w: could not delete from %s: %w", domain.ErrPersistenceFailed, table, err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func mapQueryError(err error, msg string) error {
	if pgxscan.NotFound(err) {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, msg)
	}

	return fmt.Errorf("%w: %s: %w", domain.ErrPersistenceFailed, msg, err)
}

package repository_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-arrower/hrsuite/contexts/attendance/internal/domain"
)

var ctx = context.Background()

const (
	orgID      domain.OrganizationID = "acme"
	otherOrgID domain.OrganizationID = "other"
)

var monday = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func newOffice(t *testing.T, org domain.OrganizationID, name string, priority int) domain.Office {
	t.Helper()

	office, err := domain.NewOffice(org, name, priority, gofakeit.Latitude(), gofakeit.Longitude(), 150, gofakeit.Street())
	require.NoError(t, err)

	return office
}

func newRecord(emp domain.EmployeeID, kind domain.Kind, at time.Time, compliant bool) domain.Record {
	lat, lon := 13.7466, 100.5393

	return domain.Record{
		ID:             domain.NewRecordID(at),
		OrganizationID: orgID,
		EmployeeID:     emp,
		Kind:           kind,
		OccurredAt:     at,
		Compliant:      compliant,
		Method:         domain.MethodGPS,
		ZoneName:       "Head Office",
		Latitude:       &lat,
		Longitude:      &lon,
		Accuracy:       12,
		Address:        "Rama I Rd",
		IP:             "10.0.0.1",
		Device:         domain.Device{Name: "iPhone", OS: "iOS 17.0", Browser: "Safari 17.0", Mobile: true},
	}
}

// The same behaviour is expected from every implementation, the memory and the postgres repositories.

func testOfficeRepository(t *testing.T, repo domain.OfficeRepository) {
	t.Helper()

	b := newOffice(t, orgID, "B", 1)
	a := newOffice(t, orgID, "A", 1)
	first := newOffice(t, orgID, "Z", 0)
	other := newOffice(t, otherOrgID, "Other", 0)

	for _, o := range []domain.Office{b, a, first, other} {
		require.NoError(t, repo.Save(ctx, o))
	}

	offices, err := repo.ByOrganization(ctx, orgID)
	assert.NoError(t, err)
	assert.Equal(t, []domain.Office{first, a, b}, offices, "ordered by priority, then name")

	b.RadiusMeters = 300
	assert.NoError(t, repo.Save(ctx, b))

	got, err := repo.FindByID(ctx, b.ID)
	assert.NoError(t, err)
	assert.Equal(t, b, got)

	assert.NoError(t, repo.Delete(ctx, b.ID))
	_, err = repo.FindByID(ctx, b.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, b.ID), domain.ErrNotFound)

	_, err = repo.FindByID(ctx, domain.NewOfficeID())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func testNetworkRepository(t *testing.T, repo domain.NetworkRepository) {
	t.Helper()

	office, err := domain.NewAllowedNetwork(orgID, "office", "hr-office", "")
	require.NoError(t, err)
	guest, err := domain.NewAllowedNetwork(orgID, "guest", "", "AA:BB:CC:DD:EE:FF")
	require.NoError(t, err)
	other, err := domain.NewAllowedNetwork(otherOrgID, "other", "other", "")
	require.NoError(t, err)

	for _, n := range []domain.AllowedNetwork{office, guest, other} {
		require.NoError(t, repo.Save(ctx, n))
	}

	networks, err := repo.ByOrganization(ctx, orgID)
	assert.NoError(t, err)
	assert.Equal(t, []domain.AllowedNetwork{guest, office}, networks)

	assert.NoError(t, repo.Delete(ctx, guest.ID))
	assert.ErrorIs(t, repo.Delete(ctx, guest.ID), domain.ErrNotFound)

	networks, _ = repo.ByOrganization(ctx, orgID)
	assert.Len(t, networks, 1)
}

func testRecordRepository(t *testing.T, repo domain.RecordRepository) {
	t.Helper()

	in := newRecord("alice", domain.ClockIn, monday, true)
	rejected := newRecord("alice", domain.ClockOut, monday.Add(time.Hour), false)
	rejected.Latitude, rejected.Longitude = nil, nil
	bobIn := newRecord("bob", domain.ClockIn, monday.Add(time.Minute), true)
	bobOut := newRecord("bob", domain.ClockOut, monday.Add(8*time.Hour), true)
	carolIn := newRecord("carol", domain.ClockIn, monday.Add(2*time.Hour), true)

	for _, r := range []domain.Record{in, rejected, bobIn, bobOut, carolIn} {
		require.NoError(t, repo.Save(ctx, r))
	}

	t.Run("find by id", func(t *testing.T) {
		got, err := repo.FindByID(ctx, rejected.ID)
		assert.NoError(t, err)
		assert.Equal(t, rejected, got)

		_, err = repo.FindByID(ctx, domain.NewRecordID(time.Now()))
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("latest effective ignores rejected records", func(t *testing.T) {
		got, err := repo.LatestEffective(ctx, orgID, "alice")
		assert.NoError(t, err)
		assert.Equal(t, in.ID, got.ID)

		_, err = repo.LatestEffective(ctx, orgID, "nobody")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("between", func(t *testing.T) {
		got, err := repo.Between(ctx, orgID, monday, monday.Add(2*time.Hour))
		assert.NoError(t, err)
		assert.Equal(t, []domain.RecordID{in.ID, bobIn.ID, rejected.ID}, ids(got))

		got, err = repo.Between(ctx, otherOrgID, monday, monday.Add(24*time.Hour))
		assert.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("open clock ins", func(t *testing.T) {
		got, err := repo.OpenClockIns(ctx, monday.Add(12*time.Hour))
		assert.NoError(t, err)
		assert.Equal(t, []domain.RecordID{in.ID, carolIn.ID}, ids(got))

		got, err = repo.OpenClockIns(ctx, monday.Add(90*time.Minute))
		assert.NoError(t, err)
		assert.Equal(t, []domain.RecordID{in.ID}, ids(got), "carol clocked in after the cut off")
	})

	t.Run("append checks the transition", func(t *testing.T) {
		evening := monday.Add(20 * time.Hour)

		err := repo.Append(ctx, newRecord("dave", domain.ClockOut, evening, true))
		assert.ErrorIs(t, err, domain.ErrNotClockedIn)

		daveIn := newRecord("dave", domain.ClockIn, evening, true)
		assert.NoError(t, repo.Append(ctx, daveIn))

		err = repo.Append(ctx, newRecord("dave", domain.ClockIn, evening.Add(time.Minute), true))
		assert.ErrorIs(t, err, domain.ErrAlreadyClockedIn)

		outside := newRecord("dave", domain.ClockOut, evening.Add(time.Hour), false)
		assert.NoError(t, repo.Append(ctx, outside), "a rejected clock out is kept")

		got, err := repo.LatestEffective(ctx, orgID, "dave")
		assert.NoError(t, err)
		assert.Equal(t, daveIn.ID, got.ID)
	})

	t.Run("concurrent append clocks in once", func(t *testing.T) {
		const attempts = 10

		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			succeeded int
		)

		for i := range attempts {
			wg.Add(1)

			go func() {
				defer wg.Done()

				err := repo.Append(ctx, newRecord("erin", domain.ClockIn, monday.Add(22*time.Hour+time.Duration(i)*time.Second), true))

				mu.Lock()
				defer mu.Unlock()

				if err == nil {
					succeeded++
					return
				}

				assert.ErrorIs(t, err, domain.ErrAlreadyClockedIn)
			}()
		}

		wg.Wait()
		assert.Equal(t, 1, succeeded)

		got, err := repo.Between(ctx, orgID, monday.Add(22*time.Hour), monday.Add(23*time.Hour))
		assert.NoError(t, err)
		assert.Len(t, got, 1)
	})
}

func ids(records []domain.Record) []domain.RecordID {
	ids := make([]domain.RecordID, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}

	return ids
}

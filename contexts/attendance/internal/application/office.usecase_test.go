package application_test

import (
	"errors"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"

	"github.com/go-arrower/hrsuite/alog"
	"github.com/go-arrower/hrsuite/contexts/attendance/internal/application"
	"github.com/go-arrower/hrsuite/contexts/attendance/internal/domain"
	"github.com/go-arrower/hrsuite/contexts/attendance/internal/interfaces/repository"
)

func TestAddOfficeRequestHandler_H(t *testing.T) {
	t.Parallel()

	t.Run("add office", func(t *testing.T) {
		t.Parallel()

		repo := repository.NewOfficeMemoryRepository()
		handler := application.NewAddOfficeRequestHandler(nil, repo, nil)

		name := gofakeit.Company()
		res, err := handler.H(ctx, application.AddOfficeRequest{
			OrganizationID: orgID,
			Name:           name,
			Latitude:       headOffice.Latitude,
			Longitude:      headOffice.Longitude,
			RadiusMeters:   150,
			Address:        "Rama I",
		})
		assert.NoError(t, err)
		assert.Equal(t, name, res.Office.Name)

		// verify
		office, err := repo.FindByID(ctx, res.Office.ID)
		assert.NoError(t, err)
		assert.Equal(t, "Rama I", office.Address)
	})

	t.Run("resolve missing address", func(t *testing.T) {
		t.Parallel()

		repo := repository.NewOfficeMemoryRepository()
		handler := application.NewAddOfficeRequestHandler(nil, repo, domain.StaticGeocoder(address, nil))

		res, err := handler.H(ctx, application.AddOfficeRequest{
			OrganizationID: orgID,
			Name:           "Head Office",
			Latitude:       headOffice.Latitude,
			Longitude:      headOffice.Longitude,
			RadiusMeters:   150,
		})
		assert.NoError(t, err)
		assert.Equal(t, address, res.Office.Address)
	})

	t.Run("geocoder fails", func(t *testing.T) {
		t.Parallel()

		logger := alog.Test(t)
		handler := application.NewAddOfficeRequestHandler(logger, repository.NewOfficeMemoryRepository(),
			domain.StaticGeocoder("", errors.New("offline")), //nolint:err113 // used for testing only
		)

		res, err := handler.H(ctx, application.AddOfficeRequest{
			OrganizationID: orgID,
			Name:           "Head Office",
			Latitude:       headOffice.Latitude,
			Longitude:      headOffice.Longitude,
			RadiusMeters:   150,
		})
		assert.NoError(t, err)
		assert.Empty(t, res.Office.Address)
		logger.Contains("could not resolve office address")
	})

	t.Run("invalid office", func(t *testing.T) {
		t.Parallel()

		handler := application.NewAddOfficeRequestHandler(nil, repository.NewOfficeMemoryRepository(), nil)

		_, err := handler.H(ctx, application.AddOfficeRequest{OrganizationID: orgID, Name: "Nowhere", RadiusMeters: -1})
		assert.ErrorIs(t, err, domain.ErrInvalidOffice)
	})
}

func TestRemoveOfficeCommandHandler_H(t *testing.T) {
	t.Parallel()

	t.Run("remove office", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		offices, _ := f.offices.ByOrganization(ctx, orgID)

		handler := application.NewRemoveOfficeCommandHandler(f.offices)
		err := handler.H(ctx, application.RemoveOfficeCommand{OrganizationID: orgID, OfficeID: offices[0].ID})
		assert.NoError(t, err)

		// verify
		offices, _ = f.offices.ByOrganization(ctx, orgID)
		assert.Empty(t, offices)
	})

	t.Run("office of other organisation", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		offices, _ := f.offices.ByOrganization(ctx, orgID)

		handler := application.NewRemoveOfficeCommandHandler(f.offices)
		err := handler.H(ctx, application.RemoveOfficeCommand{OrganizationID: "other", OfficeID: offices[0].ID})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("unknown office", func(t *testing.T) {
		t.Parallel()

		handler := application.NewRemoveOfficeCommandHandler(repository.NewOfficeMemoryRepository())
		err := handler.H(ctx, application.RemoveOfficeCommand{OrganizationID: orgID, OfficeID: domain.NewOfficeID()})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestListOfficesQueryHandler_H(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	handler := application.NewListOfficesQueryHandler(f.offices)

	res, err := handler.H(ctx, application.ListOfficesQuery{OrganizationID: orgID})
	assert.NoError(t, err)
	assert.Len(t, res.Offices, 1)

	res, err = handler.H(ctx, application.ListOfficesQuery{OrganizationID: "other"})
	assert.NoError(t, err)
	assert.Empty(t, res.Offices)
}

package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-arrower/hrsuite/alog"
	"github.com/go-arrower/hrsuite/app"
	"github.com/go-arrower/hrsuite/contexts/attendance/internal/domain"
)

func NewAddOfficeRequestHandler(
	logger alog.Logger,
	repo domain.OfficeRepository,
	geocoder domain.ReverseGeocoder,
) app.Request[AddOfficeRequest, AddOfficeResponse] {
	if logger == nil {
		logger = alog.NewNoop()
	}

	return &addOfficeRequestHandler{logger: logger, repo: repo, geocoder: geocoder}
}

type addOfficeRequestHandler struct {
	logger   alog.Logger
	repo     domain.OfficeRepository
	geocoder domain.ReverseGeocoder
}

type (
	AddOfficeRequest struct {
		OrganizationID domain.OrganizationID `validate:"required"`
		Name           string                `validate:"required,max=255"`
		Priority       int                   `validate:"gte=0"`
		Latitude       float64               `validate:"gte=-90,lte=90"`
		Longitude      float64               `validate:"gte=-180,lte=180"`
		RadiusMeters   float64               `validate:"gt=0"`
		// Address is resolved from the coordinates, if it is empty.
		Address string `validate:"max=1024"`
	}
	AddOfficeResponse struct {
		Office domain.Office
	}
)

func (h *addOfficeRequestHandler) H(ctx context.Context, req AddOfficeRequest) (AddOfficeResponse, error) {
	address := req.Address
	if address == "" && h.geocoder != nil {
		resolved, err := h.geocoder.ResolveAddress(ctx, domain.GeoPoint{Latitude: req.Latitude, Longitude: req.Longitude})
		if err != nil {
			h.logger.InfoContext(ctx, "could not resolve office address", slog.String("err", err.Error()))
		}

		address = resolved
	}

	office, err := domain.NewOffice(req.OrganizationID, req.Name, req.Priority, req.Latitude, req.Longitude, req.RadiusMeters, address)
	if err != nil {
		return AddOfficeResponse{}, fmt.Errorf("could not add office: %w", err)
	}

	if err = h.repo.Save(ctx, office); err != nil {
		return AddOfficeResponse{}, fmt.Errorf("could not save office: %w", err)
	}

	return AddOfficeResponse{Office: office}, nil
}

func NewRemoveOfficeCommandHandler(repo domain.OfficeRepository) app.Command[RemoveOfficeCommand] {
	return &removeOfficeCommandHandler{repo: repo}
}

type removeOfficeCommandHandler struct {
	repo domain.OfficeRepository
}

type RemoveOfficeCommand struct {
	OrganizationID domain.OrganizationID `validate:"required"`
	OfficeID       domain.OfficeID       `validate:"required"`
}

// H only removes offices of the given organisation, all others are reported as domain.ErrNotFound.
func (h *removeOfficeCommandHandler) H(ctx context.Context, cmd RemoveOfficeCommand) error {
	office, err := h.repo.FindByID(ctx, cmd.OfficeID)
	if err != nil {
		return fmt.Errorf("could not get office: %w", err)
	}

	if office.OrganizationID != cmd.OrganizationID {
		return fmt.Errorf("could not get office: %w", domain.ErrNotFound)
	}

	if err = h.repo.Delete(ctx, office.ID); err != nil {
		return fmt.Errorf("could not remove office: %w", err)
	}

	return nil
}

func NewListOfficesQueryHandler(repo domain.OfficeRepository) app.Query[ListOfficesQuery, ListOfficesResponse] {
	return app.RequestFunc[ListOfficesQuery, ListOfficesResponse](
		func(ctx context.Context, query ListOfficesQuery) (ListOfficesResponse, error) {
			offices, err := repo.ByOrganization(ctx, query.OrganizationID)
			if err != nil {
				return ListOfficesResponse{}, fmt.Errorf("could not get offices: %w", err)
			}

			return ListOfficesResponse{Offices: offices}, nil
		},
	)
}

type (
	ListOfficesQuery struct {
		OrganizationID domain.OrganizationID `validate:"required"`
	}
	// ListOfficesResponse has the offices in the order they are matched.
	ListOfficesResponse struct {
		Offices []domain.Office
	}
)

package application

import (
	"context"
	"fmt"

	"github.com/go-arrower/hrsuite/app"
	"github.com/go-arrower/hrsuite/contexts/attendance/internal/domain"
)

func NewAddNetworkRequestHandler(repo domain.NetworkRepository) app.Request[AddNetworkRequest, AddNetworkResponse] {
	return app.RequestFunc[AddNetworkRequest, AddNetworkResponse](
		func(ctx context.Context, req AddNetworkRequest) (AddNetworkResponse, error) {
			network, err := domain.NewAllowedNetwork(req.OrganizationID, req.Label, req.SSID, req.BSSID)
			if err != nil {
				return AddNetworkResponse{}, fmt.Errorf("could not add network: %w", err)
			}

			if err = repo.Save(ctx, network); err != nil {
				return AddNetworkResponse{}, fmt.Errorf("could not save network: %w", err)
			}

			return AddNetworkResponse{Network: network}, nil
		},
	)
}

type (
	AddNetworkRequest struct {
		OrganizationID domain.OrganizationID `validate:"required"`
		Label          string                `validate:"max=255"`
		SSID           string                `validate:"required_without=BSSID,max=32"`
		BSSID          string                `validate:"omitempty,mac"`
	}
	AddNetworkResponse struct {
		Network domain.AllowedNetwork
	}
)

func NewRemoveNetworkCommandHandler(repo domain.NetworkRepository) app.Command[RemoveNetworkCommand] {
	return app.CommandFunc[RemoveNetworkCommand](func(ctx context.Context, cmd RemoveNetworkCommand) error {
		networks, err := repo.ByOrganization(ctx, cmd.OrganizationID)
		if err != nil {
			return fmt.Errorf("could not get networks: %w", err)
		}

		for _, n := range networks {
			if n.ID == cmd.NetworkID {
				if err = repo.Delete(ctx, n.ID); err != nil {
					return fmt.Errorf("could not remove network: %w", err)
				}

				return nil
			}
		}

		return fmt.Errorf("could not get network: %w", domain.ErrNotFound)
	})
}

type RemoveNetworkCommand struct {
	OrganizationID domain.OrganizationID `validate:"required"`
	NetworkID      domain.NetworkID      `validate:"required"`
}

func NewListNetworksQueryHandler(repo domain.NetworkRepository) app.Query[ListNetworksQuery, ListNetworksResponse] {
	return app.RequestFunc[ListNetworksQuery, ListNetworksResponse](
		func(ctx context.Context, query ListNetworksQuery) (ListNetworksResponse, error) {
			networks, err := repo.ByOrganization(ctx, query.OrganizationID)
			if err != nil {
				return ListNetworksResponse{}, fmt.Errorf("could not get networks: %w", err)
			}

			return ListNetworksResponse{Networks: networks}, nil
		},
	)
}

type (
	ListNetworksQuery struct {
		OrganizationID domain.OrganizationID `validate:"required"`
	}
	ListNetworksResponse struct {
		Networks []domain.AllowedNetwork
	}
)

package application

import (
	"context"
	"fmt"

	"github.com/go-arrower/hrsuite/app"
	"github.com/go-arrower/hrsuite/contexts/attendance/internal/domain"
)

func NewCheckLocationRequestHandler(checker *LocationChecker) app.Request[CheckLocationRequest, CheckLocationResponse] {
	return &checkLocationRequestHandler{checker: checker}
}

type checkLocationRequestHandler struct {
	checker *LocationChecker
}

type (
	CheckLocationRequest struct {
		OrganizationID domain.OrganizationID `validate:"required"`
		Report         domain.LocationReport
		IP             string `validate:"omitempty,ip"`
	}
	CheckLocationResponse struct {
		Result domain.ComplianceResult
	}
)

// H answers, if the employee is at an allowed place right now, without recording anything.
func (h *checkLocationRequestHandler) H(ctx context.Context, req CheckLocationRequest) (CheckLocationResponse, error) {
	res, err := h.checker.Check(ctx, req.OrganizationID, req.Report, req.IP)
	if err != nil {
		return CheckLocationResponse{}, fmt.Errorf("could not check location: %w", err)
	}

	return CheckLocationResponse{Result: res}, nil
}

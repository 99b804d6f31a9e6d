package app

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/go-arrower/hrsuite/ctx"
)

const CtxValidated ctx.CTXKey = "hrsuite.validated"

// PassedValidation is a helper giving you feedback, if a request passed validation of this decorator.
// Use it in case you want to ensure that this decorator was called before continuing with your business logic.
func PassedValidation(ctx context.Context) bool {
	if v, ok := ctx.Value(CtxValidated).(bool); ok {
		return v
	}

	return false
}

func NewValidatedRequest[Req any, Res any](validate *validator.Validate, req Request[Req, Res]) Request[Req, Res] {
	return validated(validate, req)
}

func NewValidatedCommand[C any](validate *validator.Validate, cmd Command[C]) Command[C] {
	return lower[C](validated[C, struct{}](validate, lift[C](cmd)))
}

func NewValidatedQuery[Q any, Res any](validate *validator.Validate, query Query[Q, Res]) Query[Q, Res] {
	return validated[Q, Res](validate, query)
}

func NewValidatedJob[J any](validate *validator.Validate, job Job[J]) Job[J] {
	return lower[J](validated[J, struct{}](validate, lift[J](job)))
}

func validated[Req any, Res any](validate *validator.Validate, base Request[Req, Res]) RequestFunc[Req, Res] {
	if validate == nil {
		validate = validator.New(validator.WithRequiredStructEnabled())
	}

	return func(ctx context.Context, req Req) (Res, error) {
		if err := validate.Struct(req); err != nil {
			return *new(Res), err //nolint:wrapcheck // validation error is returned on purpose
		}

		return base.H(context.WithValue(ctx, CtxValidated, true), req) //nolint:wrapcheck // decorate but not change anything
	}
}

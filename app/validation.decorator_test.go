package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/go-arrower/hrsuite/app"
)

func TestNewValidatedRequest(t *testing.T) {
	t.Parallel()

	t.Run("valid request", func(t *testing.T) {
		t.Parallel()

		handler := app.NewValidatedRequest(validator.New(), app.TestRequestHandler(func(ctx context.Context, _ structWithValidationTags) (response, error) {
			assert.True(t, app.PassedValidation(ctx))

			return response{}, nil
		}))

		_, err := handler.H(ctx, passingValidationValue)
		assert.NoError(t, err)
	})

	t.Run("invalid request", func(t *testing.T) {
		t.Parallel()

		called := false
		handler := app.NewValidatedRequest(nil, app.TestRequestHandler(func(context.Context, structWithValidationTags) (response, error) {
			called = true

			return response{}, nil
		}))

		_, err := handler.H(ctx, structWithValidationTags{Email: "invalid"})

		validationErrors := validator.ValidationErrors{}
		assert.True(t, errors.As(err, &validationErrors))
		assert.Len(t, validationErrors, 2)
		assert.False(t, called)
	})
}

func TestNewValidatedCommand(t *testing.T) {
	t.Parallel()

	handler := app.NewValidatedCommand[structWithValidationTags](nil, app.CommandFunc[structWithValidationTags](func(ctx context.Context, _ structWithValidationTags) error {
		assert.True(t, app.PassedValidation(ctx))

		return nil
	}))

	assert.NoError(t, handler.H(ctx, passingValidationValue))
	assert.Error(t, handler.H(ctx, structWithValidationTags{}))
}

func TestPassedValidation(t *testing.T) {
	t.Parallel()

	assert.False(t, app.PassedValidation(ctx))
}

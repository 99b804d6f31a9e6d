package app_test

import (
	"context"
)

var ctx = context.Background()

type (
	request  struct{}
	response struct{}

	structWithValidationTags struct {
		Name  string `validate:"required"`
		Email string `validate:"required,email"`
	}
)

var passingValidationValue = structWithValidationTags{Name: "Somchai", Email: "somchai@example.com"}

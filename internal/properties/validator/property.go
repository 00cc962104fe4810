package validator

import (
	"rentals/pkg/logger"
	"rentals/pkg/model"
	"rentals/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type PropertyValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewPropertyValidator(log *logger.Logger) *PropertyValidator {
	return &PropertyValidator{
		validate: validation.New(log),
		logger:   log,
	}
}

func (v *PropertyValidator) ValidateRequest(req *model.PropertyRequest) error {
	return validation.Struct(v.validate, req)
}

// Validate checks a fully built property before it is stored.
func (v *PropertyValidator) Validate(property *model.Property) error {
	return validation.Struct(v.validate, property)
}

package validator

import (
	"rentals/pkg/logger"
	"rentals/pkg/model"
	"rentals/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type ReviewValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewReviewValidator(log *logger.Logger) *ReviewValidator {
	return &ReviewValidator{
		validate: validation.New(log),
		logger:   log,
	}
}

func (v *ReviewValidator) ValidateRequest(req *model.ReviewRequest) error {
	return validation.Struct(v.validate, req)
}

package validator

import (
	"backstage/pkg/logger"
	"backstage/pkg/model"
	"backstage/pkg/validation"
)

type ProductionValidator struct {
	validate *validation.Validator
	logger   *logger.Logger
}

func NewProductionValidator(log *logger.Logger) *ProductionValidator {
	return &ProductionValidator{
		validate: validation.New(),
		logger:   log,
	}
}

func (v *ProductionValidator) ValidateService(svc *model.ProfessionalService) error {
	return v.validate.Struct(svc)
}

func (v *ProductionValidator) ValidateDetails(details *model.ServiceDetails) error {
	return v.validate.Struct(details)
}

func (v *ProductionValidator) ValidateRequirements(req *model.ProductionRequirements) error {
	return v.validate.Struct(req)
}

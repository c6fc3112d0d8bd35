package validator

import (
	"time"

	"backstage/pkg/logger"
	"backstage/pkg/model"
	"backstage/pkg/validation"
)

type OfferValidator struct {
	validate *validation.Validator
	logger   *logger.Logger
}

func NewOfferValidator(log *logger.Logger) *OfferValidator {
	return &OfferValidator{
		validate: validation.New(),
		logger:   log,
	}
}

func (v *OfferValidator) ValidateCounterOffer(offer *model.CounterOffer, now time.Time) error {
	if err := v.validate.Struct(offer); err != nil {
		return err
	}
	if !offer.ValidUntil.After(now) {
		return validation.Field("ValidUntil", "valid_until must be in the future")
	}
	return nil
}

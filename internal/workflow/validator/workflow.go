package validator

import (
	"time"

	"backstage/pkg/logger"
	"backstage/pkg/model"
	"backstage/pkg/validation"
)

type WorkflowValidator struct {
	validate *validation.Validator
	logger   *logger.Logger
}

func NewWorkflowValidator(log *logger.Logger) *WorkflowValidator {
	return &WorkflowValidator{
		validate: validation.New(),
		logger:   log,
	}
}

// ValidateBooking checks an intake request. now is the service clock.
func (v *WorkflowValidator) ValidateBooking(booking *model.Booking, now time.Time) error {
	if err := v.validate.Struct(booking); err != nil {
		return err
	}
	if !booking.EventStart.After(now) {
		return validation.Field("EventStart", "event_start cannot be in the past")
	}
	return nil
}

func (v *WorkflowValidator) ValidateRider(rider *model.TechnicalRider) error {
	return v.validate.Struct(rider)
}

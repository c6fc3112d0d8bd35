package errors

import "errors"

var (
	ErrNotFound = errors.New("service assignment not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	// ErrPlanExists means another writer stored the booking's production
	// plan first.
	ErrPlanExists = errors.New("production plan already exists")
)

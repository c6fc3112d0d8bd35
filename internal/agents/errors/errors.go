package errors

import "errors"

var (
	ErrNotFound = errors.New("agent assignment not found")

	// ErrDuplicate means the booking already has an active assignment.
	ErrDuplicate = errors.New("booking already has an active agent assignment")

	ErrStaleWrite = errors.New("agent assignment was modified concurrently")
)

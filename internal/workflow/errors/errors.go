package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	// ErrStaleWrite means the booking changed between read and write.
	ErrStaleWrite = errors.New("booking was modified concurrently")
)

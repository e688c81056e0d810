package errors

import "errors"

var (
	ErrNotFound = errors.New("doctor schedule not found")

	ErrInvalidID = errors.New("invalid doctor schedule ID format")

	ErrDuplicateDoctor = errors.New("doctor already has a schedule template")
)

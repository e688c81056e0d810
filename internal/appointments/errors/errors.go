package errors

import "errors"

var (
	ErrNotFound = errors.New("appointment not found")

	ErrInvalidID = errors.New("invalid appointment ID format")

	ErrSlotTaken = errors.New("appointment overlaps an existing appointment")

	ErrInvalidTimeRange = errors.New("ends_at must be after starts_at")
)

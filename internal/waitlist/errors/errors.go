package errors

import "errors"

var (
	ErrNotFound = errors.New("waitlist entry not found")

	ErrInvalidID = errors.New("invalid waitlist entry ID format")

	ErrAlreadyWaitlisted = errors.New("patient is already waitlisted for this doctor and date")
)

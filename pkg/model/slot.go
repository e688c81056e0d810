package model

import "time"

// Slot is a candidate bookable interval, derived from a doctor's
// working-hours template minus active appointments. Never persisted.
type Slot struct {
	DoctorID string    `json:"doctor_id"`
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
	// Available is false when an active appointment overlaps the interval.
	Available bool `json:"available"`
	// Past flags segments whose start already elapsed relative to the query
	// time; exposed raw so callers apply their own "in the future" rule.
	Past bool `json:"past"`
}

package model

import (
	"time"
)

// Appointment is the authoritative booking record owned by the ledger.
// Times are stored and compared in UTC; presentation-layer timezone
// conversion happens outside this core.
type Appointment struct {
	ID         string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	DoctorID   string    `json:"doctor_id" bson:"doctor_id" validate:"required,min=1,max=64"`
	PatientID  string    `json:"patient_id" bson:"patient_id" validate:"required,min=1,max=64"`
	StartsAt   time.Time `json:"starts_at" bson:"starts_at" validate:"required"`
	EndsAt     time.Time `json:"ends_at" bson:"ends_at" validate:"required,gtfield=StartsAt"`
	Status     string    `json:"status" bson:"status" validate:"required,oneof=BOOKED CONFIRMED CANCELLED REJECTED RESCHEDULED"`
	Reason     string    `json:"reason,omitempty" bson:"reason,omitempty" validate:"omitempty,max=500"`
	Department string    `json:"department,omitempty" bson:"department,omitempty" validate:"omitempty,max=100"`

	// RescheduledTo links a retired record to its replacement for audit
	// continuity; never set on active records.
	RescheduledTo string `json:"rescheduled_to,omitempty" bson:"rescheduled_to,omitempty" validate:"omitempty,mongodb"`

	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// RescheduleRequest is the boundary payload for moving an appointment.
type RescheduleRequest struct {
	StartsAt time.Time `json:"starts_at" validate:"required"`
	EndsAt   time.Time `json:"ends_at" validate:"required,gtfield=StartsAt"`
	DoctorID string    `json:"doctor_id,omitempty" validate:"omitempty,min=1,max=64"`
}

// Overlaps reports whether the appointment's half-open interval
// [StartsAt, EndsAt) intersects [start, end).
func (a *Appointment) Overlaps(start, end time.Time) bool {
	return a.StartsAt.Before(end) && a.EndsAt.After(start)
}

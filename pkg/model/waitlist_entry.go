package model

import "time"

// WaitlistEntry is a standing request to be notified when a doctor frees a
// slot on the desired day. Entries are removed only by explicit patient
// action, never by the matcher.
type WaitlistEntry struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	DoctorID    string    `json:"doctor_id" bson:"doctor_id" validate:"required,min=1,max=64"`
	PatientID   string    `json:"patient_id" bson:"patient_id" validate:"required,min=1,max=64"`
	DesiredDate string    `json:"desired_date" bson:"desired_date" validate:"required,datetime=2006-01-02"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

package model

import "time"

// AppointmentHold is an advisory lock document serializing concurrent
// booking attempts on the same doctor/slot. The unique _id (doctor plus
// minute-normalized start) guarantees at most one holder; holds auto-expire
// so a crashed writer cannot wedge the slot.
type AppointmentHold struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

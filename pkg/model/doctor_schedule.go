package model

import (
	"time"
)

// Weekday is the day-of-week name stored in working-hours templates.
type Weekday = string

// DoctorSchedule is the working-hours template slots are derived from.
// One template per doctor; slot generation returns nothing for doctors
// without one.
type DoctorSchedule struct {
	ID              string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	DoctorID        string    `json:"doctor_id" bson:"doctor_id" validate:"required,min=1,max=64"`
	Department      string    `json:"department,omitempty" bson:"department,omitempty" validate:"omitempty,max=100"`
	StartOfDay      string    `json:"start_of_day" bson:"start_of_day" validate:"required,valid_time_of_day"`
	EndOfDay        string    `json:"end_of_day" bson:"end_of_day" validate:"required,valid_time_of_day"`
	WorkingDays     []Weekday `json:"working_days" bson:"working_days" validate:"required,min=1,max=7,dive,oneof=Sunday Monday Tuesday Wednesday Thursday Friday Saturday"`
	SlotDurationMin int       `json:"slot_duration_min" bson:"slot_duration_min" validate:"required,min=5,max=480"`
	TimeZone        string    `json:"time_zone,omitempty" bson:"time_zone" validate:"omitempty,timezone"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type DoctorScheduleUpdate struct {
	Department      string    `json:"department,omitempty" validate:"omitempty,max=100"`
	StartOfDay      string    `json:"start_of_day,omitempty" validate:"omitempty,valid_time_of_day"`
	EndOfDay        string    `json:"end_of_day,omitempty" validate:"omitempty,valid_time_of_day"`
	WorkingDays     []Weekday `json:"working_days,omitempty" validate:"omitempty,min=1,max=7,dive,oneof=Sunday Monday Tuesday Wednesday Thursday Friday Saturday"`
	SlotDurationMin *int      `json:"slot_duration_min,omitempty" validate:"omitempty,min=5,max=480"`
	TimeZone        string    `json:"time_zone,omitempty" validate:"omitempty,timezone"`
}

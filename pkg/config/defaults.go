package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "medsched"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort = "8080"

	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 10
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultCancelCutoffHours   = 12
	DefaultSlotDurationMin     = 30
	DefaultSlotHoldTTL         = 10 * time.Second
	DefaultDefaultStartOfDay   = "09:00"
	DefaultDefaultEndOfDay     = "17:00"
	DefaultAppointmentsTopic   = "appointment-events"
	DefaultAppointmentsDLQ     = "dlq-appointment-events"
	DefaultAppointmentsURL     = "http://localhost:8080"
	DefaultSchedulesURL        = "http://localhost:8081"
	DefaultWaitlistURL         = "http://localhost:8082"
	DefaultPaginationLimit     = 100
	DefaultOverlapScanLimit    = 50
	DefaultWaitlistScanLimit   = 100
)

// Weekday is the day-of-week name stored in working-hours templates.
type Weekday = string

var DefaultWorkingDays = []Weekday{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

// AppointmentStatus is the canonical lifecycle state of an appointment.
// "approved" is a presentation alias for Confirmed and is never persisted.
type AppointmentStatus = string

const (
	Booked      AppointmentStatus = "BOOKED"
	Confirmed   AppointmentStatus = "CONFIRMED"
	Cancelled   AppointmentStatus = "CANCELLED"
	Rejected    AppointmentStatus = "REJECTED"
	Rescheduled AppointmentStatus = "RESCHEDULED"
)

// ActorRole identifies who requested a state change; the policy engine
// applies the cancellation cutoff only to patient-initiated operations.
type ActorRole = string

const (
	RolePatient ActorRole = "patient"
	RoleDoctor  ActorRole = "doctor"
	RoleStaff   ActorRole = "staff"
)

package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvCollaboratorSecret = "COLLABORATOR_WEBHOOK_SECRET"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvCancelCutoffHours  = "CANCEL_CUTOFF_HOURS"
	EnvSlotDurationMin    = "SLOT_DURATION_MIN"
	EnvSlotHoldTTL        = "SLOT_HOLD_TTL"
	EnvDefaultStartOfDay  = "DEFAULT_START_OF_DAY"
	EnvDefaultEndOfDay    = "DEFAULT_END_OF_DAY"
	EnvAppointmentsTopic  = "APPOINTMENTS_EVENTS_TOPIC"
	EnvAppointmentsDLQ    = "APPOINTMENTS_EVENTS_DLQ"
	EnvEventsEnabled      = "EVENTS_ENABLED"
	EnvAppointmentsURL    = "APPOINTMENTS_SERVICE_URL"
	EnvSchedulesURL       = "SCHEDULES_SERVICE_URL"
	EnvWaitlistServiceURL = "WAITLIST_SERVICE_URL"
)

package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvDefaultStepMinutes    = "DEFAULT_STEP_MINUTES"
	EnvDefaultTimeZone       = "DEFAULT_TIME_ZONE"
	EnvDefaultMaxAdvanceDays = "DEFAULT_MAX_ADVANCE_DAYS"
	EnvMaxRangeDays          = "MAX_RANGE_DAYS"

	EnvMinHoldTTL     = "MIN_HOLD_TTL"
	EnvMaxHoldTTL     = "MAX_HOLD_TTL"
	EnvDefaultHoldTTL = "DEFAULT_HOLD_TTL"

	EnvReaperInterval   = "REAPER_INTERVAL"
	EnvReaperBatchSize  = "REAPER_BATCH_SIZE"
	EnvReaperBatchDelay = "REAPER_BATCH_DELAY"

	EnvBookingEventsTopic    = "BOOKING_EVENTS_TOPIC"
	EnvBookingEventsDLQTopic = "BOOKING_EVENTS_DLQ_TOPIC"
)

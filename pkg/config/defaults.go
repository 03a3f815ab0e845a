package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "procal"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 10
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultPaginationLimit = 100

	DefaultDefaultStepMinutes    = 30
	DefaultDefaultTimeZone       = "Europe/Rome"
	DefaultDefaultMaxAdvanceDays = 60
	DefaultMaxRangeDays          = 14

	DefaultMinHoldTTL     = 60 * time.Second
	DefaultMaxHoldTTL     = 15 * time.Minute
	DefaultDefaultHoldTTL = 5 * time.Minute

	DefaultReaperInterval   = 15 * time.Minute
	DefaultReaperBatchSize  = 450
	DefaultReaperBatchDelay = 200 * time.Millisecond

	DefaultBookingEventsTopic    = "booking-events"
	DefaultBookingEventsDLQTopic = ""
)

package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"procal/pkg/client"
	"procal/pkg/logger"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Calendar defaults applied when a provider configures nothing.
	DefaultStepMinutes    int
	DefaultTimeZone       string
	DefaultMaxAdvanceDays int

	// Availability read path.
	MaxRangeDays int

	// Hold write path. TTLs outside [MinHoldTTL, MaxHoldTTL] are rejected.
	MinHoldTTL     time.Duration
	MaxHoldTTL     time.Duration
	DefaultHoldTTL time.Duration

	// Expired-lock sweeping.
	ReaperInterval   time.Duration
	ReaperBatchSize  int
	ReaperBatchDelay time.Duration

	BookingEventsTopic    string
	BookingEventsDLQTopic string

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		DefaultStepMinutes:    getEnvNum(EnvDefaultStepMinutes, DefaultDefaultStepMinutes),
		DefaultTimeZone:       getEnvStr(EnvDefaultTimeZone, DefaultDefaultTimeZone),
		DefaultMaxAdvanceDays: getEnvNum(EnvDefaultMaxAdvanceDays, DefaultDefaultMaxAdvanceDays),

		MaxRangeDays: getEnvNum(EnvMaxRangeDays, DefaultMaxRangeDays),

		MinHoldTTL:     getEnvDuration(EnvMinHoldTTL, DefaultMinHoldTTL),
		MaxHoldTTL:     getEnvDuration(EnvMaxHoldTTL, DefaultMaxHoldTTL),
		DefaultHoldTTL: getEnvDuration(EnvDefaultHoldTTL, DefaultDefaultHoldTTL),

		ReaperInterval:   getEnvDuration(EnvReaperInterval, DefaultReaperInterval),
		ReaperBatchSize:  getEnvNum(EnvReaperBatchSize, DefaultReaperBatchSize),
		ReaperBatchDelay: getEnvDuration(EnvReaperBatchDelay, DefaultReaperBatchDelay),

		BookingEventsTopic:    getEnvStr(EnvBookingEventsTopic, DefaultBookingEventsTopic),
		BookingEventsDLQTopic: getEnvStr(EnvBookingEventsDLQTopic, DefaultBookingEventsDLQTopic),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", cfg.MongoURI))
	}

	if cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}

	if cfg.MongoConnTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}
	if cfg.RateLimitWindow <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitWindow must be positive, got: %s", cfg.RateLimitWindow))
	}
	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}
	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	if cfg.DefaultStepMinutes < 5 || cfg.DefaultStepMinutes > 120 {
		errors = append(errors, fmt.Sprintf("DefaultStepMinutes must be between 5 and 120, got: %d", cfg.DefaultStepMinutes))
	}
	if _, err := time.LoadLocation(cfg.DefaultTimeZone); err != nil {
		errors = append(errors, fmt.Sprintf("DefaultTimeZone must be a valid IANA zone, got: %s", cfg.DefaultTimeZone))
	}
	if cfg.DefaultMaxAdvanceDays <= 0 {
		errors = append(errors, fmt.Sprintf("DefaultMaxAdvanceDays must be positive, got: %d", cfg.DefaultMaxAdvanceDays))
	}
	if cfg.MaxRangeDays <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRangeDays must be positive, got: %d", cfg.MaxRangeDays))
	}

	if cfg.MinHoldTTL <= 0 {
		errors = append(errors, fmt.Sprintf("MinHoldTTL must be positive, got: %s", cfg.MinHoldTTL))
	}
	if cfg.MaxHoldTTL < cfg.MinHoldTTL {
		errors = append(errors, fmt.Sprintf("MaxHoldTTL (%s) must be >= MinHoldTTL (%s)", cfg.MaxHoldTTL, cfg.MinHoldTTL))
	}
	if cfg.DefaultHoldTTL < cfg.MinHoldTTL || cfg.DefaultHoldTTL > cfg.MaxHoldTTL {
		errors = append(errors, fmt.Sprintf("DefaultHoldTTL (%s) must be between MinHoldTTL (%s) and MaxHoldTTL (%s)", cfg.DefaultHoldTTL, cfg.MinHoldTTL, cfg.MaxHoldTTL))
	}

	if cfg.ReaperInterval <= 0 {
		errors = append(errors, fmt.Sprintf("ReaperInterval must be positive, got: %s", cfg.ReaperInterval))
	}
	if cfg.ReaperBatchSize <= 0 {
		errors = append(errors, fmt.Sprintf("ReaperBatchSize must be positive, got: %d", cfg.ReaperBatchSize))
	}
	if cfg.ReaperBatchDelay < 0 {
		errors = append(errors, fmt.Sprintf("ReaperBatchDelay cannot be negative, got: %s", cfg.ReaperBatchDelay))
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"default_step_minutes", cfg.DefaultStepMinutes,
		"default_time_zone", cfg.DefaultTimeZone,
		"default_max_advance_days", cfg.DefaultMaxAdvanceDays,
		"max_range_days", cfg.MaxRangeDays,
		"min_hold_ttl", cfg.MinHoldTTL,
		"max_hold_ttl", cfg.MaxHoldTTL,
		"default_hold_ttl", cfg.DefaultHoldTTL,
		"reaper_interval", cfg.ReaperInterval,
		"reaper_batch_size", cfg.ReaperBatchSize,
		"reaper_batch_delay", cfg.ReaperBatchDelay,
		"booking_events_topic", cfg.BookingEventsTopic,
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown()
}

func NormalizePaginationLimit(limit int) int {
	if limit <= 0 {
		limit = 10
	} else if limit > DefaultPaginationLimit {
		limit = DefaultPaginationLimit
	}
	return limit
}

func NormalizeOffset(offset int64) int64 {
	return max(0, offset)
}

package config

import "time"

const (
	DefaultMongoDatabaseName = "bandsite"
	DefaultMongoConnTimeout  = 5 * time.Second

	DefaultPort = "8000"

	DefaultRateLimitRPS   = 1.0
	DefaultRateLimitBurst = 5

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 64 * 1024 // 64KB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultStoreReadTimeout  = 5 * time.Second
	DefaultStoreWriteTimeout = 10 * time.Second

	DefaultMaxListLimit = 500

	DefaultCORSAllowedOrigins = "*"
	DefaultBookingEventsTopic = "booking.requests"

	DefaultLogLevel = "info"
)

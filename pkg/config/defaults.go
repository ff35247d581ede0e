package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "korskola"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"
	DefaultEnvFile  = ".env"

	DefaultRateLimitRequests = 60
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultPaginationLimit = 50

	DefaultJWTIssuer = "korskola"

	DraftStoreMemory      = "memory"
	DraftStoreRedis       = "redis"
	DefaultDraftStore     = DraftStoreMemory
	DefaultDraftTTL       = 2 * time.Hour
	DefaultRedisAddr      = "localhost:6379"
	DefaultRedisDB        = 0
	DefaultRedisKeyPrefix = "wizard:session:"

	DefaultPaymentHandoffURL     = "http://localhost:3000/betalning"
	DefaultPaymentTimeout        = 1 * time.Hour
	DefaultPaymentExpiryInterval = 5 * time.Minute

	DefaultSupervisorPersonalNumberRequired = true
	DefaultTimezone                         = "Europe/Stockholm"

	SupervisorPricingEvery     = "every"
	SupervisorPricingFirstFree = "first_free"
	DefaultSupervisorPricing   = SupervisorPricingEvery

	DefaultKafkaEnabled         = false
	DefaultBookingEventsTopic   = "booking.created"
	DefaultBookingEventsDLQ     = "booking.created.dlq"
	DefaultPaymentStatusTopic   = "payment.status"
	DefaultPaymentStatusDLQ     = "payment.status.dlq"
	DefaultPaymentStatusGroupID = "korskola-bookings"
)

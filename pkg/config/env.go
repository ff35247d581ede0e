package config

const (
	EnvFile = "ENV_FILE"

	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvJWTSecret = "JWT_SECRET"
	EnvJWTIssuer = "JWT_ISSUER"

	EnvDraftStore    = "DRAFT_STORE"
	EnvDraftTTL      = "DRAFT_TTL"
	EnvRedisAddr     = "REDIS_ADDR"
	EnvRedisPassword = "REDIS_PASSWORD"
	EnvRedisDB       = "REDIS_DB"

	EnvPaymentHandoffURL    = "PAYMENT_HANDOFF_URL"
	EnvPaymentTokenKey      = "PAYMENT_TOKEN_KEY"
	EnvPaymentWebhookSecret = "PAYMENT_WEBHOOK_SECRET"
	EnvPaymentTimeout       = "PAYMENT_TIMEOUT"
	EnvPaymentExpiryPeriod  = "PAYMENT_EXPIRY_INTERVAL"

	EnvSupervisorPersonalNumberRequired = "SUPERVISOR_PERSONAL_NUMBER_REQUIRED"
	EnvTimezone                         = "TIMEZONE"
	EnvSupervisorPricing                = "SUPERVISOR_PRICING"

	EnvKafkaEnabled         = "KAFKA_ENABLED"
	EnvBookingEventsTopic   = "KAFKA_BOOKING_EVENTS_TOPIC"
	EnvBookingEventsDLQ     = "KAFKA_BOOKING_EVENTS_DLQ"
	EnvPaymentStatusTopic   = "KAFKA_PAYMENT_STATUS_TOPIC"
	EnvPaymentStatusDLQ     = "KAFKA_PAYMENT_STATUS_DLQ"
	EnvPaymentStatusGroupID = "KAFKA_PAYMENT_STATUS_GROUP_ID"
)

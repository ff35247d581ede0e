package config

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"time"

	"korskola/pkg/client"
	"korskola/pkg/locale"
	"korskola/pkg/logger"
	"korskola/pkg/sealer"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	JWTSecret string
	JWTIssuer string

	DraftStore    string
	DraftTTL      time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	PaymentHandoffURL     string
	PaymentTokenKey       string
	PaymentWebhookSecret  string
	PaymentTimeout        time.Duration
	PaymentExpiryInterval time.Duration

	SupervisorPersonalNumberRequired bool
	SupervisorPricing                string
	Timezone                         string
	Location                         *time.Location

	KafkaEnabled         bool
	BookingEventsTopic   string
	BookingEventsDLQ     string
	PaymentStatusTopic   string
	PaymentStatusDLQ     string
	PaymentStatusGroupID string

	Log    *logger.Logger
	Client *client.Client
}

// Load reads an optional .env file, then the process environment. Invalid
// configuration is fatal.
func Load(serviceName string) *Config {
	envFile := getEnvStr(EnvFile, DefaultEnvFile)
	envErr := godotenv.Load(envFile)

	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		JWTSecret: getEnvStr(EnvJWTSecret, ""),
		JWTIssuer: getEnvStr(EnvJWTIssuer, DefaultJWTIssuer),

		DraftStore:    getEnvStr(EnvDraftStore, DefaultDraftStore),
		DraftTTL:      getEnvDuration(EnvDraftTTL, DefaultDraftTTL),
		RedisAddr:     getEnvStr(EnvRedisAddr, DefaultRedisAddr),
		RedisPassword: getEnvStr(EnvRedisPassword, ""),
		RedisDB:       getEnvNum(EnvRedisDB, DefaultRedisDB),

		PaymentHandoffURL:     getEnvStr(EnvPaymentHandoffURL, DefaultPaymentHandoffURL),
		PaymentTokenKey:       getEnvStr(EnvPaymentTokenKey, ""),
		PaymentWebhookSecret:  getEnvStr(EnvPaymentWebhookSecret, ""),
		PaymentTimeout:        getEnvDuration(EnvPaymentTimeout, DefaultPaymentTimeout),
		PaymentExpiryInterval: getEnvDuration(EnvPaymentExpiryPeriod, DefaultPaymentExpiryInterval),

		SupervisorPersonalNumberRequired: getEnvBool(EnvSupervisorPersonalNumberRequired, DefaultSupervisorPersonalNumberRequired),
		SupervisorPricing:                getEnvStr(EnvSupervisorPricing, DefaultSupervisorPricing),
		Timezone:                         getEnvStr(EnvTimezone, DefaultTimezone),

		KafkaEnabled:         getEnvBool(EnvKafkaEnabled, DefaultKafkaEnabled),
		BookingEventsTopic:   getEnvStr(EnvBookingEventsTopic, DefaultBookingEventsTopic),
		BookingEventsDLQ:     getEnvStr(EnvBookingEventsDLQ, DefaultBookingEventsDLQ),
		PaymentStatusTopic:   getEnvStr(EnvPaymentStatusTopic, DefaultPaymentStatusTopic),
		PaymentStatusDLQ:     getEnvStr(EnvPaymentStatusDLQ, DefaultPaymentStatusDLQ),
		PaymentStatusGroupID: getEnvStr(EnvPaymentStatusGroupID, DefaultPaymentStatusGroupID),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	if envErr != nil {
		cfg.Log.Debug("No env file loaded, using process environment", "file", envFile, "error", envErr)
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.Location = locale.LoadLocation(cfg.Timezone)
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) SetRedis() {
	cfg.Client.SetRedis(cfg.Log, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if len(cfg.MongoURI) < 10 || !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
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
	if cfg.IdempotencyTTL <= 0 {
		errors = append(errors, fmt.Sprintf("IdempotencyTTL must be positive, got: %s", cfg.IdempotencyTTL))
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

	if len(cfg.JWTSecret) < 32 {
		errors = append(errors, "JWTSecret must be at least 32 characters")
	}

	switch cfg.DraftStore {
	case DraftStoreMemory:
	case DraftStoreRedis:
		if cfg.RedisAddr == "" {
			errors = append(errors, "RedisAddr cannot be empty when DraftStore is redis")
		}
		if cfg.RedisDB < 0 {
			errors = append(errors, fmt.Sprintf("RedisDB cannot be negative, got: %d", cfg.RedisDB))
		}
	default:
		errors = append(errors, fmt.Sprintf("DraftStore must be one of [memory, redis], got: %s", cfg.DraftStore))
	}
	if cfg.DraftTTL <= 0 {
		errors = append(errors, fmt.Sprintf("DraftTTL must be positive, got: %s", cfg.DraftTTL))
	}

	if u, err := url.Parse(cfg.PaymentHandoffURL); err != nil || u.Scheme == "" || u.Host == "" {
		errors = append(errors, fmt.Sprintf("PaymentHandoffURL must be an absolute URL, got: %s", cfg.PaymentHandoffURL))
	}
	if err := sealer.ValidateKey(cfg.PaymentTokenKey); err != nil {
		errors = append(errors, fmt.Sprintf("PaymentTokenKey is invalid: %v", err))
	}
	if cfg.PaymentTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("PaymentTimeout must be positive, got: %s", cfg.PaymentTimeout))
	}
	if cfg.PaymentExpiryInterval <= 0 {
		errors = append(errors, fmt.Sprintf("PaymentExpiryInterval must be positive, got: %s", cfg.PaymentExpiryInterval))
	}

	switch cfg.SupervisorPricing {
	case SupervisorPricingEvery, SupervisorPricingFirstFree:
	default:
		errors = append(errors, fmt.Sprintf("SupervisorPricing must be one of [every, first_free], got: %s", cfg.SupervisorPricing))
	}

	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		errors = append(errors, fmt.Sprintf("Timezone is unknown: %s", cfg.Timezone))
	}

	if cfg.KafkaEnabled {
		if cfg.BookingEventsTopic == "" {
			errors = append(errors, "BookingEventsTopic cannot be empty when Kafka is enabled")
		}
		if cfg.PaymentStatusTopic == "" {
			errors = append(errors, "PaymentStatusTopic cannot be empty when Kafka is enabled")
		}
		if cfg.PaymentStatusGroupID == "" {
			errors = append(errors, "PaymentStatusGroupID cannot be empty when Kafka is enabled")
		}
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
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"jwt_issuer", cfg.JWTIssuer,
		"jwt_secret_set", cfg.JWTSecret != "",
		"draft_store", cfg.DraftStore,
		"draft_ttl", cfg.DraftTTL,
		"redis_addr", cfg.RedisAddr,
		"redis_db", cfg.RedisDB,
		"payment_handoff_url", cfg.PaymentHandoffURL,
		"payment_webhook_secret_set", cfg.PaymentWebhookSecret != "",
		"payment_timeout", cfg.PaymentTimeout,
		"payment_expiry_interval", cfg.PaymentExpiryInterval,
		"supervisor_personal_number_required", cfg.SupervisorPersonalNumberRequired,
		"supervisor_pricing", cfg.SupervisorPricing,
		"timezone", cfg.Timezone,
		"kafka_enabled", cfg.KafkaEnabled,
		"booking_events_topic", cfg.BookingEventsTopic,
		"payment_status_topic", cfg.PaymentStatusTopic,
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

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
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
	cfg.Client.GracefulShutdown(cfg.Log, cfg.ShutdownTimeout)
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

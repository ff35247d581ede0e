package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		MongoURI:              DefaultMongoURI,
		MongoDatabaseName:     DefaultMongoDatabaseName,
		MongoConnTimeout:      DefaultMongoConnTimeout,
		Port:                  DefaultPort,
		RateLimitRequests:     DefaultRateLimitRequests,
		RateLimitWindow:       DefaultRateLimitWindow,
		RequestTimeout:        DefaultRequestTimeout,
		IdempotencyTTL:        DefaultIdempotencyTTL,
		MaxRequestSize:        DefaultMaxRequestSize,
		ReadTimeout:           DefaultReadTimeout,
		WriteTimeout:          DefaultWriteTimeout,
		IdleTimeout:           DefaultIdleTimeout,
		ShutdownTimeout:       DefaultShutdownTimeout,
		JWTSecret:             strings.Repeat("s", 32),
		JWTIssuer:             DefaultJWTIssuer,
		DraftStore:            DraftStoreMemory,
		DraftTTL:              DefaultDraftTTL,
		RedisAddr:             DefaultRedisAddr,
		PaymentHandoffURL:     DefaultPaymentHandoffURL,
		PaymentTokenKey:       "AAECAwQFBgcICQoLDA0ODxAREhMUFRYXGBkaGxwdHh8=",
		PaymentTimeout:        DefaultPaymentTimeout,
		PaymentExpiryInterval: DefaultPaymentExpiryInterval,
		Timezone:              DefaultTimezone,
		SupervisorPricing:     DefaultSupervisorPricing,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "bad port", mutate: func(c *Config) { c.Port = "99999" }, wantErr: "Port"},
		{name: "bad mongo uri", mutate: func(c *Config) { c.MongoURI = "postgres://x" }, wantErr: "MongoURI"},
		{name: "short jwt secret", mutate: func(c *Config) { c.JWTSecret = "short" }, wantErr: "JWTSecret"},
		{name: "unknown draft store", mutate: func(c *Config) { c.DraftStore = "disk" }, wantErr: "DraftStore"},
		{name: "redis without addr", mutate: func(c *Config) { c.DraftStore = DraftStoreRedis; c.RedisAddr = "" }, wantErr: "RedisAddr"},
		{name: "non-positive draft ttl", mutate: func(c *Config) { c.DraftTTL = 0 }, wantErr: "DraftTTL"},
		{name: "relative handoff url", mutate: func(c *Config) { c.PaymentHandoffURL = "/pay" }, wantErr: "PaymentHandoffURL"},
		{name: "bad token key", mutate: func(c *Config) { c.PaymentTokenKey = "nope" }, wantErr: "PaymentTokenKey"},
		{name: "unknown timezone", mutate: func(c *Config) { c.Timezone = "Mars/Olympus" }, wantErr: "Timezone"},
		{name: "kafka without group", mutate: func(c *Config) { c.KafkaEnabled = true; c.BookingEventsTopic = "b"; c.PaymentStatusTopic = "p" }, wantErr: "PaymentStatusGroupID"},
		{name: "negative timeout", mutate: func(c *Config) { c.RequestTimeout = -time.Second }, wantErr: "RequestTimeout"},
		{name: "zero payment timeout", mutate: func(c *Config) { c.PaymentTimeout = 0 }, wantErr: "PaymentTimeout"},
		{name: "zero expiry interval", mutate: func(c *Config) { c.PaymentExpiryInterval = 0 }, wantErr: "PaymentExpiryInterval"},
		{name: "first supervisor free", mutate: func(c *Config) { c.SupervisorPricing = SupervisorPricingFirstFree }},
		{name: "unknown supervisor pricing", mutate: func(c *Config) { c.SupervisorPricing = "half" }, wantErr: "SupervisorPricing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestRedactMongoURI(t *testing.T) {
	got := redactMongoURI("mongodb://admin:hunter2@db:27017")
	if got != "mongodb://***:***@db:27017" {
		t.Errorf("redactMongoURI() = %q", got)
	}
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("KORSKOLA_TEST_BOOL", "false")
	t.Setenv("KORSKOLA_TEST_DURATION", "90s")
	t.Setenv("KORSKOLA_TEST_NUM", "x")

	if getEnvBool("KORSKOLA_TEST_BOOL", true) {
		t.Errorf("getEnvBool() ignored env")
	}
	if d := getEnvDuration("KORSKOLA_TEST_DURATION", time.Second); d != 90*time.Second {
		t.Errorf("getEnvDuration() = %s", d)
	}
	if n := getEnvNum("KORSKOLA_TEST_NUM", 7); n != 7 {
		t.Errorf("getEnvNum() should fall back on parse error, got %d", n)
	}
}

func TestNormalizePaginationLimit(t *testing.T) {
	if NormalizePaginationLimit(0) != 10 {
		t.Errorf("zero limit should default to 10")
	}
	if NormalizePaginationLimit(1000) != DefaultPaginationLimit {
		t.Errorf("limit should be capped")
	}
	if NormalizeOffset(-5) != 0 {
		t.Errorf("negative offset should be 0")
	}
}

package kafka_config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"korskola/pkg/logger"
)

// Config is shared by the booking event producer and the payment status
// consumer. Topics are service settings and live in pkg/config.
type Config struct {
	Brokers []string

	ProducerMaxAttempts  int
	ProducerBatchTimeout time.Duration
	ProducerRequireAcks  int // -1 all, 0 none, 1 leader
	ProducerCompression  string
	ProducerAsync        bool

	ConsumerStartOffset       int64
	ConsumerMinBytes          int
	ConsumerMaxBytes          int
	ConsumerMaxWait           time.Duration
	ConsumerCommitInterval    time.Duration
	ConsumerHeartbeatInterval time.Duration
	ConsumerSessionTimeout    time.Duration
	ConsumerRebalanceTimeout  time.Duration
	ConsumerMaxRetries        int

	EnableMiddleware bool
}

func Load() (*Config, error) {
	cfg := &Config{
		Brokers: splitBrokers(envStr(EnvKafkaBrokers, DefaultKafkaBrokers)),

		ProducerMaxAttempts:  envInt(EnvKafkaProducerMaxAttempts, DefaultProducerMaxAttempts),
		ProducerBatchTimeout: envDuration(EnvKafkaProducerBatchTimeout, DefaultProducerBatchTimeout),
		ProducerRequireAcks:  envInt(EnvKafkaProducerRequireAcks, DefaultProducerRequireAcks),
		ProducerCompression:  strings.ToLower(envStr(EnvKafkaProducerCompression, DefaultProducerCompression)),
		ProducerAsync:        envBool(EnvKafkaProducerAsync, DefaultProducerAsync),

		ConsumerStartOffset:       int64(envInt(EnvKafkaConsumerStartOffset, int(DefaultConsumerStartOffset))),
		ConsumerMinBytes:          envInt(EnvKafkaConsumerMinBytes, DefaultConsumerMinBytes),
		ConsumerMaxBytes:          envInt(EnvKafkaConsumerMaxBytes, DefaultConsumerMaxBytes),
		ConsumerMaxWait:           envDuration(EnvKafkaConsumerMaxWait, DefaultConsumerMaxWait),
		ConsumerCommitInterval:    envDuration(EnvKafkaConsumerCommitInterval, DefaultConsumerCommitInterval),
		ConsumerHeartbeatInterval: envDuration(EnvKafkaConsumerHeartbeatInterval, DefaultConsumerHeartbeatInterval),
		ConsumerSessionTimeout:    envDuration(EnvKafkaConsumerSessionTimeout, DefaultConsumerSessionTimeout),
		ConsumerRebalanceTimeout:  envDuration(EnvKafkaConsumerRebalanceTimeout, DefaultConsumerRebalanceTimeout),
		ConsumerMaxRetries:        envInt(EnvKafkaConsumerMaxRetries, DefaultConsumerMaxRetries),

		EnableMiddleware: envBool(EnvKafkaEnableMiddleware, DefaultEnableMiddleware),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("kafka configuration: %w", err)
	}
	return cfg, nil
}

// Validate reports every problem at once.
func (cfg *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(len(cfg.Brokers) > 0, "%s: at least one broker is required", EnvKafkaBrokers)
	check(!slices.Contains(cfg.Brokers, ""), "%s: empty broker address", EnvKafkaBrokers)
	check(cfg.ProducerMaxAttempts > 0, "%s must be positive, got %d", EnvKafkaProducerMaxAttempts, cfg.ProducerMaxAttempts)
	check(cfg.ProducerBatchTimeout > 0, "%s must be positive, got %s", EnvKafkaProducerBatchTimeout, cfg.ProducerBatchTimeout)
	check(cfg.ProducerRequireAcks >= -1 && cfg.ProducerRequireAcks <= 1, "%s must be -1, 0 or 1, got %d", EnvKafkaProducerRequireAcks, cfg.ProducerRequireAcks)
	check(slices.Contains(compressions, cfg.ProducerCompression), "%s must be one of %v, got %q", EnvKafkaProducerCompression, compressions, cfg.ProducerCompression)
	check(cfg.ConsumerStartOffset >= -2, "%s must be -1 (newest), -2 (oldest) or an offset, got %d", EnvKafkaConsumerStartOffset, cfg.ConsumerStartOffset)
	check(cfg.ConsumerMinBytes > 0 && cfg.ConsumerMinBytes <= cfg.ConsumerMaxBytes, "%s and %s must satisfy 0 < min <= max", EnvKafkaConsumerMinBytes, EnvKafkaConsumerMaxBytes)
	check(cfg.ConsumerMaxWait > 0, "%s must be positive, got %s", EnvKafkaConsumerMaxWait, cfg.ConsumerMaxWait)
	check(cfg.ConsumerCommitInterval >= 0, "%s cannot be negative, got %s", EnvKafkaConsumerCommitInterval, cfg.ConsumerCommitInterval)
	check(cfg.ConsumerHeartbeatInterval > 0 && cfg.ConsumerHeartbeatInterval < cfg.ConsumerSessionTimeout,
		"%s must be positive and shorter than %s", EnvKafkaConsumerHeartbeatInterval, EnvKafkaConsumerSessionTimeout)
	check(cfg.ConsumerRebalanceTimeout > 0, "%s must be positive, got %s", EnvKafkaConsumerRebalanceTimeout, cfg.ConsumerRebalanceTimeout)
	check(cfg.ConsumerMaxRetries >= 0, "%s cannot be negative, got %d", EnvKafkaConsumerMaxRetries, cfg.ConsumerMaxRetries)

	return errors.Join(errs...)
}

func (cfg *Config) LogConfiguration(log *logger.Logger) {
	log.Info("Kafka configuration loaded",
		"brokers", cfg.Brokers,
		"producer_require_acks", cfg.ProducerRequireAcks,
		"producer_compression", cfg.ProducerCompression,
		"producer_async", cfg.ProducerAsync,
		"consumer_start_offset", cfg.ConsumerStartOffset,
		"consumer_max_retries", cfg.ConsumerMaxRetries,
		"enable_middleware", cfg.EnableMiddleware,
	)
}

func splitBrokers(raw string) []string {
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func envStr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return fallback
}

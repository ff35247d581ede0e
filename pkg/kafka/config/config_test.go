package kafka_config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(EnvKafkaBrokers, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.Brokers) != 1 || cfg.Brokers[0] != "localhost:9092" {
		t.Errorf("Brokers = %v, want [localhost:9092]", cfg.Brokers)
	}
	if cfg.ConsumerStartOffset != -2 {
		t.Errorf("ConsumerStartOffset = %d, want -2", cfg.ConsumerStartOffset)
	}
	if cfg.ProducerAsync {
		t.Error("producer must be synchronous by default")
	}
}

func TestLoad_Brokers(t *testing.T) {
	t.Setenv(EnvKafkaBrokers, " kafka-1:9092, ,kafka-2:9092 ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if strings.Join(cfg.Brokers, "|") != "kafka-1:9092|kafka-2:9092" {
		t.Errorf("Brokers = %v", cfg.Brokers)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Brokers:                   []string{"localhost:9092"},
			ProducerMaxAttempts:       3,
			ProducerBatchTimeout:      time.Millisecond,
			ProducerRequireAcks:       -1,
			ProducerCompression:       "snappy",
			ConsumerStartOffset:       -1,
			ConsumerMinBytes:          1,
			ConsumerMaxBytes:          1024,
			ConsumerMaxWait:           time.Second,
			ConsumerHeartbeatInterval: time.Second,
			ConsumerSessionTimeout:    10 * time.Second,
			ConsumerRebalanceTimeout:  10 * time.Second,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "no brokers", mutate: func(c *Config) { c.Brokers = nil }, wantErr: EnvKafkaBrokers},
		{name: "bad compression", mutate: func(c *Config) { c.ProducerCompression = "brotli" }, wantErr: EnvKafkaProducerCompression},
		{name: "bad acks", mutate: func(c *Config) { c.ProducerRequireAcks = 2 }, wantErr: EnvKafkaProducerRequireAcks},
		{name: "min above max", mutate: func(c *Config) { c.ConsumerMinBytes = 4096 }, wantErr: EnvKafkaConsumerMinBytes},
		{name: "heartbeat too long", mutate: func(c *Config) { c.ConsumerHeartbeatInterval = time.Minute }, wantErr: EnvKafkaConsumerHeartbeatInterval},
		{name: "negative retries", mutate: func(c *Config) { c.ConsumerMaxRetries = -1 }, wantErr: EnvKafkaConsumerMaxRetries},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}

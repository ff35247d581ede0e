package kafka_config

import (
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	DefaultKafkaBrokers = "localhost:9092"

	// Booking events are few and must not be lost, so the producer is sync
	// and waits for every replica.
	DefaultProducerMaxAttempts  = 5
	DefaultProducerBatchTimeout = 10 * time.Millisecond
	DefaultProducerRequireAcks  = -1
	DefaultProducerCompression  = "snappy"
	DefaultProducerAsync        = false

	// Payment outcomes that arrive while the service is down are still applied.
	DefaultConsumerStartOffset       = kafka.FirstOffset
	DefaultConsumerMinBytes          = 1
	DefaultConsumerMaxBytes          = 1 << 20
	DefaultConsumerMaxWait           = 500 * time.Millisecond
	DefaultConsumerCommitInterval    = 0
	DefaultConsumerHeartbeatInterval = 3 * time.Second
	DefaultConsumerSessionTimeout    = 30 * time.Second
	DefaultConsumerRebalanceTimeout  = 30 * time.Second
	DefaultConsumerMaxRetries        = 5

	DefaultEnableMiddleware = true
)

var compressions = []string{"none", "gzip", "snappy", "lz4", "zstd"}

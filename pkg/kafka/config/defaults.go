package kafka_config

import "time"

const (
	DefaultKafkaBrokers = "localhost:9092"

	// Reservation events are small and rare; flush almost immediately.
	DefaultProducerBatchTimeout = 10 * time.Millisecond
	// A publish must finish well inside the platform's webhook deadline.
	DefaultProducerWriteTimeout = 2 * time.Second
	DefaultProducerMaxAttempts  = 3
	DefaultProducerRequireAcks  = -1
	DefaultProducerCompression  = "snappy"
	DefaultProducerAsync        = false

	DefaultEnableMiddleware = true
)

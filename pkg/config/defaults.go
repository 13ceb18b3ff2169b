package config

import "time"

const (
	StoreCSV    = "csv"
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

const (
	DefaultPort      = "5000"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultStoreBackend  = StoreCSV
	DefaultDataDir       = "."
	DefaultBookingsFile  = "bookings.csv"
	DefaultCustomersFile = "data.csv"

	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "tablebot"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultTimeZone     = "Asia/Ho_Chi_Minh"
	DefaultServiceOpen  = "12:00"
	DefaultServiceClose = "22:00"
	DefaultLanguageCode = "vi"
	DefaultPhoneRegions = "VN,US"

	DefaultEventsEnabled = false
	DefaultEventsTopic   = "reservations.events"

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute
	DefaultIdempotencyTTL    = 10 * time.Minute

	DefaultMaxConcurrentTurns = 40

	DefaultRequestTimeout = 5 * time.Second // the platform gives up on webhooks after ~5s
	DefaultMaxRequestSize = 256 * 1024

	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 15 * time.Second
)

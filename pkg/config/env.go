package config

const (
	EnvPort      = "PORT"
	EnvLogLevel  = "LOG_LEVEL"
	EnvLogFormat = "LOG_FORMAT"

	EnvStoreBackend  = "STORE_BACKEND"
	EnvDataDir       = "DATA_DIR"
	EnvBookingsFile  = "BOOKINGS_FILE"
	EnvCustomersFile = "CUSTOMERS_FILE"

	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvTimeZone      = "TIME_ZONE"
	EnvServiceOpen   = "SERVICE_OPEN"
	EnvServiceClose  = "SERVICE_CLOSE"
	EnvLanguageCode  = "LANGUAGE_CODE"
	EnvIntentMapFile = "INTENT_MAP_FILE"
	EnvPhoneRegions  = "PHONE_REGIONS"

	EnvEventsEnabled = "EVENTS_ENABLED"
	EnvEventsTopic   = "EVENTS_TOPIC"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"
	EnvIdempotencyTTL    = "IDEMPOTENCY_TTL"

	EnvMaxConcurrentTurns = "MAX_CONCURRENT_TURNS"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
)

package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"tablebot/pkg/client"
	"tablebot/pkg/logger"
)

var (
	clockRegex    = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
	mongoURIRegex = regexp.MustCompile(`^mongodb(\+srv)?://`)
)

type Config struct {
	Port      string
	LogLevel  string
	LogFormat string

	StoreBackend  string
	DataDir       string
	BookingsFile  string
	CustomersFile string

	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	TimeZone      string
	Location      *time.Location
	ServiceOpen   string
	ServiceClose  string
	LanguageCode  string
	IntentMapFile string
	PhoneRegions  []string

	EventsEnabled bool
	EventsTopic   string

	RateLimitRequests int
	RateLimitWindow   time.Duration
	IdempotencyTTL    time.Duration

	MaxConcurrentTurns int

	RequestTimeout time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	Log    *logger.Logger
	Client *client.Client
}

// FromEnv reads the configuration without validating it.
func FromEnv(serviceName string) *Config {
	cfg := &Config{
		Port:      getEnvStr(EnvPort, DefaultPort),
		LogLevel:  getEnvStr(EnvLogLevel, DefaultLogLevel),
		LogFormat: getEnvStr(EnvLogFormat, DefaultLogFormat),

		StoreBackend:  strings.ToLower(getEnvStr(EnvStoreBackend, DefaultStoreBackend)),
		DataDir:       getEnvStr(EnvDataDir, DefaultDataDir),
		BookingsFile:  getEnvStr(EnvBookingsFile, DefaultBookingsFile),
		CustomersFile: getEnvStr(EnvCustomersFile, DefaultCustomersFile),

		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		TimeZone:      getEnvStr(EnvTimeZone, DefaultTimeZone),
		ServiceOpen:   getEnvStr(EnvServiceOpen, DefaultServiceOpen),
		ServiceClose:  getEnvStr(EnvServiceClose, DefaultServiceClose),
		LanguageCode:  getEnvStr(EnvLanguageCode, DefaultLanguageCode),
		IntentMapFile: getEnvStr(EnvIntentMapFile, ""),
		PhoneRegions:  splitList(getEnvStr(EnvPhoneRegions, DefaultPhoneRegions)),

		EventsEnabled: getEnvBool(EnvEventsEnabled, DefaultEventsEnabled),
		EventsTopic:   getEnvStr(EnvEventsTopic, DefaultEventsTopic),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),
		IdempotencyTTL:    getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),

		MaxConcurrentTurns: getEnvNum(EnvMaxConcurrentTurns, DefaultMaxConcurrentTurns),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		Client: client.NewClient(),
	}

	if loc, err := time.LoadLocation(cfg.TimeZone); err == nil {
		cfg.Location = loc
	}

	cfg.Log = logger.New(logger.Config{
		Level:     cfg.LogLevel,
		Format:    cfg.LogFormat,
		AddSource: cfg.LogLevel == logger.DEBUG,
		Service:   serviceName,
	})
	return cfg
}

// Load reads, validates and logs the configuration. Invalid configuration is fatal.
func Load(serviceName string) *Config {
	cfg := FromEnv(serviceName)
	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	switch cfg.StoreBackend {
	case StoreCSV:
		if cfg.BookingsFile == "" || cfg.CustomersFile == "" {
			errors = append(errors, "BookingsFile and CustomersFile cannot be empty for the csv store")
		}
	case StoreMongo:
		if !mongoURIRegex.MatchString(cfg.MongoURI) {
			errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
		}
		if cfg.MongoDatabaseName == "" {
			errors = append(errors, "MongoDatabaseName cannot be empty")
		}
		if cfg.MongoConnTimeout <= 0 {
			errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
		}
	case StoreMemory:
	default:
		errors = append(errors, fmt.Sprintf("StoreBackend must be one of [csv, mongo, memory], got: %s", cfg.StoreBackend))
	}

	if cfg.Location == nil {
		errors = append(errors, fmt.Sprintf("TimeZone is not a known IANA zone, got: %s", cfg.TimeZone))
	}
	if !clockRegex.MatchString(cfg.ServiceOpen) {
		errors = append(errors, fmt.Sprintf("ServiceOpen must be in HH:MM format (00:00-23:59), got: %s", cfg.ServiceOpen))
	}
	if !clockRegex.MatchString(cfg.ServiceClose) {
		errors = append(errors, fmt.Sprintf("ServiceClose must be in HH:MM format (00:00-23:59), got: %s", cfg.ServiceClose))
	}
	if clockRegex.MatchString(cfg.ServiceOpen) && clockRegex.MatchString(cfg.ServiceClose) && cfg.ServiceOpen > cfg.ServiceClose {
		errors = append(errors, fmt.Sprintf("ServiceOpen (%s) must not be after ServiceClose (%s)", cfg.ServiceOpen, cfg.ServiceClose))
	}
	if cfg.LanguageCode == "" {
		errors = append(errors, "LanguageCode cannot be empty")
	}
	if len(cfg.PhoneRegions) == 0 {
		errors = append(errors, "PhoneRegions must list at least one region")
	}

	if cfg.EventsEnabled && cfg.EventsTopic == "" {
		errors = append(errors, "EventsTopic cannot be empty when events are enabled")
	}

	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.RateLimitWindow <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitWindow must be positive, got: %s", cfg.RateLimitWindow))
	}
	if cfg.IdempotencyTTL <= 0 {
		errors = append(errors, fmt.Sprintf("IdempotencyTTL must be positive, got: %s", cfg.IdempotencyTTL))
	}
	if cfg.MaxConcurrentTurns <= 0 {
		errors = append(errors, fmt.Sprintf("MaxConcurrentTurns must be positive, got: %d", cfg.MaxConcurrentTurns))
	}
	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
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
		"port", cfg.Port,
		"store_backend", cfg.StoreBackend,
		"data_dir", cfg.DataDir,
		"bookings_file", cfg.BookingsFile,
		"customers_file", cfg.CustomersFile,
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"time_zone", cfg.TimeZone,
		"service_open", cfg.ServiceOpen,
		"service_close", cfg.ServiceClose,
		"language_code", cfg.LanguageCode,
		"intent_map_file", cfg.IntentMapFile,
		"phone_regions", cfg.PhoneRegions,
		"events_enabled", cfg.EventsEnabled,
		"events_topic", cfg.EventsTopic,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_concurrent_turns", cfg.MaxConcurrentTurns,
		"request_timeout", cfg.RequestTimeout,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
	)
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log)
}

// ClockMinutes converts an HH:MM string into minutes since midnight.
func ClockMinutes(clock string) (int, error) {
	if !clockRegex.MatchString(clock) {
		return 0, fmt.Errorf("invalid clock value %q, want HH:MM", clock)
	}
	h, _ := strconv.Atoi(clock[:2])
	m, _ := strconv.Atoi(clock[3:])
	return h*60 + m, nil
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, strings.ToUpper(part))
		}
	}
	return out
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

package cli

import (
	"fmt"
	"io"

	"tablebot/internal/fulfillment/dialogflow"
	fulfillment "tablebot/internal/fulfillment/service"
	"tablebot/internal/reservations/events"
	"tablebot/internal/reservations/repository"
	"tablebot/internal/reservations/service"
	"tablebot/internal/reservations/validator"
	"tablebot/pkg/config"
	kafka_config "tablebot/pkg/kafka/config"
	"tablebot/pkg/logger"
)

// Components are the services a command runs against.
type Components struct {
	Reservations service.ReservationService
	Fulfillment  fulfillment.FulfillmentService
	Publisher    events.Publisher
}

// Wire builds the reservation and fulfillment services from cfg.
func Wire(cfg *config.Config) (*Components, error) {
	bookingsTable, customersTable, err := repository.OpenTables(cfg)
	if err != nil {
		return nil, err
	}
	bookingRepo := repository.NewBookingRepository(bookingsTable, cfg.Log)
	customerRepo := repository.NewCustomerRepository(customersTable, cfg.Log)

	openMinutes, err := config.ClockMinutes(cfg.ServiceOpen)
	if err != nil {
		return nil, err
	}
	closeMinutes, err := config.ClockMinutes(cfg.ServiceClose)
	if err != nil {
		return nil, err
	}
	bookingValidator := validator.NewBookingValidator(bookingRepo, validator.Options{
		Location:     cfg.Location,
		OpenMinutes:  openMinutes,
		CloseMinutes: closeMinutes,
	}, cfg.Log)

	publisher, err := newPublisher(cfg)
	if err != nil {
		return nil, err
	}

	reservations := service.NewReservationService(service.Dependencies{
		Bookings:     bookingRepo,
		Customers:    customerRepo,
		Validator:    bookingValidator,
		Publisher:    publisher,
		PhoneRegions: cfg.PhoneRegions,
		Log:          cfg.Log,
	})

	intents, err := dialogflow.LoadIntentMap(cfg.IntentMapFile)
	if err != nil {
		_ = publisher.Close()
		return nil, err
	}
	adapter := dialogflow.NewAdapter(intents, cfg.LanguageCode)

	cfg.Log.Info("Reservation service initialized",
		"store_backend", cfg.StoreBackend,
		"bookings_table", bookingsTable.Name(),
		"customers_table", customersTable.Name(),
		"events_enabled", cfg.EventsEnabled,
	)

	return &Components{
		Reservations: reservations,
		Fulfillment:  fulfillment.NewFulfillmentService(reservations, adapter, cfg.MaxConcurrentTurns, cfg.Log),
		Publisher:    publisher,
	}, nil
}

func newPublisher(cfg *config.Config) (events.Publisher, error) {
	if !cfg.EventsEnabled {
		return events.NewNoopPublisher(), nil
	}

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid kafka configuration: %w", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log)

	return events.NewKafkaPublisher(kafkaCfg, cfg.EventsTopic, ServiceName, cfg.Log)
}

// loadCommandConfig reads and validates the configuration for a one-shot command.
// Logs go to w at warn level so command output stays clean.
func loadCommandConfig(w io.Writer) (*config.Config, error) {
	cfg := config.FromEnv(ServiceName)
	cfg.Log = logger.New(logger.Config{
		Level:   logger.WARN,
		Format:  logger.TEXT,
		Output:  w,
		Service: ServiceName,
	})
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	// One-shot commands never publish.
	cfg.EventsEnabled = false
	return cfg, nil
}

package service

import (
	"context"
	"errors"
	"strings"

	reserrors "tablebot/internal/reservations/errors"
	"tablebot/internal/reservations/events"
	"tablebot/internal/reservations/repository"
	"tablebot/internal/reservations/validator"
	apperrors "tablebot/pkg/errors"
	"tablebot/pkg/logger"
	"tablebot/pkg/middleware"
	"tablebot/pkg/model"
	"tablebot/pkg/sanitizer"

	playground "github.com/go-playground/validator/v10"
)

// Outcome tells the conversation what to do after a booking is recorded.
type Outcome string

const (
	// OutcomeNeedsProfile: the customer is unknown and should be asked for contact info.
	OutcomeNeedsProfile Outcome = "needs_profile"
	// OutcomeReturning: the customer exists and their loyalty count was considered.
	OutcomeReturning Outcome = "returning"
	// OutcomeGuest: no platform user id came with the request.
	OutcomeGuest Outcome = "guest"
)

type Confirmation struct {
	Booking        model.BookingRecord
	Outcome        Outcome
	LoyaltyCount   int
	LoyaltyUpdated bool
}

type ReservationService interface {
	Check(ctx context.Context, req model.BookingRequest) (validator.Decision, error)
	Confirm(ctx context.Context, req model.BookingRequest, customerID string) (*Confirmation, error)
	RegisterCustomer(ctx context.Context, profile model.CustomerProfile) (*model.CustomerRecord, bool, error)
	Profile(ctx context.Context, customerID string) (*model.CustomerRecord, error)
	Bookings(ctx context.Context) ([]model.BookingRecord, error)
	Ready(ctx context.Context) error
}

type reservationService struct {
	bookings     repository.BookingRepository
	customers    repository.CustomerRepository
	validator    *validator.BookingValidator
	structs      *playground.Validate
	publisher    events.Publisher
	phoneRegions []string
	log          *logger.Logger
}

type Dependencies struct {
	Bookings     repository.BookingRepository
	Customers    repository.CustomerRepository
	Validator    *validator.BookingValidator
	Publisher    events.Publisher
	PhoneRegions []string
	Log          *logger.Logger
}

func NewReservationService(deps Dependencies) ReservationService {
	publisher := deps.Publisher
	if publisher == nil {
		publisher = events.NewNoopPublisher()
	}
	return &reservationService{
		bookings:     deps.Bookings,
		customers:    deps.Customers,
		validator:    deps.Validator,
		structs:      playground.New(),
		publisher:    publisher,
		phoneRegions: deps.PhoneRegions,
		log:          deps.Log,
	}
}

func (s *reservationService) Check(ctx context.Context, req model.BookingRequest) (validator.Decision, error) {
	req.Location = sanitizer.NormalizeLocation(req.Location)

	decision, err := s.validator.Validate(ctx, req)
	if err != nil {
		s.log.Warn("Booking request could not be validated",
			"request_id", middleware.RequestIDFromContext(ctx),
			"location", req.Location,
			"date", req.Date,
			"time", req.Time,
			"error", err,
		)
		return validator.Decision{}, err
	}

	if decision.Accepted {
		s.log.Info("Booking request accepted", "slot", decision.Slot.String(), "party_size", req.PartySize)
	} else {
		s.log.Info("Booking request rejected", "kind", decision.Kind, "location", req.Location)
	}
	return decision, nil
}

// Confirm records the booking and settles the customer's loyalty. The slot is not
// re-checked; whatever was accepted at Check time is written.
func (s *reservationService) Confirm(ctx context.Context, req model.BookingRequest, customerID string) (*Confirmation, error) {
	booking, err := s.toRecord(req, customerID)
	if err != nil {
		return nil, err
	}

	if err := s.bookings.RecordBooking(ctx, booking); err != nil {
		s.log.Error("Failed to record booking", "slot", booking.Slot().String(), "error", err)
		return nil, apperrors.Internal("Failed to record booking", err)
	}
	s.log.Info("Booking recorded",
		"slot", booking.Slot().String(),
		"party_size", booking.PartySize,
		"customer_id", booking.CustomerID,
	)
	s.publish(ctx, events.BookingConfirmed(booking, middleware.RequestIDFromContext(ctx)))

	confirmation := &Confirmation{Booking: booking}
	if booking.CustomerID == "" {
		confirmation.Outcome = OutcomeGuest
		return confirmation, nil
	}

	customer, err := s.customers.FindCustomer(ctx, booking.CustomerID)
	if errors.Is(err, reserrors.ErrCustomerNotFound) {
		confirmation.Outcome = OutcomeNeedsProfile
		return confirmation, nil
	}
	if err != nil {
		return nil, apperrors.Internal("Failed to look up customer", err)
	}

	updated, err := s.customers.IncrementLoyalty(ctx, booking.CustomerID)
	if err != nil {
		return nil, apperrors.Internal("Failed to update loyalty", err)
	}

	confirmation.Outcome = OutcomeReturning
	confirmation.LoyaltyCount = customer.LoyaltyCount
	confirmation.LoyaltyUpdated = updated
	if updated {
		confirmation.LoyaltyCount++
		s.publish(ctx, events.LoyaltyIncrementedEvent(booking.CustomerID, confirmation.LoyaltyCount, middleware.RequestIDFromContext(ctx)))
	} else {
		s.log.Warn("Loyalty count left unchanged", "customer_id", booking.CustomerID)
	}
	return confirmation, nil
}

// RegisterCustomer creates the customer's record with a zero loyalty count. It is
// idempotent: an existing record is returned untouched and created is false.
func (s *reservationService) RegisterCustomer(ctx context.Context, profile model.CustomerProfile) (*model.CustomerRecord, bool, error) {
	profile.ID = strings.TrimSpace(profile.ID)
	profile.Username = sanitizer.NormalizeUsername(profile.Username)
	profile.FirstName = sanitizer.NormalizeName(profile.FirstName)
	profile.LastName = sanitizer.NormalizeName(profile.LastName)
	profile.Email = sanitizer.NormalizeEmail(profile.Email)

	if err := s.validateStruct("invalid customer profile", profile); err != nil {
		return nil, false, err
	}

	existing, err := s.customers.FindCustomer(ctx, profile.ID)
	if err == nil {
		s.log.Debug("Customer already registered", "customer_id", profile.ID)
		return existing, false, nil
	}
	if !errors.Is(err, reserrors.ErrCustomerNotFound) {
		return nil, false, apperrors.Internal("Failed to look up customer", err)
	}

	phone := sanitizer.NormalizePhone(profile.Phone, s.phoneRegions)
	if phone == "" {
		phone = strings.TrimSpace(profile.Phone)
	}

	record := model.CustomerRecord{
		ID:       profile.ID,
		Username: profile.Username,
		FullName: profile.FullName(),
		Phone:    phone,
		Email:    profile.Email,
	}
	if err := s.validateStruct("invalid customer record", record); err != nil {
		return nil, false, err
	}

	created, err := s.customers.CreateCustomer(ctx, record)
	if err != nil {
		s.log.Error("Failed to create customer", "customer_id", profile.ID, "error", err)
		return nil, false, apperrors.Internal("Failed to create customer", err)
	}

	s.log.Info("Customer registered", "customer_id", created.ID)
	s.publish(ctx, events.CustomerRegistered(*created, middleware.RequestIDFromContext(ctx)))
	return created, true, nil
}

func (s *reservationService) Profile(ctx context.Context, customerID string) (*model.CustomerRecord, error) {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return nil, apperrors.InvalidInput("Customer ID cannot be empty", nil)
	}

	customer, err := s.customers.FindCustomer(ctx, customerID)
	if err != nil {
		if errors.Is(err, reserrors.ErrCustomerNotFound) {
			return nil, apperrors.NotFoundWithID("Customer", customerID)
		}
		return nil, apperrors.Internal("Failed to retrieve customer", err)
	}
	return customer, nil
}

func (s *reservationService) Bookings(ctx context.Context) ([]model.BookingRecord, error) {
	bookings, err := s.bookings.ListBookings(ctx)
	if err != nil {
		return nil, apperrors.Internal("Failed to list bookings", err)
	}
	return bookings, nil
}

func (s *reservationService) Ready(ctx context.Context) error {
	if err := s.bookings.Ping(ctx); err != nil {
		return apperrors.Unavailable("Booking store")
	}
	if err := s.customers.Ping(ctx); err != nil {
		return apperrors.Unavailable("Customer store")
	}
	return nil
}

func (s *reservationService) toRecord(req model.BookingRequest, customerID string) (model.BookingRecord, error) {
	if err := s.validator.ValidateRequest(req); err != nil {
		return model.BookingRecord{}, apperrors.InvalidInput("invalid booking request", err)
	}
	date, err := validator.ParseDate(req.Date)
	if err != nil {
		return model.BookingRecord{}, apperrors.InvalidInput("invalid booking date", err)
	}
	clock, err := validator.ParseTime(req.Time)
	if err != nil {
		return model.BookingRecord{}, apperrors.InvalidInput("invalid booking time", err)
	}
	rounded, err := validator.RoundToHour(clock)
	if err != nil {
		return model.BookingRecord{}, apperrors.InvalidInput("invalid booking time", err)
	}

	record := model.BookingRecord{
		Location:   sanitizer.NormalizeLocation(req.Location),
		PartySize:  req.PartySize,
		Date:       date,
		Time:       rounded,
		CustomerID: strings.TrimSpace(customerID),
	}
	if err := s.validateStruct("invalid booking record", record); err != nil {
		return model.BookingRecord{}, err
	}
	return record, nil
}

// validateStruct runs the struct's validate tags and reports failures as INVALID_INPUT.
func (s *reservationService) validateStruct(message string, v any) error {
	if err := s.structs.Struct(v); err != nil {
		var validationErrs playground.ValidationErrors
		if errors.As(err, &validationErrs) {
			return apperrors.InvalidInput(message, validator.TranslateValidationErrors(validationErrs))
		}
		return apperrors.InvalidInput(message, err)
	}
	return nil
}

// publish is best effort: the store is the source of truth and a broker outage must
// not fail the conversation.
func (s *reservationService) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn("Failed to publish event", "event_type", event.Type, "key", event.Key, "error", err)
	}
}

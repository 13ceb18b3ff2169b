package validator

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	reserrors "tablebot/internal/reservations/errors"
	apperrors "tablebot/pkg/errors"
	"tablebot/pkg/logger"
	"tablebot/pkg/model"

	"github.com/go-playground/validator/v10"
)

const (
	ReasonPastDate     = "date must be in the future."
	ReasonOutsideHours = "time must be within service hours."
	ReasonSlotTaken    = "slot already taken."
)

type RejectionKind string

const (
	KindInvalidDate  RejectionKind = "invalid_date"
	KindOutsideHours RejectionKind = "outside_hours"
	KindSlotTaken    RejectionKind = "slot_taken"
)

// Decision is the outcome of validating a booking request. Accepted decisions carry a
// summary and the rounded slot; rejected ones carry a user-facing reason.
type Decision struct {
	Accepted bool
	Summary  string
	Slot     model.Slot
	Reason   string
	Kind     RejectionKind
}

func accepted(summary string, slot model.Slot) Decision {
	return Decision{Accepted: true, Summary: summary, Slot: slot}
}

func rejected(kind RejectionKind, reason string) Decision {
	return Decision{Kind: kind, Reason: reason}
}

// SlotFinder is the read capability the validator needs for the conflict check.
type SlotFinder interface {
	FindSlot(ctx context.Context, slot model.Slot) (*model.BookingRecord, error)
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type Options struct {
	Location     *time.Location
	OpenMinutes  int
	CloseMinutes int
	Now          func() time.Time
}

type BookingValidator struct {
	validate *validator.Validate
	slots    SlotFinder
	opts     Options
	logger   *logger.Logger
}

func NewBookingValidator(slots SlotFinder, opts Options, log *logger.Logger) *BookingValidator {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &BookingValidator{
		validate: validator.New(),
		slots:    slots,
		opts:     opts,
		logger:   log,
	}
}

// Validate runs the date, service-hours and conflict checks in that order. Malformed
// input is returned as an INVALID_INPUT error and never as a rejection.
func (v *BookingValidator) Validate(ctx context.Context, req model.BookingRequest) (Decision, error) {
	if err := v.ValidateRequest(req); err != nil {
		return Decision{}, apperrors.InvalidInput("invalid booking request", err)
	}

	date, err := ParseDate(req.Date)
	if err != nil {
		return Decision{}, apperrors.InvalidInput("invalid booking date", err)
	}
	clock, err := ParseTime(req.Time)
	if err != nil {
		return Decision{}, apperrors.InvalidInput("invalid booking time", err)
	}

	today := v.opts.Now().In(v.opts.Location).Format(model.DateLayout)
	if date < today {
		v.logger.Debug("Booking rejected", "kind", KindInvalidDate, "date", date, "today", today)
		return rejected(KindInvalidDate, ReasonPastDate), nil
	}

	// Minute-granular: 22:30 is outside hours even though its hour is 22. Rows written
	// by the old hour-granular check may therefore hold 23:00.
	minutes := clockMinutes(clock)
	if minutes < v.opts.OpenMinutes || minutes > v.opts.CloseMinutes {
		v.logger.Debug("Booking rejected", "kind", KindOutsideHours, "time", clock)
		return rejected(KindOutsideHours, ReasonOutsideHours), nil
	}

	rounded, err := RoundToHour(clock)
	if err != nil {
		return Decision{}, apperrors.InvalidInput("invalid booking time", err)
	}
	slot := model.Slot{Location: strings.TrimSpace(req.Location), Date: date, Time: rounded}

	existing, err := v.slots.FindSlot(ctx, slot)
	if err != nil {
		return Decision{}, apperrors.Internal("failed to check slot availability", err)
	}
	if existing != nil {
		v.logger.Debug("Booking rejected", "kind", KindSlotTaken, "slot", slot.String())
		return rejected(KindSlotTaken, ReasonSlotTaken), nil
	}

	return accepted(Summary(slot.Location, req.PartySize, date, clock), slot), nil
}

// ValidateRequest checks field presence only.
func (v *BookingValidator) ValidateRequest(req model.BookingRequest) error {
	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return TranslateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

// Summary renders the confirmation prompt shown before a booking is confirmed.
func Summary(location string, partySize int, date, clock string) string {
	return fmt.Sprintf("Booking details\nLocation: %s\nParty size: %d\nTime: %s %s\nPlease confirm or cancel.",
		location, partySize, date, clock)
}

// RoundToHour rounds an HH:MM clock to the nearest hour; 30 minutes and above round
// up. 23:30 wraps to 00:00 of the same calendar date.
func RoundToHour(clock string) (string, error) {
	t, err := time.Parse(model.TimeLayout, clock)
	if err != nil {
		return "", fmt.Errorf("%w: %q", reserrors.ErrInvalidTime, clock)
	}
	hour := t.Hour()
	if t.Minute() >= 30 {
		hour = (hour + 1) % 24
	}
	return fmt.Sprintf("%02d:00", hour), nil
}

// ParseDate accepts an ISO-8601 timestamp or a bare YYYY-MM-DD and returns the calendar
// date as written, without converting time zones.
func ParseDate(raw string) (string, error) {
	date, ok := model.CalendarDate(raw)
	if !ok {
		return "", fmt.Errorf("%w: %q", reserrors.ErrInvalidDate, strings.TrimSpace(raw))
	}
	return date, nil
}

var clockLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "15:04:05", model.TimeLayout}

// ParseTime accepts an ISO-8601 timestamp or a bare clock and returns the wall clock
// as HH:MM in the offset it was written in.
func ParseTime(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(model.TimeLayout), nil
		}
	}
	return "", fmt.Errorf("%w: %q", reserrors.ErrInvalidTime, raw)
}

func clockMinutes(clock string) int {
	h, _ := strconv.Atoi(clock[:2])
	m, _ := strconv.Atoi(clock[3:5])
	return h*60 + m
}

func TranslateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", err.Field())
		case "datetime":
			message = fmt.Sprintf("%s must match %s", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}

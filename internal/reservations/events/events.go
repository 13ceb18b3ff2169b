package events

import (
	"context"
	"time"

	"tablebot/pkg/model"
)

const (
	TypeBookingConfirmed   = "booking.confirmed"
	TypeCustomerRegistered = "customer.registered"
	TypeLoyaltyIncremented = "customer.loyalty_incremented"

	SchemaVersion = "1"
)

// Event is a reservation fact emitted after the store has been written.
type Event struct {
	Type          string
	Key           string
	CorrelationID string
	OccurredAt    time.Time
	Payload       any
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

type LoyaltyIncremented struct {
	CustomerID   string `json:"customer_id"`
	LoyaltyCount int    `json:"loyalty_count"`
}

func BookingConfirmed(booking model.BookingRecord, correlationID string) Event {
	return Event{
		Type:          TypeBookingConfirmed,
		Key:           partitionKey(booking.CustomerID, booking.Location),
		CorrelationID: correlationID,
		OccurredAt:    time.Now(),
		Payload:       booking,
	}
}

func CustomerRegistered(customer model.CustomerRecord, correlationID string) Event {
	return Event{
		Type:          TypeCustomerRegistered,
		Key:           customer.ID,
		CorrelationID: correlationID,
		OccurredAt:    time.Now(),
		Payload:       customer,
	}
}

func LoyaltyIncrementedEvent(customerID string, count int, correlationID string) Event {
	return Event{
		Type:          TypeLoyaltyIncremented,
		Key:           customerID,
		CorrelationID: correlationID,
		OccurredAt:    time.Now(),
		Payload:       LoyaltyIncremented{CustomerID: customerID, LoyaltyCount: count},
	}
}

// partitionKey keeps a customer's events ordered; guest bookings fall back to the
// location.
func partitionKey(customerID, location string) string {
	if customerID != "" {
		return customerID
	}
	return "location:" + location
}

type noopPublisher struct{}

// NewNoopPublisher drops every event. Used when events are disabled.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(context.Context, Event) error { return nil }

func (noopPublisher) Close() error { return nil }

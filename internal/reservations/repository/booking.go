package repository

import (
	"context"
	"fmt"

	"tablebot/pkg/logger"
	"tablebot/pkg/model"
)

type BookingRepository interface {
	RecordBooking(ctx context.Context, booking model.BookingRecord) error
	ListBookings(ctx context.Context) ([]model.BookingRecord, error)
	FindSlot(ctx context.Context, slot model.Slot) (*model.BookingRecord, error)
	Ping(ctx context.Context) error
}

type bookingRepository struct {
	table Table
	log   *logger.Logger
}

func NewBookingRepository(table Table, log *logger.Logger) BookingRepository {
	return &bookingRepository{table: table, log: log}
}

// RecordBooking appends one booking. Slot uniqueness is the validator's job; nothing
// here prevents a duplicate row.
func (r *bookingRepository) RecordBooking(ctx context.Context, booking model.BookingRecord) error {
	if err := r.table.Append(ctx, bookingToRow(booking)); err != nil {
		return fmt.Errorf("failed to record booking: %w", err)
	}
	return nil
}

func (r *bookingRepository) ListBookings(ctx context.Context) ([]model.BookingRecord, error) {
	rows, err := r.table.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	bookings := make([]model.BookingRecord, 0, len(rows))
	for i, row := range rows {
		b, err := rowToBooking(row)
		if err != nil {
			r.log.Warn("Skipping malformed booking row", "table", r.table.Name(), "row", i, "error", err)
			continue
		}
		bookings = append(bookings, b)
	}
	return bookings, nil
}

// FindSlot returns the first booking occupying slot, or nil when it is free.
func (r *bookingRepository) FindSlot(ctx context.Context, slot model.Slot) (*model.BookingRecord, error) {
	bookings, err := r.ListBookings(ctx)
	if err != nil {
		return nil, err
	}
	for _, b := range bookings {
		if b.Slot() == slot {
			return &b, nil
		}
	}
	return nil, nil
}

func (r *bookingRepository) Ping(ctx context.Context) error {
	return r.table.Ping(ctx)
}

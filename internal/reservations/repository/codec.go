package repository

import (
	"fmt"
	"strconv"
	"strings"

	reserrors "tablebot/internal/reservations/errors"
	"tablebot/pkg/model"
)

// Column layout of the flat record sets.
const (
	bookingColumns = 5

	colBookingLocation  = 0
	colBookingPartySize = 1
	colBookingDate      = 2
	colBookingTime      = 3
	colBookingCustomer  = 4

	customerColumns = 6

	colCustomerID       = 0
	colCustomerUsername = 1
	colCustomerFullName = 2
	colCustomerPhone    = 3
	colCustomerEmail    = 4
	colCustomerLoyalty  = 5
)

func bookingToRow(b model.BookingRecord) []string {
	row := make([]string, bookingColumns)
	row[colBookingLocation] = b.Location
	row[colBookingPartySize] = strconv.Itoa(b.PartySize)
	row[colBookingDate] = b.Date
	row[colBookingTime] = b.Time
	row[colBookingCustomer] = b.CustomerID
	return row
}

// rowToBooking decodes a booking row. Older rows carry the platform's raw values: a
// float party size ("4.0") and a full timestamp in the date column. Both are reduced
// to the current layout so slot comparison sees them.
func rowToBooking(row []string) (model.BookingRecord, error) {
	if len(row) < bookingColumns-1 {
		return model.BookingRecord{}, fmt.Errorf("%w: booking row has %d columns", reserrors.ErrMalformedRow, len(row))
	}
	b := model.BookingRecord{
		Location: strings.TrimSpace(row[colBookingLocation]),
		Date:     strings.TrimSpace(row[colBookingDate]),
		Time:     strings.TrimSpace(row[colBookingTime]),
	}
	if date, ok := model.CalendarDate(b.Date); ok {
		b.Date = date
	}
	if len(row) > colBookingCustomer {
		b.CustomerID = strings.TrimSpace(row[colBookingCustomer])
	}
	if size, err := strconv.ParseFloat(strings.TrimSpace(row[colBookingPartySize]), 64); err == nil {
		b.PartySize = int(size)
	}
	return b, nil
}

func customerToRow(c model.CustomerRecord) []string {
	row := make([]string, customerColumns)
	row[colCustomerID] = c.ID
	row[colCustomerUsername] = c.Username
	row[colCustomerFullName] = c.FullName
	row[colCustomerPhone] = c.Phone
	row[colCustomerEmail] = c.Email
	row[colCustomerLoyalty] = strconv.Itoa(c.LoyaltyCount)
	return row
}

// rowToCustomer decodes a customer row. A loyalty column that is missing or not a
// non-negative integer yields a zero count together with ErrLoyaltyNotNumeric, so
// callers can still show the profile.
func rowToCustomer(row []string) (model.CustomerRecord, error) {
	if len(row) == 0 {
		return model.CustomerRecord{}, fmt.Errorf("%w: empty customer row", reserrors.ErrMalformedRow)
	}
	field := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}
	c := model.CustomerRecord{
		ID:       field(colCustomerID),
		Username: field(colCustomerUsername),
		FullName: field(colCustomerFullName),
		Phone:    field(colCustomerPhone),
		Email:    field(colCustomerEmail),
	}
	count, err := parseLoyalty(field(colCustomerLoyalty))
	if err != nil {
		return c, err
	}
	c.LoyaltyCount = count
	return c, nil
}

func parseLoyalty(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q", reserrors.ErrLoyaltyNotNumeric, raw)
	}
	return n, nil
}

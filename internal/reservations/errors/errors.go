package errors

import "errors"

var (
	ErrCustomerNotFound = errors.New("customer not found")

	ErrMalformedRow = errors.New("malformed record row")

	ErrLoyaltyNotNumeric = errors.New("stored loyalty count is not a non-negative integer")

	ErrInvalidDate = errors.New("invalid booking date")

	ErrInvalidTime = errors.New("invalid booking time")
)

package flows

import (
	"fmt"

	"tablebot/internal/reservations/validator"
)

const (
	ConfirmLabel = "Confirm"
	CancelLabel  = "Cancel"

	MessageBookingConfirmed = "Your booking is confirmed. Thank you!"
	MessageNothingToConfirm = "There is no booking waiting for confirmation. Please start a new booking."
	MessageFallback         = "Thank you for using our service."
)

func rejectionMessage(decision validator.Decision) string {
	switch decision.Kind {
	case validator.KindSlotTaken:
		return "Sorry, that slot is already taken. Please choose another time."
	case validator.KindOutsideHours:
		return "Sorry, the booking time must be within service hours. Please enter a new time."
	default:
		return "Sorry, the booking date must be in the future. Please enter a new date."
	}
}

func returningMessage(loyalty int) string {
	return fmt.Sprintf("Your booking is confirmed. Welcome back! Loyalty points: %d.", loyalty)
}

func customerInfoMessage(username, id string) string {
	return fmt.Sprintf("Your customer info: Name: %s, ID: %s", username, id)
}

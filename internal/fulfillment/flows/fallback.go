package flows

import (
	"context"

	"tablebot/internal/fulfillment/core"
	"tablebot/internal/reservations/service"
)

func Fallback() core.Flow {
	return core.NewFlow(core.StepFallback,
		core.NewStage("acknowledge", func(_ context.Context, fc *core.FlowContext) error {
			fc.Reply.Say(MessageFallback)
			return nil
		}),
	)
}

// All returns every conversation flow wired to svc.
func All(svc service.ReservationService) []core.Flow {
	return []core.Flow{
		BeginBooking(svc),
		RetryTime(svc),
		RetryTimeConflict(svc),
		ConfirmBooking(svc),
		CustomerInfoQuery(svc),
		CustomerInfoSubmission(svc),
		Fallback(),
	}
}

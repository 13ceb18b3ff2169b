package flows

import (
	"context"

	"tablebot/internal/fulfillment/core"
	"tablebot/internal/reservations/service"
	"tablebot/pkg/model"
)

const processConfirmation = "confirmation"

func ConfirmBooking(svc service.ReservationService) core.Flow {
	return core.NewFlow(core.StepConfirmBooking,
		core.NewStage("load_pending_booking", LoadPendingBooking),
		core.NewStage("record_booking", RecordBooking(svc)),
		core.NewStage("reply_with_outcome", ReplyWithOutcome),
	)
}

// LoadPendingBooking reads the booking held in the confirmation context. A yes with
// nothing pending ends the flow with a hint to start over.
func LoadPendingBooking(_ context.Context, fc *core.FlowContext) error {
	pending, ok := fc.Turn.Contexts[core.StepConfirmBooking]
	if !ok || !pending.Has(core.ParamLocation) {
		fc.Reply.Say(MessageNothingToConfirm)
		fc.Halt()
		return nil
	}

	partySize, ok := pending.Int(core.ParamPartySize)
	if !ok {
		return core.MissingParamErr(core.ParamPartySize)
	}
	if !pending.Has(core.ParamDate) {
		return core.MissingParamErr(core.ParamDate)
	}
	if !pending.Has(core.ParamTime) {
		return core.MissingParamErr(core.ParamTime)
	}

	fc.Process[processRequest] = model.BookingRequest{
		Location:  pending.String(core.ParamLocation),
		PartySize: partySize,
		Date:      pending.String(core.ParamDate),
		Time:      pending.String(core.ParamTime),
	}
	return nil
}

func RecordBooking(svc service.ReservationService) func(ctx context.Context, fc *core.FlowContext) error {
	return func(ctx context.Context, fc *core.FlowContext) error {
		req := fc.Process[processRequest].(model.BookingRequest)
		confirmation, err := svc.Confirm(ctx, req, fc.Turn.User.ID)
		if err != nil {
			return err
		}
		fc.Process[processConfirmation] = confirmation
		return nil
	}
}

// ReplyWithOutcome thanks a known customer, or hands an unknown one over to the
// contact-info step.
func ReplyWithOutcome(_ context.Context, fc *core.FlowContext) error {
	confirmation := fc.Process[processConfirmation].(*service.Confirmation)

	switch confirmation.Outcome {
	case service.OutcomeNeedsProfile:
		fc.Reply.Continue(core.StepCustomerInfoSubmission, core.TriggerFollowupEvent, nil)
	case service.OutcomeReturning:
		if confirmation.LoyaltyUpdated {
			fc.Reply.Say(returningMessage(confirmation.LoyaltyCount))
		} else {
			fc.Reply.Say(MessageBookingConfirmed)
		}
	default:
		fc.Reply.Say(MessageBookingConfirmed)
	}
	return nil
}

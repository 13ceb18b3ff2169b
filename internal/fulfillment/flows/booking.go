package flows

import (
	"context"

	"tablebot/internal/fulfillment/core"
	"tablebot/internal/reservations/service"
	"tablebot/internal/reservations/validator"
	"tablebot/pkg/model"
)

const (
	processRequest  = "booking_request"
	processDecision = "decision"
)

// Where a retried turn finds the values it did not repeat.
var bookingContexts = []core.Step{core.StepRetryTime, core.StepRetryTimeConflict, core.StepConfirmBooking}

func BeginBooking(svc service.ReservationService) core.Flow {
	return checkFlow(core.StepBeginBooking, svc)
}

func RetryTime(svc service.ReservationService) core.Flow {
	return checkFlow(core.StepRetryTime, svc)
}

func RetryTimeConflict(svc service.ReservationService) core.Flow {
	return checkFlow(core.StepRetryTimeConflict, svc)
}

func checkFlow(step core.Step, svc service.ReservationService) core.Flow {
	return core.NewFlow(step,
		core.NewStage("collect_request", CollectBookingRequest),
		core.NewStage("check_availability", CheckAvailability(svc)),
		core.NewStage("reply_with_decision", ReplyWithDecision),
	)
}

func CollectBookingRequest(_ context.Context, fc *core.FlowContext) error {
	turn := fc.Turn

	location := turn.LookupString(core.ParamLocation, bookingContexts...)
	if core.IsMissing(location) {
		return core.MissingParamErr(core.ParamLocation)
	}
	partySize, ok := turn.LookupInt(core.ParamPartySize, bookingContexts...)
	if !ok {
		return core.MissingParamErr(core.ParamPartySize)
	}
	date := turn.LookupString(core.ParamDate, bookingContexts...)
	if core.IsMissing(date) {
		return core.MissingParamErr(core.ParamDate)
	}
	clock := turn.LookupString(core.ParamTime, bookingContexts...)
	if core.IsMissing(clock) {
		return core.MissingParamErr(core.ParamTime)
	}

	fc.Process[processRequest] = model.BookingRequest{
		Location:  location,
		PartySize: partySize,
		Date:      date,
		Time:      clock,
	}
	return nil
}

func CheckAvailability(svc service.ReservationService) func(ctx context.Context, fc *core.FlowContext) error {
	return func(ctx context.Context, fc *core.FlowContext) error {
		req := fc.Process[processRequest].(model.BookingRequest)
		decision, err := svc.Check(ctx, req)
		if err != nil {
			return err
		}
		fc.Process[processDecision] = decision
		return nil
	}
}

// ReplyWithDecision asks for confirmation of an accepted booking, or sends the user
// back to re-enter the time keeping location and party size.
func ReplyWithDecision(_ context.Context, fc *core.FlowContext) error {
	req := fc.Process[processRequest].(model.BookingRequest)
	decision := fc.Process[processDecision].(validator.Decision)

	if decision.Accepted {
		fc.Reply.Say(decision.Summary)
		fc.Reply.QuickReplies = []string{ConfirmLabel, CancelLabel}
		fc.Reply.Continue(core.StepConfirmBooking, core.TriggerAwaitInput, core.Params{
			core.ParamLocation:  req.Location,
			core.ParamPartySize: req.PartySize,
			core.ParamDate:      req.Date,
			core.ParamTime:      req.Time,
		})
		return nil
	}

	next := core.StepRetryTime
	if decision.Kind == validator.KindSlotTaken {
		next = core.StepRetryTimeConflict
	}
	fc.Reply.Say(rejectionMessage(decision))
	fc.Reply.Continue(next, core.TriggerFollowupEvent, core.Params{
		core.ParamLocation:  req.Location,
		core.ParamPartySize: req.PartySize,
	})
	return nil
}

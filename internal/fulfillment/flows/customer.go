package flows

import (
	"context"
	"fmt"

	"tablebot/internal/fulfillment/core"
	"tablebot/internal/reservations/service"
	apperrors "tablebot/pkg/errors"
	"tablebot/pkg/model"
)

const (
	processProfile  = "profile"
	processCustomer = "customer"
)

func CustomerInfoQuery(svc service.ReservationService) core.Flow {
	return core.NewFlow(core.StepCustomerInfoQuery,
		core.NewStage("load_customer", LoadCustomer(svc)),
		core.NewStage("reply_with_customer", ReplyWithCustomer),
	)
}

func CustomerInfoSubmission(svc service.ReservationService) core.Flow {
	return core.NewFlow(core.StepCustomerInfoSubmission,
		core.NewStage("collect_profile", CollectProfile),
		core.NewStage("register_customer", RegisterCustomer(svc)),
		core.NewStage("reply_registered", func(_ context.Context, fc *core.FlowContext) error {
			fc.Reply.Say(MessageBookingConfirmed)
			return nil
		}),
	)
}

// LoadCustomer looks up the stored record for the platform user, if any.
func LoadCustomer(svc service.ReservationService) func(ctx context.Context, fc *core.FlowContext) error {
	return func(ctx context.Context, fc *core.FlowContext) error {
		if core.IsMissing(fc.Turn.User.ID) {
			return nil
		}
		customer, err := svc.Profile(ctx, fc.Turn.User.ID)
		if err != nil {
			if apperrors.HasCode(err, apperrors.CodeNotFound) {
				return nil
			}
			return err
		}
		fc.Process[processCustomer] = customer
		return nil
	}
}

func ReplyWithCustomer(_ context.Context, fc *core.FlowContext) error {
	user := fc.Turn.User
	message := customerInfoMessage(user.Username, user.ID)
	if customer, ok := fc.Process[processCustomer].(*model.CustomerRecord); ok {
		message += fmt.Sprintf(", Loyalty points: %d", customer.LoyaltyCount)
	}
	fc.Reply.Say(message)
	return nil
}

// CollectProfile merges the platform user with the contact details the customer
// typed. Without a platform user id there is nothing to key a profile on.
func CollectProfile(_ context.Context, fc *core.FlowContext) error {
	profile := fc.Turn.User
	if core.IsMissing(profile.ID) {
		fc.Reply.Say(MessageBookingConfirmed)
		fc.Halt()
		return nil
	}

	profile.Phone = fc.Turn.LookupString(core.ParamPhone, core.StepCustomerInfoSubmission, core.StepConfirmBooking)
	profile.Email = fc.Turn.LookupString(core.ParamEmail, core.StepCustomerInfoSubmission, core.StepConfirmBooking)
	fc.Process[processProfile] = profile
	return nil
}

func RegisterCustomer(svc service.ReservationService) func(ctx context.Context, fc *core.FlowContext) error {
	return func(ctx context.Context, fc *core.FlowContext) error {
		profile := fc.Process[processProfile].(model.CustomerProfile)
		customer, _, err := svc.RegisterCustomer(ctx, profile)
		if err != nil {
			return err
		}
		fc.Process[processCustomer] = customer
		return nil
	}
}

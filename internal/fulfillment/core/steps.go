package core

// Step names a point in the reservation conversation. Inbound intents map onto a
// step, and replies name the step that should come next.
type Step string

const (
	StepBeginBooking           Step = "begin_booking"
	StepConfirmBooking         Step = "confirm_booking"
	StepRetryTime              Step = "retry_time"
	StepRetryTimeConflict      Step = "retry_time_conflict"
	StepCustomerInfoQuery      Step = "customer_info_query"
	StepCustomerInfoSubmission Step = "customer_info_submission"
	StepFallback               Step = "fallback"
)

var AllSteps = []Step{
	StepBeginBooking,
	StepConfirmBooking,
	StepRetryTime,
	StepRetryTimeConflict,
	StepCustomerInfoQuery,
	StepCustomerInfoSubmission,
	StepFallback,
}

func (s Step) Valid() bool {
	for _, known := range AllSteps {
		if s == known {
			return true
		}
	}
	return false
}

func (s Step) String() string {
	return string(s)
}

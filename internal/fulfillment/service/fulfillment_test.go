package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"tablebot/internal/fulfillment/dialogflow"
	"tablebot/internal/fulfillment/flows"
	"tablebot/internal/reservations/repository"
	reservations "tablebot/internal/reservations/service"
	"tablebot/internal/reservations/validator"
	apperrors "tablebot/pkg/errors"
	"tablebot/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const session = "projects/agent/agent/sessions/s-1"

type fixture struct {
	svc       FulfillmentService
	bookings  repository.Table
	customers repository.Table
}

func newFixture(t *testing.T, customerRows ...[]string) *fixture {
	t.Helper()
	log := logger.Discard()
	bookings := repository.NewMemoryTable(repository.BookingsCollection)
	customers := repository.NewMemoryTable(repository.CustomersCollection, customerRows...)
	bookingRepo := repository.NewBookingRepository(bookings, log)

	loc, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	require.NoError(t, err)
	res := reservations.NewReservationService(reservations.Dependencies{
		Bookings:  bookingRepo,
		Customers: repository.NewCustomerRepository(customers, log),
		Validator: validator.NewBookingValidator(bookingRepo, validator.Options{
			Location:     loc,
			OpenMinutes:  12 * 60,
			CloseMinutes: 22 * 60,
			Now:          func() time.Time { return time.Date(2030, 5, 1, 9, 0, 0, 0, loc) },
		}, log),
		PhoneRegions: []string{"VN"},
		Log:          log,
	})

	return &fixture{
		svc:       NewFulfillmentService(res, dialogflow.NewAdapter(nil, "vi"), 4, log),
		bookings:  bookings,
		customers: customers,
	}
}

// request builds a webhook request the way the platform would send it, including
// the contexts a previous response set.
func request(t *testing.T, intent string, params map[string]any, contexts []dialogflow.Context) *dialogflow.WebhookRequest {
	t.Helper()
	raw, err := json.Marshal(map[string]any{
		"responseId": "r-" + intent,
		"session":    session,
		"queryResult": map[string]any{
			"intent":         map[string]any{"displayName": intent},
			"parameters":     params,
			"outputContexts": contexts,
		},
		"originalDetectIntentRequest": map[string]any{
			"source": "telegram",
			"payload": map[string]any{"data": map[string]any{
				"from": map[string]any{"id": 42, "username": "an_nguyen", "first_name": "Nguyen", "last_name": "An"},
			}},
		},
	})
	require.NoError(t, err)

	var req dialogflow.WebhookRequest
	require.NoError(t, json.Unmarshal(raw, &req))
	return &req
}

func bookingParams(clock string) map[string]any {
	return map[string]any{
		"coso":     "1",
		"songuoi":  4,
		"bookdate": "2030-05-02T12:00:00+07:00",
		"booktime": "2030-05-02T" + clock + ":00+07:00",
	}
}

func TestFulfill_NewCustomerConversation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.svc.Fulfill(ctx, request(t, "DatBan", bookingParams("18:20"), nil))
	require.NoError(t, err)
	require.Len(t, resp.OutputContexts, 1)
	assert.Equal(t, session+"/contexts/confirm_booking", resp.OutputContexts[0].Name)
	require.NotEmpty(t, resp.FulfillmentMessages)
	assert.Contains(t, resp.FulfillmentMessages[0].Text.Text[0], "2030-05-02 18:20")

	resp, err = f.svc.Fulfill(ctx, request(t, "DatBan - yes", map[string]any{}, resp.OutputContexts))
	require.NoError(t, err)
	require.NotNil(t, resp.FollowupEventInput)
	assert.Equal(t, "NhapThongTinKhachHang", resp.FollowupEventInput.Name)

	rows, err := f.bookings.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"1", "4", "2030-05-02", "18:00", "42"}}, rows)

	resp, err = f.svc.Fulfill(ctx, request(t, "NhapThongTinKhachHang",
		map[string]any{"phone": "0912345678", "email": "an@example.com"}, nil))
	require.NoError(t, err)
	assert.Equal(t, flows.MessageBookingConfirmed, resp.FulfillmentText)

	rows, err = f.customers.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"42", "an_nguyen", "NguyenAn", "+84912345678", "an@example.com", "0"}}, rows)
}

func TestFulfill_ReturningCustomerEarnsLoyalty(t *testing.T) {
	f := newFixture(t, []string{"42", "an_nguyen", "NguyenAn", "+84912345678", "", "0"})
	ctx := context.Background()

	resp, err := f.svc.Fulfill(ctx, request(t, "DatBan", bookingParams("19:00"), nil))
	require.NoError(t, err)

	resp, err = f.svc.Fulfill(ctx, request(t, "DatBan - yes", map[string]any{}, resp.OutputContexts))
	require.NoError(t, err)
	assert.Nil(t, resp.FollowupEventInput)
	assert.Contains(t, resp.FulfillmentText, "Loyalty points: 1")

	rows, err := f.customers.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1", rows[0][5])
}

func TestFulfill_SlotConflictAsksForAnotherTime(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.bookings.Append(ctx, []string{"1", "2", "2030-05-02", "18:00", "7"}))

	resp, err := f.svc.Fulfill(ctx, request(t, "DatBan", bookingParams("18:20"), nil))
	require.NoError(t, err)

	require.NotNil(t, resp.FollowupEventInput)
	assert.Equal(t, "NhapLaiThoiGian2", resp.FollowupEventInput.Name)
	assert.Equal(t, "1", resp.FollowupEventInput.Parameters["coso"])
	require.Len(t, resp.OutputContexts, 1)

	// The retry turn only repeats the time; location and party size come from the context.
	resp, err = f.svc.Fulfill(ctx, request(t, "NhapLaiThoiGian2", map[string]any{
		"bookdate": "2030-05-02T12:00:00+07:00",
		"booktime": "2030-05-02T20:00:00+07:00",
	}, resp.OutputContexts))
	require.NoError(t, err)
	require.Len(t, resp.OutputContexts, 1)
	assert.Equal(t, session+"/contexts/confirm_booking", resp.OutputContexts[0].Name)
	assert.Equal(t, "1", resp.OutputContexts[0].Parameters["coso"])
}

func TestFulfill_UnknownIntent(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Fulfill(context.Background(), request(t, "Default Welcome Intent", nil, nil))
	require.NoError(t, err)
	assert.Equal(t, flows.MessageFallback, resp.FulfillmentText)
}

func TestFulfill_MalformedTime(t *testing.T) {
	f := newFixture(t)

	params := bookingParams("18:00")
	params["booktime"] = "half past six"
	_, err := f.svc.Fulfill(context.Background(), request(t, "DatBan", params, nil))
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))
}

func TestFulfill_MissingSession(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Fulfill(context.Background(), &dialogflow.WebhookRequest{})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))
}

func TestFulfill_CancelledContext(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.svc.Fulfill(ctx, request(t, "DatBan", bookingParams("18:00"), nil))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSteps(t *testing.T) {
	f := newFixture(t)
	assert.Len(t, f.svc.Steps(), 7)
	require.NoError(t, f.svc.Ready(context.Background()))
}

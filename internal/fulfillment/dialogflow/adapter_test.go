package dialogflow

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tablebot/internal/fulfillment/core"
	apperrors "tablebot/pkg/errors"
)

const testSession = "projects/agent/agent/sessions/abc"

func decode(t *testing.T, body string) *WebhookRequest {
	t.Helper()
	var req WebhookRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	return &req
}

func TestDecodeTurn_BeginBooking(t *testing.T) {
	req := decode(t, `{
		"responseId": "r-1",
		"session": "`+testSession+`",
		"queryResult": {
			"intent": {"displayName": "DatBan"},
			"parameters": {"coso": 1, "songuoi": 4, "bookdate": "2030-05-01T12:00:00+07:00", "booktime": "2030-05-01T18:20:00+07:00"}
		},
		"originalDetectIntentRequest": {
			"source": "telegram",
			"payload": {"data": {"from": {"id": 123456789, "username": "mai", "first_name": "Mai", "last_name": "Tran"}}}
		}
	}`)

	turn, err := NewAdapter(nil, "vi").DecodeTurn(req)
	require.NoError(t, err)

	assert.Equal(t, core.StepBeginBooking, turn.Step)
	assert.Equal(t, testSession, turn.Session)
	assert.Equal(t, "1", turn.Params.String(core.ParamLocation))
	size, ok := turn.Params.Int(core.ParamPartySize)
	assert.True(t, ok)
	assert.Equal(t, 4, size)
	assert.Equal(t, "2030-05-01T18:20:00+07:00", turn.Params.String(core.ParamTime))
	assert.Equal(t, "123456789", turn.User.ID)
	assert.Equal(t, "mai", turn.User.Username)
	assert.Equal(t, "MaiTran", turn.User.FullName())
}

func TestDecodeTurn_Contexts(t *testing.T) {
	req := decode(t, `{
		"session": "`+testSession+`",
		"queryResult": {
			"intent": {"displayName": "DatBan - yes"},
			"parameters": {},
			"outputContexts": [
				{"name": "`+testSession+`/contexts/confirm_booking", "lifespanCount": 4,
				 "parameters": {"coso": "2", "songuoi": 3, "bookdate": "2030-05-01", "booktime": "19:00", "coso.original": "two"}},
				{"name": "`+testSession+`/contexts/nhaplaithoigian", "parameters": {"coso": "2"}},
				{"name": "`+testSession+`/contexts/__system_counters__", "parameters": {"no-input": 0}}
			]
		},
		"originalDetectIntentRequest": {"payload": {"data": {"callback_query": {"from": {"id": "42", "username": "an"}}}}}
	}`)

	turn, err := NewAdapter(nil, "vi").DecodeTurn(req)
	require.NoError(t, err)

	assert.Equal(t, core.StepConfirmBooking, turn.Step)
	pending := turn.Contexts[core.StepConfirmBooking]
	assert.Equal(t, "2", pending.String(core.ParamLocation))
	assert.Equal(t, "19:00", pending.String(core.ParamTime))
	assert.NotContains(t, pending, "coso.original")

	// The retry context is shared by both retry steps.
	assert.Equal(t, "2", turn.Contexts[core.StepRetryTime].String(core.ParamLocation))
	assert.Equal(t, "2", turn.Contexts[core.StepRetryTimeConflict].String(core.ParamLocation))
	assert.Len(t, turn.Contexts, 3)

	assert.Equal(t, "42", turn.User.ID)
	assert.Equal(t, "an", turn.User.Username)
}

func TestDecodeTurn_UnknownIntentFallsBack(t *testing.T) {
	req := decode(t, `{"session": "`+testSession+`", "queryResult": {"intent": {"displayName": "Default Welcome Intent"}}}`)

	turn, err := NewAdapter(nil, "vi").DecodeTurn(req)
	require.NoError(t, err)
	assert.Equal(t, core.StepFallback, turn.Step)
	assert.Empty(t, turn.User.ID)
}

func TestDecodeTurn_MissingSession(t *testing.T) {
	_, err := NewAdapter(nil, "vi").DecodeTurn(decode(t, `{"queryResult": {"intent": {"displayName": "DatBan"}}}`))
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))
}

func TestEncodeReply_SingleMessage(t *testing.T) {
	resp, err := NewAdapter(nil, "vi").EncodeReply(testSession, core.Reply{Messages: []string{"hello"}})
	require.NoError(t, err)

	assert.Equal(t, "hello", resp.FulfillmentText)
	assert.Empty(t, resp.FulfillmentMessages)
	assert.Empty(t, resp.OutputContexts)
	assert.Nil(t, resp.FollowupEventInput)
}

func TestEncodeReply_AwaitConfirmation(t *testing.T) {
	reply := core.Reply{
		Messages:     []string{"Booking details"},
		QuickReplies: []string{"Confirm", "Cancel"},
	}
	reply.Continue(core.StepConfirmBooking, core.TriggerAwaitInput, core.Params{
		core.ParamLocation:  "1",
		core.ParamPartySize: 4,
		core.ParamDate:      "2030-05-01",
		core.ParamTime:      "18:20",
	})

	resp, err := NewAdapter(nil, "vi").EncodeReply(testSession, reply)
	require.NoError(t, err)

	assert.Empty(t, resp.FulfillmentText)
	require.Len(t, resp.FulfillmentMessages, 2)
	assert.Equal(t, []string{"Booking details"}, resp.FulfillmentMessages[0].Text.Text)
	quick := resp.FulfillmentMessages[1]
	assert.Equal(t, PlatformTelegram, quick.Platform)
	assert.Equal(t, "Booking details", quick.QuickReplies.Title)
	assert.Equal(t, []string{"Xác nhận", "Hủy"}, quick.QuickReplies.QuickReplies)

	require.Len(t, resp.OutputContexts, 1)
	ctx := resp.OutputContexts[0]
	assert.Equal(t, testSession+"/contexts/confirm_booking", ctx.Name)
	assert.Equal(t, 5, ctx.LifespanCount)
	assert.Equal(t, map[string]any{"coso": "1", "songuoi": 4, "bookdate": "2030-05-01", "booktime": "18:20"}, ctx.Parameters)
	assert.Nil(t, resp.FollowupEventInput)
}

func TestEncodeReply_FollowupEvent(t *testing.T) {
	reply := core.Reply{}
	reply.Say("slot already taken.")
	reply.Continue(core.StepRetryTimeConflict, core.TriggerFollowupEvent, core.Params{
		core.ParamLocation:  "1",
		core.ParamPartySize: 2,
	})

	resp, err := NewAdapter(nil, "vi").EncodeReply(testSession, reply)
	require.NoError(t, err)

	require.NotNil(t, resp.FollowupEventInput)
	assert.Equal(t, "NhapLaiThoiGian2", resp.FollowupEventInput.Name)
	assert.Equal(t, "vi", resp.FollowupEventInput.LanguageCode)
	assert.Equal(t, map[string]any{"coso": "1", "songuoi": 2}, resp.FollowupEventInput.Parameters)

	require.Len(t, resp.OutputContexts, 1)
	assert.Equal(t, testSession+"/contexts/NhapLaiThoiGian", resp.OutputContexts[0].Name)
	require.Len(t, resp.FulfillmentMessages, 1)
}

func TestEncodeReply_FollowupWithoutParams(t *testing.T) {
	reply := core.Reply{}
	reply.Continue(core.StepCustomerInfoSubmission, core.TriggerFollowupEvent, nil)

	resp, err := NewAdapter(nil, "vi").EncodeReply(testSession, reply)
	require.NoError(t, err)

	assert.Equal(t, "NhapThongTinKhachHang", resp.FollowupEventInput.Name)
	assert.Nil(t, resp.FollowupEventInput.Parameters)
	assert.Empty(t, resp.OutputContexts)
	assert.Empty(t, resp.FulfillmentMessages)
}

func TestEncodeReply_UnboundStep(t *testing.T) {
	reply := core.Reply{}
	reply.Continue(core.StepBeginBooking, core.TriggerFollowupEvent, nil)

	_, err := NewAdapter(nil, "vi").EncodeReply(testSession, reply)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInternal))
}

func TestEncodeReply_OmitsEmptyFields(t *testing.T) {
	resp, err := NewAdapter(nil, "vi").EncodeReply(testSession, core.Reply{Messages: []string{"hi"}})
	require.NoError(t, err)

	body, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"fulfillmentText": "hi"}`, string(body))
}

func TestFlexibleID(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want FlexibleID
	}{
		{"number", `123456789012`, "123456789012"},
		{"string", `"abc"`, "abc"},
		{"null", `null`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id FlexibleID
			require.NoError(t, json.Unmarshal([]byte(tt.in), &id))
			assert.Equal(t, tt.want, id)
		})
	}
}

package dialogflow

import (
	"bytes"
	"encoding/json"
)

// WebhookRequest is the subset of the Dialogflow ES fulfillment request the service
// reads.
type WebhookRequest struct {
	ResponseID                  string                      `json:"responseId"`
	Session                     string                      `json:"session"`
	QueryResult                 QueryResult                 `json:"queryResult"`
	OriginalDetectIntentRequest OriginalDetectIntentRequest `json:"originalDetectIntentRequest"`
}

type QueryResult struct {
	QueryText      string         `json:"queryText"`
	LanguageCode   string         `json:"languageCode"`
	Parameters     map[string]any `json:"parameters"`
	Intent         Intent         `json:"intent"`
	OutputContexts []Context      `json:"outputContexts"`
}

type Intent struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

type OriginalDetectIntentRequest struct {
	Source  string  `json:"source"`
	Payload Payload `json:"payload"`
}

type Payload struct {
	Data *PlatformData `json:"data"`
}

// PlatformData is the Telegram update forwarded by the integration. Button presses
// arrive as callback queries with the user nested one level deeper.
type PlatformData struct {
	From          *PlatformUser  `json:"from"`
	CallbackQuery *CallbackQuery `json:"callback_query"`
}

type CallbackQuery struct {
	From *PlatformUser `json:"from"`
}

type PlatformUser struct {
	ID        FlexibleID `json:"id"`
	Username  string     `json:"username"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
}

// FlexibleID accepts an id sent either as a JSON string or a JSON number, keeping the
// digits exactly as sent.
type FlexibleID string

func (f *FlexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexibleID(n.String())
	return nil
}

type WebhookResponse struct {
	FulfillmentText     string      `json:"fulfillmentText,omitempty"`
	FulfillmentMessages []Message   `json:"fulfillmentMessages,omitempty"`
	OutputContexts      []Context   `json:"outputContexts,omitempty"`
	FollowupEventInput  *EventInput `json:"followupEventInput,omitempty"`
}

type Message struct {
	Platform     string        `json:"platform,omitempty"`
	Text         *Text         `json:"text,omitempty"`
	QuickReplies *QuickReplies `json:"quickReplies,omitempty"`
}

type Text struct {
	Text []string `json:"text"`
}

type QuickReplies struct {
	Title        string   `json:"title"`
	QuickReplies []string `json:"quickReplies"`
}

type Context struct {
	Name          string         `json:"name"`
	LifespanCount int            `json:"lifespanCount,omitempty"`
	Parameters    map[string]any `json:"parameters,omitempty"`
}

type EventInput struct {
	Name         string         `json:"name"`
	LanguageCode string         `json:"languageCode"`
	Parameters   map[string]any `json:"parameters,omitempty"`
}

const PlatformTelegram = "TELEGRAM"

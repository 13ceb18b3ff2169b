package dialogflow

import (
	"fmt"
	"strings"

	"tablebot/internal/fulfillment/core"
	apperrors "tablebot/pkg/errors"
	"tablebot/pkg/model"
)

const contextsSegment = "/contexts/"

// Adapter translates between Dialogflow webhook JSON and engine turns and replies.
type Adapter struct {
	intents      *IntentMap
	languageCode string

	byIntent  map[string]core.Step
	byContext map[string][]core.Step
	byAlias   map[string]string
}

func NewAdapter(intents *IntentMap, languageCode string) *Adapter {
	if intents == nil {
		intents = DefaultIntentMap()
	}

	a := &Adapter{
		intents:      intents,
		languageCode: languageCode,
		byIntent:     make(map[string]core.Step),
		byContext:    make(map[string][]core.Step),
		byAlias:      make(map[string]string),
	}
	for _, step := range sortedSteps(intents.Steps) {
		binding := intents.Steps[step]
		for _, intent := range binding.Intents {
			a.byIntent[intent] = step
		}
		if binding.Context != "" {
			name := strings.ToLower(binding.Context)
			a.byContext[name] = append(a.byContext[name], step)
		}
	}
	for param, aliases := range intents.Parameters {
		a.byAlias[param] = param
		for _, alias := range aliases {
			a.byAlias[alias] = param
		}
	}
	return a
}

// DecodeTurn maps a webhook request onto a turn. Unknown intents land on the
// fallback step; a request without a session is rejected.
func (a *Adapter) DecodeTurn(req *WebhookRequest) (core.Turn, error) {
	if req == nil || strings.TrimSpace(req.Session) == "" {
		return core.Turn{}, apperrors.InvalidInput("session is required", nil)
	}

	step, ok := a.byIntent[req.QueryResult.Intent.DisplayName]
	if !ok {
		step = core.StepFallback
	}

	turn := core.Turn{
		Step:     step,
		Session:  req.Session,
		Params:   a.canonical(req.QueryResult.Parameters),
		Contexts: make(map[core.Step]core.Params),
		User:     userFrom(req.OriginalDetectIntentRequest.Payload.Data),
	}

	for _, c := range req.QueryResult.OutputContexts {
		for _, s := range a.byContext[contextName(c.Name)] {
			turn.Contexts[s] = a.canonical(c.Parameters)
		}
	}
	return turn, nil
}

// EncodeReply renders a reply for the session the turn came from.
func (a *Adapter) EncodeReply(session string, reply core.Reply) (*WebhookResponse, error) {
	resp := &WebhookResponse{}

	if len(reply.Messages) == 1 && len(reply.QuickReplies) == 0 && reply.Continuation == nil {
		resp.FulfillmentText = reply.Messages[0]
		return resp, nil
	}

	for _, m := range reply.Messages {
		resp.FulfillmentMessages = append(resp.FulfillmentMessages, Message{Text: &Text{Text: []string{m}}})
	}
	if len(reply.QuickReplies) > 0 {
		title := ""
		if n := len(reply.Messages); n > 0 {
			title = reply.Messages[n-1]
		}
		labels := make([]string, 0, len(reply.QuickReplies))
		for _, label := range reply.QuickReplies {
			labels = append(labels, a.label(label))
		}
		resp.FulfillmentMessages = append(resp.FulfillmentMessages, Message{
			Platform:     PlatformTelegram,
			QuickReplies: &QuickReplies{Title: title, QuickReplies: labels},
		})
	}

	if c := reply.Continuation; c != nil {
		binding, ok := a.intents.Steps[c.Next]
		if !ok {
			return nil, apperrors.Internal(fmt.Sprintf("no intent binding for step %s", c.Next), nil)
		}
		params := a.aliased(c.Params)

		switch c.Trigger {
		case core.TriggerAwaitInput:
			if binding.Context == "" {
				return nil, apperrors.Internal(fmt.Sprintf("step %s has no context to await input in", c.Next), nil)
			}
			resp.OutputContexts = append(resp.OutputContexts, a.context(session, binding.Context, params))
		case core.TriggerFollowupEvent:
			if binding.Event == "" {
				return nil, apperrors.Internal(fmt.Sprintf("step %s has no followup event", c.Next), nil)
			}
			resp.FollowupEventInput = &EventInput{
				Name:         binding.Event,
				LanguageCode: a.languageCode,
				Parameters:   params,
			}
			if binding.Context != "" && len(params) > 0 {
				resp.OutputContexts = append(resp.OutputContexts, a.context(session, binding.Context, params))
			}
		default:
			return nil, apperrors.Internal(fmt.Sprintf("unknown continuation trigger %q", c.Trigger), nil)
		}
	}

	return resp, nil
}

func (a *Adapter) context(session, name string, params map[string]any) Context {
	return Context{
		Name:          session + contextsSegment + name,
		LifespanCount: a.intents.LifespanCount,
		Parameters:    params,
	}
}

func (a *Adapter) label(label string) string {
	if text, ok := a.intents.Labels[label]; ok && text != "" {
		return text
	}
	return label
}

// canonical renames agent parameters to canonical names. Unmapped parameters and
// Dialogflow's ".original" echoes are dropped.
func (a *Adapter) canonical(in map[string]any) core.Params {
	out := core.Params{}
	for key, value := range in {
		if strings.HasSuffix(key, ".original") {
			continue
		}
		if param, ok := a.byAlias[key]; ok {
			out[param] = value
		}
	}
	return out
}

func (a *Adapter) aliased(params core.Params) map[string]any {
	if len(params) == 0 {
		return nil
	}
	out := make(map[string]any, len(params))
	for key, value := range params {
		if aliases := a.intents.Parameters[key]; len(aliases) > 0 {
			out[aliases[0]] = value
		} else {
			out[key] = value
		}
	}
	return out
}

// contextName returns the short, lower-cased name of a fully qualified context.
func contextName(full string) string {
	if i := strings.LastIndex(full, contextsSegment); i >= 0 {
		full = full[i+len(contextsSegment):]
	}
	return strings.ToLower(full)
}

func userFrom(data *PlatformData) model.CustomerProfile {
	if data == nil {
		return model.CustomerProfile{}
	}
	from := data.From
	if from == nil && data.CallbackQuery != nil {
		from = data.CallbackQuery.From
	}
	if from == nil {
		return model.CustomerProfile{}
	}
	return model.CustomerProfile{
		ID:        string(from.ID),
		Username:  from.Username,
		FirstName: from.FirstName,
		LastName:  from.LastName,
	}
}

package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"tablebot/pkg/model"
)

// Canonical parameter names. Platform adapters translate their own names to these.
const (
	ParamLocation  = "location"
	ParamPartySize = "party_size"
	ParamDate      = "date"
	ParamTime      = "time"
	ParamPhone     = "phone"
	ParamEmail     = "email"
)

type Params map[string]any

// String renders a scalar parameter. Whole numbers print without a fraction, so a
// location sent as 1.0 reads "1".
func (p Params) String(key string) string {
	switch v := p[key].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		if v == math.Trunc(v) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// Int reads a whole-number parameter sent either as a number or a numeric string.
func (p Params) Int(key string) (int, bool) {
	switch v := p[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case int64:
		return int(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return int(f), true
	default:
		return 0, false
	}
}

// Has reports whether key carries a non-empty value.
func (p Params) Has(key string) bool {
	return p.String(key) != ""
}

func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Turn is one inbound conversation event after platform decoding.
type Turn struct {
	Step     Step
	Session  string
	Params   Params
	Contexts map[Step]Params
	User     model.CustomerProfile
}

// Lookup returns the first non-empty value for key, looking in the turn's own
// parameters and then in the named contexts in order.
func (t Turn) Lookup(key string, from ...Step) (Params, bool) {
	if t.Params.Has(key) {
		return t.Params, true
	}
	for _, step := range from {
		if ctx, ok := t.Contexts[step]; ok && ctx.Has(key) {
			return ctx, true
		}
	}
	return nil, false
}

// LookupString is Lookup followed by Params.String.
func (t Turn) LookupString(key string, from ...Step) string {
	if p, ok := t.Lookup(key, from...); ok {
		return p.String(key)
	}
	return ""
}

// LookupInt is Lookup followed by Params.Int.
func (t Turn) LookupInt(key string, from ...Step) (int, bool) {
	if p, ok := t.Lookup(key, from...); ok {
		return p.Int(key)
	}
	return 0, false
}

type Trigger string

const (
	// TriggerAwaitInput keeps the parameters for the user's next message.
	TriggerAwaitInput Trigger = "await_input"
	// TriggerFollowupEvent makes the platform jump to the next step right away.
	TriggerFollowupEvent Trigger = "followup_event"
)

type Continuation struct {
	Next    Step
	Trigger Trigger
	Params  Params
}

type Reply struct {
	Messages     []string
	QuickReplies []string
	Continuation *Continuation
}

func (r *Reply) Say(messages ...string) {
	r.Messages = append(r.Messages, messages...)
}

func (r *Reply) Continue(next Step, trigger Trigger, params Params) {
	r.Continuation = &Continuation{Next: next, Trigger: trigger, Params: params}
}

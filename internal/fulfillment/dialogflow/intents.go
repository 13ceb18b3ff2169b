package dialogflow

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"tablebot/internal/fulfillment/core"

	"gopkg.in/yaml.v3"
)

// StepBinding ties a conversation step to the agent's intent, followup event and
// context names.
type StepBinding struct {
	Intents []string `yaml:"intents"`
	Event   string   `yaml:"event,omitempty"`
	Context string   `yaml:"context,omitempty"`
}

// IntentMap holds every agent-specific name the adapter needs. Parameters maps a
// canonical parameter to its aliases in the agent; the first alias is used outbound.
type IntentMap struct {
	Steps         map[core.Step]StepBinding `yaml:"steps"`
	Parameters    map[string][]string       `yaml:"parameters"`
	Labels        map[string]string         `yaml:"labels"`
	LifespanCount int                       `yaml:"lifespan_count"`
}

// DefaultIntentMap matches the Vietnamese reservation agent the service was first
// deployed against.
func DefaultIntentMap() *IntentMap {
	return &IntentMap{
		Steps: map[core.Step]StepBinding{
			core.StepBeginBooking:           {Intents: []string{"DatBan"}},
			core.StepConfirmBooking:         {Intents: []string{"DatBan - yes"}, Context: "confirm_booking"},
			core.StepRetryTime:              {Intents: []string{"NhapLaiThoiGian"}, Event: "NhapLaiThoiGian", Context: "NhapLaiThoiGian"},
			core.StepRetryTimeConflict:      {Intents: []string{"NhapLaiThoiGian2"}, Event: "NhapLaiThoiGian2", Context: "NhapLaiThoiGian"},
			core.StepCustomerInfoQuery:      {Intents: []string{"ThongTinKhachHang"}},
			core.StepCustomerInfoSubmission: {Intents: []string{"NhapThongTinKhachHang"}, Event: "NhapThongTinKhachHang"},
		},
		Parameters: map[string][]string{
			core.ParamLocation:  {"coso"},
			core.ParamPartySize: {"songuoi"},
			core.ParamDate:      {"bookdate"},
			core.ParamTime:      {"booktime"},
			core.ParamPhone:     {"phone"},
			core.ParamEmail:     {"email"},
		},
		Labels: map[string]string{
			"Confirm": "Xác nhận",
			"Cancel":  "Hủy",
		},
		LifespanCount: 5,
	}
}

// LoadIntentMap reads a YAML intent map over the defaults. Steps, parameters and
// labels named in the file replace the default entry; everything else is kept.
func LoadIntentMap(path string) (*IntentMap, error) {
	m := DefaultIntentMap()
	if path == "" {
		return m, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read intent map: %w", err)
	}

	var override IntentMap
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("failed to parse intent map %s: %w", path, err)
	}

	for step, binding := range override.Steps {
		m.Steps[step] = binding
	}
	for param, aliases := range override.Parameters {
		m.Parameters[param] = aliases
	}
	for label, text := range override.Labels {
		m.Labels[label] = text
	}
	if override.LifespanCount != 0 {
		m.LifespanCount = override.LifespanCount
	}

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid intent map %s: %w", path, err)
	}
	return m, nil
}

// Steps that are reached through a followup event or that must carry a context.
var (
	eventSteps   = []core.Step{core.StepRetryTime, core.StepRetryTimeConflict, core.StepCustomerInfoSubmission}
	contextSteps = []core.Step{core.StepConfirmBooking, core.StepRetryTime, core.StepRetryTimeConflict}
)

func (m *IntentMap) Validate() error {
	var errors []string

	seen := map[string]core.Step{}
	for _, step := range sortedSteps(m.Steps) {
		binding := m.Steps[step]
		if !step.Valid() || step == core.StepFallback {
			errors = append(errors, fmt.Sprintf("unknown step %q", step))
			continue
		}
		if len(binding.Intents) == 0 {
			errors = append(errors, fmt.Sprintf("step %s has no intents", step))
		}
		for _, intent := range binding.Intents {
			if other, dup := seen[intent]; dup {
				errors = append(errors, fmt.Sprintf("intent %q is bound to both %s and %s", intent, other, step))
			}
			seen[intent] = step
		}
	}
	for _, step := range eventSteps {
		if m.Steps[step].Event == "" {
			errors = append(errors, fmt.Sprintf("step %s needs a followup event", step))
		}
	}
	for _, step := range contextSteps {
		if m.Steps[step].Context == "" {
			errors = append(errors, fmt.Sprintf("step %s needs a context", step))
		}
	}
	for param, aliases := range m.Parameters {
		if len(aliases) == 0 {
			errors = append(errors, fmt.Sprintf("parameter %s has no aliases", param))
		}
	}
	if m.LifespanCount < 1 {
		errors = append(errors, fmt.Sprintf("lifespan_count must be positive, got: %d", m.LifespanCount))
	}

	if len(errors) > 0 {
		sort.Strings(errors)
		return fmt.Errorf("%s", strings.Join(errors, "; "))
	}
	return nil
}

func sortedSteps(steps map[core.Step]StepBinding) []core.Step {
	out := make([]core.Step, 0, len(steps))
	for step := range steps {
		out = append(out, step)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

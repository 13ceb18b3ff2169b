package core

import (
	"context"
	"fmt"
	"sort"
)

// Stage is one ordered unit of work inside a flow.
type Stage struct {
	Name    string
	Execute func(ctx context.Context, fc *FlowContext) error
}

func NewStage(name string, execute func(ctx context.Context, fc *FlowContext) error) *Stage {
	return &Stage{
		Name:    name,
		Execute: execute,
	}
}

type Flow interface {
	Step() Step
	Stages() []*Stage
}

type flow struct {
	step   Step
	stages []*Stage
}

func NewFlow(step Step, stages ...*Stage) Flow {
	return &flow{step: step, stages: stages}
}

func (f *flow) Step() Step {
	return f.step
}

func (f *flow) Stages() []*Stage {
	return f.stages
}

// FlowContext carries a turn through the stages of a flow. Stages share data through
// Process and build up Reply.
type FlowContext struct {
	Turn    Turn
	Process map[string]any
	Reply   Reply
	halted  bool
}

func NewFlowContext(turn Turn) *FlowContext {
	if turn.Params == nil {
		turn.Params = Params{}
	}
	return &FlowContext{
		Turn:    turn,
		Process: make(map[string]any),
	}
}

// Halt ends the flow after the current stage; the reply built so far is returned.
func (fc *FlowContext) Halt() {
	fc.halted = true
}

type Engine struct {
	flows    map[Step]Flow
	fallback Step
}

// NewEngine registers flows by step. Turns for an unregistered step run the fallback
// flow, which must be among flows.
func NewEngine(fallback Step, flows ...Flow) *Engine {
	m := map[Step]Flow{}
	for _, f := range flows {
		m[f.Step()] = f
	}
	return &Engine{flows: m, fallback: fallback}
}

func (e *Engine) Run(ctx context.Context, turn Turn) (Reply, error) {
	f, exists := e.flows[turn.Step]
	if !exists {
		f, exists = e.flows[e.fallback]
		if !exists {
			return Reply{}, fmt.Errorf("unsupported step %q and no fallback flow", turn.Step)
		}
	}

	fc := NewFlowContext(turn)
	for _, stage := range f.Stages() {
		if err := ctx.Err(); err != nil {
			return Reply{}, err
		}
		if err := stage.Execute(ctx, fc); err != nil {
			return Reply{}, fmt.Errorf("%s stage of %s failed: %w", stage.Name, f.Step(), err)
		}
		if fc.halted {
			break
		}
	}
	return fc.Reply, nil
}

// Steps lists the registered steps in a stable order.
func (e *Engine) Steps() []Step {
	steps := make([]Step, 0, len(e.flows))
	for step := range e.flows {
		steps = append(steps, step)
	}
	sort.Slice(steps, func(i, j int) bool { return steps[i] < steps[j] })
	return steps
}

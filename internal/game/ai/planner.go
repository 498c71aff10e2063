package ai

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// ScriptCaller is the interface required by the Planner to evaluate Lua preconditions.
type ScriptCaller interface {
	// CallHook calls a named Lua function in the given scope's VM.
	// Returns (LNil, nil) if the function is not defined.
	CallHook(scope, hook string, args ...lua.LValue) (lua.LValue, error)
}

// PlannedAction is one primitive action produced by the planner.
type PlannedAction struct {
	Action Action
	Target string // resolved target id; empty when the action needs none
}

// Planner evaluates an HTN domain for a single creature and produces an
// ordered action plan for the current round.
//
// Invariant: domain and caller must not be nil.
type Planner struct {
	domain *Domain
	caller ScriptCaller
	scope  string
}

// NewPlanner constructs a Planner whose preconditions run in scope.
//
// Precondition: domain and caller must not be nil.
func NewPlanner(domain *Domain, caller ScriptCaller, scope string) *Planner {
	if domain == nil {
		panic("ai.NewPlanner: domain must not be nil")
	}
	if caller == nil {
		panic("ai.NewPlanner: caller must not be nil")
	}
	return &Planner{domain: domain, caller: caller, scope: scope}
}

// Domain returns the planner's domain.
func (p *Planner) Domain() *Domain { return p.domain }

// RootTask is the task every plan starts from.
const RootTask = "behave"

// Next returns the first planned action, or false when the plan is empty.
func (p *Planner) Next(state *WorldState) (PlannedAction, bool) {
	plan, err := p.Plan(state)
	if err != nil || len(plan) == 0 {
		return PlannedAction{}, false
	}
	return plan[0], true
}

// Plan evaluates the HTN domain against state and returns an ordered plan.
//
// Precondition: state and state.Creature must not be nil.
// Postcondition: returns non-nil slice (may be empty); never returns error for Lua failures
// (they are treated as precondition-false).
func (p *Planner) Plan(state *WorldState) ([]PlannedAction, error) {
	if state == nil || state.Creature == nil {
		return nil, fmt.Errorf("ai.Planner.Plan: state and state.Creature must not be nil")
	}

	taskQueue := []string{RootTask}
	var result []PlannedAction

	const maxDepth = 32
	steps := 0

	for len(taskQueue) > 0 && steps < maxDepth {
		steps++
		current := taskQueue[0]
		taskQueue = taskQueue[1:]

		if op, ok := p.domain.OperatorByID(current); ok {
			target := state.ResolveTarget(op.Target)
			result = append(result, PlannedAction{Action: op.Action, Target: target})
			continue
		}

		method := p.findApplicableMethod(current, state)
		if method == nil {
			continue
		}

		taskQueue = append(append([]string(nil), method.Subtasks...), taskQueue...)
	}

	if result == nil {
		result = []PlannedAction{}
	}
	return result, nil
}

// findApplicableMethod returns the first Method for taskID whose precondition passes,
// or nil if none applies.
//
// Methods are tried in declaration order. An empty Precondition always passes.
func (p *Planner) findApplicableMethod(taskID string, state *WorldState) *Method {
	for _, m := range p.domain.MethodsForTask(taskID) {
		if m.Precondition == "" {
			return m
		}
		val, _ := p.caller.CallHook(p.scope, m.Precondition, lua.LString(state.Creature.ID))
		if val == lua.LTrue {
			return m
		}
	}
	return nil
}

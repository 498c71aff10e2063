package ai_test

import (
	"testing"

	lua "github.com/yuin/gopher-lua"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/game/ai"
	"github.com/cory-johannsen/skirmish/internal/game/grid"
)

// mockScriptCaller always returns the given value for any hook call.
type mockScriptCaller struct {
	returnVal lua.LValue
	calls     []string
}

func (m *mockScriptCaller) CallHook(scope, hook string, args ...lua.LValue) (lua.LValue, error) {
	m.calls = append(m.calls, scope+":"+hook)
	if m.returnVal == nil {
		return lua.LNil, nil
	}
	return m.returnVal, nil
}

func skirmisherDomain() *ai.Domain {
	return &ai.Domain{
		ID: "skirmisher",
		Tasks: []*ai.Task{
			{ID: "behave"},
			{ID: "fight"},
		},
		Methods: []*ai.Method{
			{TaskID: "behave", ID: "retreat", Precondition: "is_wounded", Subtasks: []string{"run"}},
			{TaskID: "behave", ID: "engage", Subtasks: []string{"fight"}},
			{TaskID: "fight", ID: "strike_weakest", Subtasks: []string{"strike"}},
		},
		Operators: []*ai.Operator{
			{ID: "strike", Action: ai.ActionAttack, Target: ai.TargetWeakest},
			{ID: "run", Action: ai.ActionFlee, Target: ai.TargetSelf},
		},
	}
}

func sampleState() *ai.WorldState {
	return &ai.WorldState{
		Creature: &ai.CreatureState{ID: "c1", Name: "Orc", At: grid.Coords{X: 5, Y: 5}, HP: 10, MaxHP: 10},
		Targets: []*ai.TargetState{
			{ID: "p1", Name: "Iolo", At: grid.Coords{X: 5, Y: 6}, HP: 30, MaxHP: 30},
			{ID: "p2", Name: "Shamino", At: grid.Coords{X: 1, Y: 1}, HP: 5, MaxHP: 30},
		},
	}
}

func TestPlanner_Plan_FleesWhenPreconditionTrue(t *testing.T) {
	caller := &mockScriptCaller{returnVal: lua.LTrue}
	planner := ai.NewPlanner(skirmisherDomain(), caller, "orc")

	actions, err := planner.Plan(sampleState())
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(actions) != 1 || actions[0].Action != ai.ActionFlee || actions[0].Target != "c1" {
		t.Fatalf("expected flee on self, got %v", actions)
	}
	if len(caller.calls) != 1 || caller.calls[0] != "orc:is_wounded" {
		t.Fatalf("unexpected hook calls %v", caller.calls)
	}
}

func TestPlanner_Plan_AttacksWeakestOtherwise(t *testing.T) {
	planner := ai.NewPlanner(skirmisherDomain(), &mockScriptCaller{returnVal: lua.LFalse}, "orc")

	action, ok := planner.Next(sampleState())
	if !ok {
		t.Fatal("expected a planned action")
	}
	if action.Action != ai.ActionAttack || action.Target != "p2" {
		t.Fatalf("expected attack on p2, got %+v", action)
	}
}

func TestPlanner_Plan_EmptyDomainYieldsNothing(t *testing.T) {
	domain := &ai.Domain{ID: "empty", Tasks: []*ai.Task{{ID: "behave"}}}
	planner := ai.NewPlanner(domain, &mockScriptCaller{}, "orc")
	if _, ok := planner.Next(sampleState()); ok {
		t.Fatal("expected no action from an empty domain")
	}
}

func TestPlanner_Plan_RejectsNilState(t *testing.T) {
	planner := ai.NewPlanner(skirmisherDomain(), &mockScriptCaller{}, "orc")
	if _, err := planner.Plan(&ai.WorldState{}); err == nil {
		t.Fatal("expected error for missing creature")
	}
}

func TestPlanner_Plan_DoesNotMutateDomain(t *testing.T) {
	domain := skirmisherDomain()
	planner := ai.NewPlanner(domain, &mockScriptCaller{returnVal: lua.LFalse}, "orc")
	for range 3 {
		if _, err := planner.Plan(sampleState()); err != nil {
			t.Fatal(err)
		}
	}
	if got := domain.Methods[1].Subtasks; len(got) != 1 || got[0] != "fight" {
		t.Fatalf("method subtasks changed: %v", got)
	}
}

func TestProperty_Planner_NeverReturnsNilSlice(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		var lv lua.LValue = lua.LFalse
		if rapid.Bool().Draw(rt, "precond") {
			lv = lua.LTrue
		}
		planner := ai.NewPlanner(skirmisherDomain(), &mockScriptCaller{returnVal: lv}, "orc")
		actions, err := planner.Plan(sampleState())
		if err != nil {
			rt.Fatalf("unexpected error: %v", err)
		}
		if actions == nil {
			rt.Fatal("Plan must return non-nil slice")
		}
	})
}

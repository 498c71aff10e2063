// Package ai implements the Hierarchical Task Network (HTN) planner that
// creature templates may name to override their default combat decision.
//
// A domain decomposes the root task "behave" through ordered methods whose
// preconditions are Lua hooks. Decomposition ends at operators, each of which
// names one creature action and who it is aimed at.
package ai

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Action is a primitive creature action.
type Action string

const (
	ActionAttack    Action = "attack"
	ActionRanged    Action = "ranged"
	ActionCastSleep Action = "cast_sleep"
	ActionAdvance   Action = "advance"
	ActionFlee      Action = "flee"
	ActionPass      Action = "pass"
)

// Known reports whether a is one of the defined actions.
func (a Action) Known() bool {
	switch a {
	case ActionAttack, ActionRanged, ActionCastSleep, ActionAdvance, ActionFlee, ActionPass:
		return true
	}
	return false
}

// aimed reports whether a is directed at a party member.
func (a Action) aimed() bool {
	return a == ActionAttack || a == ActionRanged || a == ActionAdvance
}

// Target selects who an operator is aimed at. Tokens other than the named
// selectors are taken as a literal combatant id.
type Target string

const (
	TargetNone    Target = ""
	TargetNearest Target = "nearest_enemy"
	TargetWeakest Target = "weakest_enemy"
	TargetSelf    Target = "self"
)

// Task is an abstract goal decomposed by methods.
type Task struct {
	ID          string `yaml:"id"`
	Description string `yaml:"description"`
}

// Method decomposes a task into subtasks or operator ids when its Lua
// precondition holds. An empty Precondition always holds.
type Method struct {
	TaskID       string   `yaml:"task"`
	ID           string   `yaml:"id"`
	Precondition string   `yaml:"precondition"`
	Subtasks     []string `yaml:"subtasks"`
}

// Operator binds a primitive action to its target selector.
type Operator struct {
	ID     string `yaml:"id"`
	Action Action `yaml:"action"`
	Target Target `yaml:"target"`
}

// Domain is one named behaviour loaded from YAML.
//
// Invariant: after Validate, ids are unique per kind, the root task exists,
// and every subtask resolves to a task or an operator.
type Domain struct {
	ID          string      `yaml:"id"`
	Description string      `yaml:"description"`
	Tasks       []*Task     `yaml:"tasks"`
	Methods     []*Method   `yaml:"methods"`
	Operators   []*Operator `yaml:"operators"`
}

// Validate reports every structural problem in d, joined into one error.
//
// Postcondition: nil means d can be planned from RootTask.
func (d *Domain) Validate() error {
	if d.ID == "" {
		return errors.New("ai: domain id must not be empty")
	}
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("ai: domain %q: "+format, append([]any{d.ID}, args...)...))
	}

	tasks := make(map[string]bool, len(d.Tasks))
	for _, t := range d.Tasks {
		switch {
		case t.ID == "":
			fail("task with empty id")
		case tasks[t.ID]:
			fail("duplicate task %q", t.ID)
		}
		tasks[t.ID] = true
	}
	if !tasks[RootTask] {
		fail("root task %q is not declared", RootTask)
	}

	ops := make(map[string]bool, len(d.Operators))
	for _, op := range d.Operators {
		switch {
		case op.ID == "":
			fail("operator with empty id")
		case ops[op.ID]:
			fail("duplicate operator %q", op.ID)
		case tasks[op.ID]:
			fail("operator %q shadows a task", op.ID)
		case !op.Action.Known():
			fail("operator %q: unknown action %q", op.ID, op.Action)
		case op.Action.aimed() && op.Target == TargetSelf:
			fail("operator %q: %s cannot target self", op.ID, op.Action)
		}
		ops[op.ID] = true
	}

	methods := make(map[string]bool, len(d.Methods))
	for _, m := range d.Methods {
		if m.ID == "" {
			fail("method with empty id")
			continue
		}
		if methods[m.ID] {
			fail("duplicate method %q", m.ID)
		}
		methods[m.ID] = true
		if !tasks[m.TaskID] {
			fail("method %q decomposes unknown task %q", m.ID, m.TaskID)
		}
		if len(m.Subtasks) == 0 {
			fail("method %q has no subtasks", m.ID)
		}
		for _, sub := range m.Subtasks {
			if !tasks[sub] && !ops[sub] {
				fail("method %q: subtask %q is neither a task nor an operator", m.ID, sub)
			}
		}
	}
	return errors.Join(errs...)
}

// OperatorByID returns the operator with the given ID, or false if not found.
func (d *Domain) OperatorByID(id string) (*Operator, bool) {
	for _, op := range d.Operators {
		if op.ID == id {
			return op, true
		}
	}
	return nil, false
}

// MethodsForTask returns the methods decomposing taskID in declaration order.
func (d *Domain) MethodsForTask(taskID string) []*Method {
	var out []*Method
	for _, m := range d.Methods {
		if m.TaskID == taskID {
			out = append(out, m)
		}
	}
	return out
}

// LoadDomainFromBytes parses and validates one document of the form
// "domain: {...}".
func LoadDomainFromBytes(data []byte) (*Domain, error) {
	var doc struct {
		Domain *Domain `yaml:"domain"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("ai: parsing domain: %w", err)
	}
	if doc.Domain == nil {
		return nil, errors.New("ai: missing top-level 'domain' key")
	}
	if err := doc.Domain.Validate(); err != nil {
		return nil, err
	}
	return doc.Domain, nil
}

// LoadDomains parses every .yaml or .yml file in dir, in name order.
//
// Precondition: dir must be a readable directory.
// Postcondition: an empty directory yields (nil, nil).
func LoadDomains(dir string) ([]*Domain, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("ai: reading %q: %w", dir, err)
	}
	var domains []*Domain
	for _, e := range entries {
		ext := filepath.Ext(e.Name())
		if e.IsDir() || !strings.EqualFold(ext, ".yaml") && !strings.EqualFold(ext, ".yml") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("ai: reading %s: %w", e.Name(), err)
		}
		d, err := LoadDomainFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("ai: %s: %w", e.Name(), err)
		}
		domains = append(domains, d)
	}
	return domains, nil
}

package ai

import "github.com/cory-johannsen/skirmish/internal/game/grid"

// TargetState captures a party member's combat-relevant state at planning time.
type TargetState struct {
	ID       string
	Name     string
	At       grid.Coords
	HP       int
	MaxHP    int
	Disabled bool
	Dead     bool
}

// HPPercent returns current HP as a percentage of MaxHP; 0 if MaxHP == 0.
func (t *TargetState) HPPercent() float64 {
	if t.MaxHP <= 0 {
		return 0
	}
	return float64(t.HP) / float64(t.MaxHP) * 100
}

// CreatureState captures the planning creature's own state.
type CreatureState struct {
	ID         string
	Name       string
	At         grid.Coords
	HP         int
	MaxHP      int
	Ranged     bool
	CastsSleep bool
}

// WorldState is the snapshot passed to the HTN planner for one creature.
//
// Invariant: Creature must not be nil.
type WorldState struct {
	Creature *CreatureState
	Targets  []*TargetState
}

// Living returns the targets that have not died, in Targets order.
func (ws *WorldState) Living() []*TargetState {
	var out []*TargetState
	for _, t := range ws.Targets {
		if !t.Dead {
			out = append(out, t)
		}
	}
	return out
}

// NearestTarget returns the living target closest to the creature by squared
// distance, or nil. Ties go to the earlier target.
func (ws *WorldState) NearestTarget() *TargetState {
	var best *TargetState
	bestDist := 0
	for _, t := range ws.Living() {
		d := ws.Creature.At.DistanceSquared(t.At)
		if best == nil || d < bestDist {
			best, bestDist = t, d
		}
	}
	return best
}

// WeakestTarget returns the living target with the lowest HP percentage, or nil.
//
// Postcondition: ties are broken by order in Targets.
func (ws *WorldState) WeakestTarget() *TargetState {
	var weakest *TargetState
	for _, t := range ws.Living() {
		if weakest == nil || t.HPPercent() < weakest.HPPercent() {
			weakest = t
		}
	}
	return weakest
}

// ResolveTarget maps a target selector to a combatant id.
//
// Postcondition: the named selectors resolve to an id or ""; any other token
// is returned as-is.
func (ws *WorldState) ResolveTarget(token Target) string {
	switch token {
	case TargetNearest:
		if t := ws.NearestTarget(); t != nil {
			return t.ID
		}
		return ""
	case TargetWeakest:
		if t := ws.WeakestTarget(); t != nil {
			return t.ID
		}
		return ""
	case TargetSelf:
		return ws.Creature.ID
	default:
		return string(token)
	}
}

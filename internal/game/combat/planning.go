package combat

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/ai"
	"github.com/cory-johannsen/skirmish/internal/scripting"
)

// plannedAction asks the planner bound to c's AI domain for an action. An
// infeasible plan, such as a melee attack on a distant target, is rejected
// and the built-in behaviour applies.
func (s *Session) plannedAction(c, nearest *Combatant) (ai.Action, *Combatant, bool) {
	domain := c.Creature.Template.AIDomain
	if s.ctx.Planners == nil || domain == "" {
		return "", nil, false
	}
	planner, ok := s.ctx.Planners.PlannerFor(domain)
	if !ok {
		return "", nil, false
	}
	next, ok := planner.Next(s.worldState(c))
	if !ok {
		return "", nil, false
	}
	target := nearest
	if next.Target != "" {
		if t := s.partyByID(next.Target); t != nil {
			target = t
		}
	}
	switch next.Action {
	case ai.ActionAttack:
		if !c.Pos.Adjacent(target.Pos) {
			return ai.ActionAdvance, target, true
		}
	case ai.ActionRanged:
		if _, _, aligned := c.Pos.MaskTowards(target.Pos); !aligned {
			return ai.ActionAdvance, target, true
		}
	}
	s.logger.Debug("planner action", zap.String("domain", domain), zap.String("action", string(next.Action)))
	return next.Action, target, true
}

// worldState snapshots the arena from c's point of view.
func (s *Session) worldState(c *Combatant) *ai.WorldState {
	tmpl := c.Creature.Template
	ws := &ai.WorldState{
		Creature: &ai.CreatureState{
			ID:         c.ID,
			Name:       c.Name(),
			At:         c.Pos,
			HP:         c.HP(),
			MaxHP:      c.MaxHP(),
			Ranged:     tmpl.Ranged,
			CastsSleep: tmpl.CastsSleep,
		},
	}
	for _, m := range s.m.PartyMembers() {
		ws.Targets = append(ws.Targets, &ai.TargetState{
			ID:       m.ID,
			Name:     m.Name(),
			At:       m.Pos,
			HP:       m.HP(),
			MaxHP:    m.MaxHP(),
			Disabled: m.Disabled(),
			Dead:     !m.Alive(),
		})
	}
	return ws
}

func (s *Session) partyByID(id string) *Combatant {
	for _, m := range s.m.PartyMembers() {
		if m.ID == id {
			return m
		}
	}
	return nil
}

func (s *Session) combatantByID(id string) *Combatant {
	for _, c := range s.m.combatants {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func combatantInfo(c *Combatant) *scripting.CombatantInfo {
	return &scripting.CombatantInfo{
		ID:     c.ID,
		Name:   c.Name(),
		Kind:   c.Kind.String(),
		HP:     c.HP(),
		MaxHP:  c.MaxHP(),
		Status: c.Status().String(),
		X:      c.Pos.X,
		Y:      c.Pos.Y,
	}
}

// installScriptHooks points the Lua engine table at this session.
func (s *Session) installScriptHooks() {
	mgr := s.ctx.Scripts
	if mgr == nil {
		return
	}
	mgr.GetCombatant = func(id string) *scripting.CombatantInfo {
		if c := s.combatantByID(id); c != nil {
			return combatantInfo(c)
		}
		return nil
	}
	mgr.NearestEnemy = func(id string) (*scripting.CombatantInfo, int) {
		c := s.combatantByID(id)
		if c == nil {
			return nil, 0
		}
		var best *Combatant
		bestDist := 0
		for _, o := range s.m.combatants {
			if o.Kind == c.Kind || !o.Alive() {
				continue
			}
			if d := c.Pos.DistanceSquared(o.Pos); best == nil || d < bestDist {
				best, bestDist = o, d
			}
		}
		if best == nil {
			return nil, 0
		}
		return combatantInfo(best), bestDist
	}
}

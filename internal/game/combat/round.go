package combat

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/ai"
	"github.com/cory-johannsen/skirmish/internal/game/condition"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/grid"
)

// creatureRound gives every creature on the arena one action. Creatures
// killed or fled during the pass leave the arena once it completes.
func (s *Session) creatureRound() {
	s.inCreaturePass = true
	for _, c := range s.m.Creatures() {
		if s.IsLost() {
			break
		}
		if !c.Alive() || slices.Contains(s.pending, c) {
			continue
		}
		s.creatureTurn(c)
	}
	s.inCreaturePass = false
	for _, c := range s.pending {
		s.m.Remove(c)
	}
	s.pending = nil
}

func (s *Session) creatureTurn(c *Combatant) {
	if c.Status() == condition.Asleep {
		if !dice.OneIn(s.ctx.Dice, 8) {
			return
		}
		c.WakeUp()
	}
	target := s.nearestMember(c)
	if target == nil {
		return
	}
	action, target := s.chooseAction(c, target)
	s.logger.Debug("creature action",
		zap.String("creature", c.Name()),
		zap.String("action", string(action)),
		zap.String("target", target.Name()),
	)
	switch action {
	case ai.ActionCastSleep:
		s.castSleep()
	case ai.ActionRanged:
		if mask, _, ok := c.Pos.MaskTowards(target.Pos); ok {
			s.creatureRangedAttack(c, mask)
		}
	case ai.ActionFlee:
		s.flee(c, target)
	case ai.ActionAttack:
		s.creatureMeleeAttack(c, target)
	case ai.ActionAdvance:
		s.advance(c, target)
	}
}

// nearestMember returns the closest party member by squared distance. Equal
// distances are settled by a coin flip.
func (s *Session) nearestMember(c *Combatant) *Combatant {
	var best *Combatant
	bestDist := 0
	for _, m := range s.m.PartyMembers() {
		d := c.Pos.DistanceSquared(m.Pos)
		switch {
		case best == nil || d < bestDist:
			best, bestDist = m, d
		case d == bestDist && dice.CoinFlip(s.ctx.Dice):
			best = m
		}
	}
	return best
}

// chooseAction picks the creature's action for this round. A planner bound
// to the template's AI domain overrides the built-in behaviour when its plan
// is feasible.
func (s *Session) chooseAction(c *Combatant, nearest *Combatant) (ai.Action, *Combatant) {
	if action, target, ok := s.plannedAction(c, nearest); ok {
		return action, target
	}
	tmpl := c.Creature.Template
	if tmpl.CastsSleep && dice.OneIn(s.ctx.Dice, 4) {
		return ai.ActionCastSleep, nearest
	}
	if tmpl.Ranged && dice.OneIn(s.ctx.Dice, 4) {
		if _, _, ok := c.Pos.MaskTowards(nearest.Pos); ok {
			return ai.ActionRanged, nearest
		}
	}
	if c.Creature.ShouldFlee() {
		return ai.ActionFlee, nearest
	}
	if c.Pos.Adjacent(nearest.Pos) {
		return ai.ActionAttack, nearest
	}
	if tmpl.Stationary {
		return ai.ActionPass, nearest
	}
	return ai.ActionAdvance, nearest
}

func (s *Session) castSleep() {
	s.ctx.Renderer.ShowMessage("Sleep!")
	s.ctx.Audio.PlaySound(SoundSleep)
	for _, m := range s.m.PartyMembers() {
		if dice.CoinFlip(s.ctx.Dice) {
			m.PutToSleep()
		}
	}
}

// flee moves c away from threat, leaving the arena when it reaches an edge.
// A creature with nowhere to run fights if it can.
func (s *Session) flee(c, threat *Combatant) {
	bestDir := grid.None
	bestDist := c.Pos.DistanceSquared(threat.Pos)
	for _, d := range grid.Cardinals {
		next := c.Pos.Step(d)
		if !s.m.Grid.InBounds(next) {
			s.ctx.Renderer.ShowMessage(fmt.Sprintf("%s Flees!", c.Name()))
			c.Creature.SetStatus(condition.Fled)
			s.removeCreature(c)
			return
		}
		if !s.m.CreatureCanEnter(next) {
			continue
		}
		if d2 := next.DistanceSquared(threat.Pos); d2 > bestDist {
			bestDir, bestDist = d, d2
		}
	}
	if bestDir != grid.None {
		s.moveCreature(c, bestDir)
		return
	}
	if c.Pos.Adjacent(threat.Pos) {
		s.creatureMeleeAttack(c, threat)
	}
}

// advance steps c one cell along a shortest route towards target, falling
// back to any enterable cell that closes the distance.
func (s *Session) advance(c, target *Combatant) {
	if c.Creature.Template.Stationary {
		return
	}
	if d, ok := s.m.Grid.FirstStep(c.Pos, target.Pos, s.m.CreatureCanEnter); ok && s.m.CreatureCanEnter(c.Pos.Step(d)) {
		s.moveCreature(c, d)
		return
	}
	cur := c.Pos.DistanceSquared(target.Pos)
	for _, d := range grid.Cardinals {
		next := c.Pos.Step(d)
		if s.m.CreatureCanEnter(next) && next.DistanceSquared(target.Pos) < cur {
			s.moveCreature(c, d)
			return
		}
	}
}

func (s *Session) moveCreature(c *Combatant, d grid.Direction) {
	c.Pos = c.Pos.Step(d)
	c.Facing = d
}

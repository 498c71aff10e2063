package combat

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/condition"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/grid"
	"github.com/cory-johannsen/skirmish/internal/game/tile"
)

// Hit thresholds.
const (
	// sureHitDex is the dexterity at which a party member never misses.
	sureHitDex = 40
	// creatureHitBase is added to a creature's offense before armour.
	creatureHitBase = 128
	// creatureRangedReach is how far a creature's ranged attack travels.
	creatureRangedReach = 11
)

// tile resolves a tile by name, falling back when the name is unknown.
func (s *Session) tile(name, fallback string) *tile.Tile {
	if t, ok := s.ctx.Tiles.Get(name); ok {
		return t
	}
	return s.ctx.Tiles.MustGet(fallback)
}

// flash overlays name on c for frames frames and then clears it.
func (s *Session) flash(c grid.Coords, t *tile.Tile, frames int) {
	ann := s.m.Annotations.Add(c, t, grid.Permanent, true)
	s.ctx.Renderer.Render()
	s.pace.Flash(frames)
	s.m.Annotations.Remove(ann)
}

// travel overlays t on c for the duration of one projectile step.
func (s *Session) travel(c grid.Coords, t *tile.Tile) {
	ann := s.m.Annotations.Add(c, t, grid.Permanent, true)
	s.ctx.Renderer.Render()
	s.pace.Travel()
	s.m.Annotations.Remove(ann)
}

// partyHits rolls whether attacker connects with target.
func (s *Session) partyHits(attacker, target *Combatant) bool {
	w := attacker.Member.Weapon()
	if s.m.NoMagic() && !w.Magic {
		return false
	}
	if w.AlwaysHits || attacker.Member.Dex >= sureHitDex {
		return true
	}
	return s.ctx.Dice.Intn(256)+attacker.Member.Dex >= target.Creature.Template.Defense
}

// PartyAttack resolves attacker's weapon along dir. distance selects the
// target range of choose-distance weapons and is ignored otherwise.
//
// Precondition: attacker is a party member on the arena; dir is a cardinal.
// Postcondition: at most one creature is struck; killed creatures leave the arena.
func (s *Session) PartyAttack(attacker *Combatant, dir grid.Direction, distance int) {
	w := attacker.Member.Weapon()
	maxRange := max(w.Range, 1)
	absolute := w.AbsoluteRange
	if w.ChooseDistance && distance > 0 {
		maxRange = min(distance, maxRange)
		absolute = true
	}
	passable := s.m.CanAttackOver
	if w.AttackThroughObjects {
		passable = nil
	}
	path := s.m.Grid.TracePath(attacker.Pos, dir.Mask(), 1, maxRange, passable)
	hitTile := s.tile(w.HitTile, tile.HitFlash)
	missTile := s.tile(w.MissTile, tile.MissFlash)

	found := false
	var targetAt grid.Coords
	for i, c := range path {
		dist := i + 1
		targetAt = c
		target := s.m.CreatureAt(c)
		if target == nil || (absolute && dist != maxRange) {
			if w.ShowTravel {
				s.travel(c, missTile)
			}
			continue
		}
		found = true
		s.resolvePartyHit(attacker, target, hitTile, missTile)
		break
	}

	if len(path) == 0 {
		targetAt = attacker.Pos.Step(dir)
	}
	dist := attacker.Pos.Chebyshev(targetAt)
	if w.LoseWhenUsed || (w.LoseWhenRanged && (!found || dist > 1)) {
		if !s.ctx.Party.LoseWeapon(attacker.Slot) {
			s.ctx.Renderer.ShowMessage("Last One!")
		}
	}
	if w.LeavesTile != "" && len(path) > 0 {
		s.leaveTile(targetAt, w.LeavesTile, w.LeavesTileTTL)
	}
	if !found {
		if len(path) > 0 {
			s.flash(targetAt, missTile, 1)
		}
		s.ctx.Renderer.ShowMessage("Missed!")
	}
	if w.Returns {
		for i := len(path) - 1; i >= 0; i-- {
			s.travel(path[i], missTile)
		}
	}
}

func (s *Session) resolvePartyHit(attacker, target *Combatant, hitTile, missTile *tile.Tile) {
	if !s.partyHits(attacker, target) {
		s.ctx.Renderer.ShowMessage("Missed!")
		s.flash(target.Pos, missTile, 1)
		return
	}
	s.flash(target.Pos, missTile, 1)
	s.ctx.Audio.PlaySound(SoundNPCStruck)
	s.flash(target.Pos, hitTile, 3)

	roll := s.ctx.Dice.Roll(attacker.Member.Weapon().DamageExpr()).Total()
	damage := attacker.Member.AttackDamage(roll)
	s.logger.Debug("party hit",
		zap.String("attacker", attacker.Name()),
		zap.String("target", target.Name()),
		zap.Int("damage", damage),
	)
	if !target.ApplyDamage(damage) {
		s.ctx.Renderer.ShowMessage(fmt.Sprintf("%s Killed!", target.Name()))
		attacker.Member.AwardXP(target.Creature.Template.XP)
		s.removeCreature(target)
	}
}

// leaveTile drops a ground hazard where an attack ended. The ground must be
// walkable and, in a dungeon, dungeon floor.
func (s *Session) leaveTile(at grid.Coords, name string, ttl int) {
	t, ok := s.ctx.Tiles.Get(name)
	if !ok {
		s.logger.Warn("unknown leave tile", zap.String("tile", name))
		return
	}
	ground := s.m.Ground(at)
	if ground == nil || !ground.Walkable || (s.inDungeon && !ground.DungeonFloor) {
		return
	}
	if ttl <= 0 {
		ttl = grid.Permanent
	}
	s.m.Annotations.Add(at, t, ttl, false)
}

// creatureRangedAttack fires attacker's projectile along mask. The first
// party member on the path suffers the hit tile's effect.
func (s *Session) creatureRangedAttack(attacker *Combatant, mask grid.Mask) {
	tmpl := attacker.Creature.Template
	hitName := tmpl.HitTile
	if tmpl.RandomRanged && len(tmpl.RangedTiles) > 0 {
		hitName = tmpl.RangedTiles[s.ctx.Dice.Intn(len(tmpl.RangedTiles))]
	}
	hitTile := s.tile(hitName, tile.HitFlash)
	missTile := s.tile(tmpl.MissTile, tile.MissFlash)

	passable := s.m.CanAttackOver
	if tmpl.AttackThroughObjects {
		passable = nil
	}
	path := s.m.Grid.TracePath(attacker.Pos, mask, 1, creatureRangedReach, passable)
	var last grid.Coords
	for _, c := range path {
		last = c
		target := s.m.PartyMemberAt(c)
		if target == nil {
			s.flash(c, missTile, 1)
			continue
		}
		s.flash(c, missTile, 1)
		s.flash(c, hitTile, 3)
		s.applyRangedEffect(target, hitTile)
		break
	}
	if tmpl.LeavesTile && len(path) > 0 {
		if ground := s.m.Ground(last); ground != nil && ground.Walkable {
			s.m.Annotations.Add(last, hitTile, grid.Permanent, false)
		}
	}
}

func (s *Session) applyRangedEffect(target *Combatant, hit *tile.Tile) {
	name := target.Name()
	r := s.ctx.Renderer
	switch hit.Effect {
	case tile.EffectElectricity:
		r.ShowMessage(fmt.Sprintf("%s Electrified!", name))
		s.damageMember(target, s.ctx.Dice.Intn(creatureHitBase))
	case tile.EffectPoison, tile.EffectPoisonField:
		if dice.CoinFlip(s.ctx.Dice) && target.Status() != condition.Poisoned && target.Member.Poison() {
			s.ctx.Audio.PlaySound(SoundPoison)
			r.ShowMessage(fmt.Sprintf("%s Poisoned!", name))
		} else {
			r.ShowMessage(fmt.Sprintf("%s Failed.", name))
		}
	case tile.EffectSleep:
		if dice.CoinFlip(s.ctx.Dice) {
			s.ctx.Audio.PlaySound(SoundSleep)
			r.ShowMessage(fmt.Sprintf("%s Slept!", name))
			target.PutToSleep()
		} else {
			r.ShowMessage(fmt.Sprintf("%s Failed.", name))
		}
	case tile.EffectLava:
		r.ShowMessage("Lava Hit!")
		s.damageMember(target, s.ctx.Dice.Intn(creatureHitBase))
	case tile.EffectFire:
		r.ShowMessage("Fiery Hit!")
		s.damageMember(target, s.ctx.Dice.Intn(creatureHitBase))
	default:
		if hit.Name == tile.MagicFlash {
			r.ShowMessage("Magical Hit!")
		} else {
			r.ShowMessage(fmt.Sprintf("%s Hit!", name))
		}
		s.damageMember(target, s.ctx.Dice.Intn(creatureHitBase))
	}
}

// creatureMeleeAttack swings attacker at the adjacent party member target.
func (s *Session) creatureMeleeAttack(attacker, target *Combatant) {
	s.ctx.Audio.PlaySound(SoundNPCAttack)
	tmpl := attacker.Creature.Template
	if s.ctx.Dice.Intn(256) >= creatureHitBase+tmpl.Offense-target.Member.Defense() {
		s.flash(target.Pos, s.tile(tmpl.MissTile, tile.MissFlash), 1)
		return
	}
	s.ctx.Audio.PlaySound(SoundPCStruck)
	s.flash(target.Pos, s.tile(tmpl.HitTile, tile.HitFlash), 4)
	s.damageMember(target, s.ctx.Dice.Roll(tmpl.DamageExpr()).Total())
}

// damageMember deals n to a party combatant and takes the dead off the arena.
func (s *Session) damageMember(target *Combatant, n int) {
	if target.ApplyDamage(n) {
		return
	}
	s.ctx.Renderer.ShowMessage(fmt.Sprintf("%s Killed!", target.Name()))
	s.logger.Info("party member killed", zap.String("member", target.Name()))
	s.m.Remove(target)
	s.party[target.Slot] = nil
}

// removeCreature takes c off the arena, deferring the removal while the
// creature pass is iterating.
func (s *Session) removeCreature(c *Combatant) {
	if s.inCreaturePass {
		s.pending = append(s.pending, c)
		return
	}
	s.m.Remove(c)
}

// applyPartyTileEffect lets the ground under a party member act on it.
func (s *Session) applyPartyTileEffect(c *Combatant) {
	switch s.m.EffectAt(c.Pos) {
	case tile.EffectFire, tile.EffectLava:
		s.ctx.Renderer.ShowMessage(fmt.Sprintf("%s Burned!", c.Name()))
		s.damageMember(c, 16+s.ctx.Dice.Intn(32))
	case tile.EffectSleep:
		if c.Status() != condition.Asleep {
			s.ctx.Audio.PlaySound(SoundSleep)
			c.PutToSleep()
		}
	case tile.EffectPoison, tile.EffectPoisonField:
		if c.Member.Poison() {
			s.ctx.Audio.PlaySound(SoundPoison)
			s.ctx.Renderer.ShowMessage(fmt.Sprintf("%s Poisoned!", c.Name()))
		}
	}
}

// applyCreatureTileEffects lets the ground act on every creature.
func (s *Session) applyCreatureTileEffects() {
	for _, c := range s.m.Creatures() {
		tmpl := c.Creature.Template
		effect := s.m.EffectAt(c.Pos)
		if effect == tile.EffectNone || tmpl.Resists == effect {
			continue
		}
		switch effect {
		case tile.EffectSleep:
			if s.ctx.Dice.Intn(255) >= c.HP() {
				c.PutToSleep()
			}
		case tile.EffectFire, tile.EffectLava, tile.EffectPoisonField:
			if !c.ApplyDamage(s.ctx.Dice.Intn(127)) {
				s.ctx.Renderer.ShowMessage(fmt.Sprintf("%s Killed!", c.Name()))
				s.removeCreature(c)
			}
		}
	}
}

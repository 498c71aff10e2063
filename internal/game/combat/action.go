package combat

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/grid"
)

// CommandKind identifies a player command.
type CommandKind int

const (
	CommandUnknown CommandKind = iota
	CommandMove
	CommandAttack
	CommandPass
	CommandSpeed
	CommandFocus
	CommandAbort
	CommandDestroyAll
)

// String returns the command name.
func (k CommandKind) String() string {
	switch k {
	case CommandMove:
		return "move"
	case CommandAttack:
		return "attack"
	case CommandPass:
		return "pass"
	case CommandSpeed:
		return "speed"
	case CommandFocus:
		return "focus"
	case CommandAbort:
		return "abort"
	case CommandDestroyAll:
		return "destroy_all"
	default:
		return "unknown"
	}
}

// Command is one player instruction for the focused party member.
type Command struct {
	Kind CommandKind
	// Dir is the move or attack direction.
	Dir grid.Direction
	// Distance is the target range of a choose-distance weapon.
	Distance int
	// Delta changes the battle speed; Reset restores the default.
	Delta int
	Reset bool
	// Slot is the party slot to force focus onto; -1 clears it.
	Slot int
}

// Handle applies cmd for the focused member and reports whether it consumed
// the turn. Consumed commands advance the state machine. Rejected commands
// leave a message and the same member keeps the turn.
func (s *Session) Handle(cmd Command) bool {
	if s.state != AwaitingInput {
		return false
	}
	cur := s.Current()
	if cur == nil {
		return false
	}
	s.logger.Debug("command", zap.Stringer("kind", cmd.Kind), zap.String("member", cur.Name()))

	r := s.ctx.Renderer
	switch cmd.Kind {
	case CommandMove:
		if !s.move(cur, cmd.Dir) {
			return false
		}
	case CommandAttack:
		w := cur.Member.Weapon()
		if cmd.Dir == grid.None {
			r.ShowMessage("Not here!")
			return false
		}
		if w.ChooseDistance && (cmd.Distance < 1 || cmd.Distance > w.Range) {
			r.ShowMessage("Bad range!")
			return false
		}
		s.ctx.Audio.PlaySound(SoundPCAttack)
		s.PartyAttack(cur, cmd.Dir, cmd.Distance)
	case CommandPass:
		r.ShowMessage("Pass")
	case CommandSpeed:
		s.adjustSpeed(cmd)
		return false
	case CommandFocus:
		if !s.ctx.Settings.ActivePlayer {
			r.ShowMessage("Not here!")
			return false
		}
		s.ctx.Party.SetActivePlayer(cmd.Slot)
		if active := s.ctx.Party.ActivePlayer(); active >= 0 {
			r.ShowMessage(fmt.Sprintf("Active player: %s", s.ctx.Party.Member(active).Name))
		} else {
			r.ShowMessage("Active player: none")
		}
		return false
	case CommandAbort:
		if !s.ctx.Settings.Debug {
			r.ShowMessage("Not here!")
			return false
		}
		s.aborted = true
		s.End(false)
		return true
	case CommandDestroyAll:
		if !s.ctx.Settings.Debug {
			r.ShowMessage("Not here!")
			return false
		}
		for _, c := range s.m.Creatures() {
			s.m.Remove(c)
		}
	default:
		r.ShowMessage("Not here!")
		return false
	}
	s.FinishTurn()
	return true
}

// move steps cur in dir and reports whether the turn was used. Stepping off
// the arena takes the member out of the fight.
func (s *Session) move(cur *Combatant, dir grid.Direction) bool {
	r := s.ctx.Renderer
	if dir == grid.None {
		r.ShowMessage("Not here!")
		return false
	}
	cur.Facing = dir
	next := cur.Pos.Step(dir)
	if !s.m.Grid.InBounds(next) {
		if s.m.IsDungeonRoom() {
			if s.exitDir != grid.None && s.exitDir != dir {
				r.ShowMessage("All must use same exit!")
				return false
			}
			s.exitDir = dir
		}
		s.ctx.Audio.PlaySound(SoundFlee)
		s.logger.Info("party member left the arena", zap.String("member", cur.Name()), zap.Stringer("dir", dir))
		s.m.Remove(cur)
		s.party[cur.Slot] = nil
		return true
	}
	if !s.m.PartyCanEnter(next) {
		s.ctx.Audio.PlaySound(SoundBlocked)
		r.ShowMessage("Blocked!")
		return false
	}
	if g := s.m.Ground(next); g.Slow && dice.OneIn(s.ctx.Dice, 4) {
		r.ShowMessage("Slow progress!")
		return true
	}
	cur.Pos = next
	return true
}

func (s *Session) adjustSpeed(cmd Command) {
	settings := s.ctx.Settings
	switch {
	case cmd.Reset:
		settings.BattleSpeed = config.DefaultBattleSpeed
	default:
		settings.BattleSpeed = min(max(settings.BattleSpeed+cmd.Delta, config.MinBattleSpeed), config.MaxBattleSpeed)
	}
	s.ctx.Renderer.ShowMessage(fmt.Sprintf("Battle Speed: %d", settings.BattleSpeed))
}

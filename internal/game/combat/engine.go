package combat

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/cory-johannsen/skirmish/internal/game/arena"
	"github.com/cory-johannsen/skirmish/internal/game/condition"
	"github.com/cory-johannsen/skirmish/internal/game/creature"
	"github.com/cory-johannsen/skirmish/internal/game/grid"
	"github.com/cory-johannsen/skirmish/internal/game/journal"
	"github.com/cory-johannsen/skirmish/internal/game/party"
	"github.com/cory-johannsen/skirmish/internal/game/world"
)

// State is a node of the turn-advance state machine.
type State int

const (
	// StateNew is a session that has not begun.
	StateNew State = iota
	AwaitingInput
	AdvancingFocus
	RunningCreatureRound
	CheckingOutcome
	Terminated
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case AwaitingInput:
		return "awaiting_input"
	case AdvancingFocus:
		return "advancing_focus"
	case RunningCreatureRound:
		return "running_creature_round"
	case CheckingOutcome:
		return "checking_outcome"
	case Terminated:
		return "terminated"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var titleCaser = cases.Title(language.English)

// Session is one live encounter. It sits on the overworld controller stack
// from Begin until End pops it; the stack releases it.
type Session struct {
	ID string

	ctx   *GameContext
	enc   Encounter
	m     *CombatMap
	slots SlotTable
	room  *arena.Room
	from  grid.Direction
	pace  Pacer

	party [party.MaxMembers]*Combatant
	focus int
	state State

	winOrLose bool
	camping   bool
	// inDungeon is captured before Begin makes the arena the current map.
	inDungeon bool
	exitDir   grid.Direction
	aborted   bool
	outcome   Outcome

	inCreaturePass bool
	pending        []*Combatant

	rounds    int
	creatures int
	started   time.Time
	released  bool
	logger    *zap.Logger
}

// NewSession prepares an encounter and builds its slot table.
//
// Precondition: ctx satisfies the GameContext invariant; enc.Trigger and
// enc.Layout are non-nil.
// Postcondition: State() == StateNew; the slot table holds
// ComputeEncounterSize creatures.
func NewSession(ctx *GameContext, enc Encounter) *Session {
	if enc.Trigger == nil || enc.Layout == nil {
		panic("combat: encounter requires a trigger template and a layout")
	}
	s := newSession(ctx, enc)
	count := ComputeEncounterSize(enc, ctx.Party.LivingCount(), ctx.Dice)
	s.slots = FillSlotTable(enc.Trigger, count, ctx.Catalog, ctx.Dice)
	s.winOrLose = true
	return s
}

// InitDungeonRoom prepares a staged dungeon room entered from the side from.
// Room sessions never apply win or loss consequences.
//
// Precondition: the overworld is inside a dungeon; room is non-nil.
func InitDungeonRoom(ctx *GameContext, room *arena.Room, from grid.Direction) *Session {
	if room == nil {
		panic("combat: dungeon room entered without room data")
	}
	if !ctx.World.InDungeon() {
		panic("combat: dungeon room entered outside a dungeon")
	}
	enc := Encounter{Layout: &room.Layout, FromDungeon: true, NoMagic: room.Abyss}
	s := newSession(ctx, enc)
	s.room = room
	s.from = from
	s.m.dungeonRoom = true
	s.m.altar = room.Altar()
	s.m.PartyStart = room.PartyStartFrom(from)
	s.slots, s.m.CreatureStart = roomSlots(room)
	s.winOrLose = false
	s.exitDir = grid.None
	return s
}

func newSession(ctx *GameContext, enc Encounter) *Session {
	id := uuid.NewString()
	m := NewCombatMap(enc.Layout)
	m.noMagic = enc.NoMagic
	return &Session{
		ID:        id,
		ctx:       ctx,
		enc:       enc,
		m:         m,
		pace:      NewPacer(ctx.Settings, ctx.Sleep),
		camping:   enc.Camping,
		inDungeon: ctx.World.InDungeon(),
		exitDir:   grid.None,
		logger:    ctx.Logger.With(zap.String("session", id)),
	}
}

// Kind tags the session on the controller stack.
func (s *Session) Kind() world.ControllerKind { return world.ControllerCombat }

// Release discards the session's creatures and overlays. The controller
// stack calls it when the session is popped.
func (s *Session) Release() {
	s.released = true
	for _, c := range s.m.Creatures() {
		s.m.Remove(c)
	}
	s.m.Annotations = grid.Annotations{}
	if s.ctx.Scripts != nil {
		s.ctx.Scripts.GetCombatant = nil
		s.ctx.Scripts.NearestEnemy = nil
	}
}

// Map returns the arena.
func (s *Session) Map() *CombatMap { return s.m }

// Slots returns the slot table.
func (s *Session) Slots() SlotTable { return s.slots }

// State returns the current state machine node.
func (s *Session) State() State { return s.state }

// Outcome returns how the session ended, or OutcomeNone while it runs.
func (s *Session) Outcome() Outcome { return s.outcome }

// Focus returns the party slot whose turn it is.
func (s *Session) Focus() int { return s.focus }

// Rounds returns the number of completed creature rounds.
func (s *Session) Rounds() int { return s.rounds }

// Released reports whether the controller stack has discarded the session.
func (s *Session) Released() bool { return s.released }

// Current returns the focused party combatant, or nil when the focus slot is empty.
func (s *Session) Current() *Combatant {
	if s.focus < 0 || s.focus >= len(s.party) {
		return nil
	}
	return s.party[s.focus]
}

// PartyCombatant returns the combatant for roster slot i, or nil.
func (s *Session) PartyCombatant(i int) *Combatant {
	if i < 0 || i >= len(s.party) {
		return nil
	}
	return s.party[i]
}

// Begin places both sides, announces the encounter, pushes the session onto
// the controller stack, and focuses the first member able to act. When
// nobody can act and the party is not camping the turn completes at once.
//
// Precondition: State() == StateNew.
func (s *Session) Begin() {
	if s.state != StateNew {
		panic(fmt.Sprintf("combat: Begin called in state %s", s.state))
	}
	s.started = s.ctx.now()
	s.ctx.World.EnterMap(&world.Map{ID: "combat-" + s.ID, Kind: world.KindCombat, Grid: s.m.Grid, Abyss: s.m.noMagic})
	s.placeParty()
	s.placeCreatures()
	s.installScriptHooks()

	if s.m.IsAltarRoom() {
		s.ctx.Renderer.ShowMessage(fmt.Sprintf("The Altar Room of %s", titleCaser.String(s.m.Altar().String())))
	} else if s.enc.Banner && s.winOrLose && !s.camping {
		s.ctx.Renderer.ShowMessage("**** COMBAT ****")
	}
	if !s.camping {
		s.ctx.Audio.PlayMusic(MusicCombat)
	}

	ready := false
	s.focus = 0
	for i, c := range s.party {
		if c != nil && !c.Disabled() {
			s.focus = i
			ready = true
			break
		}
	}

	s.ctx.World.PushController(s)
	s.setState(AwaitingInput)
	s.logger.Info("combat begin",
		zap.Int("creatures", s.creatures),
		zap.Int("party", len(s.m.PartyMembers())),
		zap.Bool("dungeon_room", s.m.IsDungeonRoom()),
		zap.Bool("camping", s.camping),
	)

	if !s.camping && !ready {
		s.FinishTurn()
		return
	}
	s.ctx.Renderer.Render()
}

func (s *Session) placeParty() {
	p := s.ctx.Party
	for i := 0; i < p.Size() && i < len(s.party); i++ {
		m := p.Member(i)
		if !m.Alive() || i >= len(s.m.PartyStart) {
			continue
		}
		c := newPartyCombatant(i, m, s.m.PartyStart[i])
		s.party[i] = c
		s.m.Place(c)
	}
}

func (s *Session) placeCreatures() {
	for i, tmpl := range s.slots {
		if tmpl == nil {
			continue
		}
		at := s.m.CreatureStart[i]
		if s.m.CombatantAt(at) != nil {
			s.logger.Warn("creature start occupied", zap.Int("slot", i), zap.Stringer("at", at))
			continue
		}
		s.m.Place(newCreatureCombatant(i, creature.New(tmpl, s.ctx.Dice), at))
		s.creatures++
	}
}

func (s *Session) setState(next State) {
	if next != s.state {
		s.logger.Debug("combat state", zap.Stringer("from", s.state), zap.Stringer("to", next))
		s.state = next
	}
}

// IsWon reports whether no living creature remains on the arena.
func (s *Session) IsWon() bool {
	for _, c := range s.m.Creatures() {
		if c.Alive() {
			return false
		}
	}
	return true
}

// IsLost reports whether no party member remains on the arena.
func (s *Session) IsLost() bool {
	for _, c := range s.party {
		if c != nil {
			return false
		}
	}
	return true
}

// FinishTurn ends the focused member's turn and drives the state machine
// until a member can act or the session terminates.
func (s *Session) FinishTurn() {
	if s.state == Terminated || s.state == StateNew {
		return
	}
	next := s.closeTurn()
	for next != AwaitingInput && next != Terminated {
		s.setState(next)
		switch next {
		case AdvancingFocus:
			next = s.advanceFocus()
		case RunningCreatureRound:
			next = s.runCreatureRound()
		case CheckingOutcome:
			next = s.checkOutcome()
		default:
			panic(fmt.Sprintf("combat: no transition from state %s", next))
		}
	}
	if next == AwaitingInput {
		s.setState(AwaitingInput)
		s.showFocus()
	}
}

// closeTurn settles the outgoing actor: an early victory ends the session,
// the ground acts on the actor, and quickness may grant another action.
func (s *Session) closeTurn() State {
	if s.winOrLose && s.IsWon() {
		s.End(true)
		return Terminated
	}
	cur := s.Current()
	if cur != nil {
		s.applyPartyTileEffect(cur)
		cur = s.Current()
	}
	quick := cur != nil && !cur.Disabled() && s.ctx.Party.Aura().Is(condition.AuraQuickness) && s.ctx.Dice.Intn(2) == 0
	if quick {
		s.m.Annotations.PassTurn()
		return AwaitingInput
	}
	return AdvancingFocus
}

// advanceFocus ages overlays, settles the outgoing actor, and moves focus to
// the next slot. Wrapping past the last slot starts a creature round.
func (s *Session) advanceFocus() State {
	s.m.Annotations.PassTurn()
	if cur := s.Current(); cur != nil {
		if cur.Status() == condition.Asleep && s.ctx.Dice.Intn(8) == 0 {
			cur.WakeUp()
		}
		s.ctx.Party.AdjustFood(-1)
	}
	s.focus++
	if s.focus >= s.ctx.Party.Size() {
		s.focus = 0
		return RunningCreatureRound
	}
	return s.selectFocus()
}

// runCreatureRound closes a round: party bookkeeping, one action per
// creature, then ground effects on creatures.
func (s *Session) runCreatureRound() State {
	s.ctx.Renderer.Render()
	s.pace.RoundBreak()
	s.ctx.Party.EndTurn()
	s.ctx.Party.Aura().PassTurn()
	s.creatureRound()
	s.applyCreatureTileEffects()
	s.rounds++
	return CheckingOutcome
}

func (s *Session) checkOutcome() State {
	if s.IsLost() {
		s.End(true)
		return Terminated
	}
	if s.winOrLose && s.IsWon() {
		s.End(true)
		return Terminated
	}
	return s.selectFocus()
}

// selectFocus accepts the focus slot when its holder can act and is not
// overridden by an eligible forced active player.
func (s *Session) selectFocus() State {
	cur := s.Current()
	if cur == nil || cur.Disabled() {
		return AdvancingFocus
	}
	if active := s.ctx.Party.ActivePlayer(); active >= 0 && active != s.focus {
		if forced := s.PartyCombatant(active); forced != nil && !forced.Disabled() {
			return AdvancingFocus
		}
	}
	return AwaitingInput
}

func (s *Session) showFocus() {
	s.ctx.Renderer.Render()
	if cur := s.Current(); cur != nil {
		s.ctx.Renderer.ShowMessage(fmt.Sprintf("%s with %s", cur.Name(), cur.Member.Weapon().Name))
	}
}

// End terminates the session and hands control back to the overworld.
// adjustKarma false suppresses flee consequences on forced exits.
func (s *Session) End(adjustKarma bool) {
	if s.state == Terminated {
		return
	}
	won := s.IsWon()
	partyDead := s.ctx.Party.IsDead()
	switch {
	case partyDead:
		s.outcome = Defeat
	case s.aborted:
		s.outcome = Aborted
	case won:
		s.outcome = Victory
	default:
		s.outcome = Fled
	}
	s.setState(Terminated)

	w := s.ctx.World
	w.PopController(s)
	w.ExitToParentMap()
	s.logger.Info("combat end", zap.Stringer("outcome", s.outcome), zap.Int("rounds", s.rounds))

	if partyDead {
		if s.enc.TriggerObject != nil {
			w.RemoveObject(s.enc.TriggerObject.ID)
		}
		w.StartDeath()
		s.record()
		return
	}

	s.ctx.Audio.PlayMusic(MusicAmbient)

	trigger := s.enc.Trigger
	if s.winOrLose {
		if won {
			if trigger != nil {
				if trigger.IsEvil() {
					s.ctx.Party.AdjustKarma(party.KilledEvil)
				}
				s.awardLoot()
			}
			s.ctx.Renderer.ShowMessage("Victory!")
		} else if adjustKarma && trigger != nil {
			if trigger.IsEvil() {
				s.ctx.Renderer.ShowMessage("Battle is lost!")
				s.ctx.Party.AdjustKarma(party.FledEvil)
			} else if trigger.IsGood() {
				s.ctx.Party.AdjustKarma(party.FledGood)
			}
		}
	}

	if s.m.IsDungeonRoom() {
		s.ctx.Renderer.ShowMessage("Leave Room!")
		if s.m.IsAltarRoom() {
			if action := world.PortalFor(s.exitDir); action != world.PortalNone {
				w.UsePortal(action)
			}
		}
	}
	if s.exitDir != grid.None {
		w.SetFacing(s.exitDir)
		w.Step(s.exitDir)
	}
	if s.enc.TriggerObject != nil {
		w.RemoveObject(s.enc.TriggerObject.ID)
	}
	if top := w.TopController(); top == nil || top.Kind() != world.ControllerCombat {
		w.FinishTurn()
	}
	s.record()
}

// awardLoot leaves a chest or a derelict ship where the trigger stood.
func (s *Session) awardLoot() {
	obj := s.enc.TriggerObject
	t := s.enc.Trigger
	if obj == nil {
		return
	}
	w := s.ctx.World
	ground := w.GroundAt(obj.Coords)
	switch {
	case t.LeavesChest && ground != nil && ground.CreatureWalkable && (!w.InDungeon() || ground.DungeonFloor):
		w.AddObject(&world.Object{
			ID:     uuid.NewString(),
			Kind:   world.ObjectChest,
			Coords: obj.Coords,
			Gold:   t.Chest.RollGold(s.ctx.Dice),
		})
	case t.PirateShip:
		w.AddObject(&world.Object{
			ID:     uuid.NewString(),
			Kind:   world.ObjectShip,
			Coords: obj.Coords,
			Facing: obj.Facing,
		})
	}
}

func (s *Session) record() {
	if s.ctx.Journal == nil {
		return
	}
	trigger := ""
	if s.enc.Trigger != nil {
		trigger = s.enc.Trigger.Name
	} else if s.room != nil {
		trigger = fmt.Sprintf("%s room %d", s.room.Dungeon, s.room.Index)
	}
	rec := journal.Record{
		SessionID: s.ID,
		Trigger:   trigger,
		Creatures: s.creatures,
		PartySize: s.ctx.Party.Size(),
		Outcome:   s.outcome.String(),
		Rounds:    s.rounds,
		StartedAt: s.started,
		EndedAt:   s.ctx.now(),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.ctx.Journal.Record(ctx, rec); err != nil {
		s.logger.Warn("journal write failed", zap.Error(err))
	}
}

// Package combat implements the turn-based tactical combat engine: the
// arena, encounter population, attack resolution, creature turns, and the
// session state machine that hands control back to the overworld.
package combat

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/cory-johannsen/skirmish/internal/game/condition"
	"github.com/cory-johannsen/skirmish/internal/game/creature"
	"github.com/cory-johannsen/skirmish/internal/game/grid"
	"github.com/cory-johannsen/skirmish/internal/game/party"
)

// Kind distinguishes party combatants from creature combatants.
type Kind int

const (
	KindPartyMember Kind = iota
	KindCreature
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindPartyMember:
		return "party"
	case KindCreature:
		return "creature"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Outcome is how a session ended.
type Outcome int

const (
	OutcomeNone Outcome = iota
	Victory
	Defeat
	Fled
	Aborted
)

// String returns a lowercase outcome label.
func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case Victory:
		return "victory"
	case Defeat:
		return "defeat"
	case Fled:
		return "fled"
	case Aborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Combatant is one occupant of the arena: a party member or a creature.
//
// Invariant: Kind == KindPartyMember iff Member != nil; Kind == KindCreature iff Creature != nil.
type Combatant struct {
	ID     string
	Kind   Kind
	Pos    grid.Coords
	Facing grid.Direction
	// Slot is the party roster index or creature slot table index.
	Slot     int
	Member   *party.Member
	Creature *creature.Creature
}

func newPartyCombatant(slot int, m *party.Member, at grid.Coords) *Combatant {
	return &Combatant{ID: uuid.NewString(), Kind: KindPartyMember, Pos: at, Facing: grid.North, Slot: slot, Member: m}
}

func newCreatureCombatant(slot int, c *creature.Creature, at grid.Coords) *Combatant {
	return &Combatant{ID: c.ID, Kind: KindCreature, Pos: at, Facing: grid.South, Slot: slot, Creature: c}
}

// IsPartyMember reports whether c fights for the party.
func (c *Combatant) IsPartyMember() bool { return c.Kind == KindPartyMember }

// IsCreature reports whether c is an opposing creature.
func (c *Combatant) IsCreature() bool { return c.Kind == KindCreature }

// Name returns the display name.
func (c *Combatant) Name() string {
	if c.IsPartyMember() {
		return c.Member.Name
	}
	return c.Creature.Name()
}

// HP returns current hit points.
func (c *Combatant) HP() int {
	if c.IsPartyMember() {
		return c.Member.HP
	}
	return c.Creature.HP
}

// MaxHP returns maximum hit points.
func (c *Combatant) MaxHP() int {
	if c.IsPartyMember() {
		return c.Member.MaxHP
	}
	return c.Creature.MaxHP
}

// Status returns the combatant status.
func (c *Combatant) Status() condition.Status {
	if c.IsPartyMember() {
		return c.Member.Status()
	}
	return c.Creature.Status()
}

// Alive reports whether the combatant is still fighting.
func (c *Combatant) Alive() bool {
	if c.IsPartyMember() {
		return c.Member.Alive()
	}
	return c.Creature.Alive()
}

// Disabled reports whether the combatant cannot act this turn.
func (c *Combatant) Disabled() bool {
	return c.Status().Incapacitated()
}

// ApplyDamage deals n hit points and reports whether the combatant survived.
func (c *Combatant) ApplyDamage(n int) bool {
	if c.IsPartyMember() {
		return c.Member.ApplyDamage(n)
	}
	return c.Creature.ApplyDamage(n)
}

// PutToSleep sends the combatant to sleep.
func (c *Combatant) PutToSleep() {
	if c.IsPartyMember() {
		c.Member.PutToSleep()
		return
	}
	c.Creature.PutToSleep()
}

// WakeUp wakes a sleeping combatant.
func (c *Combatant) WakeUp() {
	if c.IsPartyMember() {
		c.Member.WakeUp()
		return
	}
	c.Creature.WakeUp()
}

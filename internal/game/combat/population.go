package combat

import (
	"github.com/cory-johannsen/skirmish/internal/game/arena"
	"github.com/cory-johannsen/skirmish/internal/game/creature"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/grid"
	"github.com/cory-johannsen/skirmish/internal/game/world"
)

// Encounter describes how a session was triggered.
type Encounter struct {
	// Trigger is the template that started the encounter.
	Trigger *creature.Template
	// TriggerObject is the overworld object that was touched, if any. It is
	// removed from the parent map when the session ends.
	TriggerObject *world.Object
	Layout        *arena.Layout

	ForceStandard bool
	FromWorldMap  bool
	FromDungeon   bool
	Camping       bool
	// NoMagic makes non-magical weapons miss.
	NoMagic bool
	// Banner shows the combat banner on begin.
	Banner bool
}

// NewEncounter describes a collision with obj on the overworld.
//
// Precondition: trigger and layout must be non-nil.
func NewEncounter(trigger *creature.Template, obj *world.Object, layout *arena.Layout) Encounter {
	return Encounter{
		Trigger:       trigger,
		TriggerObject: obj,
		Layout:        layout,
		FromWorldMap:  true,
		Banner:        true,
	}
}

// Standard reports whether the encounter uses the scaled random size.
func (e Encounter) Standard() bool {
	return e.ForceStandard || e.FromWorldMap || e.FromDungeon
}

// SlotTable maps creature slots to the templates that fill them.
type SlotTable [arena.MaxCreatures]*creature.Template

// Filled returns the number of occupied slots.
func (t *SlotTable) Filled() int {
	n := 0
	for _, tmpl := range t {
		if tmpl != nil {
			n++
		}
	}
	return n
}

// ComputeEncounterSize returns how many creatures an encounter holds.
//
// Standard encounters roll 1..8; a roll of 1 becomes rand[0,hint)+hint+1
// using the trigger's encounter size hint, or 8 without one; the count is
// then rerolled in 1..16 until it is at most twice the living party.
// Other encounters hold 2 per living member for a guard trigger and 1
// otherwise.
//
// Precondition: src must be non-nil.
// Postcondition: 1 <= result <= arena.MaxCreatures and result <= 2*max(living, 1).
func ComputeEncounterSize(enc Encounter, living int, src dice.Source) int {
	living = max(living, 1)
	var n int
	if enc.Standard() {
		n = src.Intn(8) + 1
		if n == 1 {
			if enc.Trigger != nil && enc.Trigger.EncounterSize > 0 {
				hint := enc.Trigger.EncounterSize
				n = src.Intn(hint) + hint + 1
			} else {
				n = 8
			}
		}
		for n > 2*living {
			n = src.Intn(arena.MaxCreatures) + 1
		}
	} else if enc.Trigger != nil && enc.Trigger.ID == creature.GuardID {
		n = 2 * living
	} else {
		n = 1
	}
	return min(max(n, 1), arena.MaxCreatures)
}

// FillSlotTable places count creatures derived from trigger into random free
// slots. A pirate trigger populates rogues. Every creature after the first,
// except the last, may be promoted to the base template's leader (1 in 8) or
// the leader's leader (1 in 32) when the base template follows someone.
//
// Precondition: trigger non-nil; 1 <= count <= arena.MaxCreatures.
// Postcondition: result.Filled() == count.
func FillSlotTable(trigger *creature.Template, count int, cat *creature.Catalog, src dice.Source) SlotTable {
	var table SlotTable
	base := trigger
	if base.ID == creature.PirateID {
		if rogue, ok := cat.ByID(creature.RogueID); ok {
			base = rogue
		}
	}
	leader := cat.Leader(base)
	for i := range count {
		var slot int
		for {
			slot = src.Intn(arena.MaxCreatures)
			if table[slot] == nil {
				break
			}
		}
		chosen := base
		if leader != base && i > 0 && i != count-1 {
			if dice.OneIn(src, 32) {
				chosen = cat.Leader(leader)
			} else if dice.OneIn(src, 8) {
				chosen = leader
			}
		}
		table[slot] = chosen
	}
	return table
}

// roomSlots fills a slot table from a staged room's fixed creatures and
// returns their start coordinates.
func roomSlots(room *arena.Room) (SlotTable, []grid.Coords) {
	var table SlotTable
	starts := make([]grid.Coords, arena.MaxCreatures)
	copy(starts, room.CreatureStart)
	for i, rc := range room.Creatures {
		if i >= arena.MaxCreatures {
			break
		}
		table[i] = rc.Template
		starts[i] = rc.At
	}
	return table, starts
}

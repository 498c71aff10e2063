// Package arena loads the layouts combat takes place on: open-field arenas
// chosen by terrain and staged dungeon rooms with fixed creatures.
package arena

import (
	"fmt"

	"github.com/cory-johannsen/skirmish/internal/game/creature"
	"github.com/cory-johannsen/skirmish/internal/game/grid"
)

// Arena capacity.
const (
	MaxCreatures = 16
	MaxParty     = 8
)

// AltarRoomIndex is the room number that hosts an altar outside the Abyss.
const AltarRoomIndex = 0xF

// Principle names the altar a room is dedicated to.
type Principle int

const (
	NoPrinciple Principle = iota
	Truth
	Love
	Courage
)

// String returns the lowercase principle name.
func (p Principle) String() string {
	switch p {
	case NoPrinciple:
		return "none"
	case Truth:
		return "truth"
	case Love:
		return "love"
	case Courage:
		return "courage"
	default:
		return fmt.Sprintf("principle(%d)", int(p))
	}
}

// Layout is a grid with start positions for both sides.
//
// Invariant: len(PartyStart) == MaxParty; len(CreatureStart) == MaxCreatures;
// every start lies inside Grid.
type Layout struct {
	ID            string
	Grid          *grid.Grid
	PartyStart    []grid.Coords
	CreatureStart []grid.Coords
	// Terrain lists the overworld tiles that select this layout.
	Terrain []string
}

// RoomCreature is a creature fixed in a staged room.
type RoomCreature struct {
	Template *creature.Template
	At       grid.Coords
}

// Room is a staged dungeon room.
type Room struct {
	Layout
	Dungeon string
	Index   int
	// X is the room's column within its dungeon level.
	X     int
	Abyss bool
	// Creatures fill the slot table in order.
	Creatures []RoomCreature
	// Entries holds party start positions keyed by the side the party enters from.
	Entries map[grid.Direction][]grid.Coords
}

// Altar returns the room's altar principle, or NoPrinciple.
func (r *Room) Altar() Principle {
	if r.Index != AltarRoomIndex || r.Abyss {
		return NoPrinciple
	}
	switch {
	case r.X == 3:
		return Love
	case r.X <= 2:
		return Truth
	default:
		return Courage
	}
}

// PartyStartFrom returns the party start positions for entering from dir,
// falling back to the room's default starts.
func (r *Room) PartyStartFrom(dir grid.Direction) []grid.Coords {
	if starts, ok := r.Entries[dir]; ok {
		return starts
	}
	return r.PartyStart
}

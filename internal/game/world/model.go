// Package world models the overworld side of an encounter: the parent map
// combat returns to, its objects, and the controller stack that routes input.
package world

import (
	"fmt"

	"github.com/cory-johannsen/skirmish/internal/game/grid"
)

// MapKind classifies a map for encounter sizing and loot placement.
type MapKind int

const (
	KindWorld MapKind = iota
	KindTown
	KindDungeon
	KindCombat
)

// String returns the lowercase kind name.
func (k MapKind) String() string {
	switch k {
	case KindWorld:
		return "world"
	case KindTown:
		return "town"
	case KindDungeon:
		return "dungeon"
	case KindCombat:
		return "combat"
	default:
		return fmt.Sprintf("map_kind(%d)", int(k))
	}
}

// ParseMapKind maps a YAML name to its MapKind.
func ParseMapKind(s string) (MapKind, error) {
	switch s {
	case "world", "":
		return KindWorld, nil
	case "town":
		return KindTown, nil
	case "dungeon":
		return KindDungeon, nil
	}
	return KindWorld, fmt.Errorf("unknown map kind %q", s)
}

// ObjectKind classifies things placed on a map.
type ObjectKind int

const (
	ObjectCreature ObjectKind = iota
	ObjectChest
	ObjectShip
)

// String returns the lowercase object kind name.
func (k ObjectKind) String() string {
	switch k {
	case ObjectCreature:
		return "creature"
	case ObjectChest:
		return "chest"
	case ObjectShip:
		return "ship"
	default:
		return fmt.Sprintf("object_kind(%d)", int(k))
	}
}

// Object is a creature, chest, or ship sitting on a map.
type Object struct {
	ID         string
	Kind       ObjectKind
	Coords     grid.Coords
	Facing     grid.Direction
	TemplateID int
	Gold       int
}

// Map is one explorable level.
type Map struct {
	ID      string
	Kind    MapKind
	Grid    *grid.Grid
	Objects []*Object
	// Abyss maps forbid non-magical weapons.
	Abyss bool
}

// ObjectAt returns the first object on c, or nil.
func (m *Map) ObjectAt(c grid.Coords) *Object {
	for _, o := range m.Objects {
		if o.Coords == c {
			return o
		}
	}
	return nil
}

// PortalAction is the altar exit taken when leaving an altar room.
type PortalAction int

const (
	PortalNone PortalAction = iota
	PortalExitNorth
	PortalExitEast
	PortalExitSouth
	PortalExitWest
)

// PortalFor maps an exit direction to its portal action.
func PortalFor(d grid.Direction) PortalAction {
	switch d {
	case grid.North:
		return PortalExitNorth
	case grid.East:
		return PortalExitEast
	case grid.South:
		return PortalExitSouth
	case grid.West:
		return PortalExitWest
	default:
		return PortalNone
	}
}

package combat

import (
	"slices"

	"github.com/cory-johannsen/skirmish/internal/game/arena"
	"github.com/cory-johannsen/skirmish/internal/game/grid"
	"github.com/cory-johannsen/skirmish/internal/game/tile"
)

// CombatMap is the arena of one encounter: terrain, start tables, overlays,
// and the combatants currently standing on it.
//
// Invariant: no two combatants share a cell.
type CombatMap struct {
	Grid          *grid.Grid
	Annotations   grid.Annotations
	PartyStart    []grid.Coords
	CreatureStart []grid.Coords

	dungeonRoom bool
	altar       arena.Principle
	noMagic     bool
	combatants  []*Combatant
}

// NewCombatMap builds an empty arena over layout.
//
// Precondition: layout has passed loading validation.
func NewCombatMap(layout *arena.Layout) *CombatMap {
	return &CombatMap{
		Grid:          layout.Grid,
		PartyStart:    slices.Clone(layout.PartyStart),
		CreatureStart: slices.Clone(layout.CreatureStart),
	}
}

// IsDungeonRoom reports whether the arena is a staged dungeon room.
func (m *CombatMap) IsDungeonRoom() bool { return m.dungeonRoom }

// Altar returns the altar principle, or arena.NoPrinciple.
func (m *CombatMap) Altar() arena.Principle { return m.altar }

// IsAltarRoom reports whether the arena is an altar room.
func (m *CombatMap) IsAltarRoom() bool { return m.altar != arena.NoPrinciple }

// NoMagic reports whether non-magical weapons always miss here.
func (m *CombatMap) NoMagic() bool { return m.noMagic }

// Place puts c on the arena.
//
// Precondition: c.Pos is inside the grid and unoccupied.
func (m *CombatMap) Place(c *Combatant) {
	m.combatants = append(m.combatants, c)
}

// Remove takes c off the arena. Removing an absent combatant is a no-op.
func (m *CombatMap) Remove(c *Combatant) {
	if i := slices.Index(m.combatants, c); i >= 0 {
		m.combatants = slices.Delete(m.combatants, i, i+1)
	}
}

// Contains reports whether c is on the arena.
func (m *CombatMap) Contains(c *Combatant) bool {
	return slices.Contains(m.combatants, c)
}

// CombatantAt returns whoever occupies pos, or nil.
func (m *CombatMap) CombatantAt(pos grid.Coords) *Combatant {
	for _, c := range m.combatants {
		if c.Pos == pos {
			return c
		}
	}
	return nil
}

// CreatureAt returns the creature on pos, or nil.
func (m *CombatMap) CreatureAt(pos grid.Coords) *Combatant {
	if c := m.CombatantAt(pos); c != nil && c.IsCreature() {
		return c
	}
	return nil
}

// PartyMemberAt returns the party member on pos, or nil.
func (m *CombatMap) PartyMemberAt(pos grid.Coords) *Combatant {
	if c := m.CombatantAt(pos); c != nil && c.IsPartyMember() {
		return c
	}
	return nil
}

// Creatures returns a snapshot of the creatures on the arena in placement order.
func (m *CombatMap) Creatures() []*Combatant {
	return m.filter(KindCreature)
}

// PartyMembers returns a snapshot of the party members on the arena.
func (m *CombatMap) PartyMembers() []*Combatant {
	return m.filter(KindPartyMember)
}

func (m *CombatMap) filter(k Kind) []*Combatant {
	var out []*Combatant
	for _, c := range m.combatants {
		if c.Kind == k {
			out = append(out, c)
		}
	}
	return out
}

// Ground returns the tile that acts as ground on pos: the topmost non-visual
// overlay, else the base terrain. Off-grid cells return nil.
func (m *CombatMap) Ground(pos grid.Coords) *tile.Tile {
	if t := m.Annotations.Ground(pos); t != nil {
		return t
	}
	return m.Grid.At(pos)
}

// EffectAt returns the hazard applied to whoever stands on pos.
func (m *CombatMap) EffectAt(pos grid.Coords) tile.Effect {
	if t := m.Ground(pos); t != nil {
		return t.Effect
	}
	return tile.EffectNone
}

// CanAttackOver reports whether projectiles cross pos.
func (m *CombatMap) CanAttackOver(pos grid.Coords) bool {
	t := m.Grid.At(pos)
	return t != nil && t.AttackOver
}

// PartyCanEnter reports whether a party member may step onto pos.
func (m *CombatMap) PartyCanEnter(pos grid.Coords) bool {
	t := m.Ground(pos)
	return t != nil && t.Walkable && m.CombatantAt(pos) == nil
}

// CreatureCanEnter reports whether a creature may step onto pos.
func (m *CombatMap) CreatureCanEnter(pos grid.Coords) bool {
	t := m.Ground(pos)
	return t != nil && t.CreatureWalkable && m.CombatantAt(pos) == nil
}

// Rows renders the arena as glyph rows: combatants over overlays over terrain.
// Party members show as their slot number and creatures as the first letter
// of their name.
func (m *CombatMap) Rows() []string {
	rows := make([]string, m.Grid.Height)
	for y := range m.Grid.Height {
		line := make([]rune, 0, m.Grid.Width)
		for x := range m.Grid.Width {
			line = append(line, m.glyph(grid.Coords{X: x, Y: y}))
		}
		rows[y] = string(line)
	}
	return rows
}

func (m *CombatMap) glyph(pos grid.Coords) rune {
	if c := m.CombatantAt(pos); c != nil {
		if c.IsPartyMember() {
			return rune('1' + c.Slot)
		}
		for _, r := range c.Name() {
			return r
		}
	}
	t := m.Annotations.Top(pos)
	if t == nil {
		t = m.Grid.At(pos)
	}
	for _, r := range t.Glyph {
		return r
	}
	return ' '
}

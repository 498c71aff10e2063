package content

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cory-johannsen/skirmish/internal/game/arena"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/creature"
	"github.com/cory-johannsen/skirmish/internal/game/world"
)

// ErrNoCreature is returned when the current map holds no creature to fight.
var ErrNoCreature = errors.New("no creature on the map")

// Encounter builds the encounter for touching a creature on w's current map.
// A zero templateID picks the creature nearest the party; otherwise the first
// object with that template is used, or a free-standing trigger when the map
// has none.
//
// Encounters on the open world map or in a dungeon are standard sized;
// towns and camps fight a single creature, or a guard squad.
//
// Postcondition: The returned encounter has a non-nil Trigger and Layout.
func (b *Bundle) Encounter(w *world.World, templateID int, camping bool) (combat.Encounter, error) {
	obj := b.pickObject(w.Current(), w, templateID)
	var tmpl *creature.Template
	switch {
	case obj != nil:
		t, ok := b.Catalog.ByID(obj.TemplateID)
		if !ok {
			return combat.Encounter{}, fmt.Errorf("object %s: unknown creature %d", obj.ID, obj.TemplateID)
		}
		tmpl = t
	case templateID != 0:
		t, ok := b.Catalog.ByID(templateID)
		if !ok {
			return combat.Encounter{}, fmt.Errorf("unknown creature %d", templateID)
		}
		tmpl = t
	default:
		return combat.Encounter{}, ErrNoCreature
	}

	at := w.Position
	if obj != nil {
		at = obj.Coords
	}
	terrain := ""
	if g := w.GroundAt(at); g != nil {
		terrain = g.Name
	}
	enc := combat.NewEncounter(tmpl, obj, b.Arenas.ForTerrain(terrain))
	enc.FromWorldMap = w.Current().Kind == world.KindWorld && !camping
	enc.FromDungeon = w.InDungeon()
	enc.Camping = camping
	enc.NoMagic = w.Current().Abyss
	return enc, nil
}

func (b *Bundle) pickObject(m *world.Map, w *world.World, templateID int) *world.Object {
	var best *world.Object
	bestDist := 0
	for _, o := range m.Objects {
		if o.Kind != world.ObjectCreature {
			continue
		}
		if templateID != 0 {
			if o.TemplateID == templateID {
				return o
			}
			continue
		}
		if d := w.Position.DistanceSquared(o.Coords); best == nil || d < bestDist {
			best, bestDist = o, d
		}
	}
	return best
}

// Room resolves a "dungeon:index" reference to a staged room.
func (b *Bundle) Room(ref string) (*arena.Room, error) {
	dungeon, idx, ok := strings.Cut(ref, ":")
	if !ok || dungeon == "" {
		return nil, fmt.Errorf("room %q: expected dungeon:index", ref)
	}
	n, err := strconv.Atoi(idx)
	if err != nil {
		return nil, fmt.Errorf("room %q: index: %w", ref, err)
	}
	room, found := b.Arenas.Room(dungeon, n)
	if !found {
		return nil, fmt.Errorf("room %q: not found", ref)
	}
	return room, nil
}

package content_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/game/arena"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/content"
	"github.com/cory-johannsen/skirmish/internal/game/creature"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/world"
)

func shippedContent() config.ContentConfig {
	root := "../../../content/"
	return config.ContentConfig{
		Tiles:     root + "tiles.yaml",
		Creatures: root + "creatures",
		Weapons:   root + "weapons",
		Arenas:    root + "arenas",
		AI:        root + "ai",
		Scripts:   root + "scripts",
		Party:     root + "party.yaml",
		World:     root + "world.yaml",
	}
}

func load(t *testing.T, cfg config.ContentConfig) *content.Bundle {
	t.Helper()
	logger := zap.NewNop()
	b, err := content.Load(cfg, dice.NewRoller(dice.NewSeededSource(7), logger), logger)
	require.NoError(t, err)
	t.Cleanup(b.Close)
	return b
}

func TestLoad_ShippedContent(t *testing.T) {
	b := load(t, shippedContent())

	for _, id := range []int{creature.GuardID, creature.PirateID, creature.RogueID} {
		_, ok := b.Catalog.ByID(id)
		assert.True(t, ok, "template %d", id)
	}
	_, ok := b.Planners.PlannerFor("skirmisher")
	assert.True(t, ok)
	assert.Equal(t, 4, b.Party.Size())
	assert.Equal(t, "britannia", b.Root.ID)
	assert.NotNil(t, b.Gear.Hands())
}

func TestLoad_MissingDirectory(t *testing.T) {
	cfg := shippedContent()
	cfg.Creatures = "does/not/exist"
	logger := zap.NewNop()
	_, err := content.Load(cfg, dice.NewRoller(dice.NewSeededSource(1), logger), logger)
	assert.ErrorContains(t, err, "loading creatures")
}

func TestLoad_OptionalScriptsAndAI(t *testing.T) {
	cfg := shippedContent()
	cfg.AI = ""
	cfg.Scripts = ""
	logger := zap.NewNop()
	_, err := content.Load(cfg, dice.NewRoller(dice.NewSeededSource(1), logger), logger)
	assert.ErrorContains(t, err, "unknown ai domain", "creatures naming a domain need it loaded")
}

func TestEncounter_NearestCreature(t *testing.T) {
	b := load(t, shippedContent())
	w := world.New(b.Root, b.Start, zap.NewNop())

	enc, err := b.Encounter(w, 0, false)
	require.NoError(t, err)
	assert.Equal(t, 40, enc.Trigger.ID)
	require.NotNil(t, enc.TriggerObject)
	assert.Equal(t, "grassland", enc.Layout.ID)
	assert.True(t, enc.FromWorldMap)
	assert.False(t, enc.Camping)
}

func TestEncounter_ByTemplateUsesObjectTerrain(t *testing.T) {
	b := load(t, shippedContent())
	w := world.New(b.Root, b.Start, zap.NewNop())

	enc, err := b.Encounter(w, 42, true)
	require.NoError(t, err)
	assert.Equal(t, "Troll", enc.Trigger.Name)
	assert.Equal(t, "woods", enc.Layout.ID)
	assert.True(t, enc.Camping)
	assert.False(t, enc.FromWorldMap, "camping fights are not world map fights")
}

// onMap returns a world whose root is a copy of the shipped map with kind and
// a single creature object at the start.
func onMap(b *content.Bundle, kind world.MapKind, templateID int) *world.World {
	m := *b.Root
	m.Kind = kind
	m.Objects = []*world.Object{{ID: "trigger", Kind: world.ObjectCreature, Coords: b.Start, TemplateID: templateID}}
	return world.New(&m, b.Start, zap.NewNop())
}

func TestEncounter_TownGuardSquad(t *testing.T) {
	b := load(t, shippedContent())
	w := onMap(b, world.KindTown, creature.GuardID)

	enc, err := b.Encounter(w, creature.GuardID, true)
	require.NoError(t, err)
	assert.False(t, enc.FromWorldMap)
	assert.False(t, enc.FromDungeon)
	assert.False(t, enc.Standard())
	for seed := uint64(1); seed <= 6; seed++ {
		assert.Equal(t, 8, combat.ComputeEncounterSize(enc, 4, dice.NewSeededSource(seed)), "seed %d", seed)
	}
}

func TestEncounter_TownSingleCreature(t *testing.T) {
	b := load(t, shippedContent())
	w := onMap(b, world.KindTown, 42)

	enc, err := b.Encounter(w, 42, false)
	require.NoError(t, err)
	assert.False(t, enc.Standard())
	assert.Equal(t, 1, combat.ComputeEncounterSize(enc, 4, dice.NewSeededSource(3)))
}

func TestEncounter_DungeonIsStandard(t *testing.T) {
	b := load(t, shippedContent())
	w := onMap(b, world.KindDungeon, 42)

	enc, err := b.Encounter(w, 42, false)
	require.NoError(t, err)
	assert.True(t, enc.FromDungeon)
	assert.False(t, enc.FromWorldMap)
	assert.True(t, enc.Standard())
}

func TestEncounter_TemplateNotOnMap(t *testing.T) {
	b := load(t, shippedContent())
	w := world.New(b.Root, b.Start, zap.NewNop())

	enc, err := b.Encounter(w, 44, false)
	require.NoError(t, err)
	assert.Nil(t, enc.TriggerObject)
	assert.Equal(t, "Daemon", enc.Trigger.Name)

	_, err = b.Encounter(w, 999, false)
	assert.Error(t, err)
}

func TestEncounter_EmptyMap(t *testing.T) {
	b := load(t, shippedContent())
	empty := *b.Root
	empty.Objects = nil
	w := world.New(&empty, b.Start, zap.NewNop())

	_, err := b.Encounter(w, 0, false)
	assert.ErrorIs(t, err, content.ErrNoCreature)
}

func TestRoom(t *testing.T) {
	b := load(t, shippedContent())

	room, err := b.Room("deceit:15")
	require.NoError(t, err)
	assert.Equal(t, arena.Love, room.Altar())
	assert.Len(t, room.Creatures, 3)

	for _, ref := range []string{"deceit", ":1", "deceit:x", "deceit:9"} {
		_, err := b.Room(ref)
		assert.Error(t, err, ref)
	}
}

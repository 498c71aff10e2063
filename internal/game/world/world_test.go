package world_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/grid"
	"github.com/cory-johannsen/skirmish/internal/game/tile"
	"github.com/cory-johannsen/skirmish/internal/game/world"
)

const tilesYAML = `
tiles:
  - name: grass
    glyph: "."
    walkable: true
    creature_walkable: true
    attack_over: true
  - name: water
    glyph: "~"
`

const mapYAML = `
id: britannia
kind: world
rows:
  - "...."
  - ".~.."
  - "...."
legend:
  ".": grass
  "~": water
start: {x: 1, y: 0}
objects:
  - creature: 18
    x: 3
    y: 2
    facing: west
`

type combatController struct{ released bool }

func (*combatController) Kind() world.ControllerKind { return world.ControllerCombat }
func (c *combatController) Release() { c.released = true }

func newWorld(t *testing.T) *world.World {
	t.Helper()
	ts, err := tile.LoadTilesetFromBytes([]byte(tilesYAML))
	require.NoError(t, err)
	m, start, err := world.LoadMapFromBytes([]byte(mapYAML), ts)
	require.NoError(t, err)
	return world.New(m, start, zap.NewNop())
}

func TestLoadMapFromBytes(t *testing.T) {
	w := newWorld(t)
	cur := w.Current()
	assert.Equal(t, "britannia", cur.ID)
	assert.Equal(t, world.KindWorld, cur.Kind)
	assert.Equal(t, grid.Coords{X: 1, Y: 0}, w.Position)
	require.Len(t, cur.Objects, 1)
	o := cur.Objects[0]
	assert.Equal(t, 18, o.TemplateID)
	assert.Equal(t, grid.West, o.Facing)
	assert.Same(t, o, cur.ObjectAt(grid.Coords{X: 3, Y: 2}))
	assert.Equal(t, "water", w.GroundAt(grid.Coords{X: 1, Y: 1}).Name)
}

func TestLoadMapFromBytes_Errors(t *testing.T) {
	ts, err := tile.LoadTilesetFromBytes([]byte(tilesYAML))
	require.NoError(t, err)
	cases := map[string]string{
		"no id":        "rows: [\".\"]\nlegend: {\".\": grass}\n",
		"bad kind":     "id: a\nkind: moon\nrows: [\".\"]\nlegend: {\".\": grass}\n",
		"unknown tile": "id: a\nrows: [\".\"]\nlegend: {\".\": lava}\n",
		"bad start":    "id: a\nrows: [\".\"]\nlegend: {\".\": grass}\nstart: {x: 4, y: 0}\n",
		"bad object":   "id: a\nrows: [\".\"]\nlegend: {\".\": grass}\nobjects: [{creature: 1, x: 9, y: 9}]\n",
	}
	for name, doc := range cases {
		_, _, err := world.LoadMapFromBytes([]byte(doc), ts)
		assert.Error(t, err, name)
	}
}

func TestControllerStack_BalancedAndReleases(t *testing.T) {
	w := newWorld(t)
	require.Equal(t, 1, w.ControllerDepth())
	assert.Equal(t, world.ControllerOverworld, w.TopController().Kind())

	c := &combatController{}
	w.PushController(c)
	assert.Equal(t, world.ControllerCombat, w.TopController().Kind())
	w.PopController(c)
	assert.True(t, c.released)
	assert.Equal(t, 1, w.ControllerDepth())
}

func TestControllerStack_PopWrongControllerPanics(t *testing.T) {
	w := newWorld(t)
	a, b := &combatController{}, &combatController{}
	w.PushController(a)
	w.PushController(b)
	assert.Panics(t, func() { w.PopController(a) })
}

func TestMapStack_RootNeverLeft(t *testing.T) {
	w := newWorld(t)
	root := w.Current()
	dungeon := &world.Map{ID: "deceit", Kind: world.KindDungeon, Grid: root.Grid}
	w.EnterMap(dungeon)
	assert.True(t, w.InDungeon())
	w.ExitToParentMap()
	assert.Same(t, root, w.Current())
	w.ExitToParentMap()
	assert.Same(t, root, w.Current())
}

func TestObjects_AddRemove(t *testing.T) {
	w := newWorld(t)
	w.AddObject(&world.Object{ID: "chest-1", Kind: world.ObjectChest, Gold: 40})
	o, ok := w.Object("chest-1")
	require.True(t, ok)
	assert.Equal(t, 40, o.Gold)
	w.RemoveObject("chest-1")
	_, ok = w.Object("chest-1")
	assert.False(t, ok)
	w.RemoveObject("missing")
	assert.Len(t, w.Current().Objects, 1)
}

func TestStep_StaysOnMap(t *testing.T) {
	w := newWorld(t)
	w.Step(grid.North)
	assert.Equal(t, grid.Coords{X: 1, Y: 0}, w.Position)
	w.Step(grid.East)
	assert.Equal(t, grid.Coords{X: 2, Y: 0}, w.Position)
}

func TestPortalDeathAndTurns(t *testing.T) {
	w := newWorld(t)
	w.UsePortal(world.PortalFor(grid.South))
	assert.Equal(t, world.PortalExitSouth, w.Portal)
	assert.Equal(t, world.PortalNone, world.PortalFor(grid.None))
	w.StartDeath()
	assert.True(t, w.Dead)
	w.FinishTurn()
	w.FinishTurn()
	assert.Equal(t, 2, w.Turns)
}

package combat_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/game/arena"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/creature"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/grid"
	"github.com/cory-johannsen/skirmish/internal/game/inventory"
	"github.com/cory-johannsen/skirmish/internal/game/journal"
	"github.com/cory-johannsen/skirmish/internal/game/party"
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
  - name: wall
    glyph: "#"
  - name: hit_flash
    glyph: "*"
  - name: miss_flash
    glyph: "o"
  - name: magic_flash
    glyph: "%"
  - name: fire_field
    glyph: "^"
    walkable: true
    creature_walkable: true
    attack_over: true
    effect: fire
  - name: flagstone
    glyph: ","
    walkable: true
    creature_walkable: true
    attack_over: true
    dungeon_floor: true
  - name: zap_bolt
    glyph: "z"
    effect: electricity
  - name: venom_bolt
    glyph: "v"
    effect: poison
  - name: sleep_bolt
    glyph: "s"
    effect: sleep
  - name: orc
    glyph: "O"
  - name: orc_mage
    glyph: "M"
  - name: spitter
    glyph: "P"
  - name: dozer
    glyph: "D"
  - name: guard
    glyph: "G"
  - name: chest
    glyph: "$"
  - name: ship
    glyph: "S"
`

const creaturesYAML = `
creatures:
  - id: 10
    name: Guard
    tile: guard
    base_hp: 80
    alignment: good
  - id: 40
    name: Orc
    tile: orc
    base_hp: 80
    xp: 7
    damage: 1d8
    leaves_chest: true
    chest:
      gold: "5"
  - id: 41
    name: Zapper
    tile: orc_mage
    base_hp: 80
    ranged: true
    hit_tile: zap_bolt
  - id: 42
    name: Spitter
    tile: spitter
    base_hp: 80
    ranged: true
    hit_tile: venom_bolt
  - id: 43
    name: Dozer
    tile: dozer
    base_hp: 80
    ranged: true
    hit_tile: sleep_bolt
`

const gearYAML = `
weapons:
  - id: hands
    name: Hands
    damage: 1d8
  - id: oil
    name: Flaming Oil
    damage: 1d8
    range: 5
    choose_distance: true
    lose_when_used: true
    always_hits: true
    leaves_tile: fire_field
    leaves_tile_ttl: 3
armor:
  - id: leather
    name: Leather
    defense: 40
`

// fixedSource returns v, clamped below n, for every draw.
type fixedSource struct{ v int }

func (s fixedSource) Intn(n int) int { return min(s.v, n-1) }

// scriptedSource serves queued draws per modulus, clamped below n, and zero
// once a queue runs dry.
type scriptedSource map[int][]int

func (s scriptedSource) Intn(n int) int {
	q := s[n]
	if len(q) == 0 {
		return 0
	}
	s[n] = q[1:]
	return min(q[0], n-1)
}

type recorder struct {
	renders  int
	messages []string
	sounds   []combat.Sound
	music    []combat.Music
}

func (r *recorder) Render()                  { r.renders++ }
func (r *recorder) ShowMessage(m string)     { r.messages = append(r.messages, m) }
func (r *recorder) PlaySound(s combat.Sound) { r.sounds = append(r.sounds, s) }
func (r *recorder) PlayMusic(m combat.Music) { r.music = append(r.music, m) }

func (r *recorder) said(m string) bool {
	for _, got := range r.messages {
		if got == m {
			return true
		}
	}
	return false
}

type harness struct {
	ctx     *combat.GameContext
	rec     *recorder
	world   *world.World
	party   *party.Party
	cat     *creature.Catalog
	tiles   *tile.Tileset
	journal *journal.Memory
	paused  time.Duration
}

// newHarness builds a context around a roster YAML document and a dice source.
func newHarness(t *testing.T, roster string, src dice.Source) *harness {
	t.Helper()
	ts, err := tile.LoadTilesetFromBytes([]byte(tilesYAML))
	require.NoError(t, err)
	templates, err := creature.LoadTemplatesFromBytes([]byte(creaturesYAML))
	require.NoError(t, err)
	cat, err := creature.NewCatalog(templates)
	require.NoError(t, err)
	reg := inventory.NewRegistry()
	require.NoError(t, reg.LoadBytes([]byte(gearYAML)))
	p, err := party.LoadFromBytes([]byte(roster), reg, zap.NewNop())
	require.NoError(t, err)

	root := &world.Map{ID: "britannia", Kind: world.KindWorld, Grid: grid.New(8, 8, ts.MustGet("grass"))}
	w := world.New(root, grid.Coords{X: 2, Y: 2}, zap.NewNop())

	h := &harness{rec: &recorder{}, world: w, party: p, cat: cat, tiles: ts, journal: &journal.Memory{}}
	settings := &config.CombatConfig{BattleSpeed: config.DefaultBattleSpeed, Frame: 250 * time.Millisecond, Debug: true}
	h.ctx = &combat.GameContext{
		Party:    p,
		World:    w,
		Renderer: h.rec,
		Audio:    h.rec,
		Catalog:  cat,
		Tiles:    ts,
		Dice:     dice.NewRoller(src, zap.NewNop()),
		Settings: settings,
		Logger:   zap.NewNop(),
		Journal:  h.journal,
		Sleep:    func(d time.Duration) { h.paused += d },
	}
	return h
}

func (h *harness) template(t *testing.T, id int) *creature.Template {
	t.Helper()
	tmpl, ok := h.cat.ByID(id)
	require.True(t, ok)
	return tmpl
}

// layout builds an arena from rows in the legend below. Missing start
// coordinates repeat the last one given.
func (h *harness) layout(rows []string, partyStarts, creatureStarts []grid.Coords) *arena.Layout {
	legend := map[rune]*tile.Tile{
		'.': h.tiles.MustGet("grass"),
		',': h.tiles.MustGet("flagstone"),
		'#': h.tiles.MustGet("wall"),
	}
	g, err := grid.FromRows(rows, legend)
	if err != nil {
		panic(err)
	}
	l := &arena.Layout{ID: "test", Grid: g}
	l.PartyStart = pad(partyStarts, arena.MaxParty)
	l.CreatureStart = pad(creatureStarts, arena.MaxCreatures)
	return l
}

func pad(cs []grid.Coords, n int) []grid.Coords {
	out := make([]grid.Coords, n)
	copy(out, cs)
	for i := len(cs); i < n; i++ {
		out[i] = cs[len(cs)-1]
	}
	return out
}

func openRows(w, h int) []string {
	rows := make([]string, h)
	for i := range rows {
		rows[i] = strings.Repeat(".", w)
	}
	return rows
}

// begin starts a single-trigger encounter against template id standing on
// the overworld at (3, 3).
func (h *harness) begin(t *testing.T, id int, l *arena.Layout) (*combat.Session, *world.Object) {
	t.Helper()
	obj := &world.Object{ID: "trigger", Kind: world.ObjectCreature, Coords: grid.Coords{X: 3, Y: 3}, Facing: grid.West, TemplateID: id}
	h.world.AddObject(obj)
	s := combat.NewSession(h.ctx, combat.NewEncounter(h.template(t, id), obj, l))
	s.Begin()
	return s, obj
}

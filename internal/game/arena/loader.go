package arena

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/skirmish/internal/game/creature"
	"github.com/cory-johannsen/skirmish/internal/game/grid"
	"github.com/cory-johannsen/skirmish/internal/game/tile"
)

type yamlLayout struct {
	ID            string            `yaml:"id"`
	Rows          []string          `yaml:"rows"`
	Legend        map[string]string `yaml:"legend"`
	PartyStart    []grid.Coords     `yaml:"party_start"`
	CreatureStart []grid.Coords     `yaml:"creature_start"`
	Terrain       []string          `yaml:"terrain"`
}

type yamlRoomCreature struct {
	Tile string `yaml:"tile"`
	X    int    `yaml:"x"`
	Y    int    `yaml:"y"`
}

type yamlRoom struct {
	yamlLayout `yaml:",inline"`
	Dungeon    string                   `yaml:"dungeon"`
	Index      int                      `yaml:"index"`
	X          int                      `yaml:"x"`
	Abyss      bool                     `yaml:"abyss"`
	Creatures  []yamlRoomCreature       `yaml:"creatures"`
	Entries    map[string][]grid.Coords `yaml:"entries"`
}

type yamlFile struct {
	Arenas []yamlLayout `yaml:"arenas"`
	Rooms  []yamlRoom   `yaml:"rooms"`
}

// RoomKey identifies a staged room.
type RoomKey struct {
	Dungeon string
	Index   int
}

// Library holds every layout and staged room.
type Library struct {
	layouts   map[string]*Layout
	byTerrain map[string]*Layout
	rooms     map[RoomKey]*Room
	fallback  *Layout
}

// NewLibrary returns an empty library.
func NewLibrary() *Library {
	return &Library{
		layouts:   make(map[string]*Layout),
		byTerrain: make(map[string]*Layout),
		rooms:     make(map[RoomKey]*Room),
	}
}

// LoadBytes adds every arena and room in a YAML document, resolving tiles in
// ts and room creatures in cat.
//
// Postcondition: Returns an error for unknown tiles or creatures, malformed
// grids, duplicate ids, or start tables of the wrong size.
func (l *Library) LoadBytes(data []byte, ts *tile.Tileset, cat *creature.Catalog) error {
	var f yamlFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parsing arena YAML: %w", err)
	}
	for _, ya := range f.Arenas {
		layout, err := buildLayout(ya, ts, true)
		if err != nil {
			return err
		}
		if _, dup := l.layouts[layout.ID]; dup {
			return fmt.Errorf("arena %q: duplicate id", layout.ID)
		}
		l.layouts[layout.ID] = layout
		if l.fallback == nil {
			l.fallback = layout
		}
		for _, t := range layout.Terrain {
			l.byTerrain[t] = layout
		}
	}
	for _, yr := range f.Rooms {
		room, err := buildRoom(yr, ts, cat)
		if err != nil {
			return err
		}
		key := RoomKey{Dungeon: room.Dungeon, Index: room.Index}
		if _, dup := l.rooms[key]; dup {
			return fmt.Errorf("room %s/%d: duplicate", key.Dungeon, key.Index)
		}
		l.rooms[key] = room
	}
	return nil
}

func buildLayout(ya yamlLayout, ts *tile.Tileset, requireParty bool) (*Layout, error) {
	if ya.ID == "" {
		return nil, fmt.Errorf("arena: id must not be empty")
	}
	legend := make(map[rune]*tile.Tile, len(ya.Legend))
	for glyph, name := range ya.Legend {
		runes := []rune(glyph)
		if len(runes) != 1 {
			return nil, fmt.Errorf("arena %q: legend key %q must be one character", ya.ID, glyph)
		}
		t, ok := ts.Get(name)
		if !ok {
			return nil, fmt.Errorf("arena %q: unknown tile %q", ya.ID, name)
		}
		legend[runes[0]] = t
	}
	g, err := grid.FromRows(ya.Rows, legend)
	if err != nil {
		return nil, fmt.Errorf("arena %q: %w", ya.ID, err)
	}
	layout := &Layout{
		ID:            ya.ID,
		Grid:          g,
		PartyStart:    ya.PartyStart,
		CreatureStart: ya.CreatureStart,
		Terrain:       ya.Terrain,
	}
	if requireParty || len(ya.PartyStart) > 0 {
		if err := checkStarts(ya.ID, "party_start", g, ya.PartyStart, MaxParty); err != nil {
			return nil, err
		}
	}
	if err := checkStarts(ya.ID, "creature_start", g, ya.CreatureStart, MaxCreatures); err != nil {
		return nil, err
	}
	return layout, nil
}

func checkStarts(id, field string, g *grid.Grid, starts []grid.Coords, want int) error {
	if len(starts) != want {
		return fmt.Errorf("arena %q: %s must list %d positions, got %d", id, field, want, len(starts))
	}
	for _, c := range starts {
		if !g.InBounds(c) {
			return fmt.Errorf("arena %q: %s position %s is outside the grid", id, field, c)
		}
	}
	return nil
}

func buildRoom(yr yamlRoom, ts *tile.Tileset, cat *creature.Catalog) (*Room, error) {
	if len(yr.CreatureStart) == 0 {
		yr.CreatureStart = padStarts(yr.Creatures)
	}
	layout, err := buildLayout(yr.yamlLayout, ts, len(yr.Entries) == 0)
	if err != nil {
		return nil, err
	}
	if yr.Dungeon == "" {
		return nil, fmt.Errorf("room %q: dungeon must not be empty", yr.ID)
	}
	if len(yr.Creatures) > MaxCreatures {
		return nil, fmt.Errorf("room %q: at most %d creatures, got %d", yr.ID, MaxCreatures, len(yr.Creatures))
	}
	room := &Room{
		Layout:  *layout,
		Dungeon: yr.Dungeon,
		Index:   yr.Index,
		X:       yr.X,
		Abyss:   yr.Abyss,
		Entries: make(map[grid.Direction][]grid.Coords, len(yr.Entries)),
	}
	for i, yc := range yr.Creatures {
		tmpl, ok := cat.ByTile(yc.Tile)
		if !ok {
			return nil, fmt.Errorf("room %q: creature %d has unknown tile %q", yr.ID, i, yc.Tile)
		}
		at := grid.Coords{X: yc.X, Y: yc.Y}
		if !layout.Grid.InBounds(at) {
			return nil, fmt.Errorf("room %q: creature %d at %s is outside the grid", yr.ID, i, at)
		}
		room.Creatures = append(room.Creatures, RoomCreature{Template: tmpl, At: at})
		room.CreatureStart[i] = at
	}
	for name, starts := range yr.Entries {
		dir, err := grid.ParseDirection(name)
		if err != nil || dir == grid.None {
			return nil, fmt.Errorf("room %q: bad entry direction %q", yr.ID, name)
		}
		if err := checkStarts(yr.ID, "entries."+name, layout.Grid, starts, MaxParty); err != nil {
			return nil, err
		}
		room.Entries[dir] = starts
	}
	if len(room.PartyStart) == 0 {
		room.PartyStart = room.Entries[firstEntry(room.Entries)]
	}
	return room, nil
}

func padStarts(creatures []yamlRoomCreature) []grid.Coords {
	starts := make([]grid.Coords, MaxCreatures)
	for i, c := range creatures {
		if i < MaxCreatures {
			starts[i] = grid.Coords{X: c.X, Y: c.Y}
		}
	}
	return starts
}

func firstEntry(entries map[grid.Direction][]grid.Coords) grid.Direction {
	for _, d := range grid.Cardinals {
		if _, ok := entries[d]; ok {
			return d
		}
	}
	return grid.None
}

// Load reads all *.yaml files in dir into a new Library.
//
// Postcondition: Returns a library with at least one arena, or an error.
func Load(dir string, ts *tile.Tileset, cat *creature.Catalog) (*Library, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading arena dir %q: %w", dir, err)
	}
	l := NewLibrary()
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".yaml") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		if err := l.LoadBytes(data, ts, cat); err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
	}
	if l.fallback == nil {
		return nil, fmt.Errorf("arena dir %q defines no arenas", dir)
	}
	return l, nil
}

// Layout returns the arena with the given id.
func (l *Library) Layout(id string) (*Layout, bool) {
	a, ok := l.layouts[id]
	return a, ok
}

// ForTerrain returns the arena fought on when the party stands on terrain,
// or the first arena loaded when no arena claims that terrain.
func (l *Library) ForTerrain(terrain string) *Layout {
	if a, ok := l.byTerrain[terrain]; ok {
		return a
	}
	return l.fallback
}

// Room returns a staged room.
func (l *Library) Room(dungeon string, index int) (*Room, bool) {
	r, ok := l.rooms[RoomKey{Dungeon: dungeon, Index: index}]
	return r, ok
}

// Package tile defines the terrain vocabulary of combat arenas.
package tile

import (
	"fmt"
	"os"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Well-known tile names referenced by combat rules.
const (
	HitFlash   = "hit_flash"
	MissFlash  = "miss_flash"
	MagicFlash = "magic_flash"
	Chest      = "chest"
	Ship       = "ship"
)

// Effect is the functional hazard a tile applies to whoever stands on it.
type Effect int

const (
	EffectNone Effect = iota
	EffectFire
	EffectSleep
	EffectPoison
	EffectPoisonField
	EffectElectricity
	EffectLava
)

var effectNames = map[string]Effect{
	"":             EffectNone,
	"none":         EffectNone,
	"fire":         EffectFire,
	"sleep":        EffectSleep,
	"poison":       EffectPoison,
	"poison_field": EffectPoisonField,
	"electricity":  EffectElectricity,
	"lava":         EffectLava,
}

// ParseEffect maps a YAML effect name to its Effect.
func ParseEffect(name string) (Effect, error) {
	e, ok := effectNames[name]
	if !ok {
		return EffectNone, fmt.Errorf("unknown tile effect %q", name)
	}
	return e, nil
}

var effectLabels = [...]string{"none", "fire", "sleep", "poison", "poison_field", "electricity", "lava"}

// String returns the YAML name of the effect.
func (e Effect) String() string {
	if e < 0 || int(e) >= len(effectLabels) {
		return fmt.Sprintf("effect(%d)", int(e))
	}
	return effectLabels[e]
}

// UnmarshalYAML decodes an effect from its name.
func (e *Effect) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParseEffect(value.Value)
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// Tile is one terrain type.
type Tile struct {
	ID    int    `yaml:"-"`
	Name  string `yaml:"name"`
	Glyph string `yaml:"glyph"`
	Color string `yaml:"color"`
	// Walkable applies to party members.
	Walkable         bool `yaml:"walkable"`
	CreatureWalkable bool `yaml:"creature_walkable"`
	// AttackOver is false for tiles that stop projectiles.
	AttackOver   bool   `yaml:"attack_over"`
	DungeonFloor bool   `yaml:"dungeon_floor"`
	Slow         bool   `yaml:"slow"`
	Effect       Effect `yaml:"effect"`
}

// Tileset is the immutable registry of tiles keyed by name and by id.
type Tileset struct {
	tiles  []*Tile
	byName map[string]*Tile
}

type tilesetFile struct {
	Tiles []*Tile `yaml:"tiles"`
}

// LoadTilesetFromBytes parses a tileset YAML document.
//
// Postcondition: Returns a Tileset whose tile ids are their positions in the
// document, or an error naming the first invalid tile.
func LoadTilesetFromBytes(data []byte) (*Tileset, error) {
	var f tilesetFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing tileset YAML: %w", err)
	}
	if len(f.Tiles) == 0 {
		return nil, fmt.Errorf("tileset defines no tiles")
	}
	ts := &Tileset{byName: make(map[string]*Tile, len(f.Tiles))}
	for i, t := range f.Tiles {
		if t.Name == "" {
			return nil, fmt.Errorf("tile %d: name must not be empty", i)
		}
		if utf8.RuneCountInString(t.Glyph) != 1 {
			return nil, fmt.Errorf("tile %q: glyph must be a single character", t.Name)
		}
		if _, dup := ts.byName[t.Name]; dup {
			return nil, fmt.Errorf("tile %q: duplicate name", t.Name)
		}
		t.ID = i
		ts.tiles = append(ts.tiles, t)
		ts.byName[t.Name] = t
	}
	return ts, nil
}

// LoadTileset reads and parses a tileset file.
func LoadTileset(path string) (*Tileset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading tileset %s: %w", path, err)
	}
	ts, err := LoadTilesetFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ts, nil
}

// Get returns the tile with the given name.
func (ts *Tileset) Get(name string) (*Tile, bool) {
	t, ok := ts.byName[name]
	return t, ok
}

// MustGet returns the tile with the given name and panics when it is missing.
// Callers use it only for names already checked by Require.
func (ts *Tileset) MustGet(name string) *Tile {
	t, ok := ts.byName[name]
	if !ok {
		panic(fmt.Sprintf("tile: %q not in tileset", name))
	}
	return t
}

// ByID returns the tile with the given id.
func (ts *Tileset) ByID(id int) (*Tile, bool) {
	if id < 0 || id >= len(ts.tiles) {
		return nil, false
	}
	return ts.tiles[id], true
}

// Len returns the number of tiles.
func (ts *Tileset) Len() int { return len(ts.tiles) }

// Require reports every name missing from the tileset.
//
// Postcondition: Returns nil iff every name resolves.
func (ts *Tileset) Require(names ...string) error {
	var missing []string
	for _, n := range names {
		if n == "" {
			continue
		}
		if _, ok := ts.byName[n]; !ok {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("tileset is missing tiles %v", missing)
	}
	return nil
}

package world

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/skirmish/internal/game/grid"
	"github.com/cory-johannsen/skirmish/internal/game/tile"
)

type yamlObject struct {
	Creature int    `yaml:"creature"`
	X        int    `yaml:"x"`
	Y        int    `yaml:"y"`
	Facing   string `yaml:"facing"`
}

type yamlMap struct {
	ID      string            `yaml:"id"`
	Kind    string            `yaml:"kind"`
	Abyss   bool              `yaml:"abyss"`
	Rows    []string          `yaml:"rows"`
	Legend  map[string]string `yaml:"legend"`
	Start   grid.Coords       `yaml:"start"`
	Objects []yamlObject      `yaml:"objects"`
}

// LoadMapFromBytes parses an overworld map and returns it with the party start.
//
// Postcondition: Returns an error for unknown tiles, malformed rows, unknown
// kinds, or objects and starts outside the grid.
func LoadMapFromBytes(data []byte, ts *tile.Tileset) (*Map, grid.Coords, error) {
	var ym yamlMap
	if err := yaml.Unmarshal(data, &ym); err != nil {
		return nil, grid.Coords{}, fmt.Errorf("parsing map YAML: %w", err)
	}
	if ym.ID == "" {
		return nil, grid.Coords{}, fmt.Errorf("map: id must not be empty")
	}
	kind, err := ParseMapKind(ym.Kind)
	if err != nil {
		return nil, grid.Coords{}, fmt.Errorf("map %q: %w", ym.ID, err)
	}
	legend := make(map[rune]*tile.Tile, len(ym.Legend))
	for glyph, name := range ym.Legend {
		t, ok := ts.Get(name)
		if !ok {
			return nil, grid.Coords{}, fmt.Errorf("map %q: unknown tile %q", ym.ID, name)
		}
		r := []rune(glyph)
		if len(r) != 1 {
			return nil, grid.Coords{}, fmt.Errorf("map %q: legend key %q must be one character", ym.ID, glyph)
		}
		legend[r[0]] = t
	}
	g, err := grid.FromRows(ym.Rows, legend)
	if err != nil {
		return nil, grid.Coords{}, fmt.Errorf("map %q: %w", ym.ID, err)
	}
	if !g.InBounds(ym.Start) {
		return nil, grid.Coords{}, fmt.Errorf("map %q: start %s is outside the grid", ym.ID, ym.Start)
	}
	m := &Map{ID: ym.ID, Kind: kind, Grid: g, Abyss: ym.Abyss}
	for i, yo := range ym.Objects {
		at := grid.Coords{X: yo.X, Y: yo.Y}
		if !g.InBounds(at) {
			return nil, grid.Coords{}, fmt.Errorf("map %q: object %d at %s is outside the grid", ym.ID, i, at)
		}
		facing, err := grid.ParseDirection(yo.Facing)
		if err != nil {
			return nil, grid.Coords{}, fmt.Errorf("map %q: object %d: %w", ym.ID, i, err)
		}
		m.Objects = append(m.Objects, &Object{
			ID:         uuid.NewString(),
			Kind:       ObjectCreature,
			Coords:     at,
			Facing:     facing,
			TemplateID: yo.Creature,
		})
	}
	return m, ym.Start, nil
}

// LoadMap reads an overworld map file.
func LoadMap(path string, ts *tile.Tileset) (*Map, grid.Coords, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, grid.Coords{}, fmt.Errorf("reading map %s: %w", path, err)
	}
	return LoadMapFromBytes(data, ts)
}

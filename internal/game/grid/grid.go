package grid

import (
	"fmt"

	"github.com/cory-johannsen/skirmish/internal/game/tile"
)

// Grid is a bounded rectangle of terrain tiles.
//
// Invariant: len(cells) == Width*Height and every cell is non-nil.
type Grid struct {
	Width  int
	Height int
	cells  []*tile.Tile
}

// New builds a Width x Height grid filled with fill.
//
// Precondition: width, height > 0; fill must be non-nil.
func New(width, height int, fill *tile.Tile) *Grid {
	cells := make([]*tile.Tile, width*height)
	for i := range cells {
		cells[i] = fill
	}
	return &Grid{Width: width, Height: height, cells: cells}
}

// FromRows builds a grid from glyph rows using legend to resolve each glyph.
//
// Postcondition: Returns an error for ragged rows or unknown glyphs.
func FromRows(rows []string, legend map[rune]*tile.Tile) (*Grid, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("grid has no rows")
	}
	width := len([]rune(rows[0]))
	if width == 0 {
		return nil, fmt.Errorf("grid has empty rows")
	}
	g := &Grid{Width: width, Height: len(rows), cells: make([]*tile.Tile, 0, width*len(rows))}
	for y, row := range rows {
		runes := []rune(row)
		if len(runes) != width {
			return nil, fmt.Errorf("row %d has width %d, want %d", y, len(runes), width)
		}
		for x, r := range runes {
			t, ok := legend[r]
			if !ok {
				return nil, fmt.Errorf("row %d col %d: unknown glyph %q", y, x, r)
			}
			g.cells = append(g.cells, t)
		}
	}
	return g, nil
}

// InBounds reports whether c lies inside the grid.
func (g *Grid) InBounds(c Coords) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < g.Width && c.Y < g.Height
}

// At returns the base tile at c, or nil when c is out of bounds.
func (g *Grid) At(c Coords) *tile.Tile {
	if !g.InBounds(c) {
		return nil
	}
	return g.cells[c.Y*g.Width+c.X]
}

// Set replaces the base tile at c. Out-of-bounds writes are ignored.
func (g *Grid) Set(c Coords, t *tile.Tile) {
	if g.InBounds(c) && t != nil {
		g.cells[c.Y*g.Width+c.X] = t
	}
}

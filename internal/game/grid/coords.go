package grid

import "fmt"

// Coords is a cell position. X grows east, Y grows south.
type Coords struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// String renders "(x,y)".
func (c Coords) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Step returns the neighbouring cell in direction d.
func (c Coords) Step(d Direction) Coords {
	dx, dy := d.Delta()
	return Coords{X: c.X + dx, Y: c.Y + dy}
}

// DistanceSquared is the squared Euclidean distance to o.
func (c Coords) DistanceSquared(o Coords) int {
	dx, dy := c.X-o.X, c.Y-o.Y
	return dx*dx + dy*dy
}

// Chebyshev is the number of king moves between c and o.
func (c Coords) Chebyshev(o Coords) int {
	return max(abs(c.X-o.X), abs(c.Y-o.Y))
}

// Adjacent reports whether o is one orthogonal step from c.
func (c Coords) Adjacent(o Coords) bool {
	return abs(c.X-o.X)+abs(c.Y-o.Y) == 1
}

// MaskTowards returns the straight or diagonal mask pointing from c to o and
// the number of steps between them. ok is false when o is not aligned with c
// along a row, a column, or a diagonal, or when o == c.
func (c Coords) MaskTowards(o Coords) (m Mask, steps int, ok bool) {
	dx, dy := o.X-c.X, o.Y-c.Y
	if dx == 0 && dy == 0 {
		return 0, 0, false
	}
	if dx != 0 && dy != 0 && abs(dx) != abs(dy) {
		return 0, 0, false
	}
	switch {
	case dx < 0:
		m |= West.Mask()
	case dx > 0:
		m |= East.Mask()
	}
	switch {
	case dy < 0:
		m |= North.Mask()
	case dy > 0:
		m |= South.Mask()
	}
	return m, max(abs(dx), abs(dy)), true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

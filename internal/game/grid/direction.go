// Package grid provides the geometry of combat arenas: coordinates,
// directions, tile grids with annotations, and directional path tracing.
package grid

import (
	"fmt"
	"strings"
)

// Direction is one of the four cardinal directions, or None.
type Direction int

const (
	None Direction = iota
	West
	North
	East
	South
)

// Cardinals lists the four directions in search order.
var Cardinals = [4]Direction{West, North, East, South}

var directionNames = [...]string{"none", "west", "north", "east", "south"}

// String returns the lowercase direction name.
func (d Direction) String() string {
	if d < 0 || int(d) >= len(directionNames) {
		return fmt.Sprintf("direction(%d)", int(d))
	}
	return directionNames[d]
}

// Reverse returns the opposite direction. None reverses to None.
func (d Direction) Reverse() Direction {
	switch d {
	case West:
		return East
	case East:
		return West
	case North:
		return South
	case South:
		return North
	default:
		return None
	}
}

// Delta returns the unit step for d.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case West:
		return -1, 0
	case East:
		return 1, 0
	case North:
		return 0, -1
	case South:
		return 0, 1
	default:
		return 0, 0
	}
}

// Mask returns the single-bit mask for d.
func (d Direction) Mask() Mask {
	if d == None {
		return 0
	}
	return Mask(1) << uint(d-1)
}

// ParseDirection accepts full names and the initials n, e, s, w.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "w", "west":
		return West, nil
	case "n", "north":
		return North, nil
	case "e", "east":
		return East, nil
	case "s", "south":
		return South, nil
	case "", "none":
		return None, nil
	}
	return None, fmt.Errorf("unknown direction %q", s)
}

// Mask is a set of directions. Two perpendicular bits form a diagonal.
type Mask uint8

// MaskAll contains every cardinal direction.
const MaskAll = Mask(0x0f)

// MaskOf combines directions into a mask.
func MaskOf(dirs ...Direction) Mask {
	var m Mask
	for _, d := range dirs {
		m |= d.Mask()
	}
	return m
}

// Has reports whether d is in the mask.
func (m Mask) Has(d Direction) bool {
	return d != None && m&d.Mask() != 0
}

// Delta returns the combined unit step of a straight or diagonal mask.
//
// Postcondition: ok is false for empty masks, masks holding opposing
// directions, and masks with more than two bits.
func (m Mask) Delta() (dx, dy int, ok bool) {
	if m == 0 || m&^MaskAll != 0 {
		return 0, 0, false
	}
	if (m.Has(West) && m.Has(East)) || (m.Has(North) && m.Has(South)) {
		return 0, 0, false
	}
	for _, d := range Cardinals {
		if m.Has(d) {
			x, y := d.Delta()
			dx += x
			dy += y
		}
	}
	return dx, dy, true
}

// Reverse returns the mask pointing the opposite way.
func (m Mask) Reverse() Mask {
	var r Mask
	for _, d := range Cardinals {
		if m.Has(d) {
			r |= d.Reverse().Mask()
		}
	}
	return r
}
